package filemedium

import (
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T, path string, size int, fill byte) *Medium {
	t.Helper()
	m, err := Open(Options{Path: path, Size: size, Fill: fill})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return m
}

func drain(t *testing.T, m *Medium) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if m.Ready() {
			return
		}
		time.Sleep(100 * time.Microsecond)
	}
	t.Fatal("write never applied")
}

func TestCreateFills(t *testing.T) {
	m := openTest(t, filepath.Join(t.TempDir(), "img"), 32, 0xFF)
	defer m.Close()
	if got := m.ReadByte(31); got != 0xFF {
		t.Fatalf("fill byte %#x", got)
	}
	if m.Size() != 32 {
		t.Fatalf("size %d", m.Size())
	}
}

func TestWriteDurableAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img")
	m := openTest(t, path, 16, 0)
	m.WriteByteAsync(5, 0x5A)
	drain(t, m)
	if got := m.ReadByte(5); got != 0x5A {
		t.Fatalf("mirror read %#x", got)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	m2 := openTest(t, path, 16, 0)
	defer m2.Close()
	if got := m2.ReadByte(5); got != 0x5A {
		t.Fatalf("byte not durable: %#x", got)
	}
	if got := m2.ReadByte(6); got != 0 {
		t.Fatalf("neighbor disturbed: %#x", got)
	}
}

func TestBusyUntilApplied(t *testing.T) {
	m := openTest(t, filepath.Join(t.TempDir(), "img"), 16, 0)
	defer m.Close()
	m.WriteByteAsync(0, 1)
	// Ready may already be true if the applier won the race; it must be
	// true eventually and the byte must be durable when it is.
	drain(t, m)
	if got := m.ReadByte(0); got != 1 {
		t.Fatalf("read after drain %#x", got)
	}
}

package ringlog

import (
	"bytes"
	"testing"
)

// slotByte identifies slot i in images built by ringImage.
func slotByte(i int) byte { return byte(i) & 0x7F }

func TestReadFirstLast(t *testing.T) {
	l, _ := openRing(t, 5, 4, 2, FlagMask, 0)
	dst := make([]byte, 4)

	l.ReadFirst(dst)
	if dst[0] != slotByte(3) || l.readCursor != 3 {
		t.Fatalf("first: payload %x cursor %d", dst, l.readCursor)
	}
	l.ReadLast(dst)
	if dst[0] != slotByte(1) || l.readCursor != 1 {
		t.Fatalf("last: payload %x cursor %d", dst, l.readCursor)
	}
}

func TestForwardTraversalYieldsWindow(t *testing.T) {
	const n, s, w = 6, 4, 2
	l, _ := openRing(t, n, s, w, 0, 0)
	dst := make([]byte, s)

	var got []byte
	l.ReadFirst(dst)
	got = append(got, dst[0])
	for l.ReadNext(dst) {
		got = append(got, dst[0])
	}
	// Oldest to newest: w+1 .. w-1 around the ring, skipping w itself.
	want := []byte{3, 4, 5, 0, 1}
	if !bytes.Equal(got, want) {
		t.Fatalf("forward order %v, want %v", got, want)
	}
	if len(got) != n-1 {
		t.Fatalf("readable window %d records, want %d", len(got), n-1)
	}
}

func TestReverseTraversalMirrorsForward(t *testing.T) {
	const n, s, w = 6, 4, 2
	l, _ := openRing(t, n, s, w, 0, 0)
	dst := make([]byte, s)

	var got []byte
	l.ReadLast(dst)
	got = append(got, dst[0])
	for l.ReadPrev(dst) {
		got = append(got, dst[0])
	}
	want := []byte{1, 0, 5, 4, 3}
	if !bytes.Equal(got, want) {
		t.Fatalf("reverse order %v, want %v", got, want)
	}
}

func TestReadNextBoundary(t *testing.T) {
	l, _ := openRing(t, 4, 3, 1, FlagMask, 0)
	dst := make([]byte, 3)
	l.ReadLast(dst)
	cursor := l.readCursor

	probe := []byte{0xDE, 0xAD, 0x7E}
	copy(dst, probe)
	if l.ReadNext(dst) {
		t.Fatal("ReadNext past the newest record succeeded")
	}
	if !bytes.Equal(dst, probe) {
		t.Fatalf("dst mutated on failed ReadNext: %x", dst)
	}
	if l.readCursor != cursor {
		t.Fatalf("cursor moved on failed ReadNext: %d", l.readCursor)
	}
}

func TestReadPrevBoundary(t *testing.T) {
	l, _ := openRing(t, 4, 3, 1, FlagMask, 0)
	dst := make([]byte, 3)
	l.ReadFirst(dst)
	cursor := l.readCursor

	probe := []byte{0xDE, 0xAD, 0x7E}
	copy(dst, probe)
	if l.ReadPrev(dst) {
		t.Fatal("ReadPrev past the oldest record succeeded")
	}
	if !bytes.Equal(dst, probe) {
		t.Fatalf("dst mutated on failed ReadPrev: %x", dst)
	}
	if l.readCursor != cursor {
		t.Fatalf("cursor moved on failed ReadPrev: %d", l.readCursor)
	}
}

func TestReadCurrentIdempotent(t *testing.T) {
	l, _ := openRing(t, 5, 4, 2, 0, 0)
	a := make([]byte, 4)
	b := make([]byte, 4)
	l.ReadFirst(a)
	cursor := l.readCursor
	for i := 0; i < 3; i++ {
		l.ReadCurrent(b)
		if !bytes.Equal(a, b) {
			t.Fatalf("ReadCurrent drifted: %x vs %x", a, b)
		}
		if l.readCursor != cursor {
			t.Fatalf("ReadCurrent moved the cursor to %d", l.readCursor)
		}
	}
}

// Package filemedium persists an EEPROM image as a flat file. Reads are
// served from an in-memory mirror; each issued byte is applied and
// synced by a background goroutine, so the medium reports busy until the
// byte is durable. That reproduces the issue/ready timing of the real
// part while keeping the image inspectable with ordinary tools.
package filemedium

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// Options configures a file-backed medium.
type Options struct {
	// Path of the image file. Created and zero-filled when absent.
	Path string
	// Size of the image in bytes. Required when creating; an existing
	// file smaller than Size is extended with Fill.
	Size int
	// Fill is the erased-cell value used when creating or extending.
	Fill byte
}

type writeReq struct {
	addr uint32
	b    byte
}

// Medium implements the ringlog medium contract over a file.
type Medium struct {
	f     *os.File
	cache []byte

	reqs     chan writeReq
	done     chan struct{}
	pending  atomic.Bool
	applyErr atomic.Value // error from the applier, surfaced on Close
}

// Open opens or creates the image file and starts the write applier.
func Open(opts Options) (*Medium, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("filemedium: Options.Path is required")
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("filemedium: Options.Size must be positive, got %d", opts.Size)
	}
	f, err := os.OpenFile(opts.Path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	cache := make([]byte, opts.Size)
	for i := range cache {
		cache[i] = opts.Fill
	}
	if st.Size() > 0 {
		if _, err := f.ReadAt(cache[:min(int(st.Size()), opts.Size)], 0); err != nil && err != io.EOF {
			f.Close()
			return nil, err
		}
	}
	if int(st.Size()) < opts.Size {
		// Materialize the full image so partial files round-trip.
		if _, err := f.WriteAt(cache, 0); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return nil, err
		}
	}
	m := &Medium{f: f, cache: cache, reqs: make(chan writeReq, 1), done: make(chan struct{})}
	go m.apply()
	return m, nil
}

func (m *Medium) apply() {
	defer close(m.done)
	for req := range m.reqs {
		if _, err := m.f.WriteAt([]byte{req.b}, int64(req.addr)); err != nil {
			m.applyErr.Store(fmt.Errorf("filemedium: apply %#x: %w", req.addr, err))
		} else if err := m.f.Sync(); err != nil {
			m.applyErr.Store(fmt.Errorf("filemedium: sync: %w", err))
		}
		m.pending.Store(false)
	}
}

// ReadByte returns the byte at addr from the mirror. Issued writes are
// visible immediately; durability lags by at most one pending write.
func (m *Medium) ReadByte(addr uint32) byte { return m.cache[addr] }

// WriteByteAsync issues one byte. Callers respect Ready, so at most one
// write is in flight.
func (m *Medium) WriteByteAsync(addr uint32, b byte) {
	m.cache[addr] = b
	m.pending.Store(true)
	m.reqs <- writeReq{addr: addr, b: b}
}

// Ready reports whether the last issued byte has been applied and synced.
func (m *Medium) Ready() bool { return !m.pending.Load() }

// Size returns the image size in bytes.
func (m *Medium) Size() int { return len(m.cache) }

// Close drains the applier and closes the file, returning any write
// error the applier hit.
func (m *Medium) Close() error {
	close(m.reqs)
	<-m.done
	err, _ := m.applyErr.Load().(error)
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

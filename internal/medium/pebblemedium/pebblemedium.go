// Package pebblemedium persists an EEPROM image in a Pebble database,
// one key per byte address. Reads come from an in-memory mirror loaded
// at open; each issued byte is committed by a background applier, and
// the medium reports busy until the commit lands. Addresses never
// written read as the erased fill value.
package pebblemedium

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"
)

// FsyncMode defines durability behavior for byte commits.
type FsyncMode int

const (
	FsyncModeUnspecified FsyncMode = iota
	// FsyncModeAlways requests a WAL fsync on every committed byte.
	FsyncModeAlways
	// FsyncModeInterval lets Pebble coalesce WAL syncs within the
	// configured interval.
	FsyncModeInterval
	// FsyncModeNever avoids forcing WAL syncs from the application.
	FsyncModeNever
)

// Options configures the Pebble-backed medium.
type Options struct {
	// DataDir is the path to the Pebble database directory.
	DataDir string
	// Size of the simulated medium in bytes.
	Size int
	// Fill is the erased-cell value for addresses never written.
	Fill byte
	// Fsync determines when to sync the WAL.
	Fsync FsyncMode
	// FsyncInterval controls group-commit when Fsync=FsyncModeInterval.
	FsyncInterval time.Duration
}

type writeReq struct {
	addr uint32
	b    byte
}

// Medium implements the ringlog medium contract over Pebble.
type Medium struct {
	db    *pebble.DB
	cache []byte
	sync  bool

	reqs     chan writeReq
	done     chan struct{}
	pending  atomic.Bool
	applyErr atomic.Value
}

// byteKey returns the key for one medium address.
func byteKey(addr uint32) []byte {
	k := make([]byte, 6)
	k[0], k[1] = 'b', '/'
	binary.BigEndian.PutUint32(k[2:], addr)
	return k
}

// Open creates or opens the database, loads the image mirror, and
// starts the write applier.
func Open(opts Options) (*Medium, error) {
	if opts.DataDir == "" {
		return nil, errors.New("pebblemedium: Options.DataDir is required")
	}
	if opts.Size <= 0 {
		return nil, errors.New("pebblemedium: Options.Size must be positive")
	}

	po := &pebble.Options{}
	switch opts.Fsync {
	case FsyncModeAlways:
		// Sync on each commit; WALMinSyncInterval left at default.
	case FsyncModeInterval:
		if opts.FsyncInterval <= 0 {
			opts.FsyncInterval = 5 * time.Millisecond
		}
		iv := opts.FsyncInterval
		po.WALMinSyncInterval = func() time.Duration { return iv }
	case FsyncModeNever:
	default:
		po.WALMinSyncInterval = func() time.Duration { return 5 * time.Millisecond }
	}

	db, err := pebble.Open(opts.DataDir, po)
	if err != nil {
		return nil, err
	}

	cache := make([]byte, opts.Size)
	for i := range cache {
		cache[i] = opts.Fill
	}
	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: byteKey(0),
		UpperBound: append(byteKey(^uint32(0)), 0x00),
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	for iter.First(); iter.Valid(); iter.Next() {
		addr := binary.BigEndian.Uint32(iter.Key()[2:])
		if v := iter.Value(); int(addr) < len(cache) && len(v) == 1 {
			cache[addr] = v[0]
		}
	}
	if err := iter.Close(); err != nil {
		db.Close()
		return nil, err
	}

	m := &Medium{
		db:    db,
		cache: cache,
		sync:  opts.Fsync == FsyncModeAlways,
		reqs:  make(chan writeReq, 1),
		done:  make(chan struct{}),
	}
	go m.apply()
	return m, nil
}

func (m *Medium) apply() {
	defer close(m.done)
	wo := pebble.NoSync
	if m.sync {
		wo = pebble.Sync
	}
	for req := range m.reqs {
		if err := m.db.Set(byteKey(req.addr), []byte{req.b}, wo); err != nil {
			m.applyErr.Store(fmt.Errorf("pebblemedium: apply %#x: %w", req.addr, err))
		}
		m.pending.Store(false)
	}
}

// ReadByte returns the byte at addr from the mirror.
func (m *Medium) ReadByte(addr uint32) byte { return m.cache[addr] }

// WriteByteAsync issues one byte. Callers respect Ready, so at most one
// write is in flight.
func (m *Medium) WriteByteAsync(addr uint32, b byte) {
	m.cache[addr] = b
	m.pending.Store(true)
	m.reqs <- writeReq{addr: addr, b: b}
}

// Ready reports whether the last issued byte has been committed.
func (m *Medium) Ready() bool { return !m.pending.Load() }

// Size returns the image size in bytes.
func (m *Medium) Size() int { return len(m.cache) }

// Close drains the applier and closes the database.
func (m *Medium) Close() error {
	close(m.reqs)
	<-m.done
	err, _ := m.applyErr.Load().(error)
	if cerr := m.db.Close(); err == nil {
		err = cerr
	}
	return err
}

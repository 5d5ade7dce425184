package ringlog

import (
	"errors"
	"fmt"
)

// Medium is the byte-addressable storage a Log lives on. Reads are
// immediate; writes are issued asynchronously and the medium signals
// readiness for the next write via Ready.
type Medium interface {
	// ReadByte returns the byte at addr.
	ReadByte(addr uint32) byte
	// WriteByteAsync issues a single-byte write and returns without
	// waiting for it to land.
	WriteByteAsync(addr uint32, b byte)
	// Ready reports whether the medium is idle and can accept a new
	// WriteByteAsync.
	Ready() bool
}

// Options describe the geometry of one ring log on the medium.
type Options struct {
	// Slots is the number of ring slots N. One slot is always the write
	// target and excluded from reads, so N-1 records are usable.
	Slots int
	// SlotSize is the size S of one slot in bytes. Bit 7 of the last
	// byte of each slot carries the generation flag.
	SlotSize int
	// Base is the medium address of slot 0.
	Base uint32
}

const (
	minSlots    = 2
	maxSlots    = 255
	minSlotSize = 2
	maxSlotSize = 255
)

// Log is a fixed-capacity ring of fixed-size records. All state other
// than the slot bytes themselves lives in memory and is rebuilt from the
// medium by Open; nothing else is persisted.
//
// A Log is not safe for concurrent use. The caller serializes access and
// must not interleave cursor reads with an in-flight Write on the same
// instance.
type Log struct {
	m        Medium
	slots    int
	slotSize int
	base     uint32

	writeCursor int
	readCursor  int
	flag        byte // 0 or FlagMask

	// incremental writer state
	writing   bool
	writeAddr uint32
	writeOff  int
	staging   []byte
}

// Open validates the geometry and rebuilds the ring state from the flag
// bits already on the medium.
func Open(m Medium, opts Options) (*Log, error) {
	if m == nil {
		return nil, errors.New("ringlog: nil medium")
	}
	if opts.Slots < minSlots || opts.Slots > maxSlots {
		return nil, fmt.Errorf("ringlog: slots must be in [%d,%d], got %d", minSlots, maxSlots, opts.Slots)
	}
	if opts.SlotSize < minSlotSize || opts.SlotSize > maxSlotSize {
		return nil, fmt.Errorf("ringlog: slot size must be in [%d,%d], got %d", minSlotSize, maxSlotSize, opts.SlotSize)
	}
	l := &Log{
		m:        m,
		slots:    opts.Slots,
		slotSize: opts.SlotSize,
		base:     opts.Base,
		staging:  make([]byte, opts.SlotSize),
	}
	l.scan()
	return l, nil
}

// Slots returns the ring capacity N.
func (l *Log) Slots() int { return l.slots }

// SlotSize returns the record size S in bytes.
func (l *Log) SlotSize() int { return l.slotSize }

// Base returns the medium address of slot 0.
func (l *Log) Base() uint32 { return l.base }

// WriteCursor returns the index of the slot the next record lands in.
// That slot is excluded from the readable window.
func (l *Log) WriteCursor() int { return l.writeCursor }

// ReadCursor returns the index of the slot most recently returned by a
// traversal operation.
func (l *Log) ReadCursor() int { return l.readCursor }

// Generation returns the current generation bit as 0 or 1.
func (l *Log) Generation() int {
	if l.flag != 0 {
		return 1
	}
	return 0
}

// Writing reports whether a record transfer is in flight.
func (l *Log) Writing() bool { return l.writing }

// next returns the ring successor of slot i.
func (l *Log) next(i int) int {
	if i == l.slots-1 {
		return 0
	}
	return i + 1
}

// prev returns the ring predecessor of slot i.
func (l *Log) prev(i int) int {
	if i == 0 {
		return l.slots - 1
	}
	return i - 1
}

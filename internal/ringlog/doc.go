// Package ringlog implements a fixed-capacity ring of fixed-size records
// on an EEPROM-like medium: immediate single-byte reads, asynchronous
// single-byte writes, and a readiness signal. It survives power loss
// mid-write with no medium-level transaction support, using a single
// per-record flag bit.
//
// # Layout
//
// N slots of S bytes each, contiguous from a base address. Bit 7 of the
// last byte of every slot holds the generation flag, a bit that flips
// once per full traversal of the ring; the other 7 bits and bytes
// 0..S-2 are payload. There is no header, checksum or length field: all
// ring metadata is rebuilt from flag-bit adjacency on Open.
//
// One slot, the write cursor, is always the next write target and is
// excluded from reads, so N-1 records are usable. The log is treated as
// always full: an interrupted write leaves a stale or partial flag in
// exactly the slot the recovery scan re-excludes, which is the whole
// corruption-tolerance story.
//
// # API surface (internal)
//
//	l, _ := ringlog.Open(medium, ringlog.Options{Slots: 8, SlotSize: 16})
//
//	// Traversal: write cursor bounds the window on both ends.
//	dst := make([]byte, l.SlotSize())
//	l.ReadFirst(dst)            // oldest
//	for l.ReadNext(dst) { ... } // toward newest, false at the boundary
//	l.ReadLast(dst)             // newest
//	for l.ReadPrev(dst) { ... }
//
//	// Non-blocking append: one medium byte per poll.
//	st := l.Write(payload) // WriteStarted
//	for l.Write(nil) != ringlog.WriteComplete { /* reschedule */ }
//
//	// Or let a ticker drive it.
//	_ = l.AppendBlocking(ctx, payload, time.Millisecond)
//
// A Log is single-caller: no locking is provided and traversal must not
// interleave with an in-flight Write.
package ringlog

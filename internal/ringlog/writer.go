package ringlog

// WriteStatus is the outcome of one Write poll.
type WriteStatus int

const (
	// WriteIdle: no transfer is active and none was started by this call.
	WriteIdle WriteStatus = iota
	// WriteStarted: this call accepted src and issued its first byte.
	WriteStarted
	// WriteInProgress: a transfer is active and not yet confirmed done.
	WriteInProgress
	// WriteComplete: a probe observed the end of a transfer.
	WriteComplete
)

func (s WriteStatus) String() string {
	switch s {
	case WriteIdle:
		return "idle"
	case WriteStarted:
		return "started"
	case WriteInProgress:
		return "in_progress"
	case WriteComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Settled reports whether no transfer is pending after the poll that
// returned s.
func (s WriteStatus) Settled() bool { return s == WriteIdle || s == WriteComplete }

// Write is the non-blocking append state machine. Each call issues at
// most one medium byte-write; a full record takes SlotSize polls with the
// medium ready, plus one trailing poll to observe completion. A nil src
// is a pure status probe.
//
// While the medium is busy the call is a complete no-op: WriteInProgress
// if a transfer is active, WriteIdle otherwise. Callers detect acceptance
// of src strictly by observing WriteStarted.
//
// src must hold at least SlotSize bytes; bit 7 of byte SlotSize-1 is
// overwritten by the generation flag. A caller that stops polling leaves
// the transfer suspended in memory; the next poll resumes it.
func (l *Log) Write(src []byte) WriteStatus {
	if !l.m.Ready() {
		busyPolls.Inc()
		if l.writing {
			return WriteInProgress
		}
		return WriteIdle
	}
	if l.writing {
		if l.writeOff < l.slotSize {
			if l.writeOff == l.slotSize-1 {
				// Last byte carries the generation flag; issuing it is
				// what commits the record, so the ring metadata advances
				// in the same poll.
				l.m.WriteByteAsync(l.writeAddr, encodeLastByte(l.staging[l.writeOff], l.flag))
				l.advance()
				l.writeOff = l.slotSize
				return WriteInProgress
			}
			l.m.WriteByteAsync(l.writeAddr, l.staging[l.writeOff])
			l.writeAddr++
			l.writeOff++
			return WriteInProgress
		}
		// All bytes issued and the medium is ready again: the transfer
		// is done. Fall through so a src in this same poll starts the
		// next record.
		l.writing = false
		writesCompleted.Inc()
		if src == nil {
			return WriteComplete
		}
	}
	if src == nil {
		return WriteIdle
	}
	copy(l.staging, src[:l.slotSize])
	l.writeAddr = l.slotAddr(l.writeCursor)
	l.m.WriteByteAsync(l.writeAddr, l.staging[0])
	l.writeAddr++
	l.writeOff = 1
	l.writing = true
	writesStarted.Inc()
	return WriteStarted
}

// advance moves the write cursor past the record just committed, flips
// the generation flag on wrap, and nudges the read cursor off the slot
// that just became the new write target.
func (l *Log) advance() {
	wc := l.next(l.writeCursor)
	if wc == 0 {
		l.flag ^= FlagMask
	}
	if l.readCursor == wc {
		l.readCursor = l.next(wc)
	}
	l.writeCursor = wc
}

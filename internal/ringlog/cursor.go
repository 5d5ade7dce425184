package ringlog

// Cursor traversal over the readable window. The write cursor slot bounds
// the window on both ends, so none of these operations needs an emptiness
// check: at least N-1 readable slots always exist.

// ReadFirst positions the read cursor on the oldest readable slot and
// decodes it into dst.
func (l *Log) ReadFirst(dst []byte) {
	l.readCursor = l.next(l.writeCursor)
	l.decodeSlot(dst, l.readCursor)
}

// ReadLast positions the read cursor on the newest record and decodes it
// into dst.
func (l *Log) ReadLast(dst []byte) {
	l.readCursor = l.prev(l.writeCursor)
	l.decodeSlot(dst, l.readCursor)
}

// ReadNext advances the read cursor toward the newest record and decodes
// the slot into dst. It returns false, leaving dst and the cursor
// untouched, when the current record is already the newest.
func (l *Log) ReadNext(dst []byte) bool {
	cand := l.next(l.readCursor)
	if cand == l.writeCursor {
		return false
	}
	l.readCursor = cand
	l.decodeSlot(dst, cand)
	return true
}

// ReadPrev moves the read cursor toward the oldest record and decodes the
// slot into dst. It returns false, leaving dst and the cursor untouched,
// when the current record is already the oldest.
func (l *Log) ReadPrev(dst []byte) bool {
	cand := l.prev(l.readCursor)
	if cand == l.writeCursor {
		return false
	}
	l.readCursor = cand
	l.decodeSlot(dst, cand)
	return true
}

// ReadCurrent decodes the slot under the read cursor into dst without
// moving the cursor.
func (l *Log) ReadCurrent(dst []byte) {
	l.decodeSlot(dst, l.readCursor)
}

package ringlog

// scan rebuilds writeCursor, readCursor and the generation flag from the
// flag bits alone. Slots written in the current generation carry the
// current flag value, older slots carry its inverse, so the single
// adjacent-flag mismatch in the ring marks the write cursor.
func (l *Log) scan() {
	f0 := l.flagAt(0)
	prev := f0
	for cr := 1; cr < l.slots; cr++ {
		f := l.flagAt(cr)
		if f != prev {
			l.writeCursor = cr
			l.readCursor = l.next(cr)
			l.flag = f0
			return
		}
		prev = f
	}
	// Uniform flags: the cursor sits at slot 0 and the next generation
	// uses the inverted bit. This is the normal state right after a full
	// wrap, and also what a freshly erased medium looks like.
	l.writeCursor = 0
	l.readCursor = 1
	l.flag = f0 ^ FlagMask
}

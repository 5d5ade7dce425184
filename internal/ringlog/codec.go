package ringlog

// FlagMask selects the generation bit in the last byte of a slot. The
// remaining 7 bits of that byte, and every other byte of the slot, are
// payload. This file is the only place the packing is reasoned about.
const FlagMask byte = 0x80

// slotAddr returns the medium address of byte 0 of slot i.
func (l *Log) slotAddr(i int) uint32 {
	return l.base + uint32(i)*uint32(l.slotSize)
}

// flagAt reads the generation flag of slot i.
func (l *Log) flagAt(i int) byte {
	return l.m.ReadByte(l.slotAddr(i)+uint32(l.slotSize)-1) & FlagMask
}

// decodeSlot copies slot i into dst with the generation bit stripped from
// the last byte. dst must hold at least SlotSize bytes.
func (l *Log) decodeSlot(dst []byte, i int) {
	a := l.slotAddr(i)
	for k := 0; k < l.slotSize-1; k++ {
		dst[k] = l.m.ReadByte(a + uint32(k))
	}
	dst[l.slotSize-1] = l.m.ReadByte(a+uint32(l.slotSize-1)) &^ FlagMask
	slotReads.Inc()
}

// encodeLastByte packs the 7 payload bits of b with the generation flag.
func encodeLastByte(b, flag byte) byte {
	return b&^FlagMask | flag
}

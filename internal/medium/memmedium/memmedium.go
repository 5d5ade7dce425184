// Package memmedium simulates an EEPROM-like part in RAM: immediate
// reads, asynchronous single-byte writes that stay pending for a
// configurable number of readiness polls, and optional dropped writes to
// model power loss mid-record.
package memmedium

// Options configures the simulated part.
type Options struct {
	// Size of the medium in bytes.
	Size int
	// Fill is the erased-cell value every byte starts at (0xFF on real
	// parts; zero here unless set).
	Fill byte
	// Image preloads the medium contents. Overrides Fill for the bytes
	// it covers.
	Image []byte
	// WriteLatency is how many Ready polls a write stays pending before
	// it lands. 0 means a write completes before the next poll.
	WriteLatency int
}

// Medium is a simulated EEPROM. Like the real part it models, it is
// single-caller: no locking.
type Medium struct {
	buf     []byte
	latency int

	pending     bool
	pendingAddr uint32
	pendingByte byte
	remaining   int

	issued    int
	failAfter int // -1: disabled
}

// New builds a Medium per opts.
func New(opts Options) *Medium {
	if opts.Size <= 0 {
		opts.Size = 1024
	}
	m := &Medium{buf: make([]byte, opts.Size), latency: opts.WriteLatency, failAfter: -1}
	if opts.Fill != 0 {
		for i := range m.buf {
			m.buf[i] = opts.Fill
		}
	}
	copy(m.buf, opts.Image)
	return m
}

// ReadByte returns the byte at addr. A byte with a write still pending
// reads as its old value, as on the real part.
func (m *Medium) ReadByte(addr uint32) byte { return m.buf[addr] }

// WriteByteAsync issues a write. Issuing while busy is a driver bug; the
// simulated part just loses the earlier byte, which is also what the
// hardware would do.
func (m *Medium) WriteByteAsync(addr uint32, b byte) {
	m.issued++
	if m.failAfter >= 0 && m.issued > m.failAfter {
		// Power is gone: the byte never lands.
		return
	}
	m.pending = true
	m.pendingAddr = addr
	m.pendingByte = b
	m.remaining = m.latency
}

// Ready reports whether the part can accept a new write, applying the
// pending byte once its latency has elapsed.
func (m *Medium) Ready() bool {
	if !m.pending {
		return true
	}
	if m.remaining > 0 {
		m.remaining--
		return false
	}
	m.buf[m.pendingAddr] = m.pendingByte
	m.pending = false
	return true
}

// FailAfter drops every write issued after the next n, simulating power
// loss mid-record. Pass a negative n to restore normal operation.
func (m *Medium) FailAfter(n int) {
	m.issued = 0
	m.failAfter = n
}

// Image returns a copy of the current medium contents, pending write not
// included.
func (m *Medium) Image() []byte {
	out := make([]byte, len(m.buf))
	copy(out, m.buf)
	return out
}

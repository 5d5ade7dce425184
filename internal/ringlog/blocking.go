package ringlog

import (
	"context"
	"time"
)

// AppendBlocking drives Write on a ticker until the record has fully
// transferred. It first drains any suspended transfer, then starts src
// and polls to completion. Convenience for hosts with a scheduler; the
// non-blocking Write contract is the primitive.
func (l *Log) AppendBlocking(ctx context.Context, src []byte, poll time.Duration) error {
	if poll <= 0 {
		poll = time.Millisecond
	}
	t := time.NewTicker(poll)
	defer t.Stop()
	for l.Write(src) != WriteStarted {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	for l.Write(nil) != WriteComplete {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

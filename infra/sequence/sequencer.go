// Package sequence issues the stream positions that tie the input
// journal, the outbox, and snapshots together.
package sequence

import "sync/atomic"

// Sequencer generates strictly monotonic stream positions. Safe for
// concurrent use; replay-safe via Reset.
type Sequencer struct {
	next atomic.Uint64
}

// New starts a sequencer at start, so the first Next returns start+1.
// Fresh boots pass 0; recovery passes the last journaled seq.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued position.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}

// Reset repositions the sequencer. Only journal replay calls this.
func (s *Sequencer) Reset(v uint64) {
	s.next.Store(v)
}

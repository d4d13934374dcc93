package snapshot

import "simplecross/infra/memory"

// Reader marks the span of a consistent read over engine state. It is
// a thin adapter over memory.ReaderEpoch: while a Reader is between
// Begin and End, retired orders it may still reference are not
// recycled.
type Reader struct {
	epoch *memory.ReaderEpoch
}

// NewReader returns a reader that starts outside any read section.
func NewReader() *Reader {
	r := &Reader{epoch: &memory.ReaderEpoch{}}
	r.epoch.Exit()
	return r
}

func (r *Reader) Begin() {
	r.epoch.Enter()
}

func (r *Reader) End() {
	r.epoch.Exit()
}

// Epoch exposes the underlying epoch for the reclaimer.
func (r *Reader) Epoch() *memory.ReaderEpoch {
	return r.epoch
}

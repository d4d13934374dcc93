// Package entry is the input journal: every accepted order or cancel
// line is appended before the matching engine processes it, so a
// restart can rebuild the book by replaying lines in acceptance order.
package entry

import "time"

type RecordType uint8

const (
	RecordOrder RecordType = iota
	RecordCancel
)

// Record is one journaled input. Line holds the canonical protocol
// text with no trailing newline; Seq is the service-assigned position
// in the input stream.
type Record struct {
	Type RecordType
	Seq  uint64
	Time int64
	Line []byte
}

func NewRecord(t RecordType, seq uint64, line []byte) *Record {
	return &Record{
		Type: t,
		Seq:  seq,
		Time: time.Now().UnixNano(),
		Line: line,
	}
}

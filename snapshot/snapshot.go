package snapshot

import "time"

// Snapshot is the gob-encoded on-disk form. Seq is the input-stream
// position the state reflects; replay resumes after it.
type Snapshot struct {
	Seq      uint64
	Created  time.Time
	Orders   []OrderEntry
	Accepted []uint32
}

// OrderEntry mirrors one resting order. EngineSeq preserves FIFO rank
// within a price level across the restore.
type OrderEntry struct {
	OID         uint32
	Symbol      string
	Side        uint8
	OriginalQty uint16
	OpenQty     uint16
	Price       int64
	EngineSeq   uint64
}

package snapshot

import (
	"encoding/gob"
	"os"
	"sort"

	"simplecross/domain/engine"
	"simplecross/domain/orderbook"
)

// Load restores engine state from a snapshot file and returns the
// stream position it reflects. A missing file is a fresh start, not an
// error.
func Load(path string, e *engine.Engine) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	var s Snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return 0, err
	}

	for _, oid := range s.Accepted {
		e.MarkAccepted(oid)
	}

	// Restore wants ascending engine seq so FIFO ranks rebuild exactly.
	sort.Slice(s.Orders, func(i, j int) bool {
		return s.Orders[i].EngineSeq < s.Orders[j].EngineSeq
	})
	for _, entry := range s.Orders {
		e.Restore(orderbook.Order{
			OID:         entry.OID,
			Symbol:      entry.Symbol,
			Side:        orderbook.Side(entry.Side),
			OriginalQty: entry.OriginalQty,
			OpenQty:     entry.OpenQty,
			Price:       orderbook.Price(entry.Price),
			Seq:         entry.EngineSeq,
		})
	}

	return s.Seq, nil
}

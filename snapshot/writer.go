package snapshot

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"simplecross/domain/engine"
	"simplecross/domain/orderbook"
)

type Writer struct {
	Dir string
}

// Write persists the engine state as of stream position seq. The file
// is written to a temp name and renamed, so a crash mid-write leaves
// the previous snapshot intact.
func (w *Writer) Write(seq uint64, e *engine.Engine) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return err
	}

	s := Snapshot{
		Seq:     seq,
		Created: time.Now(),
		Orders:  make([]OrderEntry, 0, e.Resting()),
	}

	e.ForEachResting(func(o *orderbook.Order) {
		s.Orders = append(s.Orders, OrderEntry{
			OID:         o.OID,
			Symbol:      o.Symbol,
			Side:        uint8(o.Side),
			OriginalQty: o.OriginalQty,
			OpenQty:     o.OpenQty,
			Price:       int64(o.Price),
			EngineSeq:   o.Seq,
		})
	})
	e.ForEachAccepted(func(oid uint32) {
		s.Accepted = append(s.Accepted, oid)
	})

	path := filepath.Join(w.Dir, FileName)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if err := gob.NewEncoder(f).Encode(&s); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

const FileName = "snapshot.bin"

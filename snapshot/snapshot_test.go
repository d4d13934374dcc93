package snapshot

import (
	"path/filepath"
	"testing"

	"simplecross/domain/engine"
	"simplecross/domain/orderbook"
)

func place(e *engine.Engine, oid uint32, sym string, side orderbook.Side, qty uint16, units int64) {
	e.Apply(engine.NewOrder{
		OID: oid, Symbol: sym, Side: side, Qty: qty,
		Price: orderbook.Price(units * orderbook.PriceScale),
	})
}

func TestWriteLoadRoundTrip(t *testing.T) {
	src := engine.New()
	place(src, 1, "IBM", orderbook.Ask, 10, 102)
	place(src, 2, "IBM", orderbook.Ask, 10, 102)
	place(src, 3, "IBM", orderbook.Bid, 5, 99)
	place(src, 4, "AAPL", orderbook.Bid, 7, 50)
	src.Apply(engine.Cancel{OID: 3})

	dir := t.TempDir()
	w := &Writer{Dir: dir}
	if err := w.Write(7, src); err != nil {
		t.Fatal(err)
	}

	dst := engine.New()
	seq, err := Load(filepath.Join(dir, FileName), dst)
	if err != nil {
		t.Fatal(err)
	}
	if seq != 7 {
		t.Errorf("loaded seq %d, want 7", seq)
	}
	if dst.Resting() != src.Resting() {
		t.Errorf("restored %d resting orders, want %d", dst.Resting(), src.Resting())
	}

	// Same print output means same books in the same order.
	srcPrint := src.Apply(engine.Print{})
	dstPrint := dst.Apply(engine.Print{})
	if len(srcPrint) != len(dstPrint) {
		t.Fatal("print lengths differ after restore")
	}
	for i := range srcPrint {
		if srcPrint[i] != dstPrint[i] {
			t.Errorf("print[%d]: %+v vs %+v", i, srcPrint[i], dstPrint[i])
		}
	}

	// FIFO at 102 must survive: oid 1 trades before oid 2.
	rs := dst.Apply(engine.NewOrder{
		OID: 100, Symbol: "IBM", Side: orderbook.Bid, Qty: 10,
		Price: orderbook.Price(102 * orderbook.PriceScale),
	})
	if f, ok := rs[1].(engine.Fill); !ok || f.OID != 1 {
		t.Errorf("restored FIFO traded %+v first, want oid 1", rs[1])
	}

	// The accepted set includes cancelled and filled oids.
	rej := dst.Apply(engine.NewOrder{
		OID: 3, Symbol: "IBM", Side: orderbook.Bid, Qty: 1, Price: orderbook.PriceScale,
	})
	if r, ok := rej[0].(engine.Reject); !ok || r.Reason != engine.ReasonDuplicateOID {
		t.Error("restored engine must reject a reused cancelled oid")
	}
}

func TestLoadMissingFileIsFreshStart(t *testing.T) {
	e := engine.New()
	seq, err := Load(filepath.Join(t.TempDir(), FileName), e)
	if err != nil || seq != 0 {
		t.Errorf("missing snapshot: seq=%d err=%v, want 0,nil", seq, err)
	}
}

func TestWriteIsAtomic(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir}
	e := engine.New()
	place(e, 1, "IBM", orderbook.Bid, 1, 1)
	if err := w.Write(1, e); err != nil {
		t.Fatal(err)
	}

	// A second write replaces the first in place.
	place(e, 2, "IBM", orderbook.Bid, 1, 2)
	if err := w.Write(2, e); err != nil {
		t.Fatal(err)
	}

	dst := engine.New()
	seq, err := Load(filepath.Join(dir, FileName), dst)
	if err != nil {
		t.Fatal(err)
	}
	if seq != 2 || dst.Resting() != 2 {
		t.Errorf("seq=%d resting=%d after overwrite, want 2/2", seq, dst.Resting())
	}
}

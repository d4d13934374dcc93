package engine

import "simplecross/domain/orderbook"

// Result is one output event of an Apply call. The formatter renders
// results into wire lines; the engine itself never builds strings.
type Result interface{ isResult() }

// Fill reports quantity exchanged for one side of a cross. Fills are
// always emitted in pairs: taker first, then the resting order, both
// at the resting order's price.
type Fill struct {
	OID    uint32
	Symbol string
	Qty    uint16
	Price  orderbook.Price
}

// Canceled confirms a successful cancel.
type Canceled struct {
	OID uint32
}

// BookEntry is one resting order inside a print snapshot.
type BookEntry struct {
	OID     uint32
	Symbol  string
	Side    orderbook.Side
	OpenQty uint16
	Price   orderbook.Price
}

// Reject carries a diagnostic back to the caller. OID is the raw token
// from the input so that even unparseable ids echo verbatim; it is
// empty when the line carried none.
type Reject struct {
	OID    string
	Reason string
}

func (Fill) isResult()      {}
func (Canceled) isResult()  {}
func (BookEntry) isResult() {}
func (Reject) isResult()    {}

// Reasons the engine itself can produce. The protocol layer owns the
// validation reasons.
const (
	ReasonDuplicateOID  = "Duplicate order id"
	ReasonOrderNotFound = "Order not found"
)

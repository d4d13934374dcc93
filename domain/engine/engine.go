package engine

import (
	"sort"
	"strconv"

	"simplecross/domain/orderbook"
)

// Engine is the deterministic matching core. It is single-writer: one
// Apply call is fully processed before the next begins, and the caller
// owns any external locking.
type Engine struct {
	books  map[string]*orderbook.SymbolBook
	orders map[uint32]*orderbook.Order

	// accepted holds every oid ever taken by an O event. Oids are not
	// reusable after a fill or cancel, so this set only grows.
	accepted map[uint32]struct{}

	seq uint64

	alloc  func() *orderbook.Order
	retire func(*orderbook.Order)
}

type Option func(*Engine)

// WithAllocator plugs an order pool in: alloc produces blank orders,
// retire receives orders that left the book (filled or cancelled).
// Retired orders must not be touched by the engine afterwards.
func WithAllocator(alloc func() *orderbook.Order, retire func(*orderbook.Order)) Option {
	return func(e *Engine) {
		e.alloc = alloc
		e.retire = retire
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		books:    make(map[string]*orderbook.SymbolBook),
		orders:   make(map[uint32]*orderbook.Order),
		accepted: make(map[uint32]struct{}),
		alloc:    func() *orderbook.Order { return new(orderbook.Order) },
		retire:   func(*orderbook.Order) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply processes one validated event and returns the result events in
// emission order. State is never partially mutated: a rejected event
// leaves the engine untouched.
func (e *Engine) Apply(ev Event) []Result {
	switch v := ev.(type) {
	case NewOrder:
		return e.place(v)
	case Cancel:
		return e.cancel(v)
	case Print:
		return e.printAll()
	default:
		return nil
	}
}

// ---- O ----

func (e *Engine) place(ev NewOrder) []Result {
	if _, dup := e.accepted[ev.OID]; dup {
		return []Result{Reject{
			OID:    strconv.FormatUint(uint64(ev.OID), 10),
			Reason: ReasonDuplicateOID,
		}}
	}
	e.accepted[ev.OID] = struct{}{}

	book := e.bookFor(ev.Symbol)
	opp := book.SideBook(ev.Side.Opposite())

	var out []Result
	qty := ev.Qty
	for qty > 0 {
		lvl := opp.Best()
		if lvl == nil || !crosses(ev.Side, lvl.Price, ev.Price) {
			break
		}

		head := lvl.Head()
		take := qty
		if head.OpenQty < take {
			take = head.OpenQty
		}

		// Taker line first, then the resting order, both at the
		// resting price.
		out = append(out,
			Fill{OID: ev.OID, Symbol: ev.Symbol, Qty: take, Price: lvl.Price},
			Fill{OID: head.OID, Symbol: ev.Symbol, Qty: take, Price: lvl.Price},
		)

		qty -= take
		lvl.ReduceHead(take)
		if head.OpenQty == 0 {
			lvl.PopHead()
			opp.DropIfEmpty(lvl)
			delete(e.orders, head.OID)
			e.retire(head)
		}
	}

	if qty > 0 {
		o := e.alloc()
		*o = orderbook.Order{
			OID:         ev.OID,
			Symbol:      ev.Symbol,
			Side:        ev.Side,
			OriginalQty: ev.Qty,
			OpenQty:     qty,
			Price:       ev.Price,
			Seq:         e.nextSeq(),
		}
		book.SideBook(ev.Side).GetOrCreate(ev.Price).Enqueue(o)
		e.orders[ev.OID] = o
	}

	return out
}

// crosses reports whether a resting price satisfies the incoming limit.
func crosses(incoming orderbook.Side, resting, limit orderbook.Price) bool {
	if incoming == orderbook.Bid {
		return resting <= limit
	}
	return resting >= limit
}

// ---- X ----

func (e *Engine) cancel(ev Cancel) []Result {
	o, ok := e.orders[ev.OID]
	if !ok {
		return []Result{Reject{
			OID:    strconv.FormatUint(uint64(ev.OID), 10),
			Reason: ReasonOrderNotFound,
		}}
	}

	e.books[o.Symbol].Remove(o)
	delete(e.orders, ev.OID)
	e.retire(o)

	return []Result{Canceled{OID: ev.OID}}
}

// ---- P ----

// printAll emits every resting order: symbols ascending, and per symbol
// asks descending by price then bids descending by price. Ask levels
// print tail to head, so the newest ask at a price comes first; bid
// levels print head to tail, so the oldest bid at a price comes first.
func (e *Engine) printAll() []Result {
	symbols := make([]string, 0, len(e.books))
	for sym, book := range e.books {
		if !book.Empty() {
			symbols = append(symbols, sym)
		}
	}
	sort.Strings(symbols)

	var out []Result
	emit := func(lvl *orderbook.PriceLevel) bool {
		for o := lvl.Tail(); o != nil; o = o.Prev() {
			out = append(out, BookEntry{
				OID:     o.OID,
				Symbol:  o.Symbol,
				Side:    o.Side,
				OpenQty: o.OpenQty,
				Price:   o.Price,
			})
		}
		return true
	}
	emitBids := func(lvl *orderbook.PriceLevel) bool {
		for o := lvl.Head(); o != nil; o = o.Next() {
			out = append(out, BookEntry{
				OID:     o.OID,
				Symbol:  o.Symbol,
				Side:    o.Side,
				OpenQty: o.OpenQty,
				Price:   o.Price,
			})
		}
		return true
	}
	for _, sym := range symbols {
		book := e.books[sym]
		book.Asks.WalkDescending(emit)
		book.Bids.WalkDescending(emitBids)
	}
	return out
}

// ---- state access ----

func (e *Engine) bookFor(symbol string) *orderbook.SymbolBook {
	book, ok := e.books[symbol]
	if !ok {
		book = orderbook.NewSymbolBook(symbol)
		e.books[symbol] = book
	}
	return book
}

func (e *Engine) nextSeq() uint64 {
	e.seq++
	return e.seq
}

// Resting reports how many orders sit in the books; it always equals
// the order-index size.
func (e *Engine) Resting() int { return len(e.orders) }

// Seq returns the last assigned acceptance sequence.
func (e *Engine) Seq() uint64 { return e.seq }

// Locate returns the resting order for an oid, nil if none.
func (e *Engine) Locate(oid uint32) *orderbook.Order { return e.orders[oid] }

// Book exposes a symbol's book for read-only inspection, nil if the
// symbol was never traded.
func (e *Engine) Book(symbol string) *orderbook.SymbolBook { return e.books[symbol] }

// ForEachResting visits every resting order in print order.
func (e *Engine) ForEachResting(fn func(*orderbook.Order)) {
	for _, r := range e.printAll() {
		entry := r.(BookEntry)
		fn(e.orders[entry.OID])
	}
}

// ForEachAccepted visits every oid ever accepted.
func (e *Engine) ForEachAccepted(fn func(uint32)) {
	for oid := range e.accepted {
		fn(oid)
	}
}

// Restore re-seats an order from a snapshot without matching. Orders
// must arrive in ascending Seq so FIFO positions rebuild exactly.
func (e *Engine) Restore(o orderbook.Order) {
	e.accepted[o.OID] = struct{}{}

	stored := e.alloc()
	*stored = o
	e.bookFor(o.Symbol).SideBook(o.Side).GetOrCreate(o.Price).Enqueue(stored)
	e.orders[o.OID] = stored

	if o.Seq > e.seq {
		e.seq = o.Seq
	}
}

// MarkAccepted reserves an oid without resting anything. Snapshot
// loads use it for ids whose orders already left the book.
func (e *Engine) MarkAccepted(oid uint32) {
	e.accepted[oid] = struct{}{}
}

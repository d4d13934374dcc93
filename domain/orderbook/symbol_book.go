package orderbook

// SymbolBook is the two-sided resting book for a single symbol. It
// exclusively owns its orders; external components hold locators only.
type SymbolBook struct {
	Symbol string
	Bids   *SideBook
	Asks   *SideBook
}

func NewSymbolBook(symbol string) *SymbolBook {
	return &SymbolBook{
		Symbol: symbol,
		Bids:   NewSideBook(Bid),
		Asks:   NewSideBook(Ask),
	}
}

func (b *SymbolBook) SideBook(s Side) *SideBook {
	if s == Bid {
		return b.Bids
	}
	return b.Asks
}

// Remove takes a resting order out of the book via its locator.
func (b *SymbolBook) Remove(o *Order) {
	b.SideBook(o.Side).Remove(o)
}

func (b *SymbolBook) Empty() bool {
	return b.Bids.Len() == 0 && b.Asks.Len() == 0
}

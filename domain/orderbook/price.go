package orderbook

import "fmt"

// Price is a fixed-point 7.5 decimal stored as value*1e5.
// Using a scaled integer keeps tree ordering and equality exact.
type Price int64

const (
	PriceScale = 100000

	// MinPrice and MaxPrice bound the valid 7.5 range:
	// 0.00001 .. 9999999.99999
	MinPrice Price = 1
	MaxPrice Price = 9999999*PriceScale + 99999
)

// String renders the canonical wire form: unpadded integer part,
// exactly five fractional digits.
func (p Price) String() string {
	return fmt.Sprintf("%d.%05d", int64(p)/PriceScale, int64(p)%PriceScale)
}

package protocol

import (
	"fmt"

	"simplecross/domain/engine"
)

// FormatResult renders one engine result as its wire line, without a
// trailing newline.
func FormatResult(r engine.Result) string {
	switch v := r.(type) {
	case engine.Fill:
		return fmt.Sprintf("F %d %s %d %s", v.OID, v.Symbol, v.Qty, v.Price)
	case engine.Canceled:
		return fmt.Sprintf("X %d", v.OID)
	case engine.BookEntry:
		return fmt.Sprintf("P %d %s %s %d %s", v.OID, v.Symbol, v.Side, v.OpenQty, v.Price)
	case engine.Reject:
		if v.OID == "" {
			return "E " + v.Reason
		}
		return "E " + v.OID + " " + v.Reason
	default:
		panic(fmt.Sprintf("protocol: unknown result type %T", r))
	}
}

// FormatResults renders a result list in order.
func FormatResults(rs []engine.Result) []string {
	if len(rs) == 0 {
		return nil
	}
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = FormatResult(r)
	}
	return out
}

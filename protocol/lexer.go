// Package protocol implements the line protocol boundary: parsing and
// validating raw input lines into engine events, and rendering engine
// results back into wire lines. All exact error strings live here or in
// the engine; nothing else in the system builds protocol text.
package protocol

import (
	"math"
	"strconv"
	"strings"

	"simplecross/domain/engine"
	"simplecross/domain/orderbook"
)

// Validation reasons owned by the protocol layer. The engine owns the
// duplicate-oid and order-not-found reasons.
const (
	ReasonBadAction = "Incorrect action character"
	ReasonMalformed = "Malformed input"
	ReasonBadOID    = "Malformed oid"
	ReasonBadSymbol = "Invalid symbol"
	ReasonBadSide   = "Incorrect side character"
	ReasonBadQty    = "Invalid quantity"
	ReasonBadPrice  = "Invalid price"
)

// ParseLine validates one input line. Exactly one of the returns is
// non-nil: a parsed event, or a reject carrying the wire error. A
// trailing newline and at most one trailing space are tolerated; any
// other whitespace irregularity is malformed.
func ParseLine(line string) (engine.Event, *engine.Reject) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	line = strings.TrimSuffix(line, " ")

	if line == "" {
		return nil, &engine.Reject{Reason: ReasonBadAction}
	}

	tokens := strings.Split(line, " ")

	// The oid slot of an error line echoes the second raw token
	// verbatim, whatever it contains.
	oidSlot := ""
	if len(tokens) > 1 {
		oidSlot = tokens[1]
	}

	switch tokens[0] {
	case "O", "X", "P":
	default:
		return nil, &engine.Reject{OID: oidSlot, Reason: ReasonBadAction}
	}

	// Doubled spaces split into empty tokens; tabs survive inside a
	// token. Both are tokenization failures, not field failures.
	for _, tok := range tokens {
		if tok == "" || strings.ContainsAny(tok, "\t\v\f\r") {
			return nil, &engine.Reject{OID: oidSlot, Reason: ReasonMalformed}
		}
	}

	switch tokens[0] {
	case "O":
		return parseOrder(tokens, oidSlot)
	case "X":
		return parseCancel(tokens, oidSlot)
	default:
		if len(tokens) != 1 {
			return nil, &engine.Reject{OID: oidSlot, Reason: ReasonMalformed}
		}
		return engine.Print{}, nil
	}
}

func parseOrder(tokens []string, oidSlot string) (engine.Event, *engine.Reject) {
	if len(tokens) != 6 {
		return nil, &engine.Reject{OID: oidSlot, Reason: ReasonMalformed}
	}

	oid, ok := parseOID(tokens[1])
	if !ok {
		return nil, &engine.Reject{OID: tokens[1], Reason: ReasonBadOID}
	}
	if !validSymbol(tokens[2]) {
		return nil, &engine.Reject{OID: tokens[1], Reason: ReasonBadSymbol}
	}
	side, ok := parseSide(tokens[3])
	if !ok {
		return nil, &engine.Reject{OID: tokens[1], Reason: ReasonBadSide}
	}
	qty, ok := parseQty(tokens[4])
	if !ok {
		return nil, &engine.Reject{OID: tokens[1], Reason: ReasonBadQty}
	}
	px, ok := ParsePrice(tokens[5])
	if !ok {
		return nil, &engine.Reject{OID: tokens[1], Reason: ReasonBadPrice}
	}

	return engine.NewOrder{
		OID:    oid,
		Symbol: tokens[2],
		Side:   side,
		Qty:    qty,
		Price:  px,
	}, nil
}

func parseCancel(tokens []string, oidSlot string) (engine.Event, *engine.Reject) {
	if len(tokens) != 2 {
		return nil, &engine.Reject{OID: oidSlot, Reason: ReasonMalformed}
	}
	oid, ok := parseOID(tokens[1])
	if !ok {
		return nil, &engine.Reject{OID: tokens[1], Reason: ReasonBadOID}
	}
	return engine.Cancel{OID: oid}, nil
}

// parseOID accepts [1-9][0-9]{0,9} with value in 1..=2^31-1.
func parseOID(tok string) (uint32, bool) {
	if len(tok) == 0 || len(tok) > 10 || tok[0] == '0' || !allDigits(tok) {
		return 0, false
	}
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil || v == 0 || v > math.MaxInt32 {
		return 0, false
	}
	return uint32(v), true
}

// validSymbol accepts 1..8 ASCII alphanumerics.
func validSymbol(tok string) bool {
	if len(tok) == 0 || len(tok) > 8 {
		return false
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		default:
			return false
		}
	}
	return true
}

func parseSide(tok string) (orderbook.Side, bool) {
	switch tok {
	case "B":
		return orderbook.Bid, true
	case "S":
		return orderbook.Ask, true
	}
	return 0, false
}

// parseQty accepts [1-9][0-9]{0,4} with value in 1..=65535.
func parseQty(tok string) (uint16, bool) {
	if len(tok) == 0 || len(tok) > 5 || tok[0] == '0' || !allDigits(tok) {
		return 0, false
	}
	v, err := strconv.ParseUint(tok, 10, 16)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint16(v), true
}

// ParsePrice accepts d{1,7}.ddddd with a strictly positive value and
// returns it scaled to the fixed-point representation.
func ParsePrice(tok string) (orderbook.Price, bool) {
	dot := strings.IndexByte(tok, '.')
	if dot < 1 || dot > 7 {
		return 0, false
	}
	intPart, fracPart := tok[:dot], tok[dot+1:]
	if len(fracPart) != 5 || !allDigits(intPart) || !allDigits(fracPart) {
		return 0, false
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, false
	}
	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, false
	}

	px := orderbook.Price(whole*orderbook.PriceScale + frac)
	if px < orderbook.MinPrice {
		return 0, false
	}
	return px, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

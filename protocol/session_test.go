package protocol

import (
	"testing"

	"simplecross/domain/engine"
)

// applyLine is the full boundary round trip: parse, apply, format.
func applyLine(e *engine.Engine, line string) []string {
	ev, rej := ParseLine(line)
	if rej != nil {
		return []string{FormatResult(*rej)}
	}
	return FormatResults(e.Apply(ev))
}

// TestCanonicalSession replays the reference trading session line by
// line and checks every output line byte for byte.
func TestCanonicalSession(t *testing.T) {
	steps := []struct {
		in  string
		out []string
	}{
		{"O 10000 IBM B 10 100.00000", nil},
		{"O 10001 IBM B 10 99.00000", nil},
		{"O 10002 IBM S 5 101.00000", nil},
		{"O 10003 IBM S 5 100.00000", []string{
			"F 10003 IBM 5 100.00000",
			"F 10000 IBM 5 100.00000",
		}},
		{"O 10004 IBM S 5 100.00000", []string{
			"F 10004 IBM 5 100.00000",
			"F 10000 IBM 5 100.00000",
		}},
		{"X 10002", []string{
			"X 10002",
		}},
		{"O 10005 IBM B 10 99.00000", nil},
		{"O 10006 IBM B 10 100.00000", nil},
		{"O 10007 IBM S 10 101.00000", nil},
		{"O 10008 IBM S 10 102.00000", nil},
		{"O 10008 IBM S 10 102.00000", []string{
			"E 10008 Duplicate order id",
		}},
		{"O 10009 IBM S 10 102.00000", nil},
		{"P", []string{
			"P 10009 IBM S 10 102.00000",
			"P 10008 IBM S 10 102.00000",
			"P 10007 IBM S 10 101.00000",
			"P 10006 IBM B 10 100.00000",
			"P 10001 IBM B 10 99.00000",
			"P 10005 IBM B 10 99.00000",
		}},
		{"O 10010 IBM B 13 102.00000", []string{
			"F 10010 IBM 10 101.00000",
			"F 10007 IBM 10 101.00000",
			"F 10010 IBM 3 102.00000",
			"F 10008 IBM 3 102.00000",
		}},
	}

	e := engine.New()
	for i, step := range steps {
		got := applyLine(e, step.in)
		if len(got) != len(step.out) {
			t.Fatalf("step %d %q: got %d lines %v, want %d",
				i, step.in, len(got), got, len(step.out))
		}
		for j := range step.out {
			if got[j] != step.out[j] {
				t.Errorf("step %d %q line %d: got %q, want %q",
					i, step.in, j, got[j], step.out[j])
			}
		}
	}
}

func TestMalformedLinesLeaveStateAlone(t *testing.T) {
	e := engine.New()
	applyLine(e, "O 1 IBM B 10 100.00000")

	before := applyLine(e, "P")
	for _, bad := range []string{
		"",
		"Q 2 IBM B 1 1.00000",
		"O 2 IBM B 1",
		"O 2 IBM B 0 1.00000",
		"O 2 IBM Q 1 1.00000",
		"X abc",
	} {
		out := applyLine(e, bad)
		if len(out) != 1 || out[0][0] != 'E' {
			t.Errorf("%q produced %v, want a single E line", bad, out)
		}
	}
	after := applyLine(e, "P")

	if len(before) != len(after) {
		t.Fatal("book changed size across rejected lines")
	}
	for i := range before {
		if before[i] != after[i] {
			t.Error("book changed across rejected lines")
		}
	}
}

func TestCancelThenReplaceEquivalence(t *testing.T) {
	a := engine.New()
	applyLine(a, "O 1 IBM B 10 100.00000")
	applyLine(a, "X 1")
	applyLine(a, "O 2 IBM B 10 100.00000")

	b := engine.New()
	applyLine(b, "O 2 IBM B 10 100.00000")

	pa, pb := applyLine(a, "P"), applyLine(b, "P")
	if len(pa) != len(pb) {
		t.Fatal("prints differ in length")
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Errorf("print line %d: %q vs %q", i, pa[i], pb[i])
		}
	}
}

// Package wire defines the gRPC message surface and its protobuf
// encoding. Messages are marshaled directly with protowire, so the
// schema below is the source of truth:
//
//	message ApplyRequest  { string line = 1; }
//	message ApplyResponse { repeated string lines = 1; }
//	message BookRequest   {}
//	message BookResponse  { uint64 seq = 1; repeated string lines = 2; }
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every request and response type carried
// over the Cross service.
type Message interface {
	Marshal() []byte
	Unmarshal(b []byte) error
}

type ApplyRequest struct {
	Line string
}

func (m *ApplyRequest) Marshal() []byte {
	var b []byte
	if m.Line != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.Line)
	}
	return b
}

func (m *ApplyRequest) Unmarshal(b []byte) error {
	*m = ApplyRequest{}
	return walkFields(b, func(num protowire.Number, s string) {
		if num == 1 {
			m.Line = s
		}
	})
}

type ApplyResponse struct {
	Lines []string
}

func (m *ApplyResponse) Marshal() []byte {
	var b []byte
	for _, line := range m.Lines {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, line)
	}
	return b
}

func (m *ApplyResponse) Unmarshal(b []byte) error {
	*m = ApplyResponse{}
	return walkFields(b, func(num protowire.Number, s string) {
		if num == 1 {
			m.Lines = append(m.Lines, s)
		}
	})
}

type BookRequest struct{}

func (m *BookRequest) Marshal() []byte { return nil }

func (m *BookRequest) Unmarshal(b []byte) error { return nil }

type BookResponse struct {
	Seq   uint64
	Lines []string
}

func (m *BookResponse) Marshal() []byte {
	var b []byte
	if m.Seq != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, m.Seq)
	}
	for _, line := range m.Lines {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, line)
	}
	return b
}

func (m *BookResponse) Unmarshal(b []byte) error {
	*m = BookResponse{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Seq = v
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Lines = append(m.Lines, s)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return nil
}

// walkFields iterates string fields, skipping anything it does not
// recognize so old clients tolerate new fields.
func walkFields(b []byte, fn func(num protowire.Number, s string)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if typ == protowire.BytesType {
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			fn(num, s)
			b = b[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

// Codec satisfies grpc's encoding.Codec for the Message types above.
type Codec struct{}

func (Codec) Name() string { return "simplecross" }

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("wire: cannot marshal %T", v)
	}
	return m.Marshal(), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("wire: cannot unmarshal into %T", v)
	}
	return m.Unmarshal(data)
}

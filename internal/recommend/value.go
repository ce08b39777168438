package recommend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	kindNull valueKind = iota
	kindString
	kindNumber
)

// Value is a backend attribute that may arrive as a JSON string, number or null.
type Value struct {
	raw  string
	kind valueKind
}

func StringValue(s string) Value { return Value{raw: s, kind: kindString} }

func NumberValue(n float64) Value {
	return Value{raw: strconv.FormatFloat(n, 'f', -1, 64), kind: kindNumber}
}

func (v Value) IsNull() bool   { return v.kind == kindNull }
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// String returns the value as text, "" for null.
func (v Value) String() string { return v.raw }

// Float returns the numeric value when the value is a number or a numeric string.
func (v Value) Float() (float64, bool) {
	if v.kind == kindNull {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*v = Value{}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case bytes.Equal(b, []byte("true")) || bytes.Equal(b, []byte("false")):
		*v = Value{raw: string(b), kind: kindString}
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("recommend: value must be string, number or null: %s", truncate(string(b), 32))
		}
		f, err := n.Float64()
		if err != nil {
			return fmt.Errorf("recommend: number out of range: %s", truncate(string(b), 32))
		}
		// 500000.0 and 5e5 both read back as "500000"
		*v = NumberValue(f)
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNumber:
		return []byte(v.raw), nil
	case kindString:
		return json.Marshal(v.raw)
	default:
		return []byte("null"), nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

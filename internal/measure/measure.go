// Package measure holds the caller-supplied measurement record that risk
// scoring and advice generation read from.
package measure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind tells whether a Value carries a number or a categorical text.
type Kind int

const (
	KindNumber Kind = iota + 1
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "unset"
	}
}

// Value is a single measurement: either numeric or categorical.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text returns a categorical Value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

func (v Value) Kind() Kind { return v.kind }

// Float returns the numeric payload and whether v is numeric.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Str returns the text payload and whether v is categorical.
func (v Value) Str() (string, bool) {
	return v.text, v.kind == KindText
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("measure: cannot encode non-finite number %v", v.num)
		}
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("measure: null is not a measurement")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("measure: expected number or string, got %s", data)
	}
	*v = Number(f)
	return nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("measure: line %d: expected a scalar", node.Line)
	}
	if node.Tag == "!!int" || node.Tag == "!!float" {
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("measure: line %d: %w", node.Line, err)
		}
		*v = Number(f)
		return nil
	}
	*v = Text(node.Value)
	return nil
}

// Measurements maps factor names to the values supplied for them.
type Measurements map[string]Value

// Clone returns a shallow copy that can be extended without touching m.
func (m Measurements) Clone() Measurements {
	out := make(Measurements, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Parse reads a "key=value" assignment. Values that parse as floats become
// numbers, everything else is kept as text.
func Parse(assignment string) (string, Value, error) {
	for i := 0; i < len(assignment); i++ {
		if assignment[i] != '=' {
			continue
		}
		key, raw := assignment[:i], assignment[i+1:]
		if key == "" {
			return "", Value{}, fmt.Errorf("measure: empty key in %q", assignment)
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return key, Number(f), nil
		}
		return key, Text(raw), nil
	}
	return "", Value{}, fmt.Errorf("measure: %q is not key=value", assignment)
}

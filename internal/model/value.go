package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags the logical type of an annotation value.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindInt    ValueKind = "int"
	KindFloat  ValueKind = "float"
	KindBool   ValueKind = "bool"
)

// Value is an annotation value with its logical type. The index stores only
// the canonical text form; matching is exact string equality, so int 1 and
// float 1.0 are distinct stored values.
type Value struct {
	Kind ValueKind
	Text string
}

// String returns the canonical text form written to the index.
func (v Value) String() string {
	return v.Text
}

// NewValue canonicalizes a Go value into a Value. Supported kinds are
// string, bool, all int/uint widths, and float32/float64.
func NewValue(v any) (Value, error) {
	switch x := v.(type) {
	case string:
		return Value{Kind: KindString, Text: x}, nil
	case bool:
		return Value{Kind: KindBool, Text: strconv.FormatBool(x)}, nil
	case int:
		return Value{Kind: KindInt, Text: strconv.FormatInt(int64(x), 10)}, nil
	case int32:
		return Value{Kind: KindInt, Text: strconv.FormatInt(int64(x), 10)}, nil
	case int64:
		return Value{Kind: KindInt, Text: strconv.FormatInt(x, 10)}, nil
	case uint:
		return Value{Kind: KindInt, Text: strconv.FormatUint(uint64(x), 10)}, nil
	case uint64:
		return Value{Kind: KindInt, Text: strconv.FormatUint(x, 10)}, nil
	case float32:
		return Value{Kind: KindFloat, Text: formatFloat(float64(x), 32)}, nil
	case float64:
		return Value{Kind: KindFloat, Text: formatFloat(x, 64)}, nil
	case Value:
		return x, nil
	default:
		return Value{}, fmt.Errorf("unsupported annotation value type %T", v)
	}
}

// formatFloat renders a float with an explicit decimal point so that float
// 1.0 and int 1 never collapse to the same stored text.
func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && s != "NaN" {
		s += ".0"
	}
	return s
}

// MustValue is NewValue for literals known to be of a supported type.
func MustValue(v any) Value {
	val, err := NewValue(v)
	if err != nil {
		panic(err)
	}
	return val
}

// ParseValue decodes a stored text form back into a typed Value. Decoding is
// by shape: bool literals, then integers, then floats, falling back to string.
func ParseValue(text string) Value {
	if text == "true" || text == "false" {
		return Value{Kind: KindBool, Text: text}
	}
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Value{Kind: KindInt, Text: text}
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return Value{Kind: KindFloat, Text: text}
	}
	return Value{Kind: KindString, Text: text}
}

// Annotations maps annotation key names to canonicalized values.
type Annotations map[string]Value

// NewAnnotations canonicalizes a map of raw values into Annotations.
func NewAnnotations(raw map[string]any) (Annotations, error) {
	if raw == nil {
		return nil, nil
	}
	out := make(Annotations, len(raw))
	for key, v := range raw {
		val, err := NewValue(v)
		if err != nil {
			return nil, fmt.Errorf("annotation %q: %w", key, err)
		}
		out[key] = val
	}
	return out, nil
}

// Int returns the value as an int64. It is only meaningful for KindInt.
func (v Value) Int() (int64, error) {
	return strconv.ParseInt(v.Text, 10, 64)
}

// Float returns the value as a float64.
func (v Value) Float() (float64, error) {
	return strconv.ParseFloat(v.Text, 64)
}

// Bool returns the value as a bool.
func (v Value) Bool() (bool, error) {
	return strconv.ParseBool(v.Text)
}

package withdefaults

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// LeafType is the built-in YANG type of a leaf or leaf-list.
type LeafType int

const (
	TypeString LeafType = iota
	TypeBoolean
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeDecimal64
	TypeEnumeration
	TypeEmpty
)

var typeNames = map[LeafType]string{
	TypeString:      "string",
	TypeBoolean:     "boolean",
	TypeInt8:        "int8",
	TypeInt16:       "int16",
	TypeInt32:       "int32",
	TypeInt64:       "int64",
	TypeUint8:       "uint8",
	TypeUint16:      "uint16",
	TypeUint32:      "uint32",
	TypeUint64:      "uint64",
	TypeDecimal64:   "decimal64",
	TypeEnumeration: "enumeration",
	TypeEmpty:       "empty",
}

func (t LeafType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("LeafType(%d)", int(t))
}

// ParseLeafType parses a YANG built-in type name.
func ParseLeafType(s string) (LeafType, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("withdefaults: unknown leaf type %q", s)
}

// IsSigned reports whether t is one of the signed integer types.
func (t LeafType) IsSigned() bool { return t >= TypeInt8 && t <= TypeInt64 }

// IsUnsigned reports whether t is one of the unsigned integer types.
func (t LeafType) IsUnsigned() bool { return t >= TypeUint8 && t <= TypeUint64 }

func (t LeafType) bits() int {
	switch t {
	case TypeInt8, TypeUint8:
		return 8
	case TypeInt16, TypeUint16:
		return 16
	case TypeInt32, TypeUint32:
		return 32
	default:
		return 64
	}
}

// Value is a typed leaf value held in canonical lexical form. Two values are
// equal iff their types and canonical forms are equal.
type Value struct {
	Type LeafType
	text string
}

// String returns the canonical lexical form.
func (v Value) String() string { return v.text }

// Equal reports canonical equality.
func (v Value) Equal(o Value) bool { return v.Type == o.Type && v.text == o.text }

// Bool returns the boolean value of a TypeBoolean value.
func (v Value) Bool() bool { return v.text == "true" }

// ParseValue checks raw against the node's type and returns its canonical
// Value. raw may be a string (lexical form), a bool, any Go integer or float,
// json.Number, or nil for the empty type.
func (n *SchemaNode) ParseValue(raw any) (Value, error) {
	text, err := canonical(n, raw)
	if err != nil {
		return Value{}, fmt.Errorf("%v is not a valid %s: %w", describe(raw), n.Type, err)
	}
	return Value{Type: n.Type, text: text}, nil
}

func canonical(n *SchemaNode, raw any) (string, error) {
	switch t := n.Type; {
	case t == TypeString:
		s, ok := raw.(string)
		if !ok {
			return "", errWrongKind
		}
		return s, nil
	case t == TypeBoolean:
		switch b := raw.(type) {
		case bool:
			return strconv.FormatBool(b), nil
		case string:
			if b == "true" || b == "false" {
				return b, nil
			}
		}
		return "", errWrongKind
	case t == TypeEmpty:
		switch e := raw.(type) {
		case nil:
			return "", nil
		case string:
			if e == "" {
				return "", nil
			}
		case bool:
			if e {
				return "", nil
			}
		case []any:
			if len(e) == 1 && e[0] == nil {
				return "", nil
			}
		}
		return "", errWrongKind
	case t == TypeEnumeration:
		s, ok := raw.(string)
		if !ok {
			return "", errWrongKind
		}
		if !slices.Contains(n.Enums, s) {
			return "", fmt.Errorf("not one of %v", n.Enums)
		}
		return s, nil
	case t.IsSigned():
		lex, err := numericText(raw)
		if err != nil {
			return "", err
		}
		i, err := strconv.ParseInt(strings.TrimPrefix(lex, "+"), 10, t.bits())
		if err != nil {
			return "", errOutOfRange
		}
		return strconv.FormatInt(i, 10), nil
	case t.IsUnsigned():
		lex, err := numericText(raw)
		if err != nil {
			return "", err
		}
		u, err := strconv.ParseUint(strings.TrimPrefix(lex, "+"), 10, t.bits())
		if err != nil {
			return "", errOutOfRange
		}
		return strconv.FormatUint(u, 10), nil
	case t == TypeDecimal64:
		lex, err := numericText(raw)
		if err != nil {
			return "", err
		}
		return canonicalDecimal(lex, n.FractionDigits)
	}
	return "", fmt.Errorf("unsupported type %s", n.Type)
}

var (
	errWrongKind  = errors.New("wrong value kind")
	errOutOfRange = errors.New("malformed or out of range")
)

func numericText(raw any) (string, error) {
	switch x := raw.(type) {
	case string:
		return strings.TrimSpace(x), nil
	case json.Number:
		return x.String(), nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return formatFloat(float64(x))
	case float64:
		return formatFloat(x)
	}
	return "", errWrongKind
}

func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", errOutOfRange
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// canonicalDecimal renders a decimal64 lexical value in YANG canonical form:
// no leading zeros, no trailing fraction zeros, at least one fraction digit.
func canonicalDecimal(lex string, digits int) (string, error) {
	if digits < 1 || digits > 18 {
		return "", fmt.Errorf("fraction-digits %d out of range", digits)
	}
	neg := false
	switch {
	case strings.HasPrefix(lex, "-"):
		neg = true
		lex = lex[1:]
	case strings.HasPrefix(lex, "+"):
		lex = lex[1:]
	}
	intPart, frac, dot := strings.Cut(lex, ".")
	if intPart == "" || !allDigits(intPart) || !allDigits(frac) || (dot && frac == "") {
		return "", errOutOfRange
	}
	frac = strings.TrimRight(frac, "0")
	if len(frac) > digits {
		return "", fmt.Errorf("more than %d fraction digits", digits)
	}
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	mantissa := intPart + frac + strings.Repeat("0", digits-len(frac))
	if neg {
		mantissa = "-" + mantissa
	}
	if _, err := strconv.ParseInt(mantissa, 10, 64); err != nil {
		return "", errOutOfRange
	}
	if frac == "" {
		frac = "0"
	}
	if neg && (intPart != "0" || frac != "0") {
		intPart = "-" + intPart
	}
	return intPart + "." + frac, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func describe(raw any) string {
	if raw == nil {
		return "null"
	}
	return fmt.Sprintf("%T(%v)", raw, raw)
}

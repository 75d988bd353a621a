package withdefaults_test

import (
	"encoding/json"
	"errors"
	"testing"

	wd "github.com/reoring/withdefaults"
)

func TestParseValue_Canonical(t *testing.T) {
	cases := []struct {
		name string
		node wd.SchemaNode
		raw  any
		want string
	}{
		{"string kept verbatim", wd.SchemaNode{Type: wd.TypeString}, " a b ", " a b "},
		{"int8 sign and zeros", wd.SchemaNode{Type: wd.TypeInt8}, "+007", "7"},
		{"int32 negative", wd.SchemaNode{Type: wd.TypeInt32}, -12, "-12"},
		{"int64 from json.Number", wd.SchemaNode{Type: wd.TypeInt64}, json.Number("9007199254740993"), "9007199254740993"},
		{"uint16 from float", wd.SchemaNode{Type: wd.TypeUint16}, float64(1500), "1500"},
		{"uint64 max", wd.SchemaNode{Type: wd.TypeUint64}, "18446744073709551615", "18446744073709551615"},
		{"boolean bool", wd.SchemaNode{Type: wd.TypeBoolean}, false, "false"},
		{"boolean text", wd.SchemaNode{Type: wd.TypeBoolean}, "true", "true"},
		{"enumeration", wd.SchemaNode{Type: wd.TypeEnumeration, Enums: []string{"a", "b"}}, "b", "b"},
		{"decimal trailing zeros", wd.SchemaNode{Type: wd.TypeDecimal64, FractionDigits: 3}, "1.500", "1.5"},
		{"decimal integer", wd.SchemaNode{Type: wd.TypeDecimal64, FractionDigits: 2}, 1, "1.0"},
		{"decimal leading zeros", wd.SchemaNode{Type: wd.TypeDecimal64, FractionDigits: 2}, "-007.10", "-7.1"},
		{"decimal negative zero", wd.SchemaNode{Type: wd.TypeDecimal64, FractionDigits: 1}, "-0.0", "0.0"},
		{"decimal largest", wd.SchemaNode{Type: wd.TypeDecimal64, FractionDigits: 1}, "922337203685477580.7", "922337203685477580.7"},
		{"decimal smallest", wd.SchemaNode{Type: wd.TypeDecimal64, FractionDigits: 1}, "-922337203685477580.8", "-922337203685477580.8"},
		{"empty nil", wd.SchemaNode{Type: wd.TypeEmpty}, nil, ""},
		{"empty json form", wd.SchemaNode{Type: wd.TypeEmpty}, []any{nil}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := tc.node.ParseValue(tc.raw)
			if err != nil {
				t.Fatalf("ParseValue(%v): %v", tc.raw, err)
			}
			if v.String() != tc.want || v.Type != tc.node.Type {
				t.Fatalf("ParseValue(%v) = %s %q, want %s %q", tc.raw, v.Type, v, tc.node.Type, tc.want)
			}
		})
	}
}

func TestParseValue_Rejects(t *testing.T) {
	cases := []struct {
		name string
		node wd.SchemaNode
		raw  any
	}{
		{"string from number", wd.SchemaNode{Type: wd.TypeString}, 1},
		{"int8 overflow", wd.SchemaNode{Type: wd.TypeInt8}, 128},
		{"uint8 negative", wd.SchemaNode{Type: wd.TypeUint8}, "-1"},
		{"int32 fraction", wd.SchemaNode{Type: wd.TypeInt32}, 1.5},
		{"boolean word", wd.SchemaNode{Type: wd.TypeBoolean}, "yes"},
		{"enumeration unknown", wd.SchemaNode{Type: wd.TypeEnumeration, Enums: []string{"a"}}, "z"},
		{"decimal too precise", wd.SchemaNode{Type: wd.TypeDecimal64, FractionDigits: 2}, "1.234"},
		{"decimal garbage", wd.SchemaNode{Type: wd.TypeDecimal64, FractionDigits: 2}, "1e3"},
		{"decimal no fraction digits", wd.SchemaNode{Type: wd.TypeDecimal64}, "1.0"},
		{"decimal mantissa overflow", wd.SchemaNode{Type: wd.TypeDecimal64, FractionDigits: 1}, "999999999999999999.9"},
		{"decimal just above largest", wd.SchemaNode{Type: wd.TypeDecimal64, FractionDigits: 1}, "922337203685477580.8"},
		{"decimal trailing dot", wd.SchemaNode{Type: wd.TypeDecimal64, FractionDigits: 2}, "1."},
		{"empty with text", wd.SchemaNode{Type: wd.TypeEmpty}, "x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if v, err := tc.node.ParseValue(tc.raw); err == nil {
				t.Fatalf("ParseValue(%v) = %q, want error", tc.raw, v)
			}
		})
	}
}

func TestValue_Equal(t *testing.T) {
	i32 := &wd.SchemaNode{Type: wd.TypeInt32}
	str := &wd.SchemaNode{Type: wd.TypeString}
	a := mustValue(t, i32, "01")
	b := mustValue(t, i32, 1)
	s := mustValue(t, str, "1")
	if !a.Equal(b) {
		t.Fatalf("int32 01 and 1 must be equal")
	}
	if a.Equal(s) {
		t.Fatalf("values of different types compared equal")
	}
	if !mustValue(t, &wd.SchemaNode{Type: wd.TypeBoolean}, "true").Bool() {
		t.Fatalf("Bool() = false for true")
	}
}

func TestParseNames(t *testing.T) {
	for _, m := range wd.Modes() {
		got, err := wd.ParseMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseMode(%q) = %v, %v", m, got, err)
		}
	}
	if m, err := wd.ParseMode(""); err != nil || m != 0 {
		t.Fatalf("ParseMode(\"\") = %v, %v; want basic-mode marker", m, err)
	}
	if _, err := wd.ParseMode("report-some"); !errors.Is(err, wd.ErrUnsupportedMode) {
		t.Fatalf("ParseMode(report-some): want ErrUnsupportedMode, got %v", err)
	}
	for _, k := range []wd.Kind{wd.KindLeaf, wd.KindLeafList, wd.KindContainer, wd.KindList} {
		if got, err := wd.ParseKind(k.String()); err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k, got, err)
		}
	}
	if typ, err := wd.ParseLeafType("decimal64"); err != nil || typ != wd.TypeDecimal64 {
		t.Fatalf("ParseLeafType(decimal64) = %v, %v", typ, err)
	}
	if _, err := wd.ParseLeafType("bits"); err == nil {
		t.Fatalf("ParseLeafType(bits) accepted")
	}
}

// Package cborwire renders with-defaults replies as name-based YANG-CBOR
// (RFC 9254). Members are named as in RFC 7951 JSON; default-tagged leaves
// carry an "@name" metadata map.
package cborwire

import (
	"io"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"

	wd "github.com/reoring/withdefaults"
	"github.com/reoring/withdefaults/codec/jsonwire"
)

// encMode uses Core Deterministic Encoding (RFC 8949 section 4.2) so the
// same reply always produces identical bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cborwire: CBOR encoder initialization failed: " + err.Error())
	}
	wd.RegisterSerializer(Serializer{})
}

// Serializer writes CBOR.
type Serializer struct{}

func (Serializer) Name() string { return "cbor" }

func (Serializer) Serialize(w io.Writer, r *wd.Reply) error {
	b, err := Marshal(r)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Marshal encodes r.
func Marshal(r *wd.Reply) ([]byte, error) {
	v, err := object(r.Data)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(v)
}

func object(n *wd.ReplyNode) (map[string]any, error) {
	out := make(map[string]any, len(n.Children))
	for _, c := range n.Children {
		name := jsonwire.MemberName(n, c)
		switch c.Kind {
		case wd.KindLeaf:
			v, err := scalar(c)
			if err != nil {
				return nil, err
			}
			out[name] = v
			if c.Default {
				out["@"+name] = map[string]any{jsonwire.DefaultAnnotation: true}
			}
		case wd.KindLeafList:
			v, err := scalar(c)
			if err != nil {
				return nil, err
			}
			arr, _ := out[name].([]any)
			out[name] = append(arr, v)
			meta, _ := out["@"+name].([]any)
			var m any
			if c.Default {
				m = map[string]any{jsonwire.DefaultAnnotation: true}
			}
			out["@"+name] = append(meta, m)
		case wd.KindList:
			v, err := object(c)
			if err != nil {
				return nil, err
			}
			arr, _ := out[name].([]any)
			out[name] = append(arr, v)
		default:
			v, err := object(c)
			if err != nil {
				return nil, err
			}
			out[name] = v
		}
	}
	dropUntaggedMeta(n, out)
	return out, nil
}

// dropUntaggedMeta removes leaf-list metadata arrays with no tagged entry.
func dropUntaggedMeta(n *wd.ReplyNode, out map[string]any) {
	for _, c := range n.Children {
		if c.Kind != wd.KindLeafList {
			continue
		}
		key := "@" + jsonwire.MemberName(n, c)
		meta, ok := out[key].([]any)
		if !ok {
			continue
		}
		tagged := false
		for _, m := range meta {
			tagged = tagged || m != nil
		}
		if !tagged {
			delete(out, key)
		}
	}
}

// scalar maps a canonical value onto its RFC 9254 section 6 encoding.
func scalar(n *wd.ReplyNode) (any, error) {
	switch {
	case n.Type == wd.TypeBoolean:
		return n.Value == "true", nil
	case n.Type == wd.TypeEmpty:
		return nil, nil
	case n.Type.IsSigned():
		return strconv.ParseInt(n.Value, 10, 64)
	case n.Type.IsUnsigned():
		return strconv.ParseUint(n.Value, 10, 64)
	case n.Type == wd.TypeDecimal64:
		return decimalFraction(n.Value)
	default:
		return n.Value, nil
	}
}

// decimalFraction encodes a canonical decimal64 as tag 4 [exponent, mantissa].
func decimalFraction(canon string) (cbor.Tag, error) {
	intPart, frac, _ := strings.Cut(canon, ".")
	frac = strings.TrimRight(frac, "0")
	m, err := strconv.ParseInt(intPart+frac, 10, 64)
	if err != nil {
		return cbor.Tag{}, err
	}
	return cbor.Tag{Number: 4, Content: []any{-len(frac), m}}, nil
}

// Package jsonwire renders with-defaults replies as RFC 7951 JSON.
//
// The datastore root becomes the outermost object. Member names are
// qualified with their module name at the top level and wherever the module
// changes. Default-tagged leaves are annotated in RFC 7952 style:
//
//	"name": "Test",
//	"@name": {"ietf-netconf-with-defaults:default": true}
package jsonwire

import (
	"bytes"
	"io"

	"github.com/goccy/go-json"

	wd "github.com/reoring/withdefaults"
)

// DefaultAnnotation is the qualified name of the default-indicator metadata.
const DefaultAnnotation = "ietf-netconf-with-defaults:default"

func init() { wd.RegisterSerializer(Serializer{Indent: "  "}) }

// Serializer writes JSON. An empty Indent produces compact output.
type Serializer struct {
	Indent string
}

func (Serializer) Name() string { return "json" }

func (s Serializer) Serialize(w io.Writer, r *wd.Reply) error {
	b, err := s.marshal(r)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Marshal renders r with two-space indentation.
func Marshal(r *wd.Reply) ([]byte, error) { return Serializer{Indent: "  "}.marshal(r) }

func (s Serializer) marshal(r *wd.Reply) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := writeObject(buf, r.Data); err != nil {
		return nil, err
	}
	if s.Indent == "" {
		return buf.Bytes(), nil
	}
	out := &bytes.Buffer{}
	if err := json.Indent(out, buf.Bytes(), "", s.Indent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// writeObject writes the members of an interior node. Consecutive entries of
// the same list or leaf-list collapse into one array member.
func writeObject(buf *bytes.Buffer, n *wd.ReplyNode) error {
	buf.WriteByte('{')
	first := true
	for i := 0; i < len(n.Children); {
		c := n.Children[i]
		j := i + 1
		if c.Kind == wd.KindList || c.Kind == wd.KindLeafList {
			for j < len(n.Children) && n.Children[j].Name == c.Name && n.Children[j].Module == c.Module {
				j++
			}
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeMember(buf, n, n.Children[i:j]); err != nil {
			return err
		}
		i = j
	}
	buf.WriteByte('}')
	return nil
}

func writeMember(buf *bytes.Buffer, parent *wd.ReplyNode, group []*wd.ReplyNode) error {
	c := group[0]
	name := MemberName(parent, c)
	if err := writeString(buf, name); err != nil {
		return err
	}
	buf.WriteByte(':')

	switch c.Kind {
	case wd.KindLeaf:
		if err := writeScalar(buf, c); err != nil {
			return err
		}
		if c.Default {
			buf.WriteByte(',')
			if err := writeString(buf, "@"+name); err != nil {
				return err
			}
			buf.WriteString(`:{"` + DefaultAnnotation + `":true}`)
		}
	case wd.KindLeafList:
		tagged := false
		buf.WriteByte('[')
		for i, e := range group {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, e); err != nil {
				return err
			}
			tagged = tagged || e.Default
		}
		buf.WriteByte(']')
		if tagged {
			buf.WriteByte(',')
			if err := writeString(buf, "@"+name); err != nil {
				return err
			}
			buf.WriteString(":[")
			for i, e := range group {
				if i > 0 {
					buf.WriteByte(',')
				}
				if e.Default {
					buf.WriteString(`{"` + DefaultAnnotation + `":true}`)
				} else {
					buf.WriteString("null")
				}
			}
			buf.WriteByte(']')
		}
	case wd.KindList:
		buf.WriteByte('[')
		for i, e := range group {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeObject(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return writeObject(buf, c)
	}
	return nil
}

// MemberName returns the RFC 7951 member name of child under parent.
func MemberName(parent, child *wd.ReplyNode) string {
	if parent.Name == "" || parent.Module != child.Module {
		return child.Module + ":" + child.Name
	}
	return child.Name
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// writeScalar encodes a value per RFC 7951 section 6: 8/16/32-bit integers
// and booleans are JSON literals, 64-bit integers and decimal64 are strings,
// empty is [null].
func writeScalar(buf *bytes.Buffer, n *wd.ReplyNode) error {
	switch n.Type {
	case wd.TypeInt8, wd.TypeInt16, wd.TypeInt32, wd.TypeUint8, wd.TypeUint16, wd.TypeUint32, wd.TypeBoolean:
		buf.WriteString(n.Value)
		return nil
	case wd.TypeEmpty:
		buf.WriteString("[null]")
		return nil
	default:
		return writeString(buf, n.Value)
	}
}

// Package xmlwire renders with-defaults replies as NETCONF XML.
//
// The datastore root becomes <data> in the NETCONF base namespace; each
// element declares xmlns when its namespace differs from its parent's, and
// leaves reported with the default indicator carry
// ncwd:default="true" in the ietf-netconf-with-defaults namespace.
package xmlwire

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"

	wd "github.com/reoring/withdefaults"
)

const (
	// BaseNamespace is the NETCONF base namespace of the <data> element.
	BaseNamespace = "urn:ietf:params:xml:ns:netconf:base:1.0"
	// DefaultsNamespace qualifies the default-indicator attribute.
	DefaultsNamespace = "urn:ietf:params:xml:ns:yang:ietf-netconf-with-defaults"
)

func init() { wd.RegisterSerializer(Serializer{Indent: "  "}) }

// Serializer writes XML. An empty Indent produces compact output.
type Serializer struct {
	Indent string
}

func (Serializer) Name() string { return "xml" }

func (s Serializer) Serialize(w io.Writer, r *wd.Reply) error {
	bw := bufio.NewWriter(w)
	e := &encoder{w: bw, indent: s.Indent}
	e.element(r.Data, "data", BaseNamespace, "", 0)
	if e.err != nil {
		return e.err
	}
	return bw.Flush()
}

// Marshal renders r with two-space indentation.
func Marshal(r *wd.Reply) ([]byte, error) {
	b := &strings.Builder{}
	if err := (Serializer{Indent: "  "}).Serialize(b, r); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

type encoder struct {
	w      *bufio.Writer
	indent string
	err    error
}

func (e *encoder) str(s string) {
	if e.err == nil {
		_, e.err = e.w.WriteString(s)
	}
}

func (e *encoder) text(s string) {
	if e.err == nil {
		e.err = xml.EscapeText(e.w, []byte(s))
	}
}

func (e *encoder) pad(depth int) {
	if e.indent != "" {
		e.str(strings.Repeat(e.indent, depth))
	}
}

func (e *encoder) newline() {
	if e.indent != "" {
		e.str("\n")
	}
}

func (e *encoder) element(n *wd.ReplyNode, name, ns, parentNS string, depth int) {
	e.pad(depth)
	e.str("<" + name)
	if ns != "" && ns != parentNS {
		e.str(` xmlns="`)
		e.text(ns)
		e.str(`"`)
	}
	if n.Default {
		e.str(` xmlns:ncwd="` + DefaultsNamespace + `" ncwd:default="true"`)
	}

	switch {
	case n.Kind.IsTerminal() && n.Type == wd.TypeEmpty:
		e.str("/>")
	case n.Kind.IsTerminal():
		e.str(">")
		e.text(n.Value)
		e.str("</" + name + ">")
	case len(n.Children) == 0:
		e.str("/>")
	default:
		e.str(">")
		e.newline()
		for _, c := range n.Children {
			e.element(c, c.Name, c.Namespace, ns, depth+1)
		}
		e.pad(depth)
		e.str("</" + name + ">")
	}
	e.newline()
}

package withdefaults_test

import (
	"fmt"
	"strings"
	"testing"

	wd "github.com/reoring/withdefaults"
)

// exampleSchema builds:
//
//	container system {
//	  leaf hostname { type string; default localhost; }
//	  leaf mtu { type uint16; default 1500; }
//	  leaf ratio { type decimal64 { fraction-digits 2; } default 0.5; }
//	  container logging {
//	    leaf level { type enumeration { enum debug; enum info; enum warn; } default info; }
//	    leaf-list target { type string; default console; default syslog; }
//	  }
//	  container tls { presence; leaf port { type uint16; default 6513; } }
//	  list interface {
//	    key name;
//	    leaf name { type string; }
//	    leaf enabled { type boolean; default true; }
//	    leaf-list dns { type string; }
//	  }
//	}
func exampleSchema(t *testing.T) *wd.Registry {
	t.Helper()
	hostname := &wd.SchemaNode{Name: "hostname", Kind: wd.KindLeaf, Type: wd.TypeString}
	hostname.Defaults = []wd.Value{mustValue(t, hostname, "localhost")}
	mtu := &wd.SchemaNode{Name: "mtu", Kind: wd.KindLeaf, Type: wd.TypeUint16}
	mtu.Defaults = []wd.Value{mustValue(t, mtu, 1500)}
	ratio := &wd.SchemaNode{Name: "ratio", Kind: wd.KindLeaf, Type: wd.TypeDecimal64, FractionDigits: 2}
	ratio.Defaults = []wd.Value{mustValue(t, ratio, "0.50")}

	level := &wd.SchemaNode{Name: "level", Kind: wd.KindLeaf, Type: wd.TypeEnumeration, Enums: []string{"debug", "info", "warn"}}
	level.Defaults = []wd.Value{mustValue(t, level, "info")}
	target := &wd.SchemaNode{Name: "target", Kind: wd.KindLeafList, Type: wd.TypeString}
	target.Defaults = []wd.Value{mustValue(t, target, "console"), mustValue(t, target, "syslog")}
	logging := &wd.SchemaNode{Name: "logging", Kind: wd.KindContainer, Children: []*wd.SchemaNode{level, target}}

	port := &wd.SchemaNode{Name: "port", Kind: wd.KindLeaf, Type: wd.TypeUint16}
	port.Defaults = []wd.Value{mustValue(t, port, 6513)}
	tls := &wd.SchemaNode{Name: "tls", Kind: wd.KindContainer, Presence: true, Children: []*wd.SchemaNode{port}}

	enabled := &wd.SchemaNode{Name: "enabled", Kind: wd.KindLeaf, Type: wd.TypeBoolean}
	enabled.Defaults = []wd.Value{mustValue(t, enabled, true)}
	iface := &wd.SchemaNode{
		Name: "interface",
		Kind: wd.KindList,
		Keys: []string{"name"},
		Children: []*wd.SchemaNode{
			{Name: "name", Kind: wd.KindLeaf, Type: wd.TypeString},
			enabled,
			{Name: "dns", Kind: wd.KindLeafList, Type: wd.TypeString},
		},
	}

	system := &wd.SchemaNode{
		Name:      "system",
		Module:    "ex",
		Namespace: "urn:example:system",
		Kind:      wd.KindContainer,
		Children:  []*wd.SchemaNode{hostname, mtu, ratio, logging, tls, iface},
	}
	reg, err := wd.NewRegistry(system)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

// dn builds a datastore node; children after the name become its subtree.
func dn(name string, children ...*wd.DataNode) *wd.DataNode {
	return &wd.DataNode{Name: name, Children: children}
}

func system(children ...*wd.DataNode) *wd.DataNode {
	return dn("", dn("system", children...))
}

func ifaceEntry(name string, children ...*wd.DataNode) *wd.DataNode {
	return dn("interface", append([]*wd.DataNode{leaf("name", name)}, children...)...)
}

func mustBuild(t *testing.T, reg *wd.Registry, rootPath string, data *wd.DataNode) *wd.ValueNode {
	t.Helper()
	tree, err := wd.Build(reg, rootPath, data)
	if err != nil {
		t.Fatalf("Build(%q): %v", rootPath, err)
	}
	return tree
}

// find follows child names from n, taking the first match at each step.
func find(n *wd.ValueNode, names ...string) *wd.ValueNode {
	cur := n
	for _, name := range names {
		var next *wd.ValueNode
		for _, c := range cur.Children {
			if c.Name() == name {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// dump renders a value tree one node per line as path[=value][ origin][ *tag*].
func dump(n *wd.ValueNode) string {
	if n == nil {
		return "<nil>"
	}
	b := &strings.Builder{}
	var walk func(n *wd.ValueNode, prefix string)
	walk = func(n *wd.ValueNode, prefix string) {
		p := prefix + "/" + n.Name()
		if n.Schema.Kind.IsTerminal() {
			fmt.Fprintf(b, "%s=%s", p, n.Value)
		} else {
			b.WriteString(p)
		}
		fmt.Fprintf(b, " %s", n.Origin)
		if n.Tagged {
			b.WriteString(" *tag*")
		}
		b.WriteByte('\n')
		for _, c := range n.Children {
			walk(c, strings.TrimSuffix(p, "/"))
		}
	}
	walk(n, "")
	return b.String()
}

// leafSet collects path=value for every terminal node.
func leafSet(n *wd.ValueNode) map[string]bool {
	out := map[string]bool{}
	var walk func(n *wd.ValueNode, prefix string)
	walk = func(n *wd.ValueNode, prefix string) {
		p := prefix + "/" + n.Name()
		if n.Schema.Kind.IsTerminal() {
			out[p+"="+n.Value.String()] = true
		}
		for _, c := range n.Children {
			walk(c, strings.TrimSuffix(p, "/"))
		}
	}
	if n != nil {
		walk(n, "")
	}
	return out
}

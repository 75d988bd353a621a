package withdefaults_test

import (
	"strings"
	"testing"

	wd "github.com/reoring/withdefaults"
)

func TestNewRegistry_InheritsModuleAndNamespace(t *testing.T) {
	reg := exampleSchema(t)
	n, ok := reg.Lookup("/system/interface/enabled")
	if !ok {
		t.Fatalf("lookup failed")
	}
	if n.Module != "ex" || n.Namespace != "urn:example:system" {
		t.Fatalf("inherited module/namespace = %q/%q", n.Module, n.Namespace)
	}
	if n.Path() != "/system/interface/enabled" {
		t.Fatalf("path = %q", n.Path())
	}
}

func TestRegistry_Lookup(t *testing.T) {
	reg := exampleSchema(t)
	cases := []struct {
		path string
		want string
		ok   bool
	}{
		{"", "/", true},
		{"/", "/", true},
		{"/system", "/system", true},
		{"/ex:system/ex:logging/level", "/system/logging/level", true},
		{"/system/logging/", "/system/logging", true},
		{"system", "", false},
		{"/system/missing", "", false},
	}
	for _, tc := range cases {
		n, ok := reg.Lookup(tc.path)
		if ok != tc.ok {
			t.Fatalf("Lookup(%q) ok=%v, want %v", tc.path, ok, tc.ok)
		}
		if ok && n.Path() != tc.want {
			t.Fatalf("Lookup(%q) = %q, want %q", tc.path, n.Path(), tc.want)
		}
	}
	if reg.Root().Kind != wd.KindContainer || !reg.Root().Presence {
		t.Fatalf("registry root must be a presence container")
	}
}

func TestNewRegistry_Rejects(t *testing.T) {
	str := func(name string) *wd.SchemaNode {
		return &wd.SchemaNode{Name: name, Kind: wd.KindLeaf, Type: wd.TypeString}
	}
	withDefault := func(n *wd.SchemaNode, raw ...any) *wd.SchemaNode {
		for _, r := range raw {
			v, err := n.ParseValue(r)
			if err != nil {
				t.Fatalf("ParseValue(%v): %v", r, err)
			}
			n.Defaults = append(n.Defaults, v)
		}
		return n
	}
	top := func(children ...*wd.SchemaNode) *wd.SchemaNode {
		return &wd.SchemaNode{Name: "top", Module: "m", Kind: wd.KindContainer, Children: children}
	}
	mandatory := withDefault(str("a"), "x")
	mandatory.Mandatory = true
	wrongType := str("b")
	wrongType.Defaults = []wd.Value{withDefault(&wd.SchemaNode{Kind: wd.KindLeaf, Type: wd.TypeInt8}, 1).Defaults[0]}

	cases := []struct {
		name string
		root *wd.SchemaNode
		want string
	}{
		{"missing module", &wd.SchemaNode{Name: "top", Kind: wd.KindContainer}, "no module"},
		{"duplicate", top(str("a"), str("a")), "duplicate"},
		{"bad name", top(str("a/b")), "invalid node name"},
		{"two leaf defaults", top(withDefault(str("a"), "x", "y")), "declares 2 defaults"},
		{"mandatory with default", top(mandatory), "mandatory"},
		{"default type", top(wrongType), "has type int8"},
		{"leaf children", top(&wd.SchemaNode{Name: "a", Kind: wd.KindLeaf, Children: []*wd.SchemaNode{str("b")}}), "cannot have children"},
		{"list without keys", top(&wd.SchemaNode{Name: "l", Kind: wd.KindList, Children: []*wd.SchemaNode{str("k")}}), "has no keys"},
		{"missing key leaf", top(&wd.SchemaNode{Name: "l", Kind: wd.KindList, Keys: []string{"id"}, Children: []*wd.SchemaNode{str("k")}}), "is not a child leaf"},
		{"key with default", top(&wd.SchemaNode{Name: "l", Kind: wd.KindList, Keys: []string{"k"}, Children: []*wd.SchemaNode{withDefault(str("k"), "x")}}), "key leaf"},
		{"container default", &wd.SchemaNode{Name: "top", Module: "m", Kind: wd.KindContainer, Defaults: []wd.Value{{}}}, "cannot declare a default"},
		{"unknown kind", top(&wd.SchemaNode{Name: "x", Kind: wd.Kind(9)}), "unknown kind"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := wd.NewRegistry(tc.root)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("want error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSchemaNode_Default(t *testing.T) {
	reg := exampleSchema(t)
	mtu, _ := reg.Lookup("/system/mtu")
	if d, ok := mtu.Default(); !ok || d.String() != "1500" {
		t.Fatalf("mtu default = %v, %v", d, ok)
	}
	target, _ := reg.Lookup("/system/logging/target")
	if _, ok := target.Default(); ok {
		t.Fatalf("Default() must report false for leaf-lists")
	}
	if !target.HasDefault() || len(target.Defaults) != 2 {
		t.Fatalf("target defaults = %v", target.Defaults)
	}
	iface, _ := reg.Lookup("/system/interface")
	if !iface.IsKey("name") || iface.IsKey("enabled") {
		t.Fatalf("IsKey mismatch for interface")
	}
}

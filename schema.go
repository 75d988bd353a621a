package withdefaults

import (
	"fmt"
	"slices"
	"strings"
)

// SchemaNode is one compiled schema node. Nodes are owned by a Registry and
// must not be modified once passed to NewRegistry.
type SchemaNode struct {
	Name      string
	Module    string // Module name, inherited from the parent when empty.
	Namespace string // XML namespace, inherited from the parent when empty.
	Kind      Kind

	// Leaf and leaf-list typing.
	Type           LeafType
	Enums          []string // TypeEnumeration only.
	FractionDigits int      // TypeDecimal64 only.

	// Defaults holds the declared default: at most one value for a leaf, the
	// default set for a leaf-list, nothing for interior nodes.
	Defaults []Value

	Mandatory bool
	Presence  bool     // Presence container.
	Keys      []string // List key leaf names.

	Children []*SchemaNode

	path string
}

// Path returns the schema path, such as /top/name. The registry root is "/".
func (n *SchemaNode) Path() string { return n.path }

// Default returns the declared default of a leaf.
func (n *SchemaNode) Default() (Value, bool) {
	if n.Kind != KindLeaf || len(n.Defaults) == 0 {
		return Value{}, false
	}
	return n.Defaults[0], true
}

// HasDefault reports whether a default is declared.
func (n *SchemaNode) HasDefault() bool { return len(n.Defaults) > 0 }

// Child returns the direct child called name, or nil.
func (n *SchemaNode) Child(name string) *SchemaNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// IsKey reports whether child is a key leaf of list n.
func (n *SchemaNode) IsKey(child string) bool {
	return n.Kind == KindList && slices.Contains(n.Keys, child)
}

// hasDefaultable reports whether a default could be synthesized somewhere
// below n without any stored instance.
func (n *SchemaNode) hasDefaultable() bool {
	switch n.Kind {
	case KindLeaf, KindLeafList:
		return n.HasDefault()
	case KindContainer:
		if n.Presence {
			return false
		}
		for _, c := range n.Children {
			if c.hasDefaultable() {
				return true
			}
		}
	}
	return false
}

// Registry maps schema paths to nodes. It is read-only after construction
// and safe for concurrent use.
type Registry struct {
	root  *SchemaNode
	index map[string]*SchemaNode
}

// NewRegistry validates the given top-level nodes and indexes them under a
// synthetic datastore root.
func NewRegistry(roots ...*SchemaNode) (*Registry, error) {
	root := &SchemaNode{Kind: KindContainer, Presence: true, Children: roots, path: "/"}
	r := &Registry{root: root, index: map[string]*SchemaNode{"/": root}}
	for _, n := range roots {
		if n == nil {
			return nil, fmt.Errorf("withdefaults: nil schema node")
		}
		if n.Module == "" {
			return nil, fmt.Errorf("withdefaults: top-level node %q has no module", n.Name)
		}
		if err := r.add(n, root, ""); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(n, parent *SchemaNode, prefix string) error {
	if n.Name == "" || strings.ContainsAny(n.Name, "/[]") {
		return fmt.Errorf("withdefaults: invalid node name %q under %s", n.Name, parent.path)
	}
	n.path = prefix + "/" + n.Name
	if _, dup := r.index[n.path]; dup {
		return fmt.Errorf("withdefaults: duplicate schema node %s", n.path)
	}
	if n.Module == "" {
		n.Module = parent.Module
	}
	if n.Namespace == "" {
		n.Namespace = parent.Namespace
	}
	r.index[n.path] = n

	switch n.Kind {
	case KindLeaf, KindLeafList:
		if len(n.Children) > 0 {
			return fmt.Errorf("withdefaults: %s %s cannot have children", n.Kind, n.path)
		}
		if n.Kind == KindLeaf && len(n.Defaults) > 1 {
			return fmt.Errorf("withdefaults: leaf %s declares %d defaults", n.path, len(n.Defaults))
		}
		if n.Mandatory && n.HasDefault() {
			return fmt.Errorf("withdefaults: mandatory leaf %s cannot declare a default", n.path)
		}
		for _, d := range n.Defaults {
			if d.Type != n.Type {
				return fmt.Errorf("withdefaults: default %q of %s has type %s, want %s", d, n.path, d.Type, n.Type)
			}
		}
		if parent.IsKey(n.Name) && n.HasDefault() {
			return fmt.Errorf("withdefaults: key leaf %s cannot declare a default", n.path)
		}
		return nil
	case KindList:
		if len(n.Keys) == 0 {
			return fmt.Errorf("withdefaults: list %s has no keys", n.path)
		}
		for _, k := range n.Keys {
			if c := n.Child(k); c == nil || c.Kind != KindLeaf {
				return fmt.Errorf("withdefaults: list %s key %q is not a child leaf", n.path, k)
			}
		}
	case KindContainer:
	default:
		return fmt.Errorf("withdefaults: %s has unknown kind %d", n.path, n.Kind)
	}
	if n.HasDefault() {
		return fmt.Errorf("withdefaults: %s %s cannot declare a default", n.Kind, n.path)
	}
	for _, c := range n.Children {
		if c == nil {
			return fmt.Errorf("withdefaults: nil child under %s", n.path)
		}
		if err := r.add(c, n, n.path); err != nil {
			return err
		}
	}
	return nil
}

// Root returns the synthetic datastore root. Its children are the
// top-level schema nodes.
func (r *Registry) Root() *SchemaNode { return r.root }

// Lookup returns the schema node at path. Module prefixes on segments
// ("/defaults1:top/name") and a trailing slash are accepted. "" and "/"
// return the root.
func (r *Registry) Lookup(path string) (*SchemaNode, bool) {
	segs, ok := splitPath(path)
	if !ok {
		return nil, false
	}
	n, ok := r.index["/"+strings.Join(segs, "/")]
	return n, ok
}

// splitPath normalizes a schema path into its node names.
func splitPath(path string) ([]string, bool) {
	path = strings.TrimSpace(path)
	if path != "" && !strings.HasPrefix(path, "/") {
		return nil, false
	}
	var segs []string
	for _, p := range strings.Split(path, "/") {
		if p == "" {
			continue
		}
		if _, name, found := strings.Cut(p, ":"); found {
			p = name
		}
		segs = append(segs, p)
	}
	return segs, true
}

package withdefaults

import "context"

// DataNode is one node of a raw datastore snapshot. The root node of a
// snapshot is unnamed and stands for the datastore itself; its children are
// top-level data nodes. Each list entry and leaf-list entry is a separate
// DataNode sharing the schema node's name.
type DataNode struct {
	Name     string
	Value    any // Leaves and leaf-list entries only.
	Children []*DataNode

	// Default marks a node the datastore instantiated itself from the schema
	// default rather than storing a client write.
	Default bool
}

// Child returns the first child called name, or nil.
func (d *DataNode) Child(name string) *DataNode {
	if d == nil {
		return nil
	}
	for _, c := range d.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Clone returns a deep copy of d.
func (d *DataNode) Clone() *DataNode {
	if d == nil {
		return nil
	}
	out := &DataNode{Name: d.Name, Value: d.Value, Default: d.Default}
	if len(d.Children) > 0 {
		out.Children = make([]*DataNode, len(d.Children))
		for i, c := range d.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Reader reads a consistent point-in-time snapshot of a datastore. The
// returned tree starts at the datastore root and must contain at least the
// branch selected by rootPath (ancestors plus the full subtree below it).
// Callers own the returned tree.
type Reader interface {
	ReadSubtree(ctx context.Context, rootPath string) (*DataNode, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(ctx context.Context, rootPath string) (*DataNode, error)

func (f ReaderFunc) ReadSubtree(ctx context.Context, rootPath string) (*DataNode, error) {
	return f(ctx, rootPath)
}

type verdict uint8

const (
	verdictUnknown verdict = iota
	verdictDefault
	verdictNotDefault
	verdictStructural // list entries: never collapsed
)

// ValueNode is one instance in the tree built for a single retrieval.
// Children are kept in schema order; list and leaf-list entries keep
// datastore order.
type ValueNode struct {
	Schema   *SchemaNode
	Value    Value // Leaves and leaf-list entries only.
	Origin   Origin
	Children []*ValueNode

	// Tagged is set on filter output for leaves reported with the
	// default-indicator attribute.
	Tagged bool

	verdict verdict
}

// Name returns the schema node name.
func (n *ValueNode) Name() string { return n.Schema.Name }

// Explicit reports whether the node was written by a client.
func (n *ValueNode) Explicit() bool { return n.Origin == OriginExplicit }

// WithChildren returns a shallow copy of n holding children instead of the
// original ones. The classification verdict and tag are carried over.
func (n *ValueNode) WithChildren(children []*ValueNode) *ValueNode {
	cp := *n
	cp.Children = children
	return &cp
}

// Walk visits n and its descendants in pre-order until fn returns false.
func (n *ValueNode) Walk(fn func(*ValueNode) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the tree rooted at n.
func (n *ValueNode) Count() int {
	if n == nil {
		return 0
	}
	total := 0
	n.Walk(func(*ValueNode) bool { total++; return true })
	return total
}

// createdEmpty reports whether a client created this interior node without
// writing anything below it.
func (n *ValueNode) createdEmpty() bool {
	if n.Origin != OriginExplicit {
		return false
	}
	for _, c := range n.Children {
		if c.Origin == OriginExplicit {
			return false
		}
	}
	return true
}

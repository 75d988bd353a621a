package withdefaults

// ReplyNode is the format-agnostic reply tree handed to serializers. The
// root node stands for the datastore ("data") and has an empty Name.
type ReplyNode struct {
	Name      string
	Module    string
	Namespace string
	Kind      Kind
	Type      LeafType // Leaves and leaf-list entries.
	Value     string   // Canonical lexical form.
	Default   bool     // Default-indicator attribute.
	Children  []*ReplyNode
}

// Reply is the assembled result of one retrieval.
type Reply struct {
	Mode Mode       // Effective mode after basic-mode resolution.
	Data *ReplyNode // Never nil; an empty datastore yields a childless root.
}

// Assemble converts a filtered value tree into a Reply, preserving child
// order. A nil root yields an empty data node.
func Assemble(root *ValueNode, mode Mode) *Reply {
	r := &Reply{Mode: mode, Data: &ReplyNode{Kind: KindContainer}}
	if root == nil {
		return r
	}
	r.Data = assembleNode(root)
	return r
}

func assembleNode(n *ValueNode) *ReplyNode {
	out := &ReplyNode{
		Name:      n.Schema.Name,
		Module:    n.Schema.Module,
		Namespace: n.Schema.Namespace,
		Kind:      n.Schema.Kind,
	}
	if n.Schema.Kind.IsTerminal() {
		out.Type = n.Value.Type
		out.Value = n.Value.String()
		out.Default = n.Tagged
		return out
	}
	if len(n.Children) > 0 {
		out.Children = make([]*ReplyNode, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = assembleNode(c)
		}
	}
	return out
}

// Find returns the first descendant reached by following names, or nil.
func (n *ReplyNode) Find(names ...string) *ReplyNode {
	cur := n
	for _, name := range names {
		var next *ReplyNode
		for _, c := range cur.Children {
			if c.Name == name {
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

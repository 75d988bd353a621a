package withdefaults

import "context"

// Pruner is an order-composable filtering stage over a value tree. It must
// not modify its input; it returns a pruned copy, or nil when nothing of the
// tree survives. Access control plugs in as a Pruner before or after the
// mode filter.
type Pruner interface {
	Prune(ctx context.Context, root *ValueNode) (*ValueNode, error)
}

// PrunerFunc adapts a function to the Pruner interface.
type PrunerFunc func(ctx context.Context, root *ValueNode) (*ValueNode, error)

func (f PrunerFunc) Prune(ctx context.Context, root *ValueNode) (*ValueNode, error) {
	return f(ctx, root)
}

// Filter applies mode to the tree rooted at root and returns the pruned copy,
// or nil when the root itself is omitted. The input tree is left untouched
// apart from memoized verdicts, so filtering twice yields identical output.
//
// Filter panics if mode is not one of the four retrieval modes; callers
// resolve the basic-mode beforehand.
func Filter(root *ValueNode, mode Mode) *ValueNode {
	if !mode.Valid() {
		panic("withdefaults: Filter called with " + mode.String())
	}
	if root == nil {
		return nil
	}
	Classify(root)
	return filterNode(root, mode)
}

// ModeFilter exposes Filter as a Pruner.
type ModeFilter struct{ Mode Mode }

func (f ModeFilter) Prune(_ context.Context, root *ValueNode) (*ValueNode, error) {
	if !f.Mode.Valid() {
		return nil, unsupportedMode(f.Mode.String())
	}
	return Filter(root, f.Mode), nil
}

func filterNode(n *ValueNode, mode Mode) *ValueNode {
	if n.Schema.Kind.IsTerminal() {
		return filterTerminal(n, mode)
	}

	var kids []*ValueNode
	for _, c := range n.Children {
		if k := filterNode(c, mode); k != nil {
			kids = append(kids, k)
		}
	}
	out := n.WithChildren(kids)
	out.Tagged = false
	if n.Schema.Kind == KindList || len(kids) > 0 {
		return out
	}

	switch mode {
	case ModeTrim:
		if n.Origin == OriginExplicit && (n.Schema.Presence || n.createdEmpty()) {
			return out
		}
		return nil
	case ModeExplicit:
		if n.Origin == OriginExplicit {
			return out
		}
		return nil
	}
	return out
}

func filterTerminal(n *ValueNode, mode Mode) *ValueNode {
	switch mode {
	case ModeTrim:
		if n.IsDefault() {
			return nil
		}
	case ModeExplicit:
		if n.Origin != OriginExplicit {
			return nil
		}
	}
	out := n.WithChildren(nil)
	out.Tagged = mode == ModeReportAllTagged && n.IsDefault()
	return out
}

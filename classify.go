package withdefaults

// Classify computes the default verdict of every node below root in a single
// post-order pass. Verdicts are memoized on the nodes, so calling Classify
// again, or IsDefault afterwards, does no further work.
//
//   - A leaf is default iff its value equals the declared default, whatever
//     its origin.
//   - A leaf-list entry is default iff the instance set of its leaf-list
//     equals the declared default set, in order.
//   - A container is default iff it is ImplicitDefault, has at least one
//     child, and every child is default.
//   - List entries are structural and never default; their children are
//     classified individually.
func Classify(root *ValueNode) {
	if root == nil || root.verdict != verdictUnknown {
		return
	}
	classifyNode(root)
}

// IsDefault returns the memoized verdict of n, classifying its subtree first
// when needed. A leaf-list entry classified outside its parent is judged on
// its own value.
func (n *ValueNode) IsDefault() bool {
	if n.verdict == verdictUnknown {
		classifyNode(n)
	}
	return n.verdict == verdictDefault
}

func classifyNode(n *ValueNode) {
	switch n.Schema.Kind {
	case KindLeaf:
		d, ok := n.Schema.Default()
		n.verdict = verdictOf(ok && n.Value.Equal(d))
	case KindLeafList:
		n.verdict = verdictOf(n.Schema.HasDefault() && n.Value.Equal(n.Schema.Defaults[0]) && len(n.Schema.Defaults) == 1)
	case KindContainer:
		classifyChildren(n)
		all := len(n.Children) > 0 && n.Origin == OriginImplicitDefault
		for _, c := range n.Children {
			all = all && c.verdict == verdictDefault
		}
		n.verdict = verdictOf(all)
	case KindList:
		classifyChildren(n)
		n.verdict = verdictStructural
	}
}

func classifyChildren(n *ValueNode) {
	for i := 0; i < len(n.Children); {
		c := n.Children[i]
		if c.Schema.Kind != KindLeafList {
			if c.verdict == verdictUnknown {
				classifyNode(c)
			}
			i++
			continue
		}
		j := i + 1
		for j < len(n.Children) && n.Children[j].Schema == c.Schema {
			j++
		}
		classifyLeafList(n.Children[i:j])
		i = j
	}
}

// classifyLeafList judges the whole instance set of one leaf-list.
func classifyLeafList(entries []*ValueNode) {
	defaults := entries[0].Schema.Defaults
	match := len(defaults) == len(entries)
	for i := 0; match && i < len(entries); i++ {
		match = entries[i].Value.Equal(defaults[i])
	}
	for _, e := range entries {
		e.verdict = verdictOf(match)
	}
}

func verdictOf(b bool) verdict {
	if b {
		return verdictDefault
	}
	return verdictNotDefault
}

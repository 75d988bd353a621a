// Package access implements read access control over value trees as an
// order-composable pruning stage.
package access

import (
	"context"
	"fmt"
	"strings"

	wd "github.com/reoring/withdefaults"
)

// Action is the effect of a rule.
type Action int

const (
	Permit Action = iota
	Deny
)

func (a Action) String() string {
	if a == Deny {
		return "deny"
	}
	return "permit"
}

// ParseAction parses "permit" or "deny".
func ParseAction(s string) (Action, error) {
	switch s {
	case "permit", "":
		return Permit, nil
	case "deny":
		return Deny, nil
	}
	return 0, fmt.Errorf("access: unknown action %q", s)
}

// Rule applies Action to the schema node at Path and everything below it.
type Rule struct {
	Path   string
	Action Action
}

// ReadFilter drops nodes the requester may not read. Rules are evaluated in
// order and the first rule whose path covers a node decides; Default
// applies when none does. A denied node is omitted with its subtree unless
// a descendant is readable, in which case it is kept bare as the ancestor
// of that descendant. The datastore root is never omitted.
type ReadFilter struct {
	Rules   []Rule
	Default Action
}

var _ wd.Pruner = (*ReadFilter)(nil)

// Prune returns a copy of root without the denied nodes.
func (f *ReadFilter) Prune(ctx context.Context, root *wd.ValueNode) (*wd.ValueNode, error) {
	if root == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.prune(root, f.normalized(), true), nil
}

// Allowed reports whether the schema node at path is readable.
func (f *ReadFilter) Allowed(path string) bool {
	return f.allowed(normalize(path), f.normalized())
}

func (f *ReadFilter) normalized() []Rule {
	rules := make([]Rule, len(f.Rules))
	for i, r := range f.Rules {
		rules[i] = Rule{Path: normalize(r.Path), Action: r.Action}
	}
	return rules
}

func (f *ReadFilter) prune(n *wd.ValueNode, rules []Rule, isRoot bool) *wd.ValueNode {
	path := n.Schema.Path()
	denied := !isRoot && !f.allowed(path, rules)
	if denied && !permitsBelow(path, rules) {
		return nil
	}
	if len(n.Children) == 0 {
		if denied {
			return nil
		}
		return n
	}
	kids := make([]*wd.ValueNode, 0, len(n.Children))
	for _, c := range n.Children {
		if k := f.prune(c, rules, false); k != nil {
			kids = append(kids, k)
		}
	}
	if denied && len(kids) == 0 {
		return nil
	}
	return n.WithChildren(kids)
}

// permitsBelow reports whether a Permit rule names a strict descendant of
// path.
func permitsBelow(path string, rules []Rule) bool {
	for _, r := range rules {
		if r.Action == Permit && r.Path != path && covers(path, r.Path) {
			return true
		}
	}
	return false
}

func (f *ReadFilter) allowed(path string, rules []Rule) bool {
	for _, r := range rules {
		if covers(r.Path, path) {
			return r.Action == Permit
		}
	}
	return f.Default == Permit
}

// covers reports whether prefix equals path or is an ancestor of it.
func covers(prefix, path string) bool {
	if prefix == "/" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// normalize strips module prefixes and trailing slashes.
func normalize(path string) string {
	var segs []string
	for _, p := range strings.Split(path, "/") {
		if p == "" {
			continue
		}
		if _, name, ok := strings.Cut(p, ":"); ok {
			p = name
		}
		segs = append(segs, p)
	}
	return "/" + strings.Join(segs, "/")
}

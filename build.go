package withdefaults

import (
	"slices"
	"strings"
)

// Build constructs the value tree selected by rootPath from a raw datastore
// snapshot. Absent leaves with a schema default are materialized as
// ImplicitDefault nodes; absent non-presence containers are synthesized only
// when something below them has a default. Every stored node is Explicit
// unless the datastore flagged it as a default instance.
//
// The returned root always stands for the datastore root, so a request for
// /top/name yields root -> top -> name. List entries on the ancestor chain
// keep their key leaves.
//
// Build fails with ErrNotFound when rootPath is not a schema path and with
// ErrSchemaMismatch when a stored node disagrees with its schema node.
func Build(reg *Registry, rootPath string, raw *DataNode) (*ValueNode, error) {
	segs, ok := splitPath(rootPath)
	if !ok {
		return nil, notFound(rootPath)
	}
	if _, ok := reg.Lookup(rootPath); !ok {
		return nil, notFound(rootPath)
	}
	root := &ValueNode{Schema: reg.Root(), Origin: OriginExplicit}
	kids, err := buildChildren(reg.Root(), raw, segs, "")
	if err != nil {
		return nil, err
	}
	root.Children = kids
	return root, nil
}

func buildChildren(sch *SchemaNode, raw *DataNode, sel []string, ipath string) ([]*ValueNode, error) {
	var stored []*DataNode
	if raw != nil {
		stored = raw.Children
	}
	if len(sel) == 0 {
		for _, d := range stored {
			if sch.Child(d.Name) == nil {
				return nil, schemaMismatch(ipath+"/"+d.Name, "no schema node %q under %s", d.Name, sch.Path())
			}
		}
	}

	var out []*ValueNode
	for _, c := range sch.Children {
		var rest []string
		switch {
		case len(sel) == 0:
		case c.Name == sel[0]:
			rest = sel[1:]
		case sch.IsKey(c.Name):
		default:
			continue
		}
		inst := instances(stored, c.Name)
		cpath := ipath + "/" + c.Name

		switch c.Kind {
		case KindLeaf:
			if len(inst) > 1 {
				return nil, schemaMismatch(cpath, "leaf stored %d times", len(inst))
			}
			if len(inst) == 1 {
				n, err := buildTerminal(c, inst[0], cpath)
				if err != nil {
					return nil, err
				}
				out = append(out, n)
			} else if d, ok := c.Default(); ok {
				out = append(out, &ValueNode{Schema: c, Value: d, Origin: OriginImplicitDefault})
			}

		case KindLeafList:
			if err := checkDefaultSet(c, inst, cpath); err != nil {
				return nil, err
			}
			for _, d := range inst {
				n, err := buildTerminal(c, d, cpath)
				if err != nil {
					return nil, err
				}
				out = append(out, n)
			}
			if len(inst) == 0 {
				for _, d := range c.Defaults {
					out = append(out, &ValueNode{Schema: c, Value: d, Origin: OriginImplicitDefault})
				}
			}

		case KindContainer:
			if len(inst) > 1 {
				return nil, schemaMismatch(cpath, "container stored %d times", len(inst))
			}
			if len(inst) == 1 {
				d := inst[0]
				if d.Value != nil {
					return nil, schemaMismatch(cpath, "container carries a value")
				}
				kids, err := buildChildren(c, d, rest, cpath)
				if err != nil {
					return nil, err
				}
				origin := OriginExplicit
				if d.Default && !c.Presence {
					origin = OriginImplicitDefault
				}
				out = append(out, &ValueNode{Schema: c, Origin: origin, Children: kids})
				continue
			}
			if c.Presence || !c.hasDefaultable() {
				continue
			}
			kids, err := buildChildren(c, nil, rest, cpath)
			if err != nil {
				return nil, err
			}
			if len(kids) > 0 {
				out = append(out, &ValueNode{Schema: c, Origin: OriginImplicitDefault, Children: kids})
			}

		case KindList:
			for _, d := range inst {
				epath := cpath + entryPredicate(c, d)
				if d.Value != nil {
					return nil, schemaMismatch(epath, "list entry carries a value")
				}
				for _, k := range c.Keys {
					if len(instances(d.Children, k)) != 1 {
						return nil, schemaMismatch(epath, "list entry must store exactly one key %q", k)
					}
				}
				kids, err := buildChildren(c, d, rest, epath)
				if err != nil {
					return nil, err
				}
				out = append(out, &ValueNode{Schema: c, Origin: OriginExplicit, Children: kids})
			}
		}
	}
	return out, nil
}

func buildTerminal(sch *SchemaNode, d *DataNode, path string) (*ValueNode, error) {
	if len(d.Children) > 0 {
		return nil, schemaMismatch(path, "%s has child nodes", sch.Kind)
	}
	if d.Default {
		if !sch.HasDefault() {
			return nil, schemaMismatch(path, "stored as default but the schema declares none")
		}
		if sch.Kind == KindLeaf && d.Value == nil {
			v, _ := sch.Default()
			return &ValueNode{Schema: sch, Value: v, Origin: OriginImplicitDefault}, nil
		}
	}
	v, err := sch.ParseValue(d.Value)
	if err != nil {
		return nil, Issues{{Code: CodeSchemaMismatch, Path: path, Message: err.Error(), Cause: err}}
	}
	if !d.Default {
		return &ValueNode{Schema: sch, Value: v, Origin: OriginExplicit}, nil
	}
	if !slices.ContainsFunc(sch.Defaults, v.Equal) {
		return nil, schemaMismatch(path, "stored as default with non-default value %q", v)
	}
	return &ValueNode{Schema: sch, Value: v, Origin: OriginImplicitDefault}, nil
}

// checkDefaultSet rejects leaf-list instances whose datastore default
// markers do not cover the whole declared default set in order. A partial
// marking would yield implicit entries that are not default.
func checkDefaultSet(sch *SchemaNode, inst []*DataNode, path string) error {
	flagged := 0
	for _, d := range inst {
		if d.Default {
			flagged++
		}
	}
	if flagged == 0 {
		return nil
	}
	if flagged != len(inst) {
		return schemaMismatch(path, "%d of %d entries stored as default", flagged, len(inst))
	}
	if len(inst) != len(sch.Defaults) {
		return schemaMismatch(path, "%d entries stored as default, schema declares %d", len(inst), len(sch.Defaults))
	}
	for i, d := range inst {
		v, err := sch.ParseValue(d.Value)
		if err != nil {
			// reported by buildTerminal with the parse detail
			return nil
		}
		if !v.Equal(sch.Defaults[i]) {
			return schemaMismatch(path, "entry %d stored as default with value %q, want %q", i, v, sch.Defaults[i])
		}
	}
	return nil
}

func instances(stored []*DataNode, name string) []*DataNode {
	var out []*DataNode
	for _, d := range stored {
		if d.Name == name {
			out = append(out, d)
		}
	}
	return out
}

// entryPredicate renders [k='v'] predicates for error paths. Unparseable keys
// are rendered raw; the key check reports them precisely.
func entryPredicate(list *SchemaNode, d *DataNode) string {
	b := &strings.Builder{}
	for _, k := range list.Keys {
		kd := d.Child(k)
		if kd == nil {
			continue
		}
		b.WriteString("[" + k + "='")
		if v, err := list.Child(k).ParseValue(kd.Value); err == nil {
			b.WriteString(v.String())
		} else {
			b.WriteString(describe(kd.Value))
		}
		b.WriteString("']")
	}
	return b.String()
}

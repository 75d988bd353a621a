// Package schemafile loads a compiled schema description from YAML.
//
// YANG compilation is out of scope; the file describes the already compiled
// tree, one entry per data node:
//
//	modules:
//	  - name: defaults1
//	    namespace: def1
//	    nodes:
//	      - name: top
//	        kind: container
//	        children:
//	          - {name: name, kind: leaf, type: string, default: Test}
//	          - {name: num, kind: leaf, type: int32}
//
// A leaf-list lists its default set as a sequence.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	wd "github.com/reoring/withdefaults"
)

// File is the top-level document.
type File struct {
	Modules []Module `yaml:"modules"`
}

// Module groups the top-level nodes of one YANG module.
type Module struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace"`
	Nodes     []Node `yaml:"nodes"`
}

// Node describes one schema node.
type Node struct {
	Name           string    `yaml:"name"`
	Kind           string    `yaml:"kind"`
	Type           string    `yaml:"type,omitempty"`
	Enums          []string  `yaml:"enums,omitempty"`
	FractionDigits int       `yaml:"fraction-digits,omitempty"`
	Default        yaml.Node `yaml:"default,omitempty"`
	Mandatory      bool      `yaml:"mandatory,omitempty"`
	Presence       bool      `yaml:"presence,omitempty"`
	Keys           []string  `yaml:"keys,omitempty"`
	Children       []Node    `yaml:"children,omitempty"`
}

// Load reads and compiles the schema file at path.
func Load(path string) (*wd.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return Parse(data)
}

// Parse compiles a schema document. Unknown fields are rejected.
func Parse(data []byte) (*wd.Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("schemafile: decode: %w", err)
	}
	return f.Compile()
}

// Compile converts the document into a Registry.
func (f *File) Compile() (*wd.Registry, error) {
	var roots []*wd.SchemaNode
	for _, m := range f.Modules {
		if m.Name == "" {
			return nil, errors.New("schemafile: module without name")
		}
		for i := range m.Nodes {
			n, err := m.Nodes[i].compile()
			if err != nil {
				return nil, fmt.Errorf("schemafile: module %s: %w", m.Name, err)
			}
			n.Module = m.Name
			n.Namespace = m.Namespace
			roots = append(roots, n)
		}
	}
	return wd.NewRegistry(roots...)
}

func (n *Node) compile() (*wd.SchemaNode, error) {
	kind, err := wd.ParseKind(n.Kind)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", n.Name, err)
	}
	out := &wd.SchemaNode{
		Name:           n.Name,
		Kind:           kind,
		Enums:          n.Enums,
		FractionDigits: n.FractionDigits,
		Mandatory:      n.Mandatory,
		Presence:       n.Presence,
		Keys:           n.Keys,
	}
	if kind.IsTerminal() {
		if out.Type, err = wd.ParseLeafType(n.Type); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
		if out.Defaults, err = n.defaults(out); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
	} else if !n.Default.IsZero() {
		return nil, fmt.Errorf("node %q: %s cannot declare a default", n.Name, kind)
	}
	for i := range n.Children {
		c, err := n.Children[i].compile()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n.Name, err)
		}
		out.Children = append(out.Children, c)
	}
	return out, nil
}

// defaults parses the declared default(s) from their lexical YAML text, so a
// default of 1 for a string leaf stays the string "1".
func (n *Node) defaults(sch *wd.SchemaNode) ([]wd.Value, error) {
	var lex []string
	switch n.Default.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		lex = []string{n.Default.Value}
	case yaml.SequenceNode:
		if sch.Kind != wd.KindLeafList {
			return nil, errors.New("only a leaf-list may declare a default sequence")
		}
		for _, item := range n.Default.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: default entries must be scalars", item.Line)
			}
			lex = append(lex, item.Value)
		}
	default:
		return nil, fmt.Errorf("line %d: default must be a scalar or a sequence", n.Default.Line)
	}
	out := make([]wd.Value, 0, len(lex))
	for _, s := range lex {
		v, err := sch.ParseValue(s)
		if err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

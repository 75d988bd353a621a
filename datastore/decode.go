package datastore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	wd "github.com/reoring/withdefaults"
)

// DefaultAnnotation marks a node as a datastore default instance, using the
// RFC 7952 form "@name": {"ietf-netconf-with-defaults:default": true}.
const DefaultAnnotation = "ietf-netconf-with-defaults:default"

// DecodeJSON parses RFC 7951 instance data into a datastore tree. Objects
// become containers or list entries, arrays of objects become list entries,
// other arrays become leaf-list entries. Module prefixes are dropped.
func DecodeJSON(data []byte) (*wd.DataNode, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &wd.DataNode{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("datastore: decode json: %w", err)
	}
	return fromDocument(v)
}

// DecodeYAML parses the same shapes as DecodeJSON from YAML.
func DecodeYAML(data []byte) (*wd.DataNode, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("datastore: decode yaml: %w", err)
	}
	return fromDocument(normalizeYAML(v))
}

func fromDocument(v any) (*wd.DataNode, error) {
	if v == nil {
		return &wd.DataNode{}, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("datastore: document root must be an object, got %T", v)
	}
	root := &wd.DataNode{}
	if err := addMembers(root, obj, ""); err != nil {
		return nil, err
	}
	return root, nil
}

// addMembers appends the members of obj to parent in sorted order, then
// applies "@name" default annotations.
func addMembers(parent *wd.DataNode, obj map[string]any, path string) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if !strings.HasPrefix(k, "@") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		name := localName(k)
		p := path + "/" + name
		switch t := obj[k].(type) {
		case map[string]any:
			n := &wd.DataNode{Name: name}
			if err := addMembers(n, t, p); err != nil {
				return err
			}
			parent.Children = append(parent.Children, n)
		case []any:
			for i, item := range t {
				n := &wd.DataNode{Name: name}
				if m, ok := item.(map[string]any); ok {
					if err := addMembers(n, m, fmt.Sprintf("%s[%d]", p, i)); err != nil {
						return err
					}
				} else {
					n.Value = item
				}
				parent.Children = append(parent.Children, n)
			}
		default:
			parent.Children = append(parent.Children, &wd.DataNode{Name: name, Value: t})
		}
	}
	for k, meta := range obj {
		if strings.HasPrefix(k, "@") {
			if err := annotate(parent, localName(k[1:]), meta, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// annotate applies a leaf ("@x": {...}) or leaf-list ("@x": [{...}, null])
// annotation to the matching children.
func annotate(parent *wd.DataNode, name string, meta any, path string) error {
	var entries []*wd.DataNode
	for _, c := range parent.Children {
		if c.Name == name {
			entries = append(entries, c)
		}
	}
	if len(entries) == 0 {
		return fmt.Errorf("datastore: annotation for missing member %s/%s", path, name)
	}
	switch t := meta.(type) {
	case map[string]any:
		for _, e := range entries {
			e.Default = isDefaultMeta(t)
		}
	case []any:
		if len(t) != len(entries) {
			return fmt.Errorf("datastore: annotation for %s/%s has %d entries, want %d", path, name, len(t), len(entries))
		}
		for i, m := range t {
			mm, _ := m.(map[string]any)
			entries[i].Default = isDefaultMeta(mm)
		}
	default:
		return fmt.Errorf("datastore: malformed annotation for %s/%s", path, name)
	}
	return nil
}

func isDefaultMeta(m map[string]any) bool {
	b, _ := m[DefaultAnnotation].(bool)
	return b
}

func localName(k string) string {
	if _, name, ok := strings.Cut(k, ":"); ok {
		return name
	}
	return k
}

// normalizeYAML converts YAML-decoded values (which may contain map[any]any)
// into JSON-like map[string]any recursively.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeYAML(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalizeYAML(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalizeYAML(t[i])
		}
		return arr
	default:
		return v
	}
}

// LoadFile decodes a JSON or YAML instance-data file, picking the decoder
// by extension (.json, otherwise YAML).
func LoadFile(path string) (*wd.DataNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("datastore: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return DecodeJSON(data)
	}
	return DecodeYAML(data)
}

// Package datastore provides an in-memory configuration datastore that
// serves consistent snapshots to the with-defaults retrieval pipeline.
package datastore

import (
	"context"
	"strings"
	"sync"

	wd "github.com/reoring/withdefaults"
)

// Memory holds one datastore tree. Reads return deep copies, so a snapshot
// never observes a later Replace.
type Memory struct {
	mu   sync.RWMutex
	root *wd.DataNode
}

var _ wd.Reader = (*Memory)(nil)

// NewMemory returns an empty datastore.
func NewMemory() *Memory { return &Memory{root: &wd.DataNode{}} }

// Replace installs a copy of root as the complete datastore content. A nil
// root empties the datastore.
func (m *Memory) Replace(root *wd.DataNode) {
	cp := root.Clone()
	if cp == nil {
		cp = &wd.DataNode{}
	}
	m.mu.Lock()
	m.root = cp
	m.mu.Unlock()
}

// Snapshot returns a deep copy of the whole datastore.
func (m *Memory) Snapshot() *wd.DataNode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root.Clone()
}

// ReadSubtree returns a copy of the branch selected by rootPath: every node
// along the path (all entries of lists on the way) and the full subtree of
// the target. Module prefixes on path segments are ignored.
func (m *Memory) ReadSubtree(ctx context.Context, rootPath string) (*wd.DataNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var segs []string
	for _, p := range strings.Split(rootPath, "/") {
		if p == "" {
			continue
		}
		if _, name, ok := strings.Cut(p, ":"); ok {
			p = name
		}
		segs = append(segs, p)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return branch(m.root, segs), nil
}

// branch copies d keeping only children named segs[0] (recursively) until
// segs is exhausted. Childless siblings below the datastore root are kept
// too, so list entries on the path keep their keys; the builder ignores the
// ones that are not keys.
func branch(d *wd.DataNode, segs []string) *wd.DataNode {
	if len(segs) == 0 {
		return d.Clone()
	}
	out := &wd.DataNode{Name: d.Name, Value: d.Value, Default: d.Default}
	for _, c := range d.Children {
		switch {
		case c.Name == segs[0]:
			out.Children = append(out.Children, branch(c, segs[1:]))
		case len(c.Children) == 0 && d.Name != "":
			out.Children = append(out.Children, c.Clone())
		}
	}
	return out
}

package graph

import "github.com/gyaneshwarpardhi/dialoguegraph/internal/dialogue"

// Graph is a read-only index over a dialogue tree snapshot.
// It is built once per request and never mutates the tree it wraps.
type Graph struct {
	tree       *dialogue.Tree
	nodes      map[string]*dialogue.Node // id → first node carrying that id
	duplicates []string                  // ids seen more than once, in order
}

// Build indexes t. A nil tree is treated as empty.
func Build(t *dialogue.Tree) *Graph {
	if t == nil {
		t = &dialogue.Tree{}
	}
	g := &Graph{
		tree:  t,
		nodes: make(map[string]*dialogue.Node, len(t.Nodes)),
	}
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if _, ok := g.nodes[n.ID]; ok {
			g.duplicates = append(g.duplicates, n.ID)
			continue
		}
		g.nodes[n.ID] = n
	}
	return g
}

// Node returns a node by ID (nil if not found).
func (g *Graph) Node(id string) *dialogue.Node {
	return g.nodes[id]
}

// Has reports whether id names a node.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns the tree's nodes in authored order. Callers must not modify them.
func (g *Graph) Nodes() []dialogue.Node {
	return g.tree.Nodes
}

// StartID returns the entry point id.
func (g *Graph) StartID() string {
	return g.tree.StartNodeID
}

// NodeCount returns the number of nodes in the tree, duplicates included.
func (g *Graph) NodeCount() int {
	return len(g.tree.Nodes)
}

// Duplicates returns ids that appear on more than one node.
func (g *Graph) Duplicates() []string {
	return g.duplicates
}

package graph

import "github.com/gyaneshwarpardhi/dialoguegraph/internal/dialogue"

const (
	previewTextLen  = 100
	previewLabelLen = 30
)

// Preview is a flat, depth-limited projection of the tree for display.
type Preview struct {
	Nodes       []PreviewNode `json:"nodes"`
	Connections []Connection  `json:"connections"`
}

// PreviewNode carries a node with its text truncated.
type PreviewNode struct {
	ID       string            `json:"id"`
	Type     dialogue.NodeType `json:"type"`
	Speaker  string            `json:"speaker,omitempty"`
	Text     string            `json:"text"`
	Position dialogue.Position `json:"position"`
}

// Connection is a choice edge. To is empty for a choice that ends the branch.
type Connection struct {
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Label       string `json:"label"`
	ChoiceIndex int    `json:"choiceIndex"`
}

// BuildPreview walks depth-first from the start node down to maxDepth levels
// (the start node is depth 0). Each node is emitted at most once, so cyclic
// trees are safe; every choice of an emitted node becomes a connection.
func BuildPreview(g *Graph, maxDepth int) *Preview {
	p := &Preview{
		Nodes:       []PreviewNode{},
		Connections: []Connection{},
	}
	visited := make(map[string]bool)

	var build func(id string, depth int)
	build = func(id string, depth int) {
		if depth >= maxDepth || visited[id] {
			return
		}
		visited[id] = true
		n := g.Node(id)
		if n == nil {
			return
		}
		p.Nodes = append(p.Nodes, PreviewNode{
			ID:       n.ID,
			Type:     n.Type,
			Speaker:  n.Speaker,
			Text:     truncate(n.Text, previewTextLen),
			Position: n.Position,
		})
		for i, c := range n.Choices {
			p.Connections = append(p.Connections, Connection{
				From:        id,
				To:          c.NextNodeID,
				Label:       truncate(c.Text, previewLabelLen),
				ChoiceIndex: i,
			})
			if c.NextNodeID != "" {
				build(c.NextNodeID, depth+1)
			}
		}
	}
	build(g.StartID(), 0)
	return p
}

// truncate cuts s to n code points and appends an ellipsis when it was longer.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

package graph_test

import (
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/dialogue"
)

// node builds a statement node whose choices point at the given ids.
// An empty id produces a choice with no target.
func node(id, text string, next ...string) dialogue.Node {
	n := dialogue.Node{ID: id, Type: dialogue.NodeTypeStatement, Text: text}
	for i, to := range next {
		n.Choices = append(n.Choices, dialogue.Choice{
			ID:         id + "-c" + string(rune('0'+i)),
			Text:       "to " + to,
			NextNodeID: to,
		})
	}
	return n
}

func tree(start string, nodes ...dialogue.Node) *dialogue.Tree {
	return &dialogue.Tree{ID: "t1", Title: "test", StartNodeID: start, Nodes: nodes}
}

// scenarioTree is the two-node hello/bye tree.
func scenarioTree() *dialogue.Tree {
	return &dialogue.Tree{
		StartNodeID: "n1",
		Nodes: []dialogue.Node{
			{ID: "n1", Text: "Hi", Choices: []dialogue.Choice{{ID: "c1", Text: "Go", NextNodeID: "n2"}}},
			{ID: "n2", Text: "Bye", Choices: []dialogue.Choice{}},
		},
	}
}

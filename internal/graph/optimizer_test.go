package graph_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gyaneshwarpardhi/dialoguegraph/internal/dialogue"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/graph"
)

func TestOptimize(t *testing.T) {
	line := "The harbour smells of diesel and old fish."
	tr := tree("a",
		dialogue.Node{ID: "a", Speaker: "Kim", Text: line},
		dialogue.Node{ID: "b", Speaker: "Kim", Text: line},
		dialogue.Node{ID: "c", Speaker: "Cuno", Text: line},
		dialogue.Node{ID: "d", Text: "Ok."},
		dialogue.Node{ID: "e", Text: "No."},
	)
	got := graph.Optimize(graph.Build(tr), graph.DefaultLimits())
	want := &graph.Optimization{
		Suggestions: []string{
			"Duplicate node detected: b (same as a)",
			"2 very short nodes could be consolidated",
		},
		DuplicateNodes:    []string{"b"},
		OptimizationScore: 80,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Optimize mismatch (-want +got):\n%s", diff)
	}
}

func TestOptimize_ScoreFloorsAtZero(t *testing.T) {
	var nodes []dialogue.Node
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		nodes = append(nodes, dialogue.Node{ID: id, Text: "Same long line repeated over and over."})
	}
	got := graph.Optimize(graph.Build(tree("a", nodes...)), graph.DefaultLimits())
	if len(got.DuplicateNodes) != 11 {
		t.Errorf("duplicates = %d, want 11", len(got.DuplicateNodes))
	}
	if got.OptimizationScore != 0 {
		t.Errorf("score = %d, want 0", got.OptimizationScore)
	}
}

func TestOptimize_CleanTree(t *testing.T) {
	got := graph.Optimize(graph.Build(tree("a", node("a", "A sufficiently long opening line."))), graph.DefaultLimits())
	if got.OptimizationScore != 100 || len(got.Suggestions) != 0 {
		t.Errorf("unexpected result %+v", got)
	}
}

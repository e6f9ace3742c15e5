package graph_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gyaneshwarpardhi/dialoguegraph/internal/dialogue"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/graph"
)

func sampleTree() *dialogue.Tree {
	return tree("hub",
		dialogue.Node{ID: "hub", Type: dialogue.NodeTypeQuestion, Speaker: "Kim", Text: "Where to, detective?",
			Choices: []dialogue.Choice{
				{ID: "1", Text: "The pier", NextNodeID: "pier"},
				{ID: "2", Text: "The church", NextNodeID: "church"},
				{ID: "3", Text: "Nowhere"},
			}},
		dialogue.Node{ID: "pier", Type: dialogue.NodeTypeNarrative, Text: "Waves.", Choices: []dialogue.Choice{
			{ID: "1", Text: "Back", NextNodeID: "hub"},
		}},
		dialogue.Node{ID: "church", Type: dialogue.NodeTypeSkillCheck, Speaker: "Shivers", Text: "The wind howls through the nave.",
			SkillCheck: &dialogue.SkillCheck{ID: "s1", Stat: "physique", Difficulty: "Hard", DCValue: 20}},
		dialogue.Node{ID: "church2", Type: dialogue.NodeTypeSkillCheck, Speaker: "Shivers", Text: "The wind howls through the nave."},
	)
}

func TestAnalyze_Deterministic(t *testing.T) {
	g := graph.Build(sampleTree())
	first := graph.Analyze(g, graph.DefaultLimits())
	second := graph.Analyze(g, graph.DefaultLimits())
	if diff := cmp.Diff(first.Validation, second.Validation); diff != "" {
		t.Errorf("validation differs:\n%s", diff)
	}
	if diff := cmp.Diff(first.Paths, second.Paths); diff != "" {
		t.Errorf("paths differ:\n%s", diff)
	}
	if diff := cmp.Diff(first.Stats, second.Stats); diff != "" {
		t.Errorf("stats differ:\n%s", diff)
	}
	if first.Timestamp == 0 {
		t.Error("timestamp not set")
	}
}

func TestAnalyze_RunsAllPassesOnInvalidTree(t *testing.T) {
	r := graph.Analyze(graph.Build(sampleTree()), graph.DefaultLimits())
	if r.Validation.IsValid {
		t.Fatal("expected cycle to make the tree invalid")
	}
	if r.Paths.TotalPaths != 3 || r.Paths.CyclicPaths != 1 {
		t.Errorf("unexpected paths %+v", r.Paths)
	}
	if r.Stats.SkillChecks != 1 || r.Stats.TotalNodes != 4 {
		t.Errorf("unexpected stats %+v", r.Stats)
	}
	if len(r.Optimized.DuplicateNodes) != 1 || r.Optimized.DuplicateNodes[0] != "church2" {
		t.Errorf("unexpected duplicates %v", r.Optimized.DuplicateNodes)
	}
}

func TestPasses_DoNotMutateTree(t *testing.T) {
	tr := sampleTree()
	before := sampleTree()
	g := graph.Build(tr)
	graph.Analyze(g, graph.DefaultLimits())
	graph.BuildPreview(g, 3)
	if diff := cmp.Diff(before, tr); diff != "" {
		t.Errorf("tree mutated (-before +after):\n%s", diff)
	}
}

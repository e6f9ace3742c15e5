package graph

import (
	"math"
	"unicode/utf8"

	"github.com/gyaneshwarpardhi/dialoguegraph/internal/dialogue"
)

// Stats aggregates structural counts for a tree.
type Stats struct {
	TotalNodes            int                       `json:"totalNodes"`
	NodeTypes             map[dialogue.NodeType]int `json:"nodeTypes"`
	SkillChecks           int                       `json:"skillChecks"`
	TotalChoices          int                       `json:"totalChoices"`
	AverageChoicesPerNode float64                   `json:"averageChoicesPerNode"`
	Characters            []string                  `json:"characters"`
	EstimatedPlayTime     int                       `json:"estimatedPlayTime"` // minutes
}

const charsPerWord = 5

// CollectStats counts node types, skill checks, choices and speakers, and
// estimates play time.
func CollectStats(g *Graph, lim Limits) *Stats {
	st := &Stats{
		TotalNodes: g.NodeCount(),
		NodeTypes:  make(map[dialogue.NodeType]int),
		Characters: []string{},
	}
	speakers := make(map[string]struct{})
	for _, n := range g.Nodes() {
		st.NodeTypes[n.Type]++
		if n.SkillCheck != nil {
			st.SkillChecks++
		}
		st.TotalChoices += len(n.Choices)
		if n.Speaker == "" {
			continue
		}
		if _, ok := speakers[n.Speaker]; !ok {
			speakers[n.Speaker] = struct{}{}
			st.Characters = append(st.Characters, n.Speaker)
		}
	}
	if st.TotalNodes > 0 {
		st.AverageChoicesPerNode = float64(st.TotalChoices) / float64(st.TotalNodes)
	}
	st.EstimatedPlayTime = EstimatePlayTime(g, lim.WordsPerMinute)
	return st
}

// EstimatePlayTime returns reading minutes: text length / 5 approximates
// words, divided by wpm, scaled by 1 + 0.5 per skill-check node + 0.2 per
// node with more than two choices.
func EstimatePlayTime(g *Graph, wpm int) int {
	if wpm <= 0 {
		wpm = DefaultLimits().WordsPerMinute
	}
	textLen := 0
	multiplier := 1.0
	for _, n := range g.Nodes() {
		textLen += utf8.RuneCountInString(n.Text)
		if n.SkillCheck != nil {
			multiplier += 0.5
		}
		if len(n.Choices) > 2 {
			multiplier += 0.2
		}
	}
	words := float64(textLen) / charsPerWord
	base := words / float64(wpm)
	return int(math.Round(base * multiplier))
}

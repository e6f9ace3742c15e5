package graph

import (
	"fmt"
	"unicode/utf8"
)

// Optimization is advisory output; the tree is never changed.
type Optimization struct {
	Suggestions       []string `json:"suggestions"`
	DuplicateNodes    []string `json:"duplicateNodes"`
	OptimizationScore int      `json:"optimizationScore"` // 0-100, heuristic
}

// Optimize flags nodes that repeat an earlier node's text and speaker, and
// counts very short nodes as consolidation candidates.
func Optimize(g *Graph, lim Limits) *Optimization {
	opt := &Optimization{
		Suggestions:    []string{},
		DuplicateNodes: []string{},
	}

	firstByContent := make(map[string]string)
	short := 0
	for _, n := range g.Nodes() {
		key := n.Text + "-" + n.Speaker
		if orig, ok := firstByContent[key]; ok {
			opt.DuplicateNodes = append(opt.DuplicateNodes, n.ID)
			opt.Suggestions = append(opt.Suggestions, fmt.Sprintf("Duplicate node detected: %s (same as %s)", n.ID, orig))
		} else {
			firstByContent[key] = n.ID
		}
		if utf8.RuneCountInString(n.Text) < lim.ShortTextThreshold {
			short++
		}
	}
	if short > 0 {
		opt.Suggestions = append(opt.Suggestions, fmt.Sprintf("%d very short nodes could be consolidated", short))
	}

	opt.OptimizationScore = max(0, 100-10*len(opt.Suggestions))
	return opt
}

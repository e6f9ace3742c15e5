package graph

import "fmt"

// ValidationResult holds the structural findings for a tree.
// Warnings never affect IsValid.
type ValidationResult struct {
	IsValid        bool     `json:"isValid"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
	NodeCount      int      `json:"nodeCount"`
	ReachableNodes int      `json:"reachableNodes"`
}

// CycleError is the single error reported when a cycle is reachable from the start node.
const CycleError = "Circular reference detected in dialogue tree"

// Validate checks g for dangling choice targets, a missing start node,
// unreachable nodes and reachable cycles. It never fails; malformed input
// degrades to findings.
func Validate(g *Graph) *ValidationResult {
	res := &ValidationResult{
		Errors:    []string{},
		Warnings:  []string{},
		NodeCount: g.NodeCount(),
	}

	for _, n := range g.Nodes() {
		for _, c := range n.Choices {
			if c.NextNodeID != "" && !g.Has(c.NextNodeID) {
				res.Errors = append(res.Errors, fmt.Sprintf("Choice references non-existent node: %s", c.NextNodeID))
			}
		}
	}

	if g.NodeCount() > 0 && !g.Has(g.StartID()) {
		if g.StartID() == "" {
			res.Errors = append(res.Errors, "Start node is not set")
		} else {
			res.Errors = append(res.Errors, fmt.Sprintf("Start node does not exist: %s", g.StartID()))
		}
	}

	for _, id := range g.Duplicates() {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Duplicate node id: %s", id))
	}

	reachable := Reachable(g)
	res.ReachableNodes = len(reachable)
	for _, n := range g.Nodes() {
		if _, ok := reachable[n.ID]; !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Unreachable node: %s", n.ID))
		}
	}

	if HasCycle(g) {
		res.Errors = append(res.Errors, CycleError)
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

// Reachable returns the ids of existing nodes reachable from the start node.
func Reachable(g *Graph) map[string]struct{} {
	seen := make(map[string]struct{})
	var visit func(id string)
	visit = func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		n := g.Node(id)
		if n == nil {
			return
		}
		seen[id] = struct{}{}
		for _, c := range n.Choices {
			if c.NextNodeID != "" {
				visit(c.NextNodeID)
			}
		}
	}
	visit(g.StartID())
	return seen
}

// HasCycle reports whether a cycle is reachable from the start node, using a
// visited set plus a recursion stack. It stops at the first back edge.
func HasCycle(g *Graph) bool {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	var detect func(id string) bool
	detect = func(id string) bool {
		if onStack[id] {
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		onStack[id] = true
		if n := g.Node(id); n != nil {
			for _, c := range n.Choices {
				if c.NextNodeID != "" && detect(c.NextNodeID) {
					return true
				}
			}
		}
		onStack[id] = false
		return false
	}
	return detect(g.StartID())
}

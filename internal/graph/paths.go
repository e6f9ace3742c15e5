package graph

// PathResult summarises every terminating path from the start node.
// Totals and lengths cover all enumerated paths; Paths holds only the first
// Limits.PathSampleSize of them.
type PathResult struct {
	TotalPaths        int        `json:"totalPaths"`
	Paths             [][]string `json:"paths"`
	AveragePathLength float64    `json:"averagePathLength"`
	LongestPath       int        `json:"longestPath"`
	ShortestPath      int        `json:"shortestPath"`
	CyclicPaths       int        `json:"cyclicPaths,omitempty"`  // paths cut where a choice loops back onto the path
	DepthLimited      int        `json:"depthLimited,omitempty"` // paths cut at MaxPathDepth
	Truncated         bool       `json:"truncated,omitempty"`    // enumeration stopped at MaxEnumeratedPaths or MaxWalkSteps
}

// EnumeratePaths walks every path from the start node depth-first.
//
// A path ends at a node without choices, or at a node whose choice has no
// target (the choice itself is not part of the path). A choice pointing at a
// missing node yields no path. A choice leading back to a node already on the
// current path ends that path at the current node and counts it as cyclic, so
// cyclic trees terminate. Exceeding MaxEnumeratedPaths or MaxWalkSteps stops
// the walk and sets Truncated.
func EnumeratePaths(g *Graph, lim Limits) *PathResult {
	w := &pathWalker{
		g:      g,
		lim:    lim,
		res:    &PathResult{Paths: [][]string{}},
		onPath: make(map[string]bool),
	}
	w.walk(g.StartID())

	if w.res.TotalPaths > 0 {
		w.res.AveragePathLength = float64(w.lengthSum) / float64(w.res.TotalPaths)
	}
	return w.res
}

type pathWalker struct {
	g         *Graph
	lim       Limits
	res       *PathResult
	path      []string
	onPath    map[string]bool
	lengthSum int
	steps     int
	stopped   bool
}

func (w *pathWalker) walk(id string) {
	if w.stopped {
		return
	}
	// Branches into missing nodes record nothing, so only a step count
	// bounds trees that fan out into them.
	w.steps++
	if w.lim.MaxWalkSteps > 0 && w.steps > w.lim.MaxWalkSteps {
		w.res.Truncated = true
		w.stopped = true
		return
	}
	n := w.g.Node(id)
	if n == nil {
		return
	}

	w.path = append(w.path, id)
	w.onPath[id] = true
	defer func() {
		w.path = w.path[:len(w.path)-1]
		delete(w.onPath, id)
	}()

	if n.Terminal() {
		w.record()
		return
	}
	if w.lim.MaxPathDepth > 0 && len(w.path) >= w.lim.MaxPathDepth {
		w.res.DepthLimited++
		w.record()
		return
	}

	for _, c := range n.Choices {
		if w.stopped {
			return
		}
		switch {
		case c.NextNodeID == "":
			w.record()
		case w.onPath[c.NextNodeID]:
			w.res.CyclicPaths++
			w.record()
		default:
			w.walk(c.NextNodeID)
		}
	}
}

// record accounts for the current path.
func (w *pathWalker) record() {
	if w.lim.MaxEnumeratedPaths > 0 && w.res.TotalPaths >= w.lim.MaxEnumeratedPaths {
		w.res.Truncated = true
		w.stopped = true
		return
	}

	l := len(w.path)
	w.res.TotalPaths++
	w.lengthSum += l
	if l > w.res.LongestPath {
		w.res.LongestPath = l
	}
	if w.res.ShortestPath == 0 || l < w.res.ShortestPath {
		w.res.ShortestPath = l
	}
	if len(w.res.Paths) < w.lim.PathSampleSize {
		p := make([]string, l)
		copy(p, w.path)
		w.res.Paths = append(w.res.Paths, p)
	}
}

package graph

import "time"

// Report is the composite result of a full analysis.
type Report struct {
	Validation     *ValidationResult `json:"validation"`
	Paths          *PathResult       `json:"paths"`
	Stats          *Stats            `json:"stats"`
	Optimized      *Optimization     `json:"optimized"`
	ProcessingTime float64           `json:"processingTime"` // milliseconds
	Timestamp      int64             `json:"timestamp"`      // unix milliseconds
}

// Analyze runs validation, path enumeration, statistics and optimisation.
// Every pass runs even when validation finds errors.
func Analyze(g *Graph, lim Limits) *Report {
	start := time.Now()
	r := &Report{
		Validation: Validate(g),
		Paths:      EnumeratePaths(g, lim),
		Stats:      CollectStats(g, lim),
		Optimized:  Optimize(g, lim),
	}
	r.ProcessingTime = float64(time.Since(start).Microseconds()) / 1000
	r.Timestamp = time.Now().UnixMilli()
	return r
}

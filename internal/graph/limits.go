package graph

// Limits bounds the analysis passes and holds their tunable constants.
type Limits struct {
	PathSampleSize     int `json:"path_sample_size"`     // paths kept in PathResult.Paths
	MaxPathDepth       int `json:"max_path_depth"`       // nodes per path before it is cut; 0 = unlimited
	MaxEnumeratedPaths int `json:"max_enumerated_paths"` // enumeration stops after this many paths; 0 = unlimited
	MaxWalkSteps       int `json:"max_walk_steps"`       // node visits before enumeration stops; 0 = unlimited
	PreviewDepth       int `json:"preview_depth"`        // default preview depth
	ShortTextThreshold int `json:"short_text_threshold"` // texts shorter than this are consolidation candidates
	WordsPerMinute     int `json:"words_per_minute"`
}

// DefaultLimits returns the stock analysis settings.
func DefaultLimits() Limits {
	return Limits{
		PathSampleSize:     100,
		MaxPathDepth:       1000,
		MaxEnumeratedPaths: 100000,
		MaxWalkSteps:       1000000,
		PreviewDepth:       5,
		ShortTextThreshold: 20,
		WordsPerMinute:     200,
	}
}

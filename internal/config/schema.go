package config

import "github.com/gyaneshwarpardhi/dialoguegraph/internal/graph"

// Config is the top-level YAML structure.
type Config struct {
	Version  string       `yaml:"version" json:"version" validate:"required,oneof=v1"`
	Engine   EngineConf   `yaml:"engine" json:"engine"`
	Analysis AnalysisConf `yaml:"analysis" json:"analysis"`
}

// EngineConf holds worker and queue settings. Changes apply on restart.
type EngineConf struct {
	Workers          int `yaml:"workers" json:"workers" validate:"gte=1,lte=64"`
	QueueDepth       int `yaml:"queue_depth" json:"queue_depth" validate:"gte=1,lte=100000"`
	RequestTimeoutMs int `yaml:"request_timeout_ms" json:"request_timeout_ms" validate:"gte=1"`
}

// AnalysisConf holds the analysis limits. Hot-reloadable. A zero or omitted
// key takes its default, so every limit is always in force.
type AnalysisConf struct {
	PathSampleSize     int `yaml:"path_sample_size" json:"path_sample_size" validate:"gte=1,lte=10000"`
	MaxPathDepth       int `yaml:"max_path_depth" json:"max_path_depth" validate:"gte=1,lte=100000"`
	MaxEnumeratedPaths int `yaml:"max_enumerated_paths" json:"max_enumerated_paths" validate:"gte=1"`
	MaxWalkSteps       int `yaml:"max_walk_steps" json:"max_walk_steps" validate:"gte=1"`
	PreviewDepth       int `yaml:"preview_depth" json:"preview_depth" validate:"gte=1,lte=1000"`
	ShortTextThreshold int `yaml:"short_text_threshold" json:"short_text_threshold" validate:"gte=1"`
	WordsPerMinute     int `yaml:"words_per_minute" json:"words_per_minute" validate:"gte=1"`
}

// Limits converts the analysis settings for the graph passes.
func (a AnalysisConf) Limits() graph.Limits {
	return graph.Limits{
		PathSampleSize:     a.PathSampleSize,
		MaxPathDepth:       a.MaxPathDepth,
		MaxEnumeratedPaths: a.MaxEnumeratedPaths,
		MaxWalkSteps:       a.MaxWalkSteps,
		PreviewDepth:       a.PreviewDepth,
		ShortTextThreshold: a.ShortTextThreshold,
		WordsPerMinute:     a.WordsPerMinute,
	}
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{Version: "v1"}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Engine.Workers == 0 {
		cfg.Engine.Workers = 1
	}
	if cfg.Engine.QueueDepth == 0 {
		cfg.Engine.QueueDepth = 64
	}
	if cfg.Engine.RequestTimeoutMs == 0 {
		cfg.Engine.RequestTimeoutMs = 30000
	}
	d := graph.DefaultLimits()
	a := &cfg.Analysis
	if a.PathSampleSize == 0 {
		a.PathSampleSize = d.PathSampleSize
	}
	if a.MaxPathDepth == 0 {
		a.MaxPathDepth = d.MaxPathDepth
	}
	if a.MaxEnumeratedPaths == 0 {
		a.MaxEnumeratedPaths = d.MaxEnumeratedPaths
	}
	if a.MaxWalkSteps == 0 {
		a.MaxWalkSteps = d.MaxWalkSteps
	}
	if a.PreviewDepth == 0 {
		a.PreviewDepth = d.PreviewDepth
	}
	if a.ShortTextThreshold == 0 {
		a.ShortTextThreshold = d.ShortTextThreshold
	}
	if a.WordsPerMinute == 0 {
		a.WordsPerMinute = d.WordsPerMinute
	}
}

package recommender

import "github.com/fairyhunter13/ai-career-advisor/internal/config"

// Tuning holds the heuristic parser thresholds. The defaults reproduce the
// behavior users have seen so far; none of them is a correctness invariant.
type Tuning struct {
	// MaxSections caps how many raw sections are considered, noise included.
	MaxSections int
	// MinSectionChars is the trimmed length a section must exceed to count.
	MinSectionChars int
	// MaxTitleChars is the exclusive upper bound for using a first line as title.
	MaxTitleChars int
	// BaseConfidence is the confidence of the section at index 0.
	BaseConfidence float64
	// ConfidenceStep is added per section index.
	ConfidenceStep float64
}

// DefaultTuning returns the stock thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		MaxSections:     5,
		MinSectionChars: 50,
		MaxTitleChars:   100,
		BaseConfidence:  0.75,
		ConfidenceStep:  0.05,
	}
}

// TuningFromConfig reads parser thresholds from cfg, keeping defaults for
// values that are unset or out of range.
func TuningFromConfig(cfg config.Config) Tuning {
	t := DefaultTuning()
	if cfg.ParserMaxSections > 0 {
		t.MaxSections = cfg.ParserMaxSections
	}
	if cfg.ParserMinSectionChars >= 0 {
		t.MinSectionChars = cfg.ParserMinSectionChars
	}
	if cfg.ParserMaxTitleChars > 0 {
		t.MaxTitleChars = cfg.ParserMaxTitleChars
	}
	if cfg.ParserBaseConfidence > 0 && cfg.ParserBaseConfidence <= 1 {
		t.BaseConfidence = cfg.ParserBaseConfidence
	}
	if cfg.ParserConfidenceStep >= 0 && cfg.ParserConfidenceStep <= 1 {
		t.ConfidenceStep = cfg.ParserConfidenceStep
	}
	return t
}

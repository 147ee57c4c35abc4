package refset

import "github.com/hupe1980/signmatch/model"

// Builtin returns the bundled reference vocabulary.
//
// The feature vectors are coarse hand-shape proxies calibrated against
// the capture frontend; five dimensions, all in [0,1]. IDs are stable
// so remote entries can override individual signs.
//
// The sign "no" is deliberately absent: "no" is a reserved non-answer
// of the label policy and may never appear as a result, so no entry
// can carry it.
func Builtin() []model.Entry {
	return []model.Entry{
		{ID: "builtin-hello", Label: "hello", Features: []float32{0.8, 0.9, 0.7, 0.85, 0.92}, Confidence: 0.95},
		{ID: "builtin-thanks", Label: "thanks", Features: []float32{0.6, 0.7, 0.8, 0.65, 0.75}, Confidence: 0.9},
		{ID: "builtin-yes", Label: "yes", Features: []float32{0.9, 0.2, 0.1, 0.15, 0.2}, Confidence: 0.92},
		{ID: "builtin-stop", Label: "stop", Features: []float32{0.1, 0.8, 0.85, 0.2, 0.15}, Confidence: 0.92},
		{ID: "builtin-please", Label: "please", Features: []float32{0.5, 0.5, 0.6, 0.55, 0.5}, Confidence: 0.85},
		{ID: "builtin-sorry", Label: "sorry", Features: []float32{0.4, 0.3, 0.35, 0.45, 0.4}, Confidence: 0.85},
		{ID: "builtin-help", Label: "help", Features: []float32{0.7, 0.4, 0.3, 0.75, 0.6}, Confidence: 0.88},
		{ID: "builtin-goodbye", Label: "goodbye", Features: []float32{0.75, 0.85, 0.65, 0.8, 0.9}, Confidence: 0.87},
		{ID: "builtin-iloveyou", Label: "i love you", Features: []float32{0.95, 0.1, 0.9, 0.1, 0.95}, Confidence: 0.9},
		{ID: "builtin-water", Label: "water", Features: []float32{0.3, 0.6, 0.4, 0.35, 0.3}, Confidence: 0.8},
	}
}

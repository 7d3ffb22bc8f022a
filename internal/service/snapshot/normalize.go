package snapshot

import (
	"math"
	"sort"
	"strings"
)

// StepInput is a step as submitted by a caller, before normalization.
// StepNo arrives as a float so that JSON numbers survive decoding untouched;
// non-finite values are dropped during normalization.
type StepInput struct {
	StepNo    float64 `json:"step_no"`
	Action    string  `json:"action,omitempty"`
	InputData string  `json:"input_data,omitempty"`
	Expected  string  `json:"expected"`
}

// NormalizeSteps trims every text field, drops entries whose step number is
// not a finite value, and returns the result sorted ascending by step number.
// An empty input yields an empty slice, not nil-vs-empty surprises upstream.
func NormalizeSteps(in []StepInput) []Step {
	out := make([]Step, 0, len(in))
	for _, s := range in {
		if math.IsNaN(s.StepNo) || math.IsInf(s.StepNo, 0) {
			continue
		}
		out = append(out, Step{
			StepNo:    int(s.StepNo),
			Action:    strings.TrimSpace(s.Action),
			InputData: strings.TrimSpace(s.InputData),
			Expected:  strings.TrimSpace(s.Expected),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StepNo < out[j].StepNo })
	return out
}

// Normalize trims the snapshot's scalar fields and tag entries, dropping
// empty tags.
func Normalize(s Snapshot) Snapshot {
	s.Title = strings.TrimSpace(s.Title)
	s.QualityAttribute = strings.TrimSpace(s.QualityAttribute)
	s.CategoryLarge = strings.TrimSpace(s.CategoryLarge)
	s.CategoryMedium = strings.TrimSpace(s.CategoryMedium)
	s.Preconditions = strings.TrimSpace(s.Preconditions)
	s.Priority = strings.TrimSpace(s.Priority)
	var tags []string
	for _, t := range s.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	s.Tags = tags
	return s
}

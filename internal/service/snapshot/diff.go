package snapshot

import (
	"sort"

	"github.com/google/go-cmp/cmp"
)

// FieldChange reports one metadata field whose value differs between two
// versions of the same case.
type FieldChange struct {
	Field string `json:"field"`
	From  any    `json:"from"`
	To    any    `json:"to"`
}

// StepChange carries both full step records for a step number present in
// both versions with differing content.
type StepChange struct {
	StepNo int  `json:"step_no"`
	From   Step `json:"from"`
	To     Step `json:"to"`
}

// Diff is the result of comparing two versions of a case.
type Diff struct {
	Fields       []FieldChange `json:"fields"`
	StepsAdded   []Step        `json:"steps_added"`
	StepsRemoved []Step        `json:"steps_removed"`
	StepsChanged []StepChange  `json:"steps_changed"`
}

// Empty reports whether the two compared versions were identical.
func (d Diff) Empty() bool {
	return len(d.Fields) == 0 && len(d.StepsAdded) == 0 && len(d.StepsRemoved) == 0 && len(d.StepsChanged) == 0
}

// Compare diffs two snapshots field by field and their steps keyed by step
// number. Steps are matched by StepNo, not list position: a step that moved
// without its number changing is neither added nor removed. All three step
// lists come back sorted ascending by StepNo.
func Compare(from, to Snapshot, fromSteps, toSteps []Step) Diff {
	var d Diff
	d.Fields = compareFields(from, to)

	fromByNo := stepsByNo(fromSteps)
	toByNo := stepsByNo(toSteps)

	for no, ts := range toByNo {
		fs, ok := fromByNo[no]
		switch {
		case !ok:
			d.StepsAdded = append(d.StepsAdded, ts)
		case !cmp.Equal(fs, ts):
			d.StepsChanged = append(d.StepsChanged, StepChange{StepNo: no, From: fs, To: ts})
		}
	}
	for no, fs := range fromByNo {
		if _, ok := toByNo[no]; !ok {
			d.StepsRemoved = append(d.StepsRemoved, fs)
		}
	}

	sort.Slice(d.StepsAdded, func(i, j int) bool { return d.StepsAdded[i].StepNo < d.StepsAdded[j].StepNo })
	sort.Slice(d.StepsRemoved, func(i, j int) bool { return d.StepsRemoved[i].StepNo < d.StepsRemoved[j].StepNo })
	sort.Slice(d.StepsChanged, func(i, j int) bool { return d.StepsChanged[i].StepNo < d.StepsChanged[j].StepNo })
	return d
}

// compareFields walks the fixed list of diffable metadata fields. Only fields
// whose values differ are reported.
func compareFields(from, to Snapshot) []FieldChange {
	var out []FieldChange
	scalar := []struct {
		name     string
		from, to string
	}{
		{"title", from.Title, to.Title},
		{"quality_attribute", from.QualityAttribute, to.QualityAttribute},
		{"category_large", from.CategoryLarge, to.CategoryLarge},
		{"category_medium", from.CategoryMedium, to.CategoryMedium},
		{"preconditions", from.Preconditions, to.Preconditions},
		{"priority", from.Priority, to.Priority},
	}
	for _, f := range scalar {
		if f.from != f.to {
			out = append(out, FieldChange{Field: f.name, From: f.from, To: f.to})
		}
	}
	if !cmp.Equal(from.Tags, to.Tags) {
		out = append(out, FieldChange{Field: "tags", From: from.Tags, To: to.Tags})
	}
	if from.SuiteID != to.SuiteID {
		out = append(out, FieldChange{Field: "suite_id", From: from.SuiteID, To: to.SuiteID})
	}
	return out
}

func stepsByNo(steps []Step) map[int]Step {
	m := make(map[int]Step, len(steps))
	for _, s := range steps {
		m[s.StepNo] = s
	}
	return m
}

package snapshot

import "testing"

func baseSnapshot() (Snapshot, []Step) {
	snap := Snapshot{
		Title:         "Login works",
		CategoryLarge: "auth",
		Priority:      "high",
		Tags:          []string{"smoke"},
	}
	steps := []Step{
		{StepNo: 1, Action: "open page", Expected: "page loads"},
		{StepNo: 2, Action: "submit form", InputData: "user1", Expected: "dashboard shown"},
	}
	return snap, steps
}

func TestCompareIdentical(t *testing.T) {
	snap, steps := baseSnapshot()
	d := Compare(snap, snap, steps, steps)
	if !d.Empty() {
		t.Fatalf("expected empty diff; got %+v", d)
	}
}

func TestCompareFieldChanges(t *testing.T) {
	from, steps := baseSnapshot()
	to := from
	to.Title = "Login works on retry"
	to.Priority = "medium"
	to.Tags = []string{"smoke", "flaky"}

	d := Compare(from, to, steps, steps)
	if len(d.StepsAdded)+len(d.StepsRemoved)+len(d.StepsChanged) != 0 {
		t.Fatalf("expected no step changes; got %+v", d)
	}
	if len(d.Fields) != 3 {
		t.Fatalf("expected 3 field changes; got %v", d.Fields)
	}
	byName := map[string]FieldChange{}
	for _, f := range d.Fields {
		byName[f.Field] = f
	}
	if f, ok := byName["title"]; !ok || f.From != "Login works" || f.To != "Login works on retry" {
		t.Fatalf("title change missing or wrong: %+v", byName)
	}
	if _, ok := byName["priority"]; !ok {
		t.Fatalf("priority change missing: %+v", byName)
	}
	if _, ok := byName["tags"]; !ok {
		t.Fatalf("tags change missing: %+v", byName)
	}
}

func TestCompareStepsKeyedByNumber(t *testing.T) {
	snap, from := baseSnapshot()
	to := []Step{
		{StepNo: 1, Action: "open page", Expected: "page loads"},
		{StepNo: 2, Action: "submit form", InputData: "user2", Expected: "dashboard shown"},
		{StepNo: 3, Action: "log out", Expected: "login page shown"},
	}

	d := Compare(snap, snap, from, to)
	if len(d.Fields) != 0 {
		t.Fatalf("expected no field changes; got %v", d.Fields)
	}
	if len(d.StepsAdded) != 1 || d.StepsAdded[0].StepNo != 3 {
		t.Fatalf("expected step 3 added; got %v", d.StepsAdded)
	}
	if len(d.StepsRemoved) != 0 {
		t.Fatalf("expected no removals; got %v", d.StepsRemoved)
	}
	if len(d.StepsChanged) != 1 || d.StepsChanged[0].StepNo != 2 {
		t.Fatalf("expected step 2 changed; got %v", d.StepsChanged)
	}
	if d.StepsChanged[0].From.InputData != "user1" || d.StepsChanged[0].To.InputData != "user2" {
		t.Fatalf("step change should carry both records; got %+v", d.StepsChanged[0])
	}
}

func TestCompareStepRemoval(t *testing.T) {
	snap, from := baseSnapshot()
	to := from[:1]

	d := Compare(snap, snap, from, to)
	if len(d.StepsRemoved) != 1 || d.StepsRemoved[0].StepNo != 2 {
		t.Fatalf("expected step 2 removed; got %v", d.StepsRemoved)
	}

	// Reversing the direction flips removal to addition.
	rev := Compare(snap, snap, to, from)
	if len(rev.StepsAdded) != 1 || rev.StepsAdded[0].StepNo != 2 {
		t.Fatalf("expected step 2 added in reverse; got %v", rev.StepsAdded)
	}
}

func TestCompareResultsSorted(t *testing.T) {
	snap, _ := baseSnapshot()
	from := []Step{
		{StepNo: 5, Action: "a", Expected: "x"},
		{StepNo: 1, Action: "b", Expected: "y"},
	}
	d := Compare(snap, snap, nil, from)
	if len(d.StepsAdded) != 2 || d.StepsAdded[0].StepNo != 1 || d.StepsAdded[1].StepNo != 5 {
		t.Fatalf("expected added steps sorted by number; got %v", d.StepsAdded)
	}
}

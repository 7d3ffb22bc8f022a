package snapshot

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeStepsSortsAndTrims(t *testing.T) {
	in := []StepInput{
		{StepNo: 3, Action: "  check result  ", Expected: " shown "},
		{StepNo: 1, Action: "open page", Expected: "page loads"},
		{StepNo: 2, Action: "click login", InputData: " user1 ", Expected: "form opens"},
	}
	got := NormalizeSteps(in)
	want := []Step{
		{StepNo: 1, Action: "open page", Expected: "page loads"},
		{StepNo: 2, Action: "click login", InputData: "user1", Expected: "form opens"},
		{StepNo: 3, Action: "check result", Expected: "shown"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalized steps mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeStepsDropsNonFinite(t *testing.T) {
	in := []StepInput{
		{StepNo: math.NaN(), Action: "bad", Expected: "x"},
		{StepNo: math.Inf(1), Action: "bad", Expected: "x"},
		{StepNo: 1, Action: "good", Expected: "ok"},
	}
	got := NormalizeSteps(in)
	if len(got) != 1 || got[0].Action != "good" {
		t.Fatalf("expected only the finite step to survive; got %v", got)
	}
}

func TestNormalizeStepsEmpty(t *testing.T) {
	got := NormalizeSteps(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice; got %v", got)
	}
}

func TestNormalizeSnapshotTrimsAndDropsEmptyTags(t *testing.T) {
	s := Normalize(Snapshot{
		Title:    "  Login works  ",
		Priority: " high ",
		Tags:     []string{" smoke ", "", "auth"},
	})
	if s.Title != "Login works" || s.Priority != "high" {
		t.Fatalf("scalars not trimmed: %+v", s)
	}
	if diff := cmp.Diff([]string{"smoke", "auth"}, s.Tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

package runs

import "testing"

func TestDeriveOverall(t *testing.T) {
	tests := []struct {
		name  string
		steps []Status
		want  Status
	}{
		{"empty set", nil, StatusUntested},
		{"all pass", []Status{StatusPass, StatusPass}, StatusPass},
		{"any fail wins", []Status{StatusPass, StatusFail, StatusBlocked}, StatusFail},
		{"blocked beats pass", []Status{StatusBlocked, StatusPass}, StatusBlocked},
		{"all untested", []Status{StatusUntested, StatusUntested}, StatusUntested},
		{"partial completion is blocked", []Status{StatusPass, StatusUntested}, StatusBlocked},
		{"single fail", []Status{StatusFail}, StatusFail},
	}
	for _, tt := range tests {
		if got := DeriveOverall(tt.steps); got != tt.want {
			t.Fatalf("%s: expected %s; got %s", tt.name, tt.want, got)
		}
	}
}

func TestDeriveOverallOrderIndependent(t *testing.T) {
	a := DeriveOverall([]Status{StatusUntested, StatusPass, StatusBlocked})
	b := DeriveOverall([]Status{StatusBlocked, StatusUntested, StatusPass})
	if a != b || a != StatusBlocked {
		t.Fatalf("expected blocked regardless of order; got %s and %s", a, b)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusUntested, StatusPass, StatusFail, StatusBlocked} {
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	if Status("skipped").Valid() {
		t.Fatalf("unknown status should be invalid")
	}
}

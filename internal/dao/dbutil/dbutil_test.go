package dbutil

import (
	"errors"
	"testing"
	"time"
)

func TestParamSummary(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"s", "", "s=empty"},
		{"s", "hello", "s=len=5"},
		{"n", 42, "n=42"},
		{"n", int64(7), "n=7"},
		{"b", true, "b=true"},
		{"t", time.Time{}, "t=zero-time"},
		{"t", time.Now(), "t=non-zero-time"},
		{"xs", []string{"a", "b"}, "xs=len=2"},
		{"v", nil, "v=null"},
	}
	for _, tt := range tests {
		if got := ParamSummary(tt.name, tt.v); got != tt.want {
			t.Fatalf("ParamSummary(%q, %v): expected %q; got %q", tt.name, tt.v, tt.want, got)
		}
	}
}

func TestErrWrap(t *testing.T) {
	base := errors.New("boom")
	err := ErrWrap("case.create", base, ParamSummary("title", "Login"))
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error should unwrap to the original")
	}
	want := "case.create: boom; title=len=5"
	if err.Error() != want {
		t.Fatalf("expected %q; got %q", want, err.Error())
	}
	if ErrWrap("op", nil) != nil {
		t.Fatalf("nil error should stay nil")
	}
	if got := ErrWrap("op", base).Error(); got != "op: boom" {
		t.Fatalf("expected bare wrap; got %q", got)
	}
}

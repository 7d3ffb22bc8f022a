package wire

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/flarebyte/baldrick-casetrail/internal/service/cases"
	"github.com/flarebyte/baldrick-casetrail/internal/service/runs"
)

func TestNullString(t *testing.T) {
	if got := NullString(sql.NullString{}); got != "" {
		t.Fatalf("null should render empty; got %q", got)
	}
	if got := NullString(sql.NullString{String: "x", Valid: true}); got != "x" {
		t.Fatalf("expected x; got %q", got)
	}
}

func TestTime(t *testing.T) {
	if got := Time(time.Time{}); got != "" {
		t.Fatalf("zero time should render empty; got %q", got)
	}
	ts := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	if got := Time(ts); got != "2026-03-01T12:30:00Z" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: title is required", cases.ErrValidation), "invalid_argument"},
		{runs.ErrValidation, "invalid_argument"},
		{cases.ErrCaseNotFound, "not_found"},
		{cases.ErrVersionNotFound, "not_found"},
		{fmt.Errorf("run.delete: %w", runs.ErrRunNotFound), "not_found"},
		{runs.ErrRunCaseNotFound, "not_found"},
		{errors.New("connection refused"), "internal"},
	}
	for _, tt := range tests {
		if got := CodeOf(tt.err); got != tt.want {
			t.Fatalf("%v: expected %s; got %s", tt.err, tt.want, got)
		}
	}
}

type echoRequest struct {
	Name string `json:"name"`
}

type echoResponse struct {
	Greeting string `json:"greeting"`
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", cases.ErrValidation)
	}
	return &echoResponse{Greeting: "hello " + req.Name}, nil
}

func TestPostSuccess(t *testing.T) {
	h := Post(echo)
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ada"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/connect+json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var out echoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Greeting != "hello ada" {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestPostErrorEnvelope(t *testing.T) {
	h := Post(echo)
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400; got %d", rec.Code)
	}
	if code := rec.Header().Get("Connect-Error-Code"); code != "invalid_argument" {
		t.Fatalf("expected invalid_argument header; got %q", code)
	}
	var out struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Error.Code != "invalid_argument" || out.Error.Message == "" {
		t.Fatalf("unexpected envelope: %+v", out)
	}
}

func TestPostRejectsBadJSONAndMethod(t *testing.T) {
	h := Post(echo)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad JSON; got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for GET; got %d", rec.Code)
	}
}

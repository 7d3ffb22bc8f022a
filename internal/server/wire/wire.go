// Package wire holds the JSON helpers shared by the gRPC-JSON and
// Connect-style HTTP surfaces: null-column formatting and the Connect error
// envelope with its code mapping.
package wire

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/flarebyte/baldrick-casetrail/internal/service/cases"
	"github.com/flarebyte/baldrick-casetrail/internal/service/runs"
)

// NullString renders a nullable column as its value or "".
func NullString(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

// Time renders a timestamp for the wire; zero times become "".
func Time(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// CodeOf maps service errors to Connect error codes.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, cases.ErrValidation), errors.Is(err, runs.ErrValidation):
		return "invalid_argument"
	case errors.Is(err, cases.ErrCaseNotFound),
		errors.Is(err, cases.ErrVersionNotFound),
		errors.Is(err, cases.ErrSuiteNotFound),
		errors.Is(err, runs.ErrRunNotFound),
		errors.Is(err, runs.ErrRunCaseNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

func WriteOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/connect+json")
	w.Header().Set("Connect-Protocol-Version", "1")
	_ = json.NewEncoder(w).Encode(v)
}

func WriteErr(w http.ResponseWriter, code, msg string) {
	w.Header().Set("Content-Type", "application/connect+json")
	w.Header().Set("Connect-Protocol-Version", "1")
	w.Header().Set("Connect-Error-Code", code)
	w.WriteHeader(httpStatus(code))
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": code, "message": msg}})
}

// WriteFailure maps the error through CodeOf and writes the envelope.
func WriteFailure(w http.ResponseWriter, err error) {
	WriteErr(w, CodeOf(err), err.Error())
}

// Post adapts a typed RPC method to a Connect-style POST handler: decode
// JSON, call, write the response or the error envelope.
func Post[Req any, Resp any](fn func(context.Context, *Req) (*Resp, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var in Req
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteErr(w, "invalid_argument", "invalid JSON")
			return
		}
		out, err := fn(r.Context(), &in)
		if err != nil {
			WriteFailure(w, err)
			return
		}
		WriteOK(w, out)
	}
}

func httpStatus(code string) int {
	switch code {
	case "invalid_argument":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

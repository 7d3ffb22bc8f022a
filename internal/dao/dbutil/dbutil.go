package dbutil

import (
	"fmt"
	"strings"
	"time"
)

// ParamSummary returns a privacy-conscious summary of a parameter for error
// messages and logs. It avoids leaking actual values while keeping useful
// debugging signals.
//
// Rules:
// - name=empty for empty strings
// - name=len=N for non-empty strings or slices
// - name=V for integers
// - name=zero-time or name=non-zero-time for time.Time
func ParamSummary(name string, v any) string {
	switch x := v.(type) {
	case nil:
		return name + "=null"
	case string:
		if x == "" {
			return name + "=empty"
		}
		return fmt.Sprintf("%s=len=%d", name, len(x))
	case int:
		return fmt.Sprintf("%s=%d", name, x)
	case int64:
		return fmt.Sprintf("%s=%d", name, x)
	case bool:
		return fmt.Sprintf("%s=%t", name, x)
	case time.Time:
		if x.IsZero() {
			return name + "=zero-time"
		}
		return name + "=non-zero-time"
	case []string:
		return fmt.Sprintf("%s=len=%d", name, len(x))
	default:
		return fmt.Sprintf("%s=%T", name, v)
	}
}

// ErrWrap returns a formatted error with an operation label and optional summaries.
// Example: ErrWrap("case.create_version", err, ParamSummary("case_id", id))
func ErrWrap(op string, err error, parts ...string) error {
	if err == nil {
		return nil
	}
	if len(parts) == 0 {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w; %s", op, err, strings.Join(parts, ","))
}

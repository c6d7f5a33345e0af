package result

import (
	"fmt"

	"github.com/containerd/errdefs"
)

// Kind classifies a failed operation. Each kind maps onto a containerd/errdefs
// sentinel so callers can use errdefs.IsNotFound and friends on Err().
type Kind string

const (
	KindNotFound        Kind = "NotFound"
	KindInvalidArgument Kind = "InvalidArgument"
	KindParseError      Kind = "ParseError"
	KindIOFailure       Kind = "IOFailure"
	KindCleanupFailure  Kind = "CleanupFailure"
)

// sentinel returns the errdefs error this kind maps to.
func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return errdefs.ErrNotFound
	case KindInvalidArgument:
		return errdefs.ErrInvalidArgument
	case KindParseError:
		// A stored document that no longer parses is corrupted data.
		return errdefs.ErrDataLoss
	case KindIOFailure, KindCleanupFailure:
		return errdefs.ErrInternal
	default:
		return errdefs.ErrUnknown
	}
}

// Result is the uniform return value for fallible operations in this layer.
// When Success is false, callers must not trust Data as a real payload.
type Result struct {
	Success bool    `json:"success"`
	Error   *string `json:"error"`
	Context *string `json:"context"`
	Data    any     `json:"data"`

	kind  Kind
	cause error
}

// Ok builds a successful Result carrying the given payload.
func Ok(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail builds a failed Result. The Error field is "<Kind>: <message>" and
// Context points at where the failure happened (caller-supplied).
func Fail(kind Kind, cause error, context string) Result {
	msg := fmt.Sprintf("%s: %v", kind, cause)
	return Result{
		Success: false,
		Error:   &msg,
		Context: &context,
		Data:    map[string]any{"kind": string(kind), "cause": fmt.Sprint(cause)},
		kind:    kind,
		cause:   cause,
	}
}

// Failf is Fail with a formatted cause message.
func Failf(kind Kind, context, format string, args ...any) Result {
	return Fail(kind, fmt.Errorf(format, args...), context)
}

// WithDetail replaces the supplementary failure detail without changing the
// primary error. Used to append secondary failures (e.g. temp file cleanup).
func (r Result) WithDetail(detail any) Result {
	r.Data = detail
	return r
}

// Kind returns the failure kind, or the empty string on success.
func (r Result) Kind() Kind {
	if r.Success {
		return ""
	}
	return r.kind
}

// Err converts a failed Result into an error wrapping the kind's errdefs
// sentinel, so errors.Is / errdefs.IsNotFound etc. work across the boundary.
// Returns nil on success.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	if r.cause != nil {
		return fmt.Errorf("%v: %w", r.cause, r.kind.sentinel())
	}
	return r.kind.sentinel()
}

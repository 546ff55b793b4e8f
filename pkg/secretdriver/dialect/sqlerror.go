package dialect

import (
	"fmt"
	"reflect"
)

// maxCauseDepth bounds the cause-chain walk for chains whose elements
// cannot be tracked in the visited set (uncomparable error values).
const maxCauseDepth = 64

// Error is a backend-agnostic database error carrying the vendor error
// code and the five-character SQLSTATE. Real drivers surface their own
// error types (checked directly by each dialect); Error exists for
// callers and fakes that need to signal a classified condition without
// depending on a specific driver.
type Error struct {
	Code    int
	State   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.State != "" {
		return fmt.Sprintf("sql error %d (SQLSTATE %s): %s", e.Code, e.State, e.Message)
	}
	return fmt.Sprintf("sql error %d: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// walkCauses applies match to err and every error in its cause chain,
// stopping at the first match. The chain is followed through Unwrap()
// and Cause() methods. A visited set keyed by value identity guards
// against cyclic cause graphs; chains of uncomparable values fall back
// to a depth bound. Returns false when the chain is exhausted, cyclic
// or too deep without a match.
func walkCauses(err error, match func(error) bool) bool {
	seen := make(map[error]struct{})
	for depth := 0; err != nil && depth < maxCauseDepth; depth++ {
		if comparableError(err) {
			if _, dup := seen[err]; dup {
				return false
			}
			seen[err] = struct{}{}
		}
		if match(err) {
			return true
		}
		err = unwrapOnce(err)
	}
	return false
}

// hasCode reports whether the cause chain contains an *Error with one
// of the given vendor codes.
func hasCode(err error, codes ...int) bool {
	return walkCauses(err, func(e error) bool {
		de, ok := e.(*Error)
		if !ok {
			return false
		}
		for _, code := range codes {
			if de.Code == code {
				return true
			}
		}
		return false
	})
}

// hasState reports whether the cause chain contains an *Error with one
// of the given SQLSTATE values.
func hasState(err error, states ...string) bool {
	return walkCauses(err, func(e error) bool {
		de, ok := e.(*Error)
		if !ok {
			return false
		}
		for _, state := range states {
			if de.State == state {
				return true
			}
		}
		return false
	})
}

// unwrapOnce follows a single link in the cause chain. Both the
// standard Unwrap convention and the legacy Cause convention are
// honored; multi-error Unwrap() []error is deliberately not followed.
func unwrapOnce(err error) error {
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		return e.Unwrap()
	case interface{ Cause() error }:
		return e.Cause()
	}
	return nil
}

// comparableError reports whether err can be used as a map key.
func comparableError(err error) bool {
	return reflect.TypeOf(err).Comparable()
}

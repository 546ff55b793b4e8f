package dialect_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/systmms/secretsql/pkg/secretdriver/dialect"
)

// chainErr links errors through Unwrap and can form cycles.
type chainErr struct {
	name  string
	cause error
}

func (e *chainErr) Error() string { return e.name }
func (e *chainErr) Unwrap() error { return e.cause }

// causerErr links errors through the legacy Cause convention.
type causerErr struct {
	name  string
	cause error
}

func (e *causerErr) Error() string { return e.name }
func (e *causerErr) Cause() error  { return e.cause }

func TestCyclicCauseChainTerminates(t *testing.T) {
	t.Parallel()

	a := &chainErr{name: "a"}
	b := &chainErr{name: "b", cause: a}
	a.cause = b

	assert.False(t, dialect.MySQL{}.IsAuthenticationFailure(a))
}

func TestSelfReferentialCauseTerminates(t *testing.T) {
	t.Parallel()

	a := &chainErr{name: "a"}
	a.cause = a

	assert.False(t, dialect.Oracle{}.IsAuthenticationFailure(a))
}

func TestMatchDeepInChainIsFound(t *testing.T) {
	t.Parallel()

	target := &dialect.Error{Code: 1045}
	a := &chainErr{name: "a"}
	a.cause = &chainErr{name: "b", cause: &chainErr{name: "c", cause: target}}

	assert.True(t, dialect.MySQL{}.IsAuthenticationFailure(a))
}

func TestCauseConventionIsFollowed(t *testing.T) {
	t.Parallel()

	err := &causerErr{name: "outer", cause: &dialect.Error{State: "28P01"}}
	assert.True(t, dialect.PostgreSQL{}.IsAuthenticationFailure(err))
}

func TestErrorFormatting(t *testing.T) {
	t.Parallel()

	withState := &dialect.Error{Code: 0, State: "28P01", Message: "password authentication failed"}
	assert.Contains(t, withState.Error(), "28P01")

	withCode := &dialect.Error{Code: 1045, Message: "access denied"}
	assert.Contains(t, withCode.Error(), "1045")

	wrapped := &dialect.Error{Code: 1, Message: "outer", Cause: fmt.Errorf("inner")}
	assert.EqualError(t, wrapped.Unwrap(), "inner")
}

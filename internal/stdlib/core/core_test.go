package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwan84/jeem/internal/evaluator"
	"github.com/mrwan84/jeem/internal/stdlib/core"
)

// TestAssertPassesOnTruthy confirms assert() is a no-op for any truthy
// value, returning NULL rather than an error object.
func TestAssertPassesOnTruthy(t *testing.T) {
	interp := evaluator.New()
	core.Install(interp)

	result := interp.Builtins["assert"].Fn(interp, []evaluator.Object{evaluator.TRUE})
	assert.Equal(t, evaluator.NULL, result)
}

// TestAssertFailureIsAssertionError pins down that a failed assert()
// call surfaces as the runtime *Error sentinel, carrying the caller's
// custom message when one is given.
func TestAssertFailureIsAssertionError(t *testing.T) {
	interp := evaluator.New()
	core.Install(interp)

	result := interp.Builtins["assert"].Fn(interp, []evaluator.Object{
		evaluator.FALSE,
		&evaluator.String{Value: "expected non-empty result"},
	})
	errObj, ok := result.(*evaluator.Error)
	require.True(t, ok, "expected *evaluator.Error, got %s", result.Inspect())
	assert.Equal(t, "expected non-empty result", errObj.Message)
}

// TestAssertFailureDefaultMessage checks the fallback message used when
// no explanation is passed to assert().
func TestAssertFailureDefaultMessage(t *testing.T) {
	interp := evaluator.New()
	core.Install(interp)

	result := interp.Builtins["assert"].Fn(interp, []evaluator.Object{evaluator.NULL})
	errObj, ok := result.(*evaluator.Error)
	require.True(t, ok, "expected *evaluator.Error, got %s", result.Inspect())
	assert.Equal(t, "assertion failed", errObj.Message)
}

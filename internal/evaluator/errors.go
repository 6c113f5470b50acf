package evaluator

import "fmt"

// The typed errors below all implement Go's error interface so internal
// Go-level plumbing (Declare/Assign, module resolution) can return them
// normally; toRuntimeError converts any of them into the *Error sentinel
// object that actually flows through Eval.

// ConstError reports an illegal redeclaration or reassignment of an
// immutable binding.
type ConstError struct{ Message string }

func (e *ConstError) Error() string { return e.Message }

// ReferenceError reports use of an identifier with no binding anywhere
// in the scope chain.
type ReferenceError struct{ Message string }

func (e *ReferenceError) Error() string { return e.Message }

// TypeError reports an operation applied to a value of the wrong kind:
// indexing a non-indexable, calling a non-callable, bad operand types
// for an arithmetic/comparison operator.
type TypeError struct{ Message string }

func (e *TypeError) Error() string { return e.Message }

// ArithmeticError reports a numeric operation that is well-typed but
// ill-defined, such as division or modulo by zero.
type ArithmeticError struct{ Message string }

func (e *ArithmeticError) Error() string { return e.Message }

// ModuleError reports a failure to resolve, read, or evaluate an
// imported module.
type ModuleError struct{ Message string }

func (e *ModuleError) Error() string { return e.Message }

// AssertionError reports a failed assert() builtin call.
type AssertionError struct{ Message string }

func (e *AssertionError) Error() string { return e.Message }

// ScopeError reports malformed use of this/super outside of a method.
type ScopeError struct{ Message string }

func (e *ScopeError) Error() string { return e.Message }

// toRuntimeError lifts a Go error into the *Error sentinel object that
// Eval propagates, tagging it with the line of the node that triggered
// the failure.
func toRuntimeError(line int, err error) *Error {
	return &Error{Message: err.Error(), Line: line}
}

func referenceError(line int, format string, args ...interface{}) *Error {
	return toRuntimeError(line, &ReferenceError{Message: fmt.Sprintf(format, args...)})
}

func typeError(line int, format string, args ...interface{}) *Error {
	return toRuntimeError(line, &TypeError{Message: fmt.Sprintf(format, args...)})
}

func arithmeticError(line int, format string, args ...interface{}) *Error {
	return toRuntimeError(line, &ArithmeticError{Message: fmt.Sprintf(format, args...)})
}

func scopeError(line int, format string, args ...interface{}) *Error {
	return toRuntimeError(line, &ScopeError{Message: fmt.Sprintf(format, args...)})
}

// NewAssertionError builds the runtime *Error for a failed assert()
// call. Exported because the assert built-in itself lives outside this
// package, in stdlib/core, which has no access to the unexported
// constructor helpers above.
func NewAssertionError(message string) *Error {
	return toRuntimeError(0, &AssertionError{Message: message})
}

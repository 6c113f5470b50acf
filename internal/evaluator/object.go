package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrwan84/jeem/internal/ast"
)

// Object is the tagged discriminated union every runtime value implements.
type Object interface {
	Type() string
	Inspect() string
}

// Null is the language's null/nil/undefined value.
type Null struct{}

func (*Null) Type() string    { return "null" }
func (*Null) Inspect() string { return "null" }

var NULL = &Null{}

// Boolean wraps a bool.
type Boolean struct{ Value bool }

func (*Boolean) Type() string { return "bool" }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBool(v bool) *Boolean {
	if v {
		return TRUE
	}
	return FALSE
}

// Integer wraps a signed 64-bit int.
type Integer struct{ Value int64 }

func (*Integer) Type() string      { return "int" }
func (i *Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }

// Float wraps an IEEE double.
type Float struct{ Value float64 }

func (*Float) Type() string { return "float" }
func (f *Float) Inspect() string {
	return strconv.FormatFloat(f.Value, 'g', -1, 64)
}

// String wraps a UTF-8 byte sequence, indexed/measured by byte length.
type String struct{ Value string }

func (*String) Type() string      { return "string" }
func (s *String) Inspect() string { return s.Value }

// Array is an ordered, growable sequence of values.
type Array struct{ Elements []Object }

func (*Array) Type() string { return "array" }
func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = inspectElement(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Obj is the language's object value: an insertion-ordered string-keyed
// mapping. Module embeds it to reuse property storage and lookup.
type Obj struct {
	keys   []string
	values map[string]Object
}

func NewObj() *Obj {
	return &Obj{values: make(map[string]Object)}
}

func (*Obj) Type() string { return "object" }

func (o *Obj) Inspect() string {
	parts := make([]string, len(o.keys))
	for i, k := range o.keys {
		parts[i] = fmt.Sprintf("%s: %s", k, inspectElement(o.values[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Get reads a key; missing keys yield (nil, false) so callers can
// substitute NULL per the indexing invariant.
func (o *Obj) Get(key string) (Object, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set replaces an existing binding in place (preserving insertion index)
// or appends a new one.
func (o *Obj) Set(key string, value Object) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes key, preserving the relative order of the rest.
func (o *Obj) Delete(key string) bool {
	if _, exists := o.values[key]; !exists {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

func (o *Obj) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o *Obj) Len() int { return len(o.keys) }

func inspectElement(o Object) string {
	if s, ok := o.(*String); ok {
		return strconv.Quote(s.Value)
	}
	return o.Inspect()
}

// Module is an object value with a distinguished tag for typeof()/print
// reporting, per spec.md's "isomorphic to an object; distinguished tag".
type Module struct {
	Path string
	Obj  *Obj
}

func (*Module) Type() string      { return "module" }
func (m *Module) Inspect() string { return "module " + m.Path }

// FunctionRef is a by-name reference to a global function, resolved
// dynamically through the interpreter's function table at call time.
type FunctionRef struct{ Name string }

func (*FunctionRef) Type() string      { return "function" }
func (f *FunctionRef) Inspect() string { return "<function " + f.Name + ">" }

// ClassRef is a by-name reference to a class, resolved dynamically
// through the interpreter's class registry.
type ClassRef struct{ Name string }

func (*ClassRef) Type() string      { return "class" }
func (c *ClassRef) Inspect() string { return "<class " + c.Name + ">" }

// ClassDef is the registered definition backing a ClassRef.
type ClassDef struct {
	Name    string
	Parent  string
	Methods map[string]*ast.FunctionLiteral
}

// Instance holds a handle to its class definition and its own property
// bag.
type Instance struct {
	Class *ClassDef
	Props *Obj
}

func (*Instance) Type() string      { return "instance" }
func (i *Instance) Inspect() string { return "<" + i.Class.Name + " instance>" }

// Closure owns its parameter names, body, and captured scope: for an
// arrow, a deep snapshot of the scope chain reachable at creation time
// (see Environment.Snapshot); for an anonymous func literal, the live
// defining scope.
type Closure struct {
	Parameters []string
	Body       *ast.BlockStatement
	Expr       ast.Expression // set instead of Body for `p => expr` arrows
	Env        *Environment
}

func (*Closure) Type() string    { return "closure" }
func (*Closure) Inspect() string { return "<closure>" }

// BuiltinFunction is the Go-native implementation of a host builtin.
type BuiltinFunction func(interp *Interpreter, args []Object) Object

// Builtin wraps a host-implemented callable registered by name.
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (*Builtin) Type() string      { return "builtin" }
func (b *Builtin) Inspect() string { return "<builtin " + b.Name + ">" }

// ReturnValue, BreakSignal, and ContinueSignal are the evaluator-result
// sentinels that replace the source's process-wide control-flow flags
// (spec.md §9 Design Notes): Eval returns one of these and every block/
// loop/call frame unwraps the variant it is responsible for consuming.
type ReturnValue struct{ Value Object }

func (*ReturnValue) Type() string      { return "return" }
func (r *ReturnValue) Inspect() string { return r.Value.Inspect() }

type BreakSignal struct{}

func (*BreakSignal) Type() string    { return "break" }
func (*BreakSignal) Inspect() string { return "break" }

type ContinueSignal struct{}

func (*ContinueSignal) Type() string    { return "continue" }
func (*ContinueSignal) Inspect() string { return "continue" }

// Error is the runtime error sentinel object: it flows through Eval like
// any other value and is checked with isError at each propagation point,
// surfaced as a fatal diagnostic by cmd/jeem.
type Error struct {
	Message string
	Line    int
}

func (*Error) Type() string      { return "error" }
func (e *Error) Inspect() string { return "error: " + e.Message }

func (e *Error) Error() string { return e.Message }

func isError(o Object) bool {
	_, ok := o.(*Error)
	return ok
}

func newError(line int, format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Line: line}
}

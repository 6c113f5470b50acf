package evaluator

import (
	"fmt"
	"io"
	"os"

	"github.com/mrwan84/jeem/internal/ast"
)

// ModuleLoader is the narrow interface the evaluator needs from
// internal/modules, kept here to avoid a dependency cycle (modules
// needs to call back into Eval to run a loaded file).
type ModuleLoader interface {
	Load(interp *Interpreter, fromFile, path string) (*Module, error)
}

// TimerQueue is the narrow interface the evaluator needs from
// internal/timer to register setTimeout/setInterval callbacks.
type TimerQueue interface {
	Schedule(delayMs int64, repeat bool, fn func()) int64
	Cancel(id int64)
}

// Interpreter is the explicit, non-global execution context: every
// piece of mutable state that the teacher's evaluator would otherwise
// have kept in package-level variables lives here instead, so multiple
// independent interpreters (e.g. in tests) never share state.
type Interpreter struct {
	Global    *Environment
	Functions map[string]*ast.FunctionLiteral
	Classes   map[string]*ClassDef
	Builtins  map[string]*Builtin

	Loader ModuleLoader
	Timers TimerQueue

	CurrentFile string
	CurrentSelf *Instance

	Stdout io.Writer
	Stderr io.Writer

	Argv []string

	// evalDepth tracks the current Eval nesting depth. It guards
	// against a Go stack overflow from unbounded script recursion,
	// not a language feature; see maxEvalDepth.
	evalDepth int
}

// maxEvalDepth bounds Eval's recursion depth so runaway script
// recursion fails with a runtime error instead of crashing the process.
const maxEvalDepth = 10000

// New builds an Interpreter with an empty global scope and an empty
// builtin registry; callers install builtins with RegisterBuiltin.
func New() *Interpreter {
	interp := &Interpreter{
		Global:    NewGlobalEnvironment(),
		Functions: make(map[string]*ast.FunctionLiteral),
		Classes:   make(map[string]*ClassDef),
		Builtins:  make(map[string]*Builtin),
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
	return interp
}

// RegisterBuiltin installs a host function under name, callable from
// script code exactly like any other global identifier.
func (interp *Interpreter) RegisterBuiltin(name string, fn BuiltinFunction) {
	interp.Builtins[name] = &Builtin{Name: name, Fn: fn}
}

// Run evaluates a parsed program against the interpreter's global
// scope, hoisting top-level function and class declarations first so
// forward references resolve regardless of declaration order.
func (interp *Interpreter) Run(program *ast.Program) Object {
	interp.hoist(program.Statements)

	var result Object = NULL
	for _, stmt := range program.Statements {
		result = interp.Eval(stmt, interp.Global)
		if isError(result) {
			return result
		}
		if _, ok := result.(*ReturnValue); ok {
			return result
		}
	}
	return result
}

// hoist pre-registers top-level func/class declarations (and the ones
// nested one level inside export statements) so that mutual recursion
// and out-of-order references between top-level definitions work.
func (interp *Interpreter) hoist(stmts []ast.Statement) {
	for _, stmt := range stmts {
		interp.hoistOne(stmt)
	}
}

func (interp *Interpreter) hoistOne(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.FunctionLiteral:
		if s.Name != "" {
			interp.Functions[s.Name] = s
		}
	case *ast.ClassLiteral:
		interp.defineClass(s)
	case *ast.ExportStatement:
		interp.hoistOne(s.Inner)
	}
}

func (interp *Interpreter) defineClass(lit *ast.ClassLiteral) *ClassDef {
	def := &ClassDef{Name: lit.Name, Parent: lit.Parent, Methods: make(map[string]*ast.FunctionLiteral)}
	for _, m := range lit.Methods {
		def.Methods[m.Name] = m
	}
	interp.Classes[lit.Name] = def
	return def
}

// lookupMethod resolves a method by name against a class definition,
// per spec.md's method-dispatch fallback order: declared on the class
// itself, else inherited from its parent chain.
func (interp *Interpreter) lookupMethod(def *ClassDef, name string) (*ast.FunctionLiteral, *ClassDef) {
	for d := def; d != nil; {
		if m, ok := d.Methods[name]; ok {
			return m, d
		}
		if d.Parent == "" {
			return nil, nil
		}
		d = interp.Classes[d.Parent]
	}
	return nil, nil
}

func (interp *Interpreter) printf(format string, args ...interface{}) {
	fmt.Fprintf(interp.Stdout, format, args...)
}

// EvalModule executes program in env (a fresh scope chained to the
// global environment) and collects its top-level bindings into an Obj,
// implementing step 4 of the module loading algorithm: evaluate the
// target file in isolation and surface every binding of its root scope
// plus a reference to each top-level named function, whether or not
// the declaration carries `export`.
func (interp *Interpreter) EvalModule(program *ast.Program, env *Environment) (*Obj, Object) {
	interp.hoist(program.Statements)
	exports := NewObj()

	for _, stmt := range program.Statements {
		if exp, ok := stmt.(*ast.ExportStatement); ok {
			result := interp.Eval(exp.Inner, env)
			if isError(result) {
				return nil, result
			}
			if name := exportedName(exp.Inner); name != "" {
				if v, ok := env.Get(name); ok {
					exports.Set(name, v)
				}
			}
			continue
		}
		result := interp.Eval(stmt, env)
		if isError(result) {
			return nil, result
		}
	}
	for _, name := range env.Names() {
		v, _ := env.GetLocal(name)
		exports.Set(name, v)
	}
	for _, stmt := range program.Statements {
		if exp, ok := stmt.(*ast.ExportStatement); ok {
			stmt = exp.Inner
		}
		if fn, ok := stmt.(*ast.FunctionLiteral); ok && fn.Name != "" {
			exports.Set(fn.Name, &FunctionRef{Name: fn.Name})
		}
	}
	return exports, nil
}

// exportedName extracts the binding name introduced by a statement
// eligible to appear after `export`: a named function, a class, or a
// plain/const assignment.
func exportedName(stmt ast.Statement) string {
	switch s := stmt.(type) {
	case *ast.FunctionLiteral:
		return s.Name
	case *ast.ClassLiteral:
		return s.Name
	case *ast.ExpressionStatement:
		if ae, ok := s.Expression.(*ast.AssignExpression); ok {
			return ae.Name
		}
	}
	return ""
}

// Package core installs the language's I/O, type-introspection,
// container, and assertion built-ins: the ones too fundamental to sort
// under any of the other stdlib packages.
package core

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mrwan84/jeem/internal/evaluator"
)

var stdin = bufio.NewReader(os.Stdin)

// Install registers every core built-in under its catalog name.
func Install(interp *evaluator.Interpreter) {
	interp.RegisterBuiltin("print", builtinPrint)
	interp.RegisterBuiltin("input", builtinInput)

	interp.RegisterBuiltin("typeof", builtinTypeof)
	interp.RegisterBuiltin("isArray", builtinIsKind(func(o evaluator.Object) bool { _, ok := o.(*evaluator.Array); return ok }))
	interp.RegisterBuiltin("isObject", builtinIsKind(func(o evaluator.Object) bool { _, ok := o.(*evaluator.Obj); return ok }))
	interp.RegisterBuiltin("isString", builtinIsKind(func(o evaluator.Object) bool { _, ok := o.(*evaluator.String); return ok }))
	interp.RegisterBuiltin("isNumber", builtinIsKind(func(o evaluator.Object) bool {
		switch o.(type) {
		case *evaluator.Integer, *evaluator.Float:
			return true
		}
		return false
	}))
	interp.RegisterBuiltin("isFunc", builtinIsKind(func(o evaluator.Object) bool {
		switch o.(type) {
		case *evaluator.Closure, *evaluator.Builtin, *evaluator.FunctionRef:
			return true
		}
		return false
	}))

	interp.RegisterBuiltin("len", builtinLen)
	interp.RegisterBuiltin("keys", builtinKeys)
	interp.RegisterBuiltin("values", builtinValues)
	interp.RegisterBuiltin("push", builtinPush)
	interp.RegisterBuiltin("pop", builtinPop)
	interp.RegisterBuiltin("hasKey", builtinHasKey)
	interp.RegisterBuiltin("delete", builtinDelete)
	interp.RegisterBuiltin("clone", builtinClone)

	interp.RegisterBuiltin("assert", builtinAssert)
}

func builtinPrint(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	parts := make([]interface{}, len(args))
	for i, a := range args {
		if s, ok := a.(*evaluator.String); ok {
			parts[i] = s.Value
		} else {
			parts[i] = a.Inspect()
		}
	}
	line := fmt.Sprintln(parts...)
	fmt.Fprint(interp.Stdout, line)
	return evaluator.NULL
}

func builtinInput(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) > 0 {
		builtinPrint(interp, args)
	}
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return evaluator.NULL
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return &evaluator.String{Value: line}
}

func builtinTypeof(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return &evaluator.String{Value: "null"}
	}
	return &evaluator.String{Value: args[0].Type()}
}

func builtinIsKind(pred func(evaluator.Object) bool) evaluator.BuiltinFunction {
	return func(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
		if len(args) == 0 {
			return evaluator.FALSE
		}
		if pred(args[0]) {
			return evaluator.TRUE
		}
		return evaluator.FALSE
	}
}

func builtinLen(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return &evaluator.Integer{Value: 0}
	}
	switch v := args[0].(type) {
	case *evaluator.Array:
		return &evaluator.Integer{Value: int64(len(v.Elements))}
	case *evaluator.String:
		return &evaluator.Integer{Value: int64(len(v.Value))}
	case *evaluator.Obj:
		return &evaluator.Integer{Value: int64(v.Len())}
	}
	return evaluator.NULL
}

func builtinKeys(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return &evaluator.Array{}
	}
	o, ok := args[0].(*evaluator.Obj)
	if !ok {
		return evaluator.NULL
	}
	ks := o.Keys()
	out := make([]evaluator.Object, len(ks))
	for i, k := range ks {
		out[i] = &evaluator.String{Value: k}
	}
	return &evaluator.Array{Elements: out}
}

func builtinValues(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return &evaluator.Array{}
	}
	o, ok := args[0].(*evaluator.Obj)
	if !ok {
		return evaluator.NULL
	}
	ks := o.Keys()
	out := make([]evaluator.Object, len(ks))
	for i, k := range ks {
		v, _ := o.Get(k)
		out[i] = v
	}
	return &evaluator.Array{Elements: out}
}

func builtinPush(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) < 1 {
		return evaluator.NULL
	}
	arr, ok := args[0].(*evaluator.Array)
	if !ok {
		return evaluator.NULL
	}
	arr.Elements = append(arr.Elements, args[1:]...)
	return &evaluator.Integer{Value: int64(len(arr.Elements))}
}

func builtinPop(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return evaluator.NULL
	}
	arr, ok := args[0].(*evaluator.Array)
	if !ok || len(arr.Elements) == 0 {
		return evaluator.NULL
	}
	last := arr.Elements[len(arr.Elements)-1]
	arr.Elements = arr.Elements[:len(arr.Elements)-1]
	return last
}

func builtinHasKey(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) < 2 {
		return evaluator.FALSE
	}
	o, ok := args[0].(*evaluator.Obj)
	if !ok {
		return evaluator.FALSE
	}
	key, ok := args[1].(*evaluator.String)
	if !ok {
		return evaluator.FALSE
	}
	_, found := o.Get(key.Value)
	if found {
		return evaluator.TRUE
	}
	return evaluator.FALSE
}

func builtinDelete(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) < 2 {
		return evaluator.FALSE
	}
	o, ok := args[0].(*evaluator.Obj)
	if !ok {
		return evaluator.FALSE
	}
	key, ok := args[1].(*evaluator.String)
	if !ok {
		return evaluator.FALSE
	}
	if o.Delete(key.Value) {
		return evaluator.TRUE
	}
	return evaluator.FALSE
}

func builtinClone(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return evaluator.NULL
	}
	switch v := args[0].(type) {
	case *evaluator.Array:
		out := make([]evaluator.Object, len(v.Elements))
		copy(out, v.Elements)
		return &evaluator.Array{Elements: out}
	case *evaluator.Obj:
		clone := evaluator.NewObj()
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			clone.Set(k, val)
		}
		return clone
	default:
		return v
	}
}

func builtinAssert(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return evaluator.NULL
	}
	ok := args[0]
	truthy := false
	switch v := ok.(type) {
	case *evaluator.Boolean:
		truthy = v.Value
	case *evaluator.Null:
		truthy = false
	default:
		truthy = true
	}
	if truthy {
		return evaluator.NULL
	}
	msg := "assertion failed"
	if len(args) > 1 {
		if s, ok := args[1].(*evaluator.String); ok {
			msg = s.Value
		}
	}
	return evaluator.NewAssertionError(msg)
}

// Package strtools installs the flat string built-ins from spec.md's
// catalog (str, join, split, trim, upper, lower, replace, indexOf,
// slice, reverse) — the function-call counterparts to the String
// method catalog in internal/evaluator/methods_string.go.
package strtools

import (
	"strings"

	"github.com/mrwan84/jeem/internal/evaluator"
)

func Install(interp *evaluator.Interpreter) {
	interp.RegisterBuiltin("str", builtinStr)
	interp.RegisterBuiltin("join", builtinJoin)
	interp.RegisterBuiltin("split", builtinSplit)
	interp.RegisterBuiltin("trim", builtinTrim)
	interp.RegisterBuiltin("upper", builtinUpper)
	interp.RegisterBuiltin("lower", builtinLower)
	interp.RegisterBuiltin("replace", builtinReplace)
	interp.RegisterBuiltin("indexOf", builtinIndexOf)
	interp.RegisterBuiltin("slice", builtinSlice)
	interp.RegisterBuiltin("reverse", builtinReverse)
}

func builtinStr(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return &evaluator.String{Value: ""}
	}
	if s, ok := args[0].(*evaluator.String); ok {
		return s
	}
	return &evaluator.String{Value: args[0].Inspect()}
}

func argString(args []evaluator.Object, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(*evaluator.String)
	if !ok {
		return "", false
	}
	return s.Value, true
}

func builtinJoin(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return &evaluator.String{Value: ""}
	}
	arr, ok := args[0].(*evaluator.Array)
	if !ok {
		return evaluator.NULL
	}
	sep := ","
	if s, ok := argString(args, 1); ok {
		sep = s
	}
	parts := make([]string, len(arr.Elements))
	for i, el := range arr.Elements {
		if s, ok := el.(*evaluator.String); ok {
			parts[i] = s.Value
		} else {
			parts[i] = el.Inspect()
		}
	}
	return &evaluator.String{Value: strings.Join(parts, sep)}
}

func builtinSplit(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	s, ok := argString(args, 0)
	if !ok {
		return evaluator.NULL
	}
	sep, _ := argString(args, 1)
	var parts []string
	if sep == "" {
		for _, r := range s {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(s, sep)
	}
	out := make([]evaluator.Object, len(parts))
	for i, p := range parts {
		out[i] = &evaluator.String{Value: p}
	}
	return &evaluator.Array{Elements: out}
}

func builtinTrim(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	s, ok := argString(args, 0)
	if !ok {
		return evaluator.NULL
	}
	return &evaluator.String{Value: strings.TrimSpace(s)}
}

func builtinUpper(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	s, ok := argString(args, 0)
	if !ok {
		return evaluator.NULL
	}
	return &evaluator.String{Value: strings.ToUpper(s)}
}

func builtinLower(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	s, ok := argString(args, 0)
	if !ok {
		return evaluator.NULL
	}
	return &evaluator.String{Value: strings.ToLower(s)}
}

func builtinReplace(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	s, ok := argString(args, 0)
	if !ok {
		return evaluator.NULL
	}
	search, _ := argString(args, 1)
	repl, _ := argString(args, 2)
	return &evaluator.String{Value: strings.ReplaceAll(s, search, repl)}
}

func builtinIndexOf(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	s, ok := argString(args, 0)
	if !ok {
		return evaluator.NULL
	}
	search, _ := argString(args, 1)
	return &evaluator.Integer{Value: int64(strings.Index(s, search))}
}

func builtinSlice(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	s, ok := argString(args, 0)
	if !ok {
		return evaluator.NULL
	}
	bytes := []byte(s)
	n := int64(len(bytes))
	start, end := int64(0), n
	if len(args) > 1 {
		if i, ok := args[1].(*evaluator.Integer); ok {
			start = normalize(i.Value, n)
		}
	}
	if len(args) > 2 {
		if i, ok := args[2].(*evaluator.Integer); ok {
			end = normalize(i.Value, n)
		}
	}
	if start > end {
		start = end
	}
	return &evaluator.String{Value: string(bytes[start:end])}
}

func normalize(i, n int64) int64 {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func builtinReverse(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return evaluator.NULL
	}
	s, ok := argString(args, 0)
	if ok {
		bytes := []byte(s)
		for i, j := 0, len(bytes)-1; i < j; i, j = i+1, j-1 {
			bytes[i], bytes[j] = bytes[j], bytes[i]
		}
		return &evaluator.String{Value: string(bytes)}
	}
	if arr, ok := args[0].(*evaluator.Array); ok {
		n := len(arr.Elements)
		out := make([]evaluator.Object, n)
		for i, el := range arr.Elements {
			out[n-1-i] = el
		}
		return &evaluator.Array{Elements: out}
	}
	return evaluator.NULL
}

// Package numerics installs spec.md's numeric built-ins: int, float,
// abs, min, max, floor, ceil, round, sqrt, pow, random, randomInt,
// range.
package numerics

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/mrwan84/jeem/internal/evaluator"
)

func Install(interp *evaluator.Interpreter) {
	interp.RegisterBuiltin("int", builtinInt)
	interp.RegisterBuiltin("float", builtinFloat)
	interp.RegisterBuiltin("abs", unary(math.Abs))
	interp.RegisterBuiltin("min", builtinMin)
	interp.RegisterBuiltin("max", builtinMax)
	interp.RegisterBuiltin("floor", unary(math.Floor))
	interp.RegisterBuiltin("ceil", unary(math.Ceil))
	interp.RegisterBuiltin("round", unary(math.Round))
	interp.RegisterBuiltin("sqrt", unary(math.Sqrt))
	interp.RegisterBuiltin("pow", builtinPow)
	interp.RegisterBuiltin("random", builtinRandom)
	interp.RegisterBuiltin("randomInt", builtinRandomInt)
	interp.RegisterBuiltin("range", builtinRange)

	interp.Global.Declare("PI", &evaluator.Float{Value: math.Pi}, true)
	interp.Global.Declare("E", &evaluator.Float{Value: math.E}, true)
}

func toFloat(o evaluator.Object) (float64, bool) {
	switch v := o.(type) {
	case *evaluator.Integer:
		return float64(v.Value), true
	case *evaluator.Float:
		return v.Value, true
	case *evaluator.String:
		f, err := strconv.ParseFloat(v.Value, 64)
		return f, err == nil
	}
	return 0, false
}

func builtinInt(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return &evaluator.Integer{Value: 0}
	}
	switch v := args[0].(type) {
	case *evaluator.Integer:
		return v
	case *evaluator.Float:
		return &evaluator.Integer{Value: int64(v.Value)}
	case *evaluator.String:
		n, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			return evaluator.NULL
		}
		return &evaluator.Integer{Value: n}
	}
	return evaluator.NULL
}

func builtinFloat(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return &evaluator.Float{Value: 0}
	}
	f, ok := toFloat(args[0])
	if !ok {
		return evaluator.NULL
	}
	return &evaluator.Float{Value: f}
}

func unary(fn func(float64) float64) evaluator.BuiltinFunction {
	return func(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
		if len(args) == 0 {
			return evaluator.NULL
		}
		f, ok := toFloat(args[0])
		if !ok {
			return evaluator.NULL
		}
		return &evaluator.Float{Value: fn(f)}
	}
}

func builtinMin(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	return extremum(args, func(a, b float64) bool { return a < b })
}

func builtinMax(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	return extremum(args, func(a, b float64) bool { return a > b })
}

func extremum(args []evaluator.Object, better func(a, b float64) bool) evaluator.Object {
	if len(args) == 0 {
		return evaluator.NULL
	}
	best := args[0]
	bestF, ok := toFloat(best)
	if !ok {
		return evaluator.NULL
	}
	allInt := isInt(best)
	for _, a := range args[1:] {
		f, ok := toFloat(a)
		if !ok {
			continue
		}
		if !isInt(a) {
			allInt = false
		}
		if better(f, bestF) {
			best, bestF = a, f
		}
	}
	if allInt {
		return &evaluator.Integer{Value: int64(bestF)}
	}
	return &evaluator.Float{Value: bestF}
}

func isInt(o evaluator.Object) bool {
	_, ok := o.(*evaluator.Integer)
	return ok
}

func builtinPow(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) < 2 {
		return evaluator.NULL
	}
	base, ok1 := toFloat(args[0])
	exp, ok2 := toFloat(args[1])
	if !ok1 || !ok2 {
		return evaluator.NULL
	}
	result := math.Pow(base, exp)
	if isInt(args[0]) && isInt(args[1]) && exp >= 0 {
		return &evaluator.Integer{Value: int64(result)}
	}
	return &evaluator.Float{Value: result}
}

func builtinRandom(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	return &evaluator.Float{Value: rand.Float64()}
}

func builtinRandomInt(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) < 2 {
		return evaluator.NULL
	}
	lo, ok1 := args[0].(*evaluator.Integer)
	hi, ok2 := args[1].(*evaluator.Integer)
	if !ok1 || !ok2 || hi.Value < lo.Value {
		return evaluator.NULL
	}
	span := hi.Value - lo.Value + 1
	return &evaluator.Integer{Value: lo.Value + rand.Int63n(span)}
}

// builtinRange returns [0, n), [start, end), or [start, end) stepping
// by step, depending on arity, mirroring the common range() contract.
func builtinRange(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	var start, end, step int64 = 0, 0, 1
	switch len(args) {
	case 0:
		return &evaluator.Array{}
	case 1:
		n, ok := args[0].(*evaluator.Integer)
		if !ok {
			return evaluator.NULL
		}
		end = n.Value
	case 2:
		s, ok1 := args[0].(*evaluator.Integer)
		e, ok2 := args[1].(*evaluator.Integer)
		if !ok1 || !ok2 {
			return evaluator.NULL
		}
		start, end = s.Value, e.Value
	default:
		s, ok1 := args[0].(*evaluator.Integer)
		e, ok2 := args[1].(*evaluator.Integer)
		st, ok3 := args[2].(*evaluator.Integer)
		if !ok1 || !ok2 || !ok3 || st.Value == 0 {
			return evaluator.NULL
		}
		start, end, step = s.Value, e.Value, st.Value
	}
	var out []evaluator.Object
	if step > 0 {
		for i := start; i < end; i += step {
			out = append(out, &evaluator.Integer{Value: i})
		}
	} else {
		for i := start; i > end; i += step {
			out = append(out, &evaluator.Integer{Value: i})
		}
	}
	return &evaluator.Array{Elements: out}
}

package evaluator

import "sort"

// arrayMethods is the Array built-in method catalog (spec.md's Array
// methods list). Every entry receives the receiver array as args[0].
// It is filled in init because the callback-taking entries reach back
// into the evaluator, which itself reads arrayMethods.
var arrayMethods map[string]BuiltinFunction

func init() {
	arrayMethods = map[string]BuiltinFunction{
		"map":        arrayMap,
		"filter":     arrayFilter,
		"reduce":     arrayReduce,
		"forEach":    arrayForEach,
		"find":       arrayFind,
		"findIndex":  arrayFindIndex,
		"every":      arrayEvery,
		"some":       arraySome,
		"includes":   arrayIncludes,
		"push":       arrayPush,
		"pop":        arrayPop,
		"len":        arrayLen,
		"join":       arrayJoin,
		"reverse":    arrayReverse,
		"sort":       arraySort,
		"slice":      arraySlice,
		"indexOf":    arrayIndexOf,
	}
}

func receiverArray(args []Object) (*Array, []Object, *Error) {
	if len(args) == 0 {
		return nil, nil, newError(0, "missing array receiver")
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return nil, nil, newError(0, "expected array receiver, got %s", args[0].Type())
	}
	return arr, args[1:], nil
}

func arrayMap(interp *Interpreter, args []Object) Object {
	arr, rest, err := receiverArray(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "map requires a callback argument")
	}
	out := make([]Object, len(arr.Elements))
	for i, el := range arr.Elements {
		result := interp.callValue(0, rest[0], []Object{el, &Integer{Value: int64(i)}})
		if isError(result) {
			return result
		}
		out[i] = result
	}
	return &Array{Elements: out}
}

func arrayFilter(interp *Interpreter, args []Object) Object {
	arr, rest, err := receiverArray(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "filter requires a callback argument")
	}
	var out []Object
	for i, el := range arr.Elements {
		result := interp.callValue(0, rest[0], []Object{el, &Integer{Value: int64(i)}})
		if isError(result) {
			return result
		}
		if isTruthy(result) {
			out = append(out, el)
		}
	}
	return &Array{Elements: out}
}

func arrayReduce(interp *Interpreter, args []Object) Object {
	arr, rest, err := receiverArray(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "reduce requires a callback argument")
	}
	elements := arr.Elements
	var acc Object
	start := 0
	if len(rest) > 1 {
		acc = rest[1]
	} else {
		if len(elements) == 0 {
			return newError(0, "reduce of empty array with no initial value")
		}
		acc = elements[0]
		start = 1
	}
	for i := start; i < len(elements); i++ {
		result := interp.callValue(0, rest[0], []Object{acc, elements[i], &Integer{Value: int64(i)}})
		if isError(result) {
			return result
		}
		acc = result
	}
	return acc
}

func arrayForEach(interp *Interpreter, args []Object) Object {
	arr, rest, err := receiverArray(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "forEach requires a callback argument")
	}
	for i, el := range arr.Elements {
		result := interp.callValue(0, rest[0], []Object{el, &Integer{Value: int64(i)}})
		if isError(result) {
			return result
		}
	}
	return NULL
}

func arrayFind(interp *Interpreter, args []Object) Object {
	arr, rest, err := receiverArray(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "find requires a callback argument")
	}
	for i, el := range arr.Elements {
		result := interp.callValue(0, rest[0], []Object{el, &Integer{Value: int64(i)}})
		if isError(result) {
			return result
		}
		if isTruthy(result) {
			return el
		}
	}
	return NULL
}

func arrayFindIndex(interp *Interpreter, args []Object) Object {
	arr, rest, err := receiverArray(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "findIndex requires a callback argument")
	}
	for i, el := range arr.Elements {
		result := interp.callValue(0, rest[0], []Object{el, &Integer{Value: int64(i)}})
		if isError(result) {
			return result
		}
		if isTruthy(result) {
			return &Integer{Value: int64(i)}
		}
	}
	return &Integer{Value: -1}
}

func arrayEvery(interp *Interpreter, args []Object) Object {
	arr, rest, err := receiverArray(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "every requires a callback argument")
	}
	for i, el := range arr.Elements {
		result := interp.callValue(0, rest[0], []Object{el, &Integer{Value: int64(i)}})
		if isError(result) {
			return result
		}
		if !isTruthy(result) {
			return FALSE
		}
	}
	return TRUE
}

func arraySome(interp *Interpreter, args []Object) Object {
	arr, rest, err := receiverArray(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "some requires a callback argument")
	}
	for i, el := range arr.Elements {
		result := interp.callValue(0, rest[0], []Object{el, &Integer{Value: int64(i)}})
		if isError(result) {
			return result
		}
		if isTruthy(result) {
			return TRUE
		}
	}
	return FALSE
}

func arrayIncludes(interp *Interpreter, args []Object) Object {
	arr, rest, err := receiverArray(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "includes requires a value argument")
	}
	for _, el := range arr.Elements {
		if objectsEqual(el, rest[0]) {
			return TRUE
		}
	}
	return FALSE
}

func arrayIndexOf(interp *Interpreter, args []Object) Object {
	arr, rest, err := receiverArray(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "indexOf requires a value argument")
	}
	for i, el := range arr.Elements {
		if objectsEqual(el, rest[0]) {
			return &Integer{Value: int64(i)}
		}
	}
	return &Integer{Value: -1}
}

func arrayPush(interp *Interpreter, args []Object) Object {
	arr, rest, err := receiverArray(args)
	if err != nil {
		return err
	}
	arr.Elements = append(arr.Elements, rest...)
	return &Integer{Value: int64(len(arr.Elements))}
}

func arrayPop(interp *Interpreter, args []Object) Object {
	arr, _, err := receiverArray(args)
	if err != nil {
		return err
	}
	if len(arr.Elements) == 0 {
		return NULL
	}
	last := arr.Elements[len(arr.Elements)-1]
	arr.Elements = arr.Elements[:len(arr.Elements)-1]
	return last
}

func arrayLen(interp *Interpreter, args []Object) Object {
	arr, _, err := receiverArray(args)
	if err != nil {
		return err
	}
	return &Integer{Value: int64(len(arr.Elements))}
}

func arrayJoin(interp *Interpreter, args []Object) Object {
	arr, rest, err := receiverArray(args)
	if err != nil {
		return err
	}
	sep := ","
	if len(rest) > 0 {
		if s, ok := rest[0].(*String); ok {
			sep = s.Value
		}
	}
	parts := make([]string, len(arr.Elements))
	for i, el := range arr.Elements {
		if s, ok := el.(*String); ok {
			parts[i] = s.Value
		} else {
			parts[i] = el.Inspect()
		}
	}
	joined := ""
	for i, p := range parts {
		if i > 0 {
			joined += sep
		}
		joined += p
	}
	return &String{Value: joined}
}

func arrayReverse(interp *Interpreter, args []Object) Object {
	arr, _, err := receiverArray(args)
	if err != nil {
		return err
	}
	n := len(arr.Elements)
	out := make([]Object, n)
	for i, el := range arr.Elements {
		out[n-1-i] = el
	}
	return &Array{Elements: out}
}

func arraySlice(interp *Interpreter, args []Object) Object {
	arr, rest, err := receiverArray(args)
	if err != nil {
		return err
	}
	n := int64(len(arr.Elements))
	start, end := int64(0), n
	if len(rest) > 0 {
		if i, ok := rest[0].(*Integer); ok {
			start = normalizeIndex(i.Value, n)
		}
	}
	if len(rest) > 1 {
		if i, ok := rest[1].(*Integer); ok {
			end = normalizeIndex(i.Value, n)
		}
	}
	if start > end {
		start = end
	}
	out := make([]Object, end-start)
	copy(out, arr.Elements[start:end])
	return &Array{Elements: out}
}

func normalizeIndex(i, n int64) int64 {
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

// arraySort orders by an explicit comparator callback whenever one is
// given (it returns a negative/zero/positive int, mirroring the common
// JS-descended sort() contract); without one, numbers compare
// numerically and strings lexically.
func arraySort(interp *Interpreter, args []Object) Object {
	arr, rest, err := receiverArray(args)
	if err != nil {
		return err
	}
	out := make([]Object, len(arr.Elements))
	copy(out, arr.Elements)

	if len(rest) > 0 {
		cmp := rest[0]
		var sortErr *Error
		sort.SliceStable(out, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			result := interp.callValue(0, cmp, []Object{out[i], out[j]})
			if e, ok := result.(*Error); ok {
				sortErr = e
				return false
			}
			n, _ := toFloat(result)
			return n < 0
		})
		if sortErr != nil {
			return sortErr
		}
		return &Array{Elements: out}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if ls, ok := out[i].(*String); ok {
			if rs, ok := out[j].(*String); ok {
				return ls.Value < rs.Value
			}
		}
		lf, _ := toFloat(out[i])
		rf, _ := toFloat(out[j])
		return lf < rf
	})
	return &Array{Elements: out}
}

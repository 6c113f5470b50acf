// Package codec installs the JSON built-ins jsonParse and
// jsonStringify, converting between the language's Object model and Go
// values through encoding/json, the same codec the teacher's HTTP and
// manifest plumbing uses.
package codec

import (
	"encoding/json"

	"github.com/mrwan84/jeem/internal/evaluator"
)

func Install(interp *evaluator.Interpreter) {
	interp.RegisterBuiltin("jsonParse", builtinJSONParse)
	interp.RegisterBuiltin("jsonStringify", builtinJSONStringify)
}

func builtinJSONParse(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return evaluator.NULL
	}
	s, ok := args[0].(*evaluator.String)
	if !ok {
		return evaluator.NULL
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s.Value), &v); err != nil {
		return evaluator.NULL
	}
	return FromGo(v)
}

func builtinJSONStringify(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return &evaluator.String{Value: "null"}
	}
	indent := false
	if len(args) > 1 {
		if b, ok := args[1].(*evaluator.Boolean); ok {
			indent = b.Value
		}
	}
	var (
		data []byte
		err  error
	)
	v := ToGo(args[0])
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return evaluator.NULL
	}
	return &evaluator.String{Value: string(data)}
}

// ToGo converts a runtime Object into a plain Go value suitable for
// encoding/json, used by jsonStringify and by the HTTP client/server
// packages when marshaling request/response bodies.
func ToGo(o evaluator.Object) interface{} {
	switch v := o.(type) {
	case *evaluator.Null, nil:
		return nil
	case *evaluator.Boolean:
		return v.Value
	case *evaluator.Integer:
		return v.Value
	case *evaluator.Float:
		return v.Value
	case *evaluator.String:
		return v.Value
	case *evaluator.Array:
		out := make([]interface{}, len(v.Elements))
		for i, el := range v.Elements {
			out[i] = ToGo(el)
		}
		return out
	case *evaluator.Obj:
		out := make(map[string]interface{})
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			out[k] = ToGo(val)
		}
		return out
	default:
		return o.Inspect()
	}
}

// FromGo converts a decoded JSON value back into a runtime Object.
func FromGo(v interface{}) evaluator.Object {
	switch val := v.(type) {
	case nil:
		return evaluator.NULL
	case bool:
		if val {
			return evaluator.TRUE
		}
		return evaluator.FALSE
	case float64:
		if val == float64(int64(val)) {
			return &evaluator.Integer{Value: int64(val)}
		}
		return &evaluator.Float{Value: val}
	case string:
		return &evaluator.String{Value: val}
	case []interface{}:
		out := make([]evaluator.Object, len(val))
		for i, el := range val {
			out[i] = FromGo(el)
		}
		return &evaluator.Array{Elements: out}
	case map[string]interface{}:
		obj := evaluator.NewObj()
		for k, el := range val {
			obj.Set(k, FromGo(el))
		}
		return obj
	}
	return evaluator.NULL
}

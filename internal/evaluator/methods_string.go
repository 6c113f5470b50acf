package evaluator

import "strings"

// stringMethods is the String built-in method catalog (spec.md's String
// methods list). Every entry receives the receiver string as args[0].
var stringMethods = map[string]BuiltinFunction{
	"upper":      stringUpper,
	"lower":      stringLower,
	"trim":       stringTrim,
	"split":      stringSplit,
	"replace":    stringReplace,
	"substring":  stringSubstring,
	"slice":      stringSubstring,
	"indexOf":    stringIndexOf,
	"includes":   stringIncludes,
	"startsWith": stringStartsWith,
	"endsWith":   stringEndsWith,
	"charAt":     stringCharAt,
	"len":        stringLen,
}

func receiverString(args []Object) (*String, []Object, *Error) {
	if len(args) == 0 {
		return nil, nil, newError(0, "missing string receiver")
	}
	s, ok := args[0].(*String)
	if !ok {
		return nil, nil, newError(0, "expected string receiver, got %s", args[0].Type())
	}
	return s, args[1:], nil
}

func stringUpper(interp *Interpreter, args []Object) Object {
	s, _, err := receiverString(args)
	if err != nil {
		return err
	}
	return &String{Value: strings.ToUpper(s.Value)}
}

func stringLower(interp *Interpreter, args []Object) Object {
	s, _, err := receiverString(args)
	if err != nil {
		return err
	}
	return &String{Value: strings.ToLower(s.Value)}
}

func stringTrim(interp *Interpreter, args []Object) Object {
	s, _, err := receiverString(args)
	if err != nil {
		return err
	}
	return &String{Value: strings.TrimSpace(s.Value)}
}

func stringSplit(interp *Interpreter, args []Object) Object {
	s, rest, err := receiverString(args)
	if err != nil {
		return err
	}
	sep := ""
	if len(rest) > 0 {
		if sv, ok := rest[0].(*String); ok {
			sep = sv.Value
		}
	}
	var parts []string
	if sep == "" {
		for _, r := range s.Value {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(s.Value, sep)
	}
	elements := make([]Object, len(parts))
	for i, p := range parts {
		elements[i] = &String{Value: p}
	}
	return &Array{Elements: elements}
}

func stringReplace(interp *Interpreter, args []Object) Object {
	s, rest, err := receiverString(args)
	if err != nil {
		return err
	}
	if len(rest) < 2 {
		return newError(0, "replace requires a search and replacement argument")
	}
	search, ok1 := rest[0].(*String)
	repl, ok2 := rest[1].(*String)
	if !ok1 || !ok2 {
		return newError(0, "replace requires string arguments")
	}
	return &String{Value: strings.ReplaceAll(s.Value, search.Value, repl.Value)}
}

// stringSubstring backs both `substring` and `slice`; an omitted end
// argument defaults to the string's length, matching the source's
// INT_MAX sentinel default.
func stringSubstring(interp *Interpreter, args []Object) Object {
	s, rest, err := receiverString(args)
	if err != nil {
		return err
	}
	bytes := []byte(s.Value)
	n := int64(len(bytes))
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
	return &String{Value: string(bytes[start:end])}
}

func stringIndexOf(interp *Interpreter, args []Object) Object {
	s, rest, err := receiverString(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "indexOf requires a search string")
	}
	search, ok := rest[0].(*String)
	if !ok {
		return newError(0, "indexOf requires a string argument")
	}
	return &Integer{Value: int64(strings.Index(s.Value, search.Value))}
}

func stringIncludes(interp *Interpreter, args []Object) Object {
	s, rest, err := receiverString(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "includes requires a search string")
	}
	search, ok := rest[0].(*String)
	if !ok {
		return newError(0, "includes requires a string argument")
	}
	return nativeBool(strings.Contains(s.Value, search.Value))
}

func stringStartsWith(interp *Interpreter, args []Object) Object {
	s, rest, err := receiverString(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "startsWith requires a search string")
	}
	search, ok := rest[0].(*String)
	if !ok {
		return newError(0, "startsWith requires a string argument")
	}
	return nativeBool(strings.HasPrefix(s.Value, search.Value))
}

func stringEndsWith(interp *Interpreter, args []Object) Object {
	s, rest, err := receiverString(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "endsWith requires a search string")
	}
	search, ok := rest[0].(*String)
	if !ok {
		return newError(0, "endsWith requires a string argument")
	}
	return nativeBool(strings.HasSuffix(s.Value, search.Value))
}

func stringCharAt(interp *Interpreter, args []Object) Object {
	s, rest, err := receiverString(args)
	if err != nil {
		return err
	}
	bytes := []byte(s.Value)
	if len(rest) == 0 {
		return newError(0, "charAt requires an index argument")
	}
	i, ok := rest[0].(*Integer)
	if !ok {
		return newError(0, "charAt requires an int argument")
	}
	pos := i.Value
	if pos < 0 || pos >= int64(len(bytes)) {
		return &String{Value: ""}
	}
	return &String{Value: string(bytes[pos : pos+1])}
}

func stringLen(interp *Interpreter, args []Object) Object {
	s, _, err := receiverString(args)
	if err != nil {
		return err
	}
	return &Integer{Value: int64(len(s.Value))}
}

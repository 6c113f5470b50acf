package evaluator

// objectMethods is the Object built-in method catalog (spec.md's
// Object/Module methods list). Every entry receives the receiver as
// args[0].
var objectMethods = map[string]BuiltinFunction{
	"keys":           objectKeys,
	"values":         objectValues,
	"entries":        objectEntries,
	"hasOwnProperty": objectHasOwnProperty,
	"len":            objectLen,
}

func receiverObj(args []Object) (*Obj, []Object, *Error) {
	if len(args) == 0 {
		return nil, nil, newError(0, "missing object receiver")
	}
	o, ok := args[0].(*Obj)
	if !ok {
		return nil, nil, newError(0, "expected object receiver, got %s", args[0].Type())
	}
	return o, args[1:], nil
}

func objectKeys(interp *Interpreter, args []Object) Object {
	o, _, err := receiverObj(args)
	if err != nil {
		return err
	}
	keys := o.Keys()
	out := make([]Object, len(keys))
	for i, k := range keys {
		out[i] = &String{Value: k}
	}
	return &Array{Elements: out}
}

func objectValues(interp *Interpreter, args []Object) Object {
	o, _, err := receiverObj(args)
	if err != nil {
		return err
	}
	keys := o.Keys()
	out := make([]Object, len(keys))
	for i, k := range keys {
		v, _ := o.Get(k)
		out[i] = v
	}
	return &Array{Elements: out}
}

func objectEntries(interp *Interpreter, args []Object) Object {
	o, _, err := receiverObj(args)
	if err != nil {
		return err
	}
	keys := o.Keys()
	out := make([]Object, len(keys))
	for i, k := range keys {
		v, _ := o.Get(k)
		out[i] = &Array{Elements: []Object{&String{Value: k}, v}}
	}
	return &Array{Elements: out}
}

func objectHasOwnProperty(interp *Interpreter, args []Object) Object {
	o, rest, err := receiverObj(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return newError(0, "hasOwnProperty requires a key argument")
	}
	key, ok := rest[0].(*String)
	if !ok {
		return newError(0, "hasOwnProperty requires a string argument")
	}
	_, found := o.Get(key.Value)
	return nativeBool(found)
}

func objectLen(interp *Interpreter, args []Object) Object {
	o, _, err := receiverObj(args)
	if err != nil {
		return err
	}
	return &Integer{Value: int64(o.Len())}
}

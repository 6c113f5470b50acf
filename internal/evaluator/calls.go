package evaluator

import "github.com/mrwan84/jeem/internal/ast"

// evalCallExpression evaluates arguments eagerly, left to right (spec's
// eager-evaluation, shared-reference argument-passing rule), then
// dispatches on the callee's syntactic shape: a bare name first checks
// the scope chain, then the global function table, then builtins; a
// member access first tries the receiver's method/builtin catalog and
// falls back to a callable property value; anything else (an anonymous
// closure literal or an arbitrary expression) is evaluated to a value
// and invoked directly.
func (interp *Interpreter) evalCallExpression(n *ast.CallExpression, env *Environment) Object {
	args, errObj := interp.evalArgs(n.Arguments, env)
	if errObj != nil {
		return errObj
	}

	switch callee := n.Callee.(type) {
	case *ast.Identifier:
		return interp.callBareName(n.Line(), callee.Name, args, env)
	case *ast.MemberExpression:
		return interp.callMemberExpression(n.Line(), callee, args, env)
	default:
		calleeVal := interp.Eval(n.Callee, env)
		if isError(calleeVal) {
			return calleeVal
		}
		return interp.callValue(n.Line(), calleeVal, args)
	}
}

func (interp *Interpreter) evalArgs(exprs []ast.Expression, env *Environment) ([]Object, *Error) {
	args := make([]Object, 0, len(exprs))
	for _, e := range exprs {
		v := interp.Eval(e, env)
		if err, ok := v.(*Error); ok {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (interp *Interpreter) callBareName(line int, name string, args []Object, env *Environment) Object {
	if val, ok := env.Get(name); ok {
		return interp.callValue(line, val, args)
	}
	if fn, ok := interp.Functions[name]; ok {
		return interp.callFunctionLiteral(fn, args, nil)
	}
	if _, ok := interp.Classes[name]; ok {
		return typeError(line, "class '%s' is not callable, use 'new %s(...)'", name, name)
	}
	if b, ok := interp.Builtins[name]; ok {
		return b.Fn(interp, args)
	}
	return referenceError(line, "undefined function '%s'", name)
}

func (interp *Interpreter) callMemberExpression(line int, me *ast.MemberExpression, args []Object, env *Environment) Object {
	left := interp.Eval(me.Left, env)
	if isError(left) {
		return left
	}
	switch v := left.(type) {
	case *Instance:
		if method, def := interp.lookupMethod(v.Class, me.Member); method != nil {
			return interp.callMethod(v, def, method, args)
		}
		if prop, ok := v.Props.Get(me.Member); ok {
			return interp.callValue(line, prop, args)
		}
		return typeError(line, "'%s' has no method '%s'", v.Class.Name, me.Member)
	case *Array:
		if fn, ok := arrayMethods[me.Member]; ok {
			return fn(interp, append([]Object{v}, args...))
		}
		return typeError(line, "array has no method '%s'", me.Member)
	case *String:
		if fn, ok := stringMethods[me.Member]; ok {
			return fn(interp, append([]Object{v}, args...))
		}
		return typeError(line, "string has no method '%s'", me.Member)
	case *Obj:
		if fn, ok := objectMethods[me.Member]; ok {
			return fn(interp, append([]Object{v}, args...))
		}
		if prop, ok := v.Get(me.Member); ok {
			return interp.callValue(line, prop, args)
		}
		return typeError(line, "object has no method '%s'", me.Member)
	case *Module:
		if prop, ok := v.Obj.Get(me.Member); ok {
			return interp.callValue(line, prop, args)
		}
		return typeError(line, "module '%s' has no member '%s'", v.Path, me.Member)
	}
	return typeError(line, "type %s has no callable member '%s'", left.Type(), me.Member)
}

// InvokeCallback calls an arbitrary callable value with args, for hosts
// (the timer loop, array/object methods exposed through builtins
// outside this package) that hold a callback Object but aren't
// themselves part of the evaluator package.
func (interp *Interpreter) InvokeCallback(val Object, args []Object) Object {
	return interp.callValue(0, val, args)
}

func (interp *Interpreter) callValue(line int, val Object, args []Object) Object {
	switch fn := val.(type) {
	case *Closure:
		return interp.callClosure(fn, args)
	case *Builtin:
		return fn.Fn(interp, args)
	case *FunctionRef:
		lit, ok := interp.Functions[fn.Name]
		if !ok {
			return referenceError(line, "undefined function '%s'", fn.Name)
		}
		return interp.callFunctionLiteral(lit, args, nil)
	case *boundMethod:
		method, def := interp.lookupMethod(fn.instance.Class, fn.name)
		if method == nil {
			return typeError(line, "'%s' has no method '%s'", fn.instance.Class.Name, fn.name)
		}
		return interp.callMethod(fn.instance, def, method, args)
	case *ClassRef:
		return typeError(line, "class '%s' is not callable, use 'new %s(...)'", fn.Name, fn.Name)
	}
	return typeError(line, "type %s is not callable", val.Type())
}

// callClosure invokes an arrow function or anonymous function literal.
// Its Env is the scope captured at creation time: a deep snapshot for
// arrows (see Environment.Snapshot), the live defining scope for
// anonymous func literals. Parameters bind into a fresh child of that
// Env. `this` is left untouched, so a closure created
// inside a method still sees the enclosing instance.
func (interp *Interpreter) callClosure(cl *Closure, args []Object) Object {
	callEnv := NewChildEnvironment(cl.Env)
	bindParameters(callEnv, cl.Parameters, args)

	if cl.Expr != nil {
		return interp.Eval(cl.Expr, callEnv)
	}
	result := interp.evalBlockStatement(cl.Body, callEnv)
	if rv, ok := result.(*ReturnValue); ok {
		return rv.Value
	}
	if isError(result) {
		return result
	}
	return NULL
}

// callFunctionLiteral invokes a global `func` declaration or a class
// method. self is nil for a plain function call and the receiver
// instance for a method call, becoming the new `this`/`super` for the
// duration of the call.
func (interp *Interpreter) callFunctionLiteral(lit *ast.FunctionLiteral, args []Object, self *Instance) Object {
	callEnv := NewChildEnvironment(interp.Global)
	bindParameters(callEnv, lit.Parameters, args)

	savedSelf := interp.CurrentSelf
	interp.CurrentSelf = self
	result := interp.evalBlockStatement(lit.Body, callEnv)
	interp.CurrentSelf = savedSelf

	if rv, ok := result.(*ReturnValue); ok {
		return rv.Value
	}
	if isError(result) {
		return result
	}
	return NULL
}

func (interp *Interpreter) callMethod(instance *Instance, def *ClassDef, method *ast.FunctionLiteral, args []Object) Object {
	_ = def
	return interp.callFunctionLiteral(method, args, instance)
}

// bindParameters declares each parameter in callEnv; missing trailing
// arguments bind to NULL and extra arguments are ignored, matching the
// source's permissive arity checking.
func bindParameters(env *Environment, params []string, args []Object) {
	for i, p := range params {
		var v Object = NULL
		if i < len(args) {
			v = args[i]
		}
		env.Declare(p, v, false)
	}
}

func (interp *Interpreter) evalNewExpression(n *ast.NewExpression, env *Environment) Object {
	def, ok := interp.Classes[n.ClassName]
	if !ok {
		return referenceError(n.Line(), "undefined class '%s'", n.ClassName)
	}
	args, errObj := interp.evalArgs(n.Arguments, env)
	if errObj != nil {
		return errObj
	}
	instance := &Instance{Class: def, Props: NewObj()}
	if ctor, cdef := interp.lookupMethod(def, "init"); ctor != nil {
		result := interp.callMethod(instance, cdef, ctor, args)
		if isError(result) {
			return result
		}
	}
	return instance
}

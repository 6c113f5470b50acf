package evaluator

import (
	"strings"

	"github.com/mrwan84/jeem/internal/ast"
)

func (interp *Interpreter) evalTemplate(n *ast.Template, env *Environment) Object {
	var sb strings.Builder
	for _, part := range n.Parts {
		if !part.IsExpr {
			sb.WriteString(part.Text)
			continue
		}
		val := interp.Eval(part.Expr, env)
		if isError(val) {
			return val
		}
		if s, ok := val.(*String); ok {
			sb.WriteString(s.Value)
		} else {
			sb.WriteString(val.Inspect())
		}
	}
	return &String{Value: sb.String()}
}

func (interp *Interpreter) evalArrayLiteral(n *ast.ArrayLiteral, env *Environment) Object {
	elements := make([]Object, 0, len(n.Elements))
	for _, e := range n.Elements {
		v := interp.Eval(e, env)
		if isError(v) {
			return v
		}
		elements = append(elements, v)
	}
	return &Array{Elements: elements}
}

func (interp *Interpreter) evalObjectLiteral(n *ast.ObjectLiteral, env *Environment) Object {
	obj := NewObj()
	for i, key := range n.Keys {
		v := interp.Eval(n.Values[i], env)
		if isError(v) {
			return v
		}
		obj.Set(key, v)
	}
	return obj
}

// evalIdentifier resolves a name in order: lexical scope chain, then the
// global function table, then the class registry, then host builtins.
func (interp *Interpreter) evalIdentifier(n *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(n.Name); ok {
		return val
	}
	if _, ok := interp.Functions[n.Name]; ok {
		return &FunctionRef{Name: n.Name}
	}
	if _, ok := interp.Classes[n.Name]; ok {
		return &ClassRef{Name: n.Name}
	}
	if _, ok := interp.Builtins[n.Name]; ok {
		return &Builtin{Name: n.Name, Fn: interp.Builtins[n.Name].Fn}
	}
	return referenceError(n.Line(), "undefined variable '%s'", n.Name)
}

func (interp *Interpreter) evalAssignExpression(n *ast.AssignExpression, env *Environment) Object {
	val := interp.Eval(n.Value, env)
	if isError(val) {
		return val
	}
	if n.Const {
		if err := env.Declare(n.Name, val, true); err != nil {
			return toRuntimeError(n.Line(), err)
		}
		return val
	}
	if err := env.Assign(n.Name, val); err != nil {
		return toRuntimeError(n.Line(), err)
	}
	return val
}

func (interp *Interpreter) evalCompoundAssignExpression(n *ast.CompoundAssignExpression, env *Environment) Object {
	cur, ok := env.Get(n.Name)
	if !ok {
		return referenceError(n.Line(), "undefined variable '%s'", n.Name)
	}
	rhs := interp.Eval(n.Value, env)
	if isError(rhs) {
		return rhs
	}
	result := interp.applyBinaryOp(n.Line(), n.Operator, cur, rhs)
	if isError(result) {
		return result
	}
	if err := env.Assign(n.Name, result); err != nil {
		return toRuntimeError(n.Line(), err)
	}
	return result
}

func (interp *Interpreter) evalIndexExpression(n *ast.IndexExpression, env *Environment) Object {
	left := interp.Eval(n.Left, env)
	if isError(left) {
		return left
	}
	idx := interp.Eval(n.Index, env)
	if isError(idx) {
		return idx
	}
	return indexGet(n.Line(), left, idx)
}

func indexGet(line int, left, idx Object) Object {
	switch container := left.(type) {
	case *Array:
		i, ok := idx.(*Integer)
		if !ok {
			return typeError(line, "array index must be an int, got %s", idx.Type())
		}
		pos := i.Value
		if pos < 0 {
			pos += int64(len(container.Elements))
		}
		if pos < 0 || pos >= int64(len(container.Elements)) {
			return NULL
		}
		return container.Elements[pos]
	case *String:
		i, ok := idx.(*Integer)
		if !ok {
			return typeError(line, "string index must be an int, got %s", idx.Type())
		}
		bytes := []byte(container.Value)
		pos := i.Value
		if pos < 0 {
			pos += int64(len(bytes))
		}
		if pos < 0 || pos >= int64(len(bytes)) {
			return NULL
		}
		return &String{Value: string(bytes[pos : pos+1])}
	case *Obj:
		key, ok := idx.(*String)
		if !ok {
			return typeError(line, "object key must be a string, got %s", idx.Type())
		}
		if v, found := container.Get(key.Value); found {
			return v
		}
		return NULL
	case *Module:
		key, ok := idx.(*String)
		if !ok {
			return typeError(line, "module key must be a string, got %s", idx.Type())
		}
		if v, found := container.Obj.Get(key.Value); found {
			return v
		}
		return NULL
	}
	return typeError(line, "type %s is not indexable", left.Type())
}

func (interp *Interpreter) evalIndexAssignExpression(n *ast.IndexAssignExpression, env *Environment) Object {
	target := n.Target.(*ast.IndexExpression)
	left := interp.Eval(target.Left, env)
	if isError(left) {
		return left
	}
	idx := interp.Eval(target.Index, env)
	if isError(idx) {
		return idx
	}
	val := interp.Eval(n.Value, env)
	if isError(val) {
		return val
	}
	switch container := left.(type) {
	case *Array:
		i, ok := idx.(*Integer)
		if !ok {
			return typeError(n.Line(), "array index must be an int, got %s", idx.Type())
		}
		pos := i.Value
		if pos < 0 {
			pos += int64(len(container.Elements))
		}
		if pos < 0 || pos >= int64(len(container.Elements)) {
			return val
		}
		container.Elements[pos] = val
	case *Obj:
		key, ok := idx.(*String)
		if !ok {
			return typeError(n.Line(), "object key must be a string, got %s", idx.Type())
		}
		container.Set(key.Value, val)
	default:
		return typeError(n.Line(), "type %s does not support index assignment", left.Type())
	}
	return val
}

func (interp *Interpreter) evalMemberExpression(n *ast.MemberExpression, env *Environment) Object {
	left := interp.Eval(n.Left, env)
	if isError(left) {
		return left
	}
	return interp.memberGet(n.Line(), left, n.Member)
}

func (interp *Interpreter) memberGet(line int, left Object, member string) Object {
	switch v := left.(type) {
	case *Instance:
		if method, _ := interp.lookupMethod(v.Class, member); method != nil {
			return &boundMethod{instance: v, name: member}
		}
		if prop, ok := v.Props.Get(member); ok {
			return prop
		}
		return NULL
	case *Obj:
		if prop, ok := v.Get(member); ok {
			return prop
		}
		return NULL
	case *Module:
		if prop, ok := v.Obj.Get(member); ok {
			return prop
		}
		return NULL
	case *Array:
		if fn, ok := arrayMethods[member]; ok {
			return &Builtin{Name: "Array." + member, Fn: fn}
		}
		return typeError(line, "array has no member '%s'", member)
	case *String:
		if fn, ok := stringMethods[member]; ok {
			return &Builtin{Name: "String." + member, Fn: fn}
		}
		return typeError(line, "string has no member '%s'", member)
	}
	return typeError(line, "type %s has no member '%s'", left.Type(), member)
}

// boundMethod carries an instance's method name through evaluation until
// a call expression actually invokes it, binding 'this' at call time.
type boundMethod struct {
	instance *Instance
	name     string
}

func (*boundMethod) Type() string      { return "bound-method" }
func (b *boundMethod) Inspect() string { return "<method " + b.name + ">" }

func (interp *Interpreter) evalMemberAssignExpression(n *ast.MemberAssignExpression, env *Environment) Object {
	target := n.Target.(*ast.MemberExpression)
	left := interp.Eval(target.Left, env)
	if isError(left) {
		return left
	}
	val := interp.Eval(n.Value, env)
	if isError(val) {
		return val
	}
	switch v := left.(type) {
	case *Instance:
		v.Props.Set(target.Member, val)
	case *Obj:
		v.Set(target.Member, val)
	default:
		return typeError(n.Line(), "type %s does not support member assignment", left.Type())
	}
	return val
}

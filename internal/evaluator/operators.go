package evaluator

import (
	"strings"

	"github.com/mrwan84/jeem/internal/ast"
)

func (interp *Interpreter) evalBinaryExpression(n *ast.BinaryExpression, env *Environment) Object {
	left := interp.Eval(n.Left, env)
	if isError(left) {
		return left
	}
	// short-circuit boolean operators evaluate the right side lazily
	if n.Operator == "&&" {
		if !isTruthy(left) {
			return nativeBool(false)
		}
		right := interp.Eval(n.Right, env)
		if isError(right) {
			return right
		}
		return nativeBool(isTruthy(right))
	}
	if n.Operator == "||" {
		if isTruthy(left) {
			return nativeBool(true)
		}
		right := interp.Eval(n.Right, env)
		if isError(right) {
			return right
		}
		return nativeBool(isTruthy(right))
	}

	right := interp.Eval(n.Right, env)
	if isError(right) {
		return right
	}
	return interp.applyBinaryOp(n.Line(), n.Operator, left, right)
}

func (interp *Interpreter) applyBinaryOp(line int, op string, left, right Object) Object {
	switch op {
	case "==":
		return nativeBool(objectsEqual(left, right))
	case "!=":
		return nativeBool(!objectsEqual(left, right))
	}

	ls, lIsStr := left.(*String)
	rs, rIsStr := right.(*String)

	if op == "+" && (lIsStr || rIsStr) {
		var leftStr, rightStr string
		if lIsStr {
			leftStr = ls.Value
		} else {
			leftStr = left.Inspect()
		}
		if rIsStr {
			rightStr = rs.Value
		} else {
			rightStr = right.Inspect()
		}
		return &String{Value: leftStr + rightStr}
	}
	if lIsStr && rIsStr {
		switch op {
		case "<":
			return nativeBool(ls.Value < rs.Value)
		case "<=":
			return nativeBool(ls.Value <= rs.Value)
		case ">":
			return nativeBool(ls.Value > rs.Value)
		case ">=":
			return nativeBool(ls.Value >= rs.Value)
		}
	}

	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return typeError(line, "unsupported operand types for %s: %s and %s", op, left.Type(), right.Type())
	}

	_, lInt := left.(*Integer)
	_, rInt := right.(*Integer)
	bothInt := lInt && rInt

	switch op {
	case "+":
		if bothInt {
			return &Integer{Value: left.(*Integer).Value + right.(*Integer).Value}
		}
		return &Float{Value: lf + rf}
	case "-":
		if bothInt {
			return &Integer{Value: left.(*Integer).Value - right.(*Integer).Value}
		}
		return &Float{Value: lf - rf}
	case "*":
		if bothInt {
			return &Integer{Value: left.(*Integer).Value * right.(*Integer).Value}
		}
		return &Float{Value: lf * rf}
	case "/":
		if rf == 0 {
			return arithmeticError(line, "division by zero")
		}
		if bothInt {
			return &Integer{Value: left.(*Integer).Value / right.(*Integer).Value}
		}
		return &Float{Value: lf / rf}
	case "%":
		if bothInt {
			if right.(*Integer).Value == 0 {
				return arithmeticError(line, "modulo by zero")
			}
			return &Integer{Value: left.(*Integer).Value % right.(*Integer).Value}
		}
		return typeError(line, "'%%' requires integer operands")
	case "**":
		return &Float{Value: intPow(lf, rf)}
	case "<":
		return nativeBool(lf < rf)
	case "<=":
		return nativeBool(lf <= rf)
	case ">":
		return nativeBool(lf > rf)
	case ">=":
		return nativeBool(lf >= rf)
	}
	return newError(line, "unknown operator %s", op)
}

func intPow(base, exp float64) float64 {
	result := 1.0
	neg := exp < 0
	if neg {
		exp = -exp
	}
	for i := 0; i < int(exp); i++ {
		result *= base
	}
	if neg {
		return 1 / result
	}
	return result
}

func (interp *Interpreter) evalUnaryExpression(n *ast.UnaryExpression, env *Environment) Object {
	switch n.Operator {
	case "-":
		val := interp.Eval(n.Operand, env)
		if isError(val) {
			return val
		}
		switch v := val.(type) {
		case *Integer:
			return &Integer{Value: -v.Value}
		case *Float:
			return &Float{Value: -v.Value}
		}
		return typeError(n.Line(), "unary '-' requires a numeric operand, got %s", val.Type())
	case "+":
		val := interp.Eval(n.Operand, env)
		if isError(val) {
			return val
		}
		return val
	case "!":
		val := interp.Eval(n.Operand, env)
		if isError(val) {
			return val
		}
		return nativeBool(!isTruthy(val))
	case "++", "--":
		return interp.evalIncDec(n.Line(), n.Operator, n.Operand, env, true)
	}
	return newError(n.Line(), "unknown unary operator %s", n.Operator)
}

func (interp *Interpreter) evalPostfixExpression(n *ast.PostfixExpression, env *Environment) Object {
	return interp.evalIncDec(n.Line(), n.Operator, n.Operand, env, false)
}

// evalIncDec implements prefix/postfix ++ and -- against a plain
// identifier, the only assignment target the grammar allows for them.
func (interp *Interpreter) evalIncDec(line int, op string, operand ast.Expression, env *Environment, prefix bool) Object {
	ident, ok := operand.(*ast.Identifier)
	if !ok {
		return typeError(line, "invalid operand for %s", op)
	}
	cur, found := env.Get(ident.Name)
	if !found {
		return referenceError(line, "undefined variable '%s'", ident.Name)
	}
	delta := int64(1)
	if op == "--" {
		delta = -1
	}
	var updated Object
	switch v := cur.(type) {
	case *Integer:
		updated = &Integer{Value: v.Value + delta}
	case *Float:
		updated = &Float{Value: v.Value + float64(delta)}
	default:
		return typeError(line, "'%s' requires a numeric variable, got %s", op, cur.Type())
	}
	if err := env.Assign(ident.Name, updated); err != nil {
		return toRuntimeError(line, err)
	}
	if prefix {
		return updated
	}
	return cur
}

func (interp *Interpreter) evalTernaryExpression(n *ast.TernaryExpression, env *Environment) Object {
	cond := interp.Eval(n.Condition, env)
	if isError(cond) {
		return cond
	}
	if isTruthy(cond) {
		return interp.Eval(n.Then, env)
	}
	if n.Else == nil {
		return NULL
	}
	return interp.Eval(n.Else, env)
}

func toFloat(o Object) (float64, bool) {
	switch v := o.(type) {
	case *Integer:
		return float64(v.Value), true
	case *Float:
		return v.Value, true
	}
	return 0, false
}

func objectsEqual(a, b Object) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
		return false
	}
	switch av := a.(type) {
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *Boolean:
		bv, ok := b.(*Boolean)
		return ok && av.Value == bv.Value
	case *Null:
		_, ok := b.(*Null)
		return ok
	}
	// Arrays and every other composite type (Obj, Instance, Module,
	// Closure) fall through to reference identity: `==` on composites
	// compares by identity, not structural equality, per the source's
	// own `==` handler.
	return a == b
}

func moduleDefaultName(path string) string {
	base := path
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		base = path[idx+1:]
	}
	base = strings.TrimSuffix(base, ".jm")
	return base
}

package evaluator

import "github.com/mrwan84/jeem/internal/ast"

// Eval is the sole recursive entry point: every AST node kind is handled
// by exactly one case, matching the teacher's flat type-switch dispatch
// rather than a visitor pattern (the visitor machinery in the teacher's
// analyzer/VM backend has no SPEC_FULL.md component to serve here).
func (interp *Interpreter) Eval(node ast.Node, env *Environment) Object {
	interp.evalDepth++
	defer func() { interp.evalDepth-- }()
	if interp.evalDepth > maxEvalDepth {
		return newError(node.Line(), "maximum recursion depth exceeded")
	}

	switch n := node.(type) {

	// --- statements ---
	case *ast.BlockStatement:
		return interp.evalBlockStatement(n, env)
	case *ast.ExpressionStatement:
		if n.Expression == nil {
			return NULL
		}
		return interp.Eval(n.Expression, env)
	case *ast.IfStatement:
		return interp.evalIfStatement(n, env)
	case *ast.WhileStatement:
		return interp.evalWhileStatement(n, env)
	case *ast.RangeForStatement:
		return interp.evalRangeForStatement(n, env)
	case *ast.CountedForStatement:
		return interp.evalCountedForStatement(n, env)
	case *ast.CaseStatement:
		return interp.evalCaseStatement(n, env)
	case *ast.BreakStatement:
		return &BreakSignal{}
	case *ast.ContinueStatement:
		return &ContinueSignal{}
	case *ast.ReturnStatement:
		if n.Value == nil {
			return &ReturnValue{Value: NULL}
		}
		val := interp.Eval(n.Value, env)
		if isError(val) {
			return val
		}
		return &ReturnValue{Value: val}
	case *ast.FunctionLiteral:
		if n.Name != "" {
			interp.Functions[n.Name] = n
			return NULL
		}
		return &Closure{Parameters: n.Parameters, Body: n.Body, Env: env}
	case *ast.ClassLiteral:
		interp.defineClass(n)
		return NULL
	case *ast.ImportStatement:
		return interp.evalImportStatement(n, env)
	case *ast.ExportStatement:
		return interp.Eval(n.Inner, env)

	// --- expressions ---
	case *ast.Literal:
		return literalToObject(n.Value)
	case *ast.Template:
		return interp.evalTemplate(n, env)
	case *ast.ArrayLiteral:
		return interp.evalArrayLiteral(n, env)
	case *ast.ObjectLiteral:
		return interp.evalObjectLiteral(n, env)
	case *ast.Identifier:
		return interp.evalIdentifier(n, env)
	case *ast.AssignExpression:
		return interp.evalAssignExpression(n, env)
	case *ast.IndexAssignExpression:
		return interp.evalIndexAssignExpression(n, env)
	case *ast.MemberAssignExpression:
		return interp.evalMemberAssignExpression(n, env)
	case *ast.CompoundAssignExpression:
		return interp.evalCompoundAssignExpression(n, env)
	case *ast.BinaryExpression:
		return interp.evalBinaryExpression(n, env)
	case *ast.UnaryExpression:
		return interp.evalUnaryExpression(n, env)
	case *ast.PostfixExpression:
		return interp.evalPostfixExpression(n, env)
	case *ast.TernaryExpression:
		return interp.evalTernaryExpression(n, env)
	case *ast.IndexExpression:
		return interp.evalIndexExpression(n, env)
	case *ast.MemberExpression:
		return interp.evalMemberExpression(n, env)
	case *ast.CallExpression:
		return interp.evalCallExpression(n, env)
	case *ast.ArrowFunction:
		return &Closure{Parameters: n.Parameters, Body: n.Body, Expr: n.Expr, Env: env.Snapshot(interp.Global)}
	case *ast.NewExpression:
		return interp.evalNewExpression(n, env)
	case *ast.ThisExpression:
		if interp.CurrentSelf == nil {
			return scopeError(n.Line(), "'this' used outside of a method")
		}
		return interp.CurrentSelf
	case *ast.SuperExpression:
		if interp.CurrentSelf == nil {
			return scopeError(n.Line(), "'super' used outside of a method")
		}
		return interp.CurrentSelf
	}
	return newError(node.Line(), "unhandled node type %T", node)
}

func literalToObject(v interface{}) Object {
	switch val := v.(type) {
	case nil:
		return NULL
	case bool:
		return nativeBool(val)
	case int64:
		return &Integer{Value: val}
	case float64:
		return &Float{Value: val}
	case string:
		return &String{Value: val}
	}
	return NULL
}

// evalBlockStatement runs statements in order, stopping the moment a
// return/break/continue/error sentinel appears and handing it straight
// back to the caller, which is responsible for consuming or re-propagating it.
func (interp *Interpreter) evalBlockStatement(block *ast.BlockStatement, env *Environment) Object {
	var result Object = NULL
	for _, stmt := range block.Statements {
		result = interp.Eval(stmt, env)
		switch result.(type) {
		case *ReturnValue, *BreakSignal, *ContinueSignal, *Error:
			return result
		}
	}
	return result
}

func (interp *Interpreter) evalIfStatement(stmt *ast.IfStatement, env *Environment) Object {
	cond := interp.Eval(stmt.Condition, env)
	if isError(cond) {
		return cond
	}
	if isTruthy(cond) {
		return interp.evalBlockStatement(stmt.Then, NewChildEnvironment(env))
	}
	if stmt.Else != nil {
		return interp.Eval(stmt.Else, NewChildEnvironment(env))
	}
	return NULL
}

func (interp *Interpreter) evalWhileStatement(stmt *ast.WhileStatement, env *Environment) Object {
	for {
		cond := interp.Eval(stmt.Condition, env)
		if isError(cond) {
			return cond
		}
		if !isTruthy(cond) {
			break
		}
		result := interp.evalBlockStatement(stmt.Body, NewChildEnvironment(env))
		switch result.(type) {
		case *Error, *ReturnValue:
			return result
		case *BreakSignal:
			return NULL
		}
	}
	return NULL
}

func (interp *Interpreter) evalRangeForStatement(stmt *ast.RangeForStatement, env *Environment) Object {
	iterable := interp.Eval(stmt.Iterable, env)
	if isError(iterable) {
		return iterable
	}

	iterate := func(idx Object, item Object) Object {
		loopEnv := NewChildEnvironment(env)
		loopEnv.Declare(stmt.ItemName, item, false)
		if stmt.IndexName != "" {
			loopEnv.Declare(stmt.IndexName, idx, false)
		}
		return interp.evalBlockStatement(stmt.Body, loopEnv)
	}

	switch coll := iterable.(type) {
	case *Array:
		for i, el := range coll.Elements {
			result := iterate(&Integer{Value: int64(i)}, el)
			switch result.(type) {
			case *Error, *ReturnValue:
				return result
			case *BreakSignal:
				return NULL
			}
		}
	case *String:
		for i, r := range coll.Value {
			result := iterate(&Integer{Value: int64(i)}, &String{Value: string(r)})
			switch result.(type) {
			case *Error, *ReturnValue:
				return result
			case *BreakSignal:
				return NULL
			}
		}
	case *Obj:
		for _, k := range coll.Keys() {
			v, _ := coll.Get(k)
			result := iterate(&String{Value: k}, v)
			switch result.(type) {
			case *Error, *ReturnValue:
				return result
			case *BreakSignal:
				return NULL
			}
		}
	default:
		return newError(stmt.Line(), "type %s is not iterable", coll.Type())
	}
	return NULL
}

func (interp *Interpreter) evalCountedForStatement(stmt *ast.CountedForStatement, env *Environment) Object {
	loopEnv := NewChildEnvironment(env)
	if stmt.Init != nil {
		if result := interp.Eval(stmt.Init, loopEnv); isError(result) {
			return result
		}
	}
	for {
		if stmt.Condition != nil {
			cond := interp.Eval(stmt.Condition, loopEnv)
			if isError(cond) {
				return cond
			}
			if !isTruthy(cond) {
				break
			}
		}
		result := interp.evalBlockStatement(stmt.Body, NewChildEnvironment(loopEnv))
		switch result.(type) {
		case *Error, *ReturnValue:
			return result
		case *BreakSignal:
			return NULL
		}
		if stmt.Update != nil {
			if result := interp.Eval(stmt.Update, loopEnv); isError(result) {
				return result
			}
		}
	}
	return NULL
}

// evalCaseStatement matches the scrutinee against each branch's atoms in
// order, stopping at the first match (or the default branch, which may
// appear anywhere but is only taken once nothing else matched); a branch
// never falls through to the next one, matching the explicit-break
// model described in spec.md.
func (interp *Interpreter) evalCaseStatement(stmt *ast.CaseStatement, env *Environment) Object {
	scrutinee := interp.Eval(stmt.Scrutinee, env)
	if isError(scrutinee) {
		return scrutinee
	}

	var defaultBranch *ast.CaseBranch
	for i := range stmt.Branches {
		branch := &stmt.Branches[i]
		if branch.IsDefault {
			defaultBranch = branch
			continue
		}
		matched, err := interp.caseAtomsMatch(branch.Atoms, scrutinee, env)
		if err != nil {
			return err
		}
		if matched {
			return interp.runCaseBody(branch.Body, env)
		}
	}
	if defaultBranch != nil {
		return interp.runCaseBody(defaultBranch.Body, env)
	}
	return NULL
}

func (interp *Interpreter) runCaseBody(body *ast.BlockStatement, env *Environment) Object {
	result := interp.evalBlockStatement(body, NewChildEnvironment(env))
	if _, ok := result.(*BreakSignal); ok {
		return NULL
	}
	return result
}

func (interp *Interpreter) caseAtomsMatch(atoms []ast.CaseAtom, scrutinee Object, env *Environment) (bool, *Error) {
	for _, atom := range atoms {
		if atom.IsRange {
			low := interp.Eval(atom.Low, env)
			if isError(low) {
				return false, low.(*Error)
			}
			high := interp.Eval(atom.High, env)
			if isError(high) {
				return false, high.(*Error)
			}
			if inRange(scrutinee, low, high) {
				return true, nil
			}
			continue
		}
		val := interp.Eval(atom.Value, env)
		if isError(val) {
			return false, val.(*Error)
		}
		if objectsEqual(scrutinee, val) {
			return true, nil
		}
	}
	return false, nil
}

func inRange(v, low, high Object) bool {
	n, ok := toFloat(v)
	if !ok {
		return false
	}
	lo, ok1 := toFloat(low)
	hi, ok2 := toFloat(high)
	if !ok1 || !ok2 {
		return false
	}
	return n >= lo && n <= hi
}

func (interp *Interpreter) evalImportStatement(stmt *ast.ImportStatement, env *Environment) Object {
	if interp.Loader == nil {
		return newError(stmt.Line(), "module loading is not available in this context")
	}
	mod, err := interp.Loader.Load(interp, interp.CurrentFile, stmt.Path)
	if err != nil {
		return toRuntimeError(stmt.Line(), err)
	}
	name := stmt.Alias
	if name == "" {
		name = moduleDefaultName(stmt.Path)
	}
	env.Declare(name, mod, false)
	return NULL
}

func isTruthy(o Object) bool {
	switch v := o.(type) {
	case *Null:
		return false
	case *Boolean:
		return v.Value
	case *Integer:
		return v.Value != 0
	case *Float:
		return v.Value != 0
	case *String:
		return v.Value != ""
	case *Array:
		return len(v.Elements) != 0
	case *Obj:
		return v.Len() != 0
	default:
		return true
	}
}

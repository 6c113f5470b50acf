// Package timing installs the timing built-ins: sleep, time, now, and
// the setTimeout/setInterval/clearTimeout/clearInterval family, wired
// to internal/timer.Queue through the evaluator.TimerQueue interface.
package timing

import (
	"time"

	"github.com/mrwan84/jeem/internal/evaluator"
)

func Install(interp *evaluator.Interpreter) {
	interp.RegisterBuiltin("sleep", builtinSleep)
	interp.RegisterBuiltin("time", builtinTime)
	interp.RegisterBuiltin("now", builtinTime)
	interp.RegisterBuiltin("setTimeout", builtinSetTimeout(false))
	interp.RegisterBuiltin("setInterval", builtinSetTimeout(true))
	interp.RegisterBuiltin("clearTimeout", builtinClear)
	interp.RegisterBuiltin("clearInterval", builtinClear)
}

func builtinSleep(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) == 0 {
		return evaluator.NULL
	}
	ms, ok := args[0].(*evaluator.Integer)
	if !ok {
		return evaluator.NULL
	}
	time.Sleep(time.Duration(ms.Value) * time.Millisecond)
	return evaluator.NULL
}

func builtinTime(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	return &evaluator.Integer{Value: time.Now().UnixMilli()}
}

// builtinSetTimeout implements both setTimeout and setInterval; repeat
// distinguishes the two, matching the single-entry record described in
// spec.md §3.6 where interval==0 means one-shot.
func builtinSetTimeout(repeat bool) evaluator.BuiltinFunction {
	return func(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
		if interp.Timers == nil || len(args) < 2 {
			return evaluator.NULL
		}
		callback := args[0]
		delay, ok := args[1].(*evaluator.Integer)
		if !ok {
			return evaluator.NULL
		}
		id := interp.Timers.Schedule(delay.Value, repeat, func() {
			interp.InvokeCallback(callback, nil)
		})
		return &evaluator.Integer{Value: id}
	}
}

func builtinClear(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if interp.Timers == nil || len(args) == 0 {
		return evaluator.NULL
	}
	id, ok := args[0].(*evaluator.Integer)
	if !ok {
		return evaluator.NULL
	}
	interp.Timers.Cancel(id.Value)
	return evaluator.NULL
}

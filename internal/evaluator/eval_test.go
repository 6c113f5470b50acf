package evaluator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwan84/jeem/internal/evaluator"
	"github.com/mrwan84/jeem/internal/lexer"
	"github.com/mrwan84/jeem/internal/parser"
	"github.com/mrwan84/jeem/internal/stdlib/core"
	"github.com/mrwan84/jeem/internal/stdlib/numerics"
	"github.com/mrwan84/jeem/internal/stdlib/strtools"
	"github.com/mrwan84/jeem/internal/stdlib/timing"
	"github.com/mrwan84/jeem/internal/timer"
)

// newTestInterpreter builds an Interpreter wired with the builtin
// packages the test programs below call (print, range, setTimeout, ...)
// and a timer queue, writing to an in-memory buffer instead of stdout.
func newTestInterpreter() (*evaluator.Interpreter, *strings.Builder, *timer.Queue) {
	interp := evaluator.New()
	var out strings.Builder
	interp.Stdout = &out

	queue := timer.NewQueue()
	interp.Timers = queue

	core.Install(interp)
	numerics.Install(interp)
	strtools.Install(interp)
	timing.Install(interp)

	return interp, &out, queue
}

func parseProgram(t *testing.T, src string) *parser.Parser {
	t.Helper()
	return parser.New(lexer.New(src), "<test>")
}

// run lexes, parses, and evaluates src, returning the interpreter (so
// callers can inspect captured output) and the value of the last
// top-level statement.
func run(t *testing.T, src string) (*evaluator.Interpreter, evaluator.Object) {
	t.Helper()
	ps := parseProgram(t, src)
	program, err := ps.ParseProgram()
	require.NoError(t, err)

	interp, _, _ := newTestInterpreter()
	result := interp.Run(program)
	return interp, result
}

// output runs src and returns everything printed to stdout, draining
// any pending timers the way cmd/jeem does after the main program body
// finishes.
func output(t *testing.T, src string) string {
	t.Helper()
	ps := parseProgram(t, src)
	program, err := ps.ParseProgram()
	require.NoError(t, err)

	interp, out, queue := newTestInterpreter()
	result := interp.Run(program)
	require.False(t, isErr(result), "program errored: %v", inspectErr(result))
	queue.Drain()
	return out.String()
}

func isErr(o evaluator.Object) bool {
	_, ok := o.(*evaluator.Error)
	return ok
}

func inspectErr(o evaluator.Object) string {
	if e, ok := o.(*evaluator.Error); ok {
		return e.Message
	}
	return ""
}

func TestArithmetic(t *testing.T) {
	_, result := run(t, `1 + 2 * 3`)
	require.IsType(t, &evaluator.Integer{}, result)
	assert.Equal(t, int64(7), result.(*evaluator.Integer).Value)

	_, result = run(t, `2 ** 10`)
	assert.Equal(t, "1024", result.Inspect())

	_, result = run(t, `7 % 2`)
	assert.Equal(t, int64(1), result.(*evaluator.Integer).Value)

	_, result = run(t, `1 / 0`)
	assert.True(t, isErr(result))
}

func TestStringConcatAndTemplate(t *testing.T) {
	_, result := run(t, `"a" + "b"`)
	assert.Equal(t, "ab", result.(*evaluator.String).Value)

	const src = `const name = "world"
"hello {{ name }}, {{ 1 + 1 }}"`
	_, result = run(t, src)
	assert.Equal(t, "hello world, 2", result.(*evaluator.String).Value)
}

func TestConstReassignmentFails(t *testing.T) {
	_, result := run(t, `const x = 1
x = 2`)
	assert.True(t, isErr(result))
}

// TestArrayIndexingOutOfRangeWriteIsNoOp pins down spec.md §3.3's
// explicit invariant that an out-of-range index assignment is silently
// ignored: the array is neither grown nor does it raise an error.
func TestArrayIndexingOutOfRangeWriteIsNoOp(t *testing.T) {
	_, result := run(t, `
let arr = [1, 2, 3]
arr[5] = 9
arr
`)
	arr := result.(*evaluator.Array)
	require.Len(t, arr.Elements, 3)
	assert.Equal(t, int64(1), arr.Elements[0].(*evaluator.Integer).Value)
	assert.Equal(t, int64(2), arr.Elements[1].(*evaluator.Integer).Value)
	assert.Equal(t, int64(3), arr.Elements[2].(*evaluator.Integer).Value)

	_, result = run(t, `
let arr = [1, 2, 3]
arr[-10] = 9
arr
`)
	arr = result.(*evaluator.Array)
	require.Len(t, arr.Elements, 3)
	assert.Equal(t, int64(1), arr.Elements[0].(*evaluator.Integer).Value)

	_, result = run(t, `[1, 2, 3][-1]`)
	assert.Equal(t, int64(3), result.(*evaluator.Integer).Value)
}

func TestArrayMethods(t *testing.T) {
	_, result := run(t, `[1, 2, 3].map(x => x * 2)`)
	arr := result.(*evaluator.Array)
	require.Len(t, arr.Elements, 3)
	assert.Equal(t, int64(4), arr.Elements[1].(*evaluator.Integer).Value)

	_, result = run(t, `[1, 2, 3, 4].filter(x => x % 2 == 0)`)
	arr = result.(*evaluator.Array)
	require.Len(t, arr.Elements, 2)

	_, result = run(t, `[1, 2, 3].reduce((acc, x) => acc + x, 0)`)
	assert.Equal(t, int64(6), result.(*evaluator.Integer).Value)
}

func TestObjectLiteralAndMemberAccess(t *testing.T) {
	const src = `
const o = {name: "ada", age: 36}
o.age = o.age + 1
o.age
`
	_, result := run(t, src)
	assert.Equal(t, int64(37), result.(*evaluator.Integer).Value)
}

func TestClosureCapturesByValueAtCreation(t *testing.T) {
	const src = `
let makers = []
for (i in range(3)) {
    makers.push(() => i)
}
[makers[0](), makers[1](), makers[2]()]
`
	_, result := run(t, src)
	arr := result.(*evaluator.Array)
	require.Len(t, arr.Elements, 3)
	assert.Equal(t, int64(0), arr.Elements[0].(*evaluator.Integer).Value)
	assert.Equal(t, int64(1), arr.Elements[1].(*evaluator.Integer).Value)
	assert.Equal(t, int64(2), arr.Elements[2].(*evaluator.Integer).Value)
}

func TestNamedFunctionRecursion(t *testing.T) {
	const src = `
func fact(n) {
    if (n <= 1) { return 1 }
    return n * fact(n - 1)
}
fact(5)
`
	_, result := run(t, src)
	assert.Equal(t, int64(120), result.(*evaluator.Integer).Value)
}

// TestClassInheritanceThisSuper exercises the resolved semantics for
// `super`: it is a plain alias for the current receiver, not a
// parent-class dispatch target. Calling an inherited (non-overridden)
// method through `super` reaches the instance's class chain exactly
// like calling it through `this` would.
func TestClassInheritanceThisSuper(t *testing.T) {
	const src = `
class Animal {
    init(name) {
        this.name = name
    }
    greet() {
        return "Hi, " + this.name
    }
}
class Dog extends Animal {
    bark() {
        return super.greet() + "!"
    }
}
const d = new Dog("Rex")
d.bark()
`
	_, result := run(t, src)
	require.False(t, isErr(result), inspectErr(result))
	assert.Equal(t, "Hi, Rex!", result.(*evaluator.String).Value)
}

func TestCaseStatementWithRangeAndDefault(t *testing.T) {
	const src = `
func grade(score) {
    case (score) {
        90..100: return "A"
        80..89: return "B"
        default: return "F"
    }
}
[grade(95), grade(85), grade(10)]
`
	_, result := run(t, src)
	arr := result.(*evaluator.Array)
	assert.Equal(t, "A", arr.Elements[0].(*evaluator.String).Value)
	assert.Equal(t, "B", arr.Elements[1].(*evaluator.String).Value)
	assert.Equal(t, "F", arr.Elements[2].(*evaluator.String).Value)
}

func TestCaseStatementNoFallthrough(t *testing.T) {
	const src = `
let seen = []
case (1) {
    1:
        seen.push("one")
    2:
        seen.push("two")
}
seen
`
	_, result := run(t, src)
	arr := result.(*evaluator.Array)
	require.Len(t, arr.Elements, 1)
	assert.Equal(t, "one", arr.Elements[0].(*evaluator.String).Value)
}

func TestBreakContinueInLoops(t *testing.T) {
	const src = `
let out = []
for (i = 0; i < 10; i++) {
    if (i == 5) { break }
    if (i % 2 == 0) { continue }
    out.push(i)
}
out
`
	_, result := run(t, src)
	arr := result.(*evaluator.Array)
	require.Len(t, arr.Elements, 2)
	assert.Equal(t, int64(1), arr.Elements[0].(*evaluator.Integer).Value)
	assert.Equal(t, int64(3), arr.Elements[1].(*evaluator.Integer).Value)
}

func TestRangeForOverObjectAndString(t *testing.T) {
	const src = `
let keys = []
for (k, v in {a: 1, b: 2}) {
    keys.push(k)
}
keys
`
	_, result := run(t, src)
	arr := result.(*evaluator.Array)
	require.Len(t, arr.Elements, 2)

	_, result = run(t, `
let chars = []
for (c in "ab") {
    chars.push(c)
}
chars
`)
	arr = result.(*evaluator.Array)
	require.Len(t, arr.Elements, 2)
	assert.Equal(t, "a", arr.Elements[0].(*evaluator.String).Value)
	assert.Equal(t, "b", arr.Elements[1].(*evaluator.String).Value)
}

func TestTernaryAndLogicalShortCircuit(t *testing.T) {
	_, result := run(t, `1 < 2 ? "yes" : "no"`)
	assert.Equal(t, "yes", result.(*evaluator.String).Value)

	const src = `
let calls = 0
func bump() { calls = calls + 1; return true }
false && bump()
calls
`
	_, result = run(t, src)
	assert.Equal(t, int64(0), result.(*evaluator.Integer).Value)
}

// TestSetTimeoutOrdering exercises the scheduling scenario described in
// the CLI/timer specification: a zero-delay program body finishes (and
// everything it printed synchronously is flushed) before any timer
// fires, even one scheduled right at the start with a short delay.
func TestSetTimeoutOrdering(t *testing.T) {
	const src = `
setTimeout(() => print("t"), 10)
print("s")
`
	got := output(t, src)
	assert.Equal(t, "s\nt\n", got)
}

func TestUndefinedVariableIsError(t *testing.T) {
	_, result := run(t, `doesNotExist`)
	assert.True(t, isErr(result))
}

func TestCurriedArrowFunctions(t *testing.T) {
	const src = `
const adder = a => b => a + b
adder(10)(5)
`
	_, result := run(t, src)
	assert.Equal(t, int64(15), result.(*evaluator.Integer).Value)
}

func TestCaseStatementCommaListAtoms(t *testing.T) {
	const src = `
func describe(n) {
    case (n) {
        1, 2: return "lo"
        3..5: return "mid"
        default: return "hi"
    }
}
[describe(1), describe(2), describe(4), describe(9)]
`
	_, result := run(t, src)
	arr := result.(*evaluator.Array)
	assert.Equal(t, "lo", arr.Elements[0].(*evaluator.String).Value)
	assert.Equal(t, "lo", arr.Elements[1].(*evaluator.String).Value)
	assert.Equal(t, "mid", arr.Elements[2].(*evaluator.String).Value)
	assert.Equal(t, "hi", arr.Elements[3].(*evaluator.String).Value)
}

func TestUnboundedRecursionIsRuntimeError(t *testing.T) {
	const src = `
func loop(n) { return loop(n + 1) }
loop(0)
`
	_, result := run(t, src)
	require.True(t, isErr(result))
	assert.Contains(t, inspectErr(result), "recursion")
}

func TestAnonymousFunctionLiteralAsValue(t *testing.T) {
	const src = `
const add = func(a, b) { return a + b }
add(2, 3)
`
	_, result := run(t, src)
	assert.Equal(t, int64(5), result.(*evaluator.Integer).Value)
}

// TestEmptyArrayAndObjectAreFalsy pins down spec.md §4.3's truthiness
// table: an empty array or object is falsy, a non-empty one is truthy.
func TestEmptyArrayAndObjectAreFalsy(t *testing.T) {
	_, result := run(t, `[] ? "t" : "f"`)
	assert.Equal(t, "f", result.(*evaluator.String).Value)

	_, result = run(t, `[1] ? "t" : "f"`)
	assert.Equal(t, "t", result.(*evaluator.String).Value)

	_, result = run(t, `
const empty = {}
empty ? "t" : "f"
`)
	assert.Equal(t, "f", result.(*evaluator.String).Value)

	_, result = run(t, `
const full = {a: 1}
full ? "t" : "f"
`)
	assert.Equal(t, "t", result.(*evaluator.String).Value)
}

// TestStringPlusConcatenatesFromEitherSide pins down spec.md §4.3's
// rule that `+` concatenates whenever either operand is a string, not
// only when the left one is.
func TestStringPlusConcatenatesFromEitherSide(t *testing.T) {
	_, result := run(t, `5 + "x"`)
	assert.Equal(t, "5x", result.(*evaluator.String).Value)

	_, result = run(t, `"x" + 5`)
	assert.Equal(t, "x5", result.(*evaluator.String).Value)
}

// TestArrayEqualityIsByIdentity pins down spec.md §9 Open Question 3:
// `==` between arrays (and other composites) compares by identity, not
// structural equality, even when the elements match.
func TestArrayEqualityIsByIdentity(t *testing.T) {
	_, result := run(t, `[1, 2] == [1, 2]`)
	assert.Equal(t, evaluator.FALSE, result)

	const src = `
let a = [1, 2]
let b = a
a == b
`
	_, result = run(t, src)
	assert.Equal(t, evaluator.TRUE, result)
}

// TestStringLengthAndIndexingAreByteBased pins down spec.md §3.3's
// explicit byte-string semantics: a multi-byte UTF-8 character counts
// as more than one unit for len/index/slice/charAt.
func TestStringLengthAndIndexingAreByteBased(t *testing.T) {
	_, result := run(t, `len("café")`)
	assert.Equal(t, int64(5), result.(*evaluator.Integer).Value)

	_, result = run(t, `"café".len()`)
	assert.Equal(t, int64(5), result.(*evaluator.Integer).Value)

	_, result = run(t, `"café"[4]`)
	assert.Equal(t, "\xa9", result.(*evaluator.String).Value)
}

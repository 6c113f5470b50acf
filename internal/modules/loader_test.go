package modules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwan84/jeem/internal/evaluator"
	"github.com/mrwan84/jeem/internal/lexer"
	"github.com/mrwan84/jeem/internal/modules"
	"github.com/mrwan84/jeem/internal/parser"
)

func write(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func evalEntry(t *testing.T, interp *evaluator.Interpreter, entry string) evaluator.Object {
	t.Helper()
	src, err := os.ReadFile(entry)
	require.NoError(t, err)
	ps := parser.New(lexer.New(string(src)), entry)
	program, err := ps.ParseProgram()
	require.NoError(t, err)
	interp.CurrentFile = entry
	return interp.Run(program)
}

// TestModuleMemoization pins down spec.md §8's "Module memoization"
// property: importing the same resolved path twice evaluates the file
// once and both import sites see the same exports.
func TestModuleMemoization(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "counted.jm", `
export const value = 42
`)
	entry := write(t, dir, "main.jm", `
import "counted" as a
import "counted" as b
[a.value, b.value, a.value == b.value]
`)

	interp := evaluator.New()
	interp.Loader = modules.NewLoader()
	result := evalEntry(t, interp, entry)

	require.NotEqual(t, "ERROR", errType(result), inspectErr(result))
	arr, ok := result.(*evaluator.Array)
	require.True(t, ok, "expected array result, got %s", result.Inspect())
	assert.Equal(t, int64(42), arr.Elements[0].(*evaluator.Integer).Value)
	assert.Equal(t, int64(42), arr.Elements[1].(*evaluator.Integer).Value)
	assert.Equal(t, evaluator.TRUE, arr.Elements[2])
}

// TestModuleCycleDetection ensures an import cycle surfaces as a
// runtime error rather than recursing forever.
func TestModuleCycleDetection(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.jm", `import "b"`)
	write(t, dir, "b.jm", `import "a"`)
	entry := write(t, dir, "main.jm", `import "a"`)

	interp := evaluator.New()
	interp.Loader = modules.NewLoader()
	result := evalEntry(t, interp, entry)

	_, isErr := result.(*evaluator.Error)
	assert.True(t, isErr, "expected a circular import error, got %s", result.Inspect())
}

func errType(o evaluator.Object) string {
	if _, ok := o.(*evaluator.Error); ok {
		return "ERROR"
	}
	return ""
}

func inspectErr(o evaluator.Object) string {
	if e, ok := o.(*evaluator.Error); ok {
		return e.Message
	}
	return ""
}

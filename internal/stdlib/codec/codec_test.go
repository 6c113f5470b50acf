package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwan84/jeem/internal/evaluator"
	"github.com/mrwan84/jeem/internal/stdlib/codec"
)

// TestJSONRoundTrip pins down spec.md §8's round-trip property for the
// null/bool/int/float/string/array/object value subset.
func TestJSONRoundTrip(t *testing.T) {
	original := evaluator.NewObj()
	original.Set("name", &evaluator.String{Value: "ada"})
	original.Set("age", &evaluator.Integer{Value: 36})
	original.Set("active", evaluator.TRUE)
	original.Set("score", &evaluator.Float{Value: 9.5})
	original.Set("tags", &evaluator.Array{Elements: []evaluator.Object{
		&evaluator.String{Value: "a"},
		&evaluator.String{Value: "b"},
	}})
	original.Set("missing", evaluator.NULL)

	interp := evaluator.New()
	codec.Install(interp)

	stringify, ok := interp.Builtins["jsonStringify"]
	require.True(t, ok)
	parse, ok := interp.Builtins["jsonParse"]
	require.True(t, ok)

	encoded := stringify.Fn(interp, []evaluator.Object{original})
	s, ok := encoded.(*evaluator.String)
	require.True(t, ok, "expected jsonStringify to return a string, got %s", encoded.Inspect())

	decoded := parse.Fn(interp, []evaluator.Object{s})
	obj, ok := decoded.(*evaluator.Obj)
	require.True(t, ok, "expected jsonParse to return an object, got %s", decoded.Inspect())

	name, _ := obj.Get("name")
	assert.Equal(t, "ada", name.(*evaluator.String).Value)
	age, _ := obj.Get("age")
	assert.Equal(t, int64(36), age.(*evaluator.Integer).Value)
	active, _ := obj.Get("active")
	assert.Equal(t, evaluator.TRUE, active)
	score, _ := obj.Get("score")
	assert.Equal(t, 9.5, score.(*evaluator.Float).Value)
	tags, _ := obj.Get("tags")
	assert.Len(t, tags.(*evaluator.Array).Elements, 2)
	missing, _ := obj.Get("missing")
	assert.Equal(t, evaluator.NULL, missing)
}

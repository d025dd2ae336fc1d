package validator

import (
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/aretw0/contour/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, s schema.Schema) *Validator {
	t.Helper()
	v, err := Compile(s)
	require.NoError(t, err)
	return v
}

func TestPrimitives(t *testing.T) {
	type myString string

	tests := []struct {
		name   string
		schema schema.Schema
		value  any
		want   bool
	}{
		{"string ok", schema.String(), "hello", true},
		{"empty string ok", schema.String(), "", true},
		{"named string ok", schema.String(), myString("x"), true},
		{"string rejects number", schema.String(), 42, false},
		{"string rejects json.Number", schema.String(), json.Number("4"), false},
		{"number int", schema.Number(), 42, true},
		{"number int8", schema.Number(), int8(4), true},
		{"number uint64", schema.Number(), uint64(4), true},
		{"number float32", schema.Number(), float32(1.5), true},
		{"number float64", schema.Number(), 3.14, true},
		{"number infinity", schema.Number(), math.Inf(1), true},
		{"number json.Number", schema.Number(), json.Number("12.5"), true},
		{"number rejects bad json.Number", schema.Number(), json.Number("abc"), false},
		{"number rejects NaN", schema.Number(), math.NaN(), false},
		{"number rejects string", schema.Number(), "42", false},
		{"number rejects bool", schema.Number(), true, false},
		{"boolean true", schema.Boolean(), true, true},
		{"boolean false", schema.Boolean(), false, true},
		{"boolean rejects int", schema.Boolean(), 1, false},
		{"boolean rejects string", schema.Boolean(), "true", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustCompile(t, tt.schema)
			assert.Equal(t, tt.want, v.Validate(tt.value))
		})
	}
}

func TestOptionalShortCircuit(t *testing.T) {
	var nilPtr *string
	var nilMap map[string]any
	var nilSlice []any

	for _, s := range []schema.Schema{
		schema.String(),
		schema.Number(),
		schema.Boolean(),
		schema.Array(schema.Number().Require()),
		schema.Object(map[string]schema.Schema{"a": schema.Number().Require()}),
	} {
		v := mustCompile(t, s)
		assert.True(t, v.Validate(nil), "%s should accept nil", s.Type)
		assert.True(t, v.Validate(nilPtr), "%s should accept a nil pointer", s.Type)
		assert.True(t, v.Validate(nilMap), "%s should accept a nil map", s.Type)
		assert.True(t, v.Validate(nilSlice), "%s should accept a nil slice", s.Type)
	}
}

func TestRequiredPresence(t *testing.T) {
	for _, s := range []schema.Schema{
		schema.String().Require(),
		schema.Number().Require(),
		schema.Boolean().Require(),
		schema.Array(schema.String()).Require(),
		schema.Object(nil).Require(),
	} {
		v := mustCompile(t, s)
		assert.False(t, v.Validate(nil), "%s should reject nil", s.Type)
	}

	str := "x"
	assert.True(t, mustCompile(t, schema.String().Require()).Validate(&str))
}

func TestArrays(t *testing.T) {
	v := mustCompile(t, schema.Array(schema.Number().Require()))

	assert.False(t, v.Validate([]any{1, 2, "x"}))
	assert.True(t, v.Validate([]any{1, 2, 3}))
	assert.True(t, v.Validate([]any{}))
	assert.True(t, v.Validate([]int{1, 2, 3}))
	assert.True(t, v.Validate([3]float64{1, 2, 3}))
	assert.False(t, v.Validate([]any{1, nil}), "required items reject absent elements")
	assert.False(t, v.Validate("not a slice"))
	assert.False(t, v.Validate(map[string]any{"0": 1}))

	optionalItems := mustCompile(t, schema.Array(schema.Number()))
	assert.True(t, optionalItems.Validate([]any{1, nil, 3}))
}

func TestNestedArrays(t *testing.T) {
	v := mustCompile(t, schema.Array(schema.Array(schema.String().Require())))

	assert.True(t, v.Validate([][]string{{"a"}, {"b", "c"}}))
	assert.True(t, v.Validate([]any{[]any{}, []any{"x"}}))
	assert.False(t, v.Validate([]any{[]any{"a"}, []any{1}}))
	assert.False(t, v.Validate([]any{"a"}))
}

func TestOpenWorldObjects(t *testing.T) {
	s := schema.Object(map[string]schema.Schema{
		"a": schema.Number().Require(),
	})
	v := mustCompile(t, s)

	assert.True(t, v.Validate(map[string]any{"a": 1, "extra": "ignored"}))
	assert.False(t, v.Validate(map[string]any{"extra": "ignored"}))
	assert.False(t, v.Validate([]any{1}))
	assert.False(t, v.Validate("a"))
	assert.False(t, v.Validate(map[int]any{1: 1}))
}

func TestNestedObjectScenario(t *testing.T) {
	s := schema.Object(map[string]schema.Schema{
		"id":   schema.String().Require(),
		"name": schema.String(),
	})
	v := mustCompile(t, s)

	assert.True(t, v.Validate(map[string]any{"id": "abc"}))
	assert.False(t, v.Validate(map[string]any{"name": "x"}))
	assert.False(t, v.Validate(map[string]any{"id": "abc", "name": 3}))
	assert.True(t, v.Validate(map[string]any{"id": "abc", "name": nil}))
	assert.True(t, v.Validate(map[string]string{"id": "abc"}))
}

func TestRequiredKeysMergePolicy(t *testing.T) {
	s := schema.Object(map[string]schema.Schema{
		"id":    schema.String().Require(),
		"email": schema.String(),
		"note":  schema.String(),
	}).WithRequiredKeys("email")
	v := mustCompile(t, s)

	tests := []struct {
		name  string
		value map[string]any
		want  bool
	}{
		{"both mandatory present", map[string]any{"id": "1", "email": "a@b"}, true},
		{"per-field required missing", map[string]any{"email": "a@b"}, false},
		{"requiredKeys entry missing", map[string]any{"id": "1"}, false},
		{"requiredKeys entry null", map[string]any{"id": "1", "email": nil}, false},
		{"optional missing", map[string]any{"id": "1", "email": "a@b", "other": 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.value))
		})
	}
}

func TestRequiredKeysOnNestedObjects(t *testing.T) {
	s := schema.Object(map[string]schema.Schema{
		"address": schema.Object(map[string]schema.Schema{
			"city": schema.String(),
			"zip":  schema.String(),
		}).WithRequiredKeys("city"),
	})
	v := mustCompile(t, s)

	assert.True(t, v.Validate(map[string]any{}), "optional parent short-circuits")
	assert.True(t, v.Validate(map[string]any{"address": map[string]any{"city": "X"}}))
	assert.False(t, v.Validate(map[string]any{"address": map[string]any{"zip": "1"}}))
}

func TestStructCandidates(t *testing.T) {
	type address struct {
		City string `json:"city"`
	}
	type user struct {
		ID      string   `json:"id"`
		Age     int      `json:"age"`
		Tags    []string `json:"tags"`
		Address *address `json:"address,omitempty"`
		secret  string
	}

	s := schema.Object(map[string]schema.Schema{
		"id":   schema.String().Require(),
		"age":  schema.Number().Require(),
		"tags": schema.Array(schema.String()),
		"address": schema.Object(map[string]schema.Schema{
			"city": schema.String().Require(),
		}),
	})
	v := mustCompile(t, s)

	u := user{ID: "u1", Age: 30, Tags: []string{"a"}, Address: &address{City: "Lisbon"}, secret: "s"}
	assert.True(t, v.Validate(u))
	assert.True(t, v.Validate(&u))
	assert.True(t, v.Validate(user{ID: "u2", Age: 1}))
	assert.False(t, v.Validate(struct {
		ID int `json:"id"`
	}{ID: 1}))
}

func TestStructCandidates_EncodingRules(t *testing.T) {
	type base struct {
		ID string `json:"id"`
	}
	type inner struct {
		City string `json:"city"`
	}
	type account struct {
		base
		Inner    inner  `json:"inner"`
		Password string `json:"-"`
	}

	s := schema.Object(map[string]schema.Schema{
		"id": schema.String().Require(),
		"inner": schema.Object(map[string]schema.Schema{
			"city": schema.String().Require(),
		}).Require(),
	})
	v := mustCompile(t, s)

	a := account{base: base{ID: "abc"}, Inner: inner{City: "x"}, Password: "hunter2"}
	assert.True(t, v.Validate(a))
	assert.NoError(t, v.Check(a))

	var roundTripped map[string]any
	raw, err := json.Marshal(a)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &roundTripped))
	assert.Equal(t, v.Validate(roundTripped), v.Validate(a))

	t.Run("Ignored Field Is Absent", func(t *testing.T) {
		strict := mustCompile(t, schema.Object(map[string]schema.Schema{
			"-": schema.String().Require(),
		}))
		assert.False(t, strict.Validate(a))
	})

	t.Run("Nested Struct Failure Path", func(t *testing.T) {
		type badInner struct {
			City int `json:"city"`
		}
		type badAccount struct {
			base
			Inner badInner `json:"inner"`
		}
		var verr *ValidationError
		require.ErrorAs(t, v.Check(badAccount{base: base{ID: "abc"}, Inner: badInner{City: 1}}), &verr)
		assert.Equal(t, "$.inner.city", verr.Path)
	})
}

func TestUnsupportedDiscriminant(t *testing.T) {
	_, err := Compile(schema.Schema{Type: "unknown"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedSchemaType)
	assert.True(t, IsDefinitionError(err))

	var de *DefinitionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, schema.Kind("unknown"), de.Type)
	assert.Equal(t, "$", de.Path)
	assert.Contains(t, err.Error(), `unsupported type "unknown"`)
}

func TestNestedUnsupportedDiscriminant(t *testing.T) {
	s := schema.Object(map[string]schema.Schema{
		"list": schema.Array(schema.Schema{Type: "integer"}),
	})
	_, err := Compile(s)
	require.Error(t, err)

	var de *DefinitionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "$.properties.list.items", de.Path)
	assert.Equal(t, schema.Kind("integer"), de.Type)

	_, err = ValidateBySchema(s, map[string]any{})
	assert.ErrorIs(t, err, ErrUnsupportedSchemaType)
}

func TestEmptyDiscriminant(t *testing.T) {
	_, err := Compile(schema.Schema{})
	assert.ErrorIs(t, err, ErrUnsupportedSchemaType)
}

func TestDanglingRequiredKey(t *testing.T) {
	s := schema.Object(map[string]schema.Schema{"a": schema.String()}).WithRequiredKeys("b")

	_, err := Compile(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDanglingRequiredKey)

	var de *DefinitionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "b", de.Key)
}

func TestMissingItems(t *testing.T) {
	_, err := Compile(schema.Schema{Type: schema.KindArray})
	assert.ErrorIs(t, err, ErrMissingItems)
}

func TestDeepNestingTerminates(t *testing.T) {
	s := schema.Number().Require()
	value := any(1)
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			s = schema.Array(s).Require()
			value = []any{value}
		} else {
			s = schema.Object(map[string]schema.Schema{"child": s}).Require()
			value = map[string]any{"child": value}
		}
	}

	v := mustCompile(t, s)
	assert.True(t, v.Validate(value))

	bad := any("leaf")
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			bad = []any{bad}
		} else {
			bad = map[string]any{"child": bad}
		}
	}
	assert.False(t, v.Validate(bad))
}

func TestIdempotentCompilation(t *testing.T) {
	s := schema.Object(map[string]schema.Schema{
		"id":   schema.String().Require(),
		"tags": schema.Array(schema.String().Require()),
	})

	candidates := []any{
		map[string]any{"id": "a"},
		map[string]any{"id": "a", "tags": []any{"x", 1}},
		map[string]any{"tags": []any{}},
		nil,
		42,
	}

	first := mustCompile(t, s)
	second := mustCompile(t, s)
	for _, c := range candidates {
		assert.Equal(t, first.Validate(c), second.Validate(c), "candidate %v", c)
	}
}

func TestCheckReportsPath(t *testing.T) {
	s := schema.Object(map[string]schema.Schema{
		"items": schema.Array(schema.Object(map[string]schema.Schema{
			"price": schema.Number().Require(),
		})),
	})
	v := mustCompile(t, s)

	assert.NoError(t, v.Check(map[string]any{"items": []any{map[string]any{"price": 1}}}))

	err := v.Check(map[string]any{"items": []any{
		map[string]any{"price": 1},
		map[string]any{"price": "free"},
	}})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "$.items[1].price", ve.Path)
	assert.Equal(t, "expected number, got string", ve.Reason)
	assert.Equal(t, "free", ve.Value)

	err = v.Check(map[string]any{"items": []any{map[string]any{}}})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "$.items[0].price", ve.Path)
	assert.Equal(t, "required", ve.Reason)
	assert.Nil(t, ve.Value)

	err = mustCompile(t, schema.String().Require()).Check(nil)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "$", ve.Path)
}

func TestValidatorString(t *testing.T) {
	s := schema.Object(map[string]schema.Schema{
		"id":   schema.String().Require(),
		"tags": schema.Array(schema.String()),
	})
	assert.Equal(t, "{id:string!, tags:[string]}", mustCompile(t, s).String())
}

func TestValidateFunctions(t *testing.T) {
	v := mustCompile(t, schema.String().Require())
	assert.True(t, Validate(v, "x"))
	assert.False(t, Validate(v, nil))
	assert.False(t, Validate(nil, "x"))

	ok, err := ValidateBySchema(schema.String(), nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ValidateBySchema(schema.Schema{Type: "unknown"}, "x")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrUnsupportedSchemaType))
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile(schema.Schema{Type: "nope"}) })
	assert.NotPanics(t, func() { MustCompile(schema.String()) })
}

func TestConcurrentEvaluation(t *testing.T) {
	v := mustCompile(t, schema.Object(map[string]schema.Schema{
		"n": schema.Number().Require(),
	}))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.True(t, v.Validate(map[string]any{"n": i * j}))
				assert.False(t, v.Validate(map[string]any{"n": "x"}))
			}
		}(i)
	}
	wg.Wait()
}

func TestCompiledValidatorIgnoresLaterSchemaChanges(t *testing.T) {
	props := map[string]schema.Schema{"a": schema.Number().Require()}
	s := schema.Schema{Type: schema.KindObject, Properties: props}
	v := mustCompile(t, s)

	props["a"] = schema.String().Require()
	assert.True(t, v.Validate(map[string]any{"a": 1}))
}

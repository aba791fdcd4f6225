package formula

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		row     map[string]any
		want    float64
	}{
		{"placeholder plus literal", "{basePrice} + 10", map[string]any{"basePrice": 100.0}, 110},
		{"rounded markup", "round({basePrice} * 1.15)", map[string]any{"basePrice": 100.0}, 115},
		{"missing reference is zero", "{missing} * 2", map[string]any{"basePrice": 100.0}, 0},
		{"division by zero is zero", "{basePrice} / 0", map[string]any{"basePrice": 10.0}, 0},
		{"max", "max({a}, {b})", map[string]any{"a": 3.0, "b": 7.0}, 7},
		{"pow", "pow({a}, 2)", map[string]any{"a": 5.0}, 25},
		{"malformed", "{basePrice} +", map[string]any{"basePrice": 5.0}, 0},
		{"precedence", "2 + 3 * 4", nil, 14},
		{"parentheses", "(2 + 3) * 4", nil, 20},
		{"unary minus", "-{a} + 1", map[string]any{"a": 4.0}, -3},
		{"double negation", "2 - -{a}", map[string]any{"a": 5.0}, 7},
		{"negative placeholder stays atomic", "{a} * 2", map[string]any{"a": -5.0}, -10},
		{"integer row values", "{qty} * {price}", map[string]any{"qty": 3, "price": int64(4)}, 12},
		{"string value is zero", "{number} + 1", map[string]any{"number": "42"}, 1},
		{"bool value is zero", "{flag} + 1", map[string]any{"flag": true}, 1},
		{"nil row", "{a} + 1", nil, 1},
		{"result rounded to two decimals", "10 / 3", nil, 3.33},
		{"min variadic", "min(4, {a}, 9)", map[string]any{"a": 2.5}, 2.5},
		{"single arg max", "max(8)", nil, 8},
		{"abs", "abs(-2.5)", nil, 2.5},
		{"round keeps cents", "round(116.725)", nil, 116.73},
		{"rounded markup keeps cents", "round({b} * 1.15)", map[string]any{"b": 99.0}, 113.85},
		{"floor at cents", "floor(7.999)", nil, 7.99},
		{"ceil at cents", "ceil(7.001)", nil, 7.01},
		{"round of whole cents is unchanged", "round(2.5)", nil, 2.5},
		{"round half up at cents", "round(0.125)", nil, 0.13},
		{"negative half rounds toward zero", "round(-0.125)", nil, -0.12},
		{"floor of negative", "floor(-7.001)", nil, -7.01},
		{"nested calls compound rounding", "round(pow(1.005, 2) * 100)", nil, 101},
		{"exponent literal", "1e2 + .5", nil, 100.5},
		{"placeholder with spaces in name", "{base price} * 2", map[string]any{"base price": 1.5}, 3},
		{"unknown function", "sqrt(4)", nil, 0},
		{"bare identifier", "basePrice + 1", nil, 0},
		{"wrong arity", "pow(2)", nil, 0},
		{"empty formula", "", nil, 0},
		{"zero over zero", "0 / 0", nil, 0},
		{"unterminated placeholder", "{basePrice + 1", nil, 0},
		{"empty placeholder", "{} + 1", nil, 0},
		{"stray character", "2 % 3", nil, 0},
		{"overflowing pow", "pow(10, 400)", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.formula, tt.row))
		})
	}
}

func TestEvaluator_LogsAndObservesFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	var outcomes []error
	ev := NewEvaluator(
		WithLogger(zap.New(core)),
		WithObserver(func(err error) { outcomes = append(outcomes, err) }),
	)

	assert.Equal(t, 0.0, ev.Evaluate("{a} / 0", map[string]any{"a": 1.0}))
	assert.Equal(t, 2.0, ev.Evaluate("{a} + 1", map[string]any{"a": 1.0}))

	require.Len(t, outcomes, 2)
	assert.ErrorIs(t, outcomes[0], ErrNotFinite)
	assert.NoError(t, outcomes[1])

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Error evaluating formula", entry.Message)
	assert.Equal(t, "{a} / 0", entry.ContextMap()["formula"])
}

func TestCompile(t *testing.T) {
	t.Run("collects distinct references in order", func(t *testing.T) {
		expr, err := Compile("{b} + {a} * {b} - max({c}, {a})")
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a", "c"}, expr.References())
	})

	t.Run("references copy is independent", func(t *testing.T) {
		expr := MustCompile("{a}")
		refs := expr.References()
		refs[0] = "changed"
		assert.Equal(t, []string{"a"}, expr.References())
	})

	t.Run("syntax error carries position", func(t *testing.T) {
		_, err := Compile("1 + * 2")
		var syn *SyntaxError
		require.True(t, errors.As(err, &syn))
		assert.Equal(t, 4, syn.Pos)
	})

	t.Run("unknown function", func(t *testing.T) {
		_, err := Compile("eval(1)")
		assert.ErrorIs(t, err, ErrUnknownFunction)
	})

	t.Run("arity", func(t *testing.T) {
		_, err := Compile("abs(1, 2)")
		assert.ErrorIs(t, err, ErrArity)
		_, err = Compile("min()")
		assert.ErrorIs(t, err, ErrArity)
	})

	t.Run("missing closing paren", func(t *testing.T) {
		_, err := Compile("round({a} * 2")
		var syn *SyntaxError
		assert.True(t, errors.As(err, &syn))
	})

	t.Run("eval returns raw value", func(t *testing.T) {
		v, err := MustCompile("10 / 3").Eval(nil)
		require.NoError(t, err)
		assert.InDelta(t, 3.3333, v, 0.001)
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, -1.24, Round2(-1.236))
	assert.Equal(t, 115.0, Round2(114.99999999999999))
	assert.Equal(t, 1e308, Round2(1e308))
}

func TestNumeric(t *testing.T) {
	for _, v := range []any{1, int8(1), int16(1), int32(1), int64(1), uint(1), uint8(1), uint16(1), uint32(1), uint64(1), float32(1), 1.0} {
		got, ok := Numeric(v)
		assert.True(t, ok, "%T", v)
		assert.Equal(t, 1.0, got)
	}
	_, ok := Numeric("1")
	assert.False(t, ok)
	_, ok = Numeric(nil)
	assert.False(t, ok)
}

func TestEvaluator_Run(t *testing.T) {
	var outcomes []error
	ev := NewEvaluator(
		WithLogger(zap.NewNop()),
		WithObserver(func(err error) { outcomes = append(outcomes, err) }),
	)

	v, expr, err := ev.Run("round({b} * 1.15)", map[string]any{"b": 99.0})
	require.NoError(t, err)
	assert.Equal(t, 113.85, v)
	assert.Equal(t, []string{"b"}, expr.References())

	v, expr, err = ev.Run("{b} +", nil)
	assert.Error(t, err)
	assert.Nil(t, expr)
	assert.Zero(t, v)

	v, expr, err = ev.Run("{b} / 0", map[string]any{"b": 1.0})
	assert.ErrorIs(t, err, ErrNotFinite)
	assert.NotNil(t, expr)
	assert.Zero(t, v)

	require.Len(t, outcomes, 3, "one outcome per run")
	assert.NoError(t, outcomes[0])
	assert.Error(t, outcomes[1])
	assert.ErrorIs(t, outcomes[2], ErrNotFinite)
}

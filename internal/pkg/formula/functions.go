package formula

import (
	"fmt"
	"math"
)

// function is one entry of the closed set of callable names.
type function struct {
	name    string
	minArgs int
	maxArgs int // -1 means variadic
	apply   func(args []float64) float64
}

func (f *function) checkArity(n int) error {
	if n < f.minArgs || (f.maxArgs >= 0 && n > f.maxArgs) {
		want := fmt.Sprintf("%d", f.minArgs)
		switch {
		case f.maxArgs < 0:
			want = fmt.Sprintf("at least %d", f.minArgs)
		case f.maxArgs != f.minArgs:
			want = fmt.Sprintf("%d to %d", f.minArgs, f.maxArgs)
		}
		return fmt.Errorf("%w: %s takes %s argument(s), got %d", ErrArity, f.name, want, n)
	}
	return nil
}

// functions is the whitelist. Every result is normalized to two decimals
// before it flows back into the enclosing expression.
var functions = map[string]*function{
	"abs": {name: "abs", minArgs: 1, maxArgs: 1, apply: func(a []float64) float64 {
		return Round2(math.Abs(a[0]))
	}},
	"round": {name: "round", minArgs: 1, maxArgs: 1, apply: func(a []float64) float64 {
		return atCents(a[0], roundHalfUp)
	}},
	"floor": {name: "floor", minArgs: 1, maxArgs: 1, apply: func(a []float64) float64 {
		return atCents(a[0], math.Floor)
	}},
	"ceil": {name: "ceil", minArgs: 1, maxArgs: 1, apply: func(a []float64) float64 {
		return atCents(a[0], math.Ceil)
	}},
	"min": {name: "min", minArgs: 1, maxArgs: -1, apply: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return Round2(m)
	}},
	"max": {name: "max", minArgs: 1, maxArgs: -1, apply: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return Round2(m)
	}},
	"pow": {name: "pow", minArgs: 2, maxArgs: 2, apply: func(a []float64) float64 {
		return Round2(math.Pow(a[0], a[1]))
	}},
}

// Functions returns the names callable from a formula.
func Functions() []string {
	return []string{"abs", "round", "floor", "ceil", "min", "max", "pow"}
}

// atCents applies an integer rounding mode at two-decimal scale.
func atCents(v float64, mode func(float64) float64) float64 {
	scaled := v * 100
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return v
	}
	return mode(scaled) / 100
}

// roundHalfUp breaks ties toward positive infinity: 2.5 -> 3, -2.5 -> -2.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Round2 rounds half away from zero to two decimal places. Values too large
// to scale are returned unchanged.
func Round2(v float64) float64 {
	scaled := v * 100
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return v
	}
	return math.Round(scaled) / 100
}

package formula

import (
	"go.uber.org/zap"
)

// Observer is notified of every evaluation outcome. err is nil on success.
type Observer func(err error)

// Evaluator turns formulas into numbers and never fails: any error is logged
// and yields zero.
type Evaluator struct {
	logger   *zap.Logger
	observer Observer
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for evaluation diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Evaluator) { e.logger = logger }
}

// WithObserver registers a callback for evaluation outcomes.
func WithObserver(obs Observer) Option {
	return func(e *Evaluator) { e.observer = obs }
}

// NewEvaluator creates an Evaluator. Without WithLogger it logs through zap.L().
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate compiles and evaluates src against row, rounding the result to two
// decimals.
func (e *Evaluator) Evaluate(src string, row map[string]any) float64 {
	v, _, _ := e.Run(src, row)
	return v
}

// Run compiles src and walks it once. It returns the value Evaluate would,
// the compiled expression (nil on a syntax error) and the failure, which has
// already been logged and observed.
func (e *Evaluator) Run(src string, row map[string]any) (float64, *Expr, error) {
	expr, err := Compile(src)
	if err != nil {
		e.fail(src, err)
		return 0, nil, err
	}
	v, err := e.eval(expr, row)
	return v, expr, err
}

// EvaluateExpr evaluates a precompiled formula.
func (e *Evaluator) EvaluateExpr(expr *Expr, row map[string]any) float64 {
	v, _ := e.eval(expr, row)
	return v
}

func (e *Evaluator) eval(expr *Expr, row map[string]any) (float64, error) {
	v, err := expr.Eval(row)
	if err != nil {
		e.fail(expr.source, err)
		return 0, err
	}
	if e.observer != nil {
		e.observer(nil)
	}
	return Round2(v), nil
}

func (e *Evaluator) fail(src string, err error) {
	e.log().Warn("Error evaluating formula",
		zap.String("formula", src),
		zap.Error(err))
	if e.observer != nil {
		e.observer(err)
	}
}

func (e *Evaluator) log() *zap.Logger {
	if e.logger != nil {
		return e.logger
	}
	return zap.L()
}

var defaultEvaluator = NewEvaluator()

// Evaluate evaluates src against row with the package default Evaluator.
func Evaluate(src string, row map[string]any) float64 {
	return defaultEvaluator.Evaluate(src, row)
}

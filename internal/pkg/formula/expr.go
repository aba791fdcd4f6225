// Package formula evaluates column formulas against a product row.
//
// A formula is plain arithmetic over numeric literals and {column} placeholders,
// with a closed set of helper functions:
//
//	round({basePrice} * 1.15)
//	max({quantity}, 10) + {shipping}
//
// Formulas are parsed into a small expression tree and walked; nothing is ever
// compiled or executed as code.
package formula

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownFunction = errors.New("unknown function")
	ErrArity           = errors.New("wrong number of arguments")
	ErrNotFinite       = errors.New("result is not a finite number")
)

// SyntaxError reports a malformed formula.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// Expr is a compiled formula.
type Expr struct {
	source string
	root   node
	refs   []string
}

// Compile parses a formula without evaluating it.
func Compile(src string) (*Expr, error) {
	root, refs, err := parse(src)
	if err != nil {
		return nil, err
	}
	return &Expr{source: src, root: root, refs: refs}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Expr {
	e, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return e
}

// Source returns the formula text.
func (e *Expr) Source() string { return e.source }

// References returns the distinct placeholder names in order of first use.
func (e *Expr) References() []string {
	out := make([]string, len(e.refs))
	copy(out, e.refs)
	return out
}

// Eval walks the tree against row. Missing or non-numeric placeholders are
// zero. The raw result is returned unrounded; a NaN or infinite result is an
// error.
func (e *Expr) Eval(row map[string]any) (float64, error) {
	v, err := e.root.eval(row)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return v, nil
}

func (n *numberNode) eval(map[string]any) (float64, error) { return n.value, nil }

func (n *refNode) eval(row map[string]any) (float64, error) {
	v, ok := Numeric(row[n.name])
	if !ok {
		return 0, nil
	}
	return v, nil
}

func (n *unaryNode) eval(row map[string]any) (float64, error) {
	v, err := n.operand.eval(row)
	if err != nil {
		return 0, err
	}
	if n.op == tokMinus {
		return -v, nil
	}
	return v, nil
}

func (n *binaryNode) eval(row map[string]any) (float64, error) {
	l, err := n.left.eval(row)
	if err != nil {
		return 0, err
	}
	r, err := n.right.eval(row)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case tokPlus:
		return l + r, nil
	case tokMinus:
		return l - r, nil
	case tokStar:
		return l * r, nil
	default:
		return l / r, nil
	}
}

func (n *callNode) eval(row map[string]any) (float64, error) {
	args := make([]float64, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(row)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return n.fn.apply(args), nil
}

// Numeric reports the float value of v when v holds a Go number.
func Numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Package postprocess applies user-supplied transformation steps to a query
// result. Steps are Starlark expressions or scripts evaluated against a
// `df` binding; this is trusted, operator-supplied code with no sandboxing
// beyond Starlark's hermetic environment.
package postprocess

import (
	"fmt"
	"io"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"duckgs/internal/domain"
)

// Step is one post-processing transformation: a single expression, or an
// ordered group of expressions each fed the previous one's output.
type Step struct {
	Exprs []string
}

// Expr creates a single-expression step.
func Expr(expr string) Step {
	return Step{Exprs: []string{expr}}
}

// Group creates a step whose expressions run in sequence.
func Group(exprs ...string) Step {
	return Step{Exprs: exprs}
}

// Evaluator evaluates expressions and scripts over a result table.
type Evaluator struct {
	out io.Writer
}

// NewEvaluator creates an Evaluator; print() output from scripts goes to w.
func NewEvaluator(w io.Writer) *Evaluator {
	return &Evaluator{out: w}
}

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

func (e *Evaluator) thread(name string) *starlark.Thread {
	return &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(e.out, msg)
		},
	}
}

// Eval evaluates a single expression with the result bound as `df` and
// returns the expression's value as the new table state.
func (e *Evaluator) Eval(expr string, res *domain.Result) (*domain.Result, error) {
	env := starlark.StringDict{"df": NewDataFrame(res)}
	value, err := starlark.EvalOptions(fileOptions, e.thread("eval-df"), "<eval-df>", expr, env)
	if err != nil {
		return nil, fmt.Errorf("eval %q: %w", expr, err)
	}
	return resultFromValue(value)
}

// Apply runs the steps in order, each expression receiving the prior
// expression's output. Every expression of a grouped step is applied.
func (e *Evaluator) Apply(steps []Step, res *domain.Result) (*domain.Result, error) {
	current := res
	for _, step := range steps {
		for _, expr := range step.Exprs {
			next, err := e.Eval(expr, current)
			if err != nil {
				return nil, err
			}
			current = next
		}
	}
	return current, nil
}

// ExecScript executes a full Starlark script with `df` predeclared. If the
// script reassigns `df` at module level, the reassigned value is the
// carried-forward result; otherwise the prior result persists.
func (e *Evaluator) ExecScript(src string, res *domain.Result) (*domain.Result, error) {
	// Seed df as a module global. A top-level assignment to df in the
	// script would shadow a predeclared binding for the whole module and
	// fail with "referenced before assignment" on the first read, so the
	// script cannot receive df through predeclared alone.
	predeclared := starlark.StringDict{"_input": NewDataFrame(res)}
	src = "df = _input\n" + src
	globals, err := starlark.ExecFileOptions(fileOptions, e.thread("script"), "<script>", src, predeclared)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	if v, ok := globals["df"]; ok {
		return resultFromValue(v)
	}
	return res, nil
}

// resultFromValue converts an evaluated value back to a table. A dataframe
// passes through; anything else becomes a one-cell result so text outputs
// like to_csv() still flow down the pipeline.
func resultFromValue(v starlark.Value) (*domain.Result, error) {
	if df, ok := v.(*DataFrame); ok {
		return df.Result(), nil
	}
	return &domain.Result{
		Columns: []string{"value"},
		Rows:    [][]interface{}{{fromStarlark(v)}},
	}, nil
}

package postprocess

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duckgs/internal/domain"
)

func sampleResult() *domain.Result {
	return &domain.Result{
		Columns: []string{"a", "b"},
		Rows: [][]interface{}{
			{int64(1), "x"},
			{int64(2), "y"},
			{int64(3), "z"},
		},
	}
}

func TestEvaluator_Eval(t *testing.T) {
	e := NewEvaluator(io.Discard)

	t.Run("projection", func(t *testing.T) {
		res, err := e.Eval(`df[["a"]]`, sampleResult())
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, res.Columns)
		assert.Equal(t, 3, res.RowCount())
	})

	t.Run("head", func(t *testing.T) {
		res, err := e.Eval(`df.head(2)`, sampleResult())
		require.NoError(t, err)
		assert.Equal(t, 2, res.RowCount())
	})

	t.Run("transpose", func(t *testing.T) {
		res, err := e.Eval(`df.t()`, sampleResult())
		require.NoError(t, err)
		assert.Equal(t, []string{"column", "row_0", "row_1", "row_2"}, res.Columns)
		assert.Equal(t, 2, res.RowCount())
		assert.Equal(t, "a", res.Rows[0][0])
	})

	t.Run("to_csv_becomes_value_cell", func(t *testing.T) {
		res, err := e.Eval(`df.to_csv()`, sampleResult())
		require.NoError(t, err)
		require.Equal(t, []string{"value"}, res.Columns)
		require.Equal(t, 1, res.RowCount())
		assert.Equal(t, "a,b\n1,x\n2,y\n3,z\n", res.Rows[0][0])
	})

	t.Run("to_json", func(t *testing.T) {
		res, err := e.Eval(`df[["a"]].to_json()`, sampleResult())
		require.NoError(t, err)
		assert.Equal(t, `[{"a":1},{"a":2},{"a":3}]`, res.Rows[0][0])
	})

	t.Run("column_values", func(t *testing.T) {
		res, err := e.Eval(`df["b"][0]`, sampleResult())
		require.NoError(t, err)
		assert.Equal(t, "x", res.Rows[0][0])
	})

	t.Run("arbitrary_expression", func(t *testing.T) {
		res, err := e.Eval(`len(df.rows) * 10`, sampleResult())
		require.NoError(t, err)
		assert.EqualValues(t, 30, res.Rows[0][0])
	})

	t.Run("unknown_column_errors", func(t *testing.T) {
		_, err := e.Eval(`df[["nope"]]`, sampleResult())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown column")
	})

	t.Run("syntax_error_propagates", func(t *testing.T) {
		_, err := e.Eval(`df[[`, sampleResult())
		require.Error(t, err)
	})
}

func TestEvaluator_Apply(t *testing.T) {
	e := NewEvaluator(io.Discard)

	t.Run("steps_chain_in_order", func(t *testing.T) {
		steps := []Step{Expr(`df[["a"]]`), Expr(`df.head(1)`)}
		res, err := e.Apply(steps, sampleResult())
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, res.Columns)
		assert.Equal(t, 1, res.RowCount())
	})

	t.Run("grouped_step_applies_every_expression", func(t *testing.T) {
		steps := []Step{Group(`df[["a"]]`, `df.head(2)`)}
		res, err := e.Apply(steps, sampleResult())
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, res.Columns)
		assert.Equal(t, 2, res.RowCount())
	})

	t.Run("no_steps_passthrough", func(t *testing.T) {
		in := sampleResult()
		res, err := e.Apply(nil, in)
		require.NoError(t, err)
		assert.Same(t, in, res)
	})

	t.Run("failing_step_aborts_chain", func(t *testing.T) {
		steps := []Step{Expr(`df[["a"]]`), Expr(`df[["b"]]`)}
		_, err := e.Apply(steps, sampleResult())
		require.Error(t, err, "b was projected away by the first step")
	})
}

func TestEvaluator_ExecScript(t *testing.T) {
	t.Run("reassigned_df_carries_forward", func(t *testing.T) {
		e := NewEvaluator(io.Discard)
		res, err := e.ExecScript("df = df.head(1)", sampleResult())
		require.NoError(t, err)
		assert.Equal(t, 1, res.RowCount())
	})

	t.Run("without_reassignment_prior_value_persists", func(t *testing.T) {
		e := NewEvaluator(io.Discard)
		in := sampleResult()
		res, err := e.ExecScript(`x = df.head(1)`, in)
		require.NoError(t, err)
		assert.Same(t, in, res)
	})

	t.Run("print_goes_to_writer", func(t *testing.T) {
		var buf bytes.Buffer
		e := NewEvaluator(&buf)
		_, err := e.ExecScript(`print(df.columns)`, sampleResult())
		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"a"`)
	})

	t.Run("script_error_propagates", func(t *testing.T) {
		e := NewEvaluator(io.Discard)
		_, err := e.ExecScript(`fail("boom")`, sampleResult())
		require.Error(t, err)
	})
}

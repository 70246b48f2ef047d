package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	return &Result{
		Columns: []string{"a", "b", "c"},
		Rows: [][]interface{}{
			{1, "x", true},
			{2, "y", false},
		},
	}
}

func TestResult_Column(t *testing.T) {
	res := sampleResult()

	values, err := res.Column("b")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"x", "y"}, values)

	_, err = res.Column("missing")
	require.Error(t, err)
}

func TestResult_Project(t *testing.T) {
	res := sampleResult()

	t.Run("subset_in_given_order", func(t *testing.T) {
		projected, err := res.Project([]string{"c", "a"})
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a"}, projected.Columns)
		assert.Equal(t, [][]interface{}{{true, 1}, {false, 2}}, projected.Rows)
	})

	t.Run("unknown_column", func(t *testing.T) {
		_, err := res.Project([]string{"a", "nope"})
		require.Error(t, err)
	})

	t.Run("source_unchanged", func(t *testing.T) {
		_, err := res.Project([]string{"a"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, res.Columns)
	})
}

func TestResult_Head(t *testing.T) {
	res := sampleResult()
	assert.Equal(t, 1, res.Head(1).RowCount())
	assert.Equal(t, 2, res.Head(10).RowCount())
	assert.Equal(t, 0, res.Head(-1).RowCount())
}

func TestResult_Transpose(t *testing.T) {
	res := sampleResult().Transpose()
	assert.Equal(t, []string{"column", "row_0", "row_1"}, res.Columns)
	require.Equal(t, 3, res.RowCount())
	assert.Equal(t, []interface{}{"a", 1, 2}, res.Rows[0])
	assert.Equal(t, []interface{}{"b", "x", "y"}, res.Rows[1])
}

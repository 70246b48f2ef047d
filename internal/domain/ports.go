package domain

import "context"

// Engine executes a resolved SQL query and returns a tabular result.
// Implementations must surface engine-level errors unmodified.
type Engine interface {
	Query(ctx context.Context, sql string) (*Result, error)
}

// Prompter asks the operator for the value of an unresolved placeholder.
type Prompter interface {
	Ask(name string) (string, error)
}

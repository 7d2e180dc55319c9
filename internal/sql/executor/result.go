package executor

// Result is the generic outcome of executing one plan.
type Result struct {
	Columns      []string
	Rows         [][]any
	AffectedRows int64
}

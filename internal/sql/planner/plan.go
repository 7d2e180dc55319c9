// Package planner validates parsed statements against the catalog and
// turns them into plans the executor can run directly against storage.
package planner

import "github.com/tuannm99/novadb/internal/catalog"

// Plan is the interface for executable plans.
type Plan interface {
	planNode()
}

// CreateTablePlan carries the fully-typed column list for a CREATE TABLE.
type CreateTablePlan struct {
	TableName string
	Columns   []catalog.Column
}

func (*CreateTablePlan) planNode() {}

// Value is a planned, type-checked literal ready for the row codec.
type Value struct {
	IsInt bool // false => bool
	Int   int64
	Bool  bool
}

// InsertPlan carries rows already reordered into the table's physical
// column order and type-checked against the schema.
type InsertPlan struct {
	TableName string
	Rows      [][]Value
}

func (*InsertPlan) planNode() {}

// Projection is kept as a forward-compatibility hint over SeqScan: the
// shape a real SELECT executor would consume, even though this spec does
// not execute it beyond returning column names.
type Projection struct {
	Columns []string
	Input   *SeqScanPlan
}

func (*Projection) planNode() {}

// SeqScanPlan is a full scan of one table.
type SeqScanPlan struct {
	TableName string
}

func (*SeqScanPlan) planNode() {}

// SelectPlan is the stubbed-out plan for SELECT: a Projection over a
// SeqScan, per spec.md's forward-compatibility note. It is constructed by
// the planner and accepted by the executor, but the executor does not
// materialize rows for it.
type SelectPlan struct {
	Projection *Projection
}

func (*SelectPlan) planNode() {}

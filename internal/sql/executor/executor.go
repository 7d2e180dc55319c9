// Package executor dispatches planner plans against the storage core:
// buffer pool, catalog, and table pages.
package executor

import (
	"fmt"

	"github.com/tuannm99/novadb/internal/catalog"
	"github.com/tuannm99/novadb/internal/record"
	"github.com/tuannm99/novadb/internal/sql/parser"
	"github.com/tuannm99/novadb/internal/sql/planner"
	"github.com/tuannm99/novadb/internal/storage"
	"github.com/tuannm99/novadb/internal/table"
)

// Catalog is the seam the executor needs from *catalog.Catalog.
type Catalog interface {
	Lookup(name string) (catalog.TableSchema, bool)
	CreateTable(name string, columns []catalog.Column) (catalog.TableSchema, error)
}

// Executor runs plans against a buffer pool and catalog.
type Executor struct {
	BP  *storage.BufferPool
	Cat Catalog
}

// New builds an Executor bound to bp and cat.
func New(bp *storage.BufferPool, cat Catalog) *Executor {
	return &Executor{BP: bp, Cat: cat}
}

// ExecSQL scans, parses, plans, and executes every statement in sql,
// returning one Result per statement that executed (planning/plan-build
// errors for earlier statements don't stop later ones in the batch, since
// each statement is independent once parsed).
func (e *Executor) ExecSQL(sql string) ([]*Result, []error) {
	stmts, parseErrs := parser.Parse(sql)
	if len(parseErrs) > 0 {
		return nil, parseErrs
	}

	var results []*Result
	var errs []error
	for _, stmt := range stmts {
		res, err := e.execStatement(stmt)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

func (e *Executor) execStatement(stmt parser.Statement) (*Result, error) {
	plan, err := planner.BuildPlan(stmt, e.Cat)
	if err != nil {
		return nil, err
	}
	return e.execPlan(plan)
}

func (e *Executor) execPlan(p planner.Plan) (*Result, error) {
	switch plan := p.(type) {
	case *planner.CreateTablePlan:
		return e.execCreateTable(plan)
	case *planner.InsertPlan:
		return e.execInsert(plan)
	case *planner.SelectPlan:
		return e.execSelect(plan)
	default:
		return nil, fmt.Errorf("executor: unsupported plan type %T", p)
	}
}

func (e *Executor) execCreateTable(p *planner.CreateTablePlan) (*Result, error) {
	if _, err := e.Cat.CreateTable(p.TableName, p.Columns); err != nil {
		return nil, err
	}
	return &Result{AffectedRows: 0}, nil
}

func (e *Executor) execInsert(p *planner.InsertPlan) (*Result, error) {
	schema, ok := e.Cat.Lookup(p.TableName)
	if !ok {
		return nil, fmt.Errorf("executor: unknown table %q", p.TableName)
	}

	var affected int64
	for _, row := range p.Rows {
		values := make([]record.Int64OrBool, len(row))
		for i, v := range row {
			if v.IsInt {
				values[i] = record.Int(v.Int)
			} else {
				values[i] = record.Bool(v.Bool)
			}
		}

		tuple, err := record.EncodeRow(schema, values)
		if err != nil {
			return nil, fmt.Errorf("executor: encode row for %q: %w", p.TableName, err)
		}

		if err := table.Insert(e.BP, schema, tuple); err != nil {
			return nil, fmt.Errorf("executor: insert into %q: %w", p.TableName, err)
		}
		affected++
	}

	return &Result{AffectedRows: affected}, nil
}

// execSelect returns column names only: SELECT execution beyond the plan
// shape is out of scope for this spec (see planner.SelectPlan).
func (e *Executor) execSelect(p *planner.SelectPlan) (*Result, error) {
	return &Result{Columns: p.Projection.Columns}, nil
}

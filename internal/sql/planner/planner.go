package planner

import (
	"fmt"

	"github.com/tuannm99/novadb/internal/catalog"
	"github.com/tuannm99/novadb/internal/sql/parser"
)

// Error is a plan error: unknown table, unknown column, arity mismatch, or
// type mismatch. The statement is skipped, not fatal to the process.
type Error struct {
	Message string
}

func (e *Error) Error() string { return "plan error: " + e.Message }

// Catalog is the seam the planner needs: schema lookup only.
type Catalog interface {
	Lookup(name string) (catalog.TableSchema, bool)
}

// BuildPlan validates stmt against cat and produces a Plan.
func BuildPlan(stmt parser.Statement, cat Catalog) (Plan, error) {
	switch s := stmt.(type) {
	case *parser.CreateTableStmt:
		return buildCreateTable(s, cat)
	case *parser.InsertStmt:
		return buildInsert(s, cat)
	case *parser.SelectStmt:
		return buildSelect(s, cat)
	default:
		return nil, &Error{Message: fmt.Sprintf("unsupported statement type %T", stmt)}
	}
}

func buildCreateTable(s *parser.CreateTableStmt, cat Catalog) (Plan, error) {
	if _, exists := cat.Lookup(s.TableName); exists {
		return nil, &Error{Message: fmt.Sprintf("table %q already exists", s.TableName)}
	}

	seen := make(map[string]bool, len(s.Columns))
	cols := make([]catalog.Column, 0, len(s.Columns))
	for _, c := range s.Columns {
		if seen[c.Name] {
			return nil, &Error{Message: fmt.Sprintf("duplicate column %q in table %q", c.Name, s.TableName)}
		}
		seen[c.Name] = true

		var ct catalog.ColumnType
		switch c.Type {
		case "int":
			ct = catalog.ColInt
		case "bool":
			ct = catalog.ColBool
		default:
			return nil, &Error{Message: fmt.Sprintf("unsupported column type %q for column %q", c.Type, c.Name)}
		}
		cols = append(cols, catalog.Column{Name: c.Name, Type: ct})
	}

	return &CreateTablePlan{TableName: s.TableName, Columns: cols}, nil
}

func buildInsert(s *parser.InsertStmt, cat Catalog) (Plan, error) {
	schema, ok := cat.Lookup(s.TableName)
	if !ok {
		return nil, &Error{Message: fmt.Sprintf("unknown table %q", s.TableName)}
	}

	// position of each statement column within the physical schema order
	physPos := make([]int, len(s.Columns))
	for i, name := range s.Columns {
		pos := colPos(schema, name)
		if pos < 0 {
			return nil, &Error{Message: fmt.Sprintf("unknown column %q in table %q", name, s.TableName)}
		}
		physPos[i] = pos
	}

	if len(s.Columns) != len(schema.Columns) {
		return nil, &Error{Message: fmt.Sprintf(
			"insert into %q names %d columns, table has %d", s.TableName, len(s.Columns), len(schema.Columns),
		)}
	}

	rows := make([][]Value, 0, len(s.Rows))
	for _, row := range s.Rows {
		if len(row) != len(s.Columns) {
			return nil, &Error{Message: fmt.Sprintf(
				"row has %d values, column list has %d", len(row), len(s.Columns),
			)}
		}

		// reorder this row's expressions to match the table's physical
		// column order, then type-check each against its target column.
		ordered := make([]Value, len(schema.Columns))
		for i, expr := range row {
			targetPos := physPos[i]
			col := schema.Columns[targetPos]

			v, err := coerceValue(expr, col)
			if err != nil {
				return nil, err
			}
			ordered[targetPos] = v
		}
		rows = append(rows, ordered)
	}

	return &InsertPlan{TableName: s.TableName, Rows: rows}, nil
}

func coerceValue(expr parser.Expr, col catalog.Column) (Value, error) {
	switch e := expr.(type) {
	case *parser.IntLiteralExpr:
		if col.Type != catalog.ColInt {
			return Value{}, &Error{Message: fmt.Sprintf("column %q expects %s, got int literal", col.Name, col.Type)}
		}
		return Value{IsInt: true, Int: e.Value}, nil
	case *parser.BoolLiteralExpr:
		if col.Type != catalog.ColBool {
			return Value{}, &Error{Message: fmt.Sprintf("column %q expects %s, got bool literal", col.Name, col.Type)}
		}
		return Value{IsInt: false, Bool: e.Value}, nil
	case *parser.NullLiteralExpr:
		return Value{}, &Error{Message: fmt.Sprintf("column %q: NULL is not supported", col.Name)}
	case *parser.ColumnRefExpr:
		return Value{}, &Error{Message: fmt.Sprintf("column references are not supported in INSERT values (got %q)", e.Name)}
	default:
		return Value{}, &Error{Message: fmt.Sprintf("unsupported expression type %T", expr)}
	}
}

func buildSelect(s *parser.SelectStmt, cat Catalog) (Plan, error) {
	schema, ok := cat.Lookup(s.TableName)
	if !ok {
		return nil, &Error{Message: fmt.Sprintf("unknown table %q", s.TableName)}
	}

	names := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		names[i] = c.Name
	}

	scan := &SeqScanPlan{TableName: s.TableName}
	return &SelectPlan{Projection: &Projection{Columns: names, Input: scan}}, nil
}

func colPos(schema catalog.TableSchema, name string) int {
	for i, c := range schema.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

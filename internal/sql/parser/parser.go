package parser

import (
	"fmt"
	"strings"

	"github.com/tuannm99/novadb/internal/sql/scanner"
)

// Error is a parse error: an unexpected token at a given grammar position.
type Error struct {
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
}

// Parse scans and parses input into zero or more statements. On error it
// keeps parsing after synchronizing (consuming tokens until either a ';'
// is consumed or the next token starts a statement), collecting every
// error encountered, and returns all of them together with whatever
// statements parsed cleanly.
func Parse(input string) ([]Statement, []error) {
	tokens, err := scanner.Scan(input)
	if err != nil {
		return nil, []error{err}
	}

	p := &parser{tokens: tokens}
	var stmts []Statement
	var errs []error

	for !p.check(scanner.EOF) {
		stmt, err := p.statement()
		if err != nil {
			errs = append(errs, err)
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}

	return stmts, errs
}

type parser struct {
	tokens []scanner.Token
	pos    int
}

func (p *parser) cur() scanner.Token { return p.tokens[p.pos] }

func (p *parser) check(k scanner.Kind) bool { return p.cur().Kind == k }

func (p *parser) advance() scanner.Token {
	t := p.tokens[p.pos]
	if t.Kind != scanner.EOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(k scanner.Kind) (scanner.Token, error) {
	if p.check(k) {
		return p.advance(), nil
	}
	t := p.cur()
	return scanner.Token{}, &Error{
		Offset:  t.Offset,
		Message: fmt.Sprintf("expected %s, got %s %q", k, t.Kind, t.Text),
	}
}

// isStatementStart reports whether k begins a new statement; used both
// to dispatch and to recognize a synchronization point.
func isStatementStart(k scanner.Kind) bool {
	switch k {
	case scanner.Select, scanner.Insert, scanner.Create:
		return true
	default:
		return false
	}
}

// synchronize recovers from a parse error by consuming tokens until either
// a ';' is consumed or the next token starts a statement.
func (p *parser) synchronize() {
	for !p.check(scanner.EOF) {
		t := p.advance()
		if t.Kind == scanner.Semicolon {
			return
		}
		if isStatementStart(p.cur().Kind) {
			return
		}
	}
}

func (p *parser) statement() (Statement, error) {
	switch p.cur().Kind {
	case scanner.Select:
		return p.selectStmt()
	case scanner.Insert:
		return p.insertStmt()
	case scanner.Create:
		return p.createTableStmt()
	default:
		t := p.cur()
		return nil, &Error{Offset: t.Offset, Message: fmt.Sprintf("expected a statement, got %s %q", t.Kind, t.Text)}
	}
}

func (p *parser) createTableStmt() (Statement, error) {
	if _, err := p.expect(scanner.Create); err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.Table); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(scanner.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.LeftParen); err != nil {
		return nil, err
	}

	var cols []ColumnDef
	for {
		col, err := p.columnDef()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)

		if p.check(scanner.Comma) {
			p.advance()
			continue
		}
		break
	}

	if _, err := p.expect(scanner.RightParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.Semicolon); err != nil {
		return nil, err
	}

	return &CreateTableStmt{TableName: nameTok.Text, Columns: cols}, nil
}

func (p *parser) columnDef() (ColumnDef, error) {
	nameTok, err := p.expect(scanner.Identifier)
	if err != nil {
		return ColumnDef{}, err
	}

	t := p.cur()
	var typ string
	switch t.Kind {
	case scanner.Int:
		typ = "int"
	case scanner.Bool:
		typ = "bool"
	default:
		return ColumnDef{}, &Error{Offset: t.Offset, Message: fmt.Sprintf("expected column type (int|bool), got %s %q", t.Kind, t.Text)}
	}
	p.advance()

	return ColumnDef{Name: nameTok.Text, Type: typ}, nil
}

func (p *parser) insertStmt() (Statement, error) {
	if _, err := p.expect(scanner.Insert); err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.Into); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(scanner.Identifier)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(scanner.LeftParen); err != nil {
		return nil, err
	}
	var columns []string
	for {
		colTok, err := p.expect(scanner.Identifier)
		if err != nil {
			return nil, err
		}
		columns = append(columns, colTok.Text)

		if p.check(scanner.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(scanner.RightParen); err != nil {
		return nil, err
	}

	if _, err := p.expect(scanner.Values); err != nil {
		return nil, err
	}

	var rows [][]Expr
	for {
		row, err := p.valueRow()
		if err != nil {
			return nil, err
		}
		if len(row) != len(columns) {
			return nil, &Error{
				Offset:  p.cur().Offset,
				Message: fmt.Sprintf("value row has %d values, column list has %d", len(row), len(columns)),
			}
		}
		rows = append(rows, row)

		if p.check(scanner.Comma) {
			p.advance()
			continue
		}
		break
	}

	if _, err := p.expect(scanner.Semicolon); err != nil {
		return nil, err
	}

	return &InsertStmt{TableName: nameTok.Text, Columns: columns, Rows: rows}, nil
}

func (p *parser) valueRow() ([]Expr, error) {
	if _, err := p.expect(scanner.LeftParen); err != nil {
		return nil, err
	}

	var exprs []Expr
	for {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)

		if p.check(scanner.Comma) {
			p.advance()
			continue
		}
		break
	}

	if _, err := p.expect(scanner.RightParen); err != nil {
		return nil, err
	}
	return exprs, nil
}

func (p *parser) expr() (Expr, error) {
	t := p.cur()
	switch t.Kind {
	case scanner.IntLiteral:
		p.advance()
		return &IntLiteralExpr{Value: t.IntVal}, nil
	case scanner.True:
		p.advance()
		return &BoolLiteralExpr{Value: true}, nil
	case scanner.False:
		p.advance()
		return &BoolLiteralExpr{Value: false}, nil
	case scanner.Null:
		p.advance()
		return &NullLiteralExpr{}, nil
	case scanner.Identifier:
		p.advance()
		return &ColumnRefExpr{Name: t.Text}, nil
	default:
		return nil, &Error{Offset: t.Offset, Message: fmt.Sprintf("expected a value, got %s %q", t.Kind, t.Text)}
	}
}

func (p *parser) selectStmt() (Statement, error) {
	if _, err := p.expect(scanner.Select); err != nil {
		return nil, err
	}
	// Only "SELECT FROM <table>;" is accepted: '*' is not tokenized, so FROM
	// must follow SELECT directly, matching the planner shape that is kept as
	// a forward-compatibility hint but never executed beyond column names.
	if _, err := p.expect(scanner.From); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(scanner.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.Semicolon); err != nil {
		return nil, err
	}
	return &SelectStmt{TableName: nameTok.Text}, nil
}

// JoinErrors formats a batch of parse errors one per line.
func JoinErrors(errs []error) string {
	var sb strings.Builder
	for i, e := range errs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

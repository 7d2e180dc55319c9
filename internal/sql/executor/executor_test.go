package executor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novadb/internal/catalog"
	"github.com/tuannm99/novadb/internal/storage"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	dm, err := storage.NewDiskManager(t.TempDir(), "data.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dm.Close() })

	bp := storage.NewBufferPool(dm, 16, 2)
	cat, err := catalog.Load(bp)
	require.NoError(t, err)

	return New(bp, cat)
}

func TestExecSQL_CreateTableThenInsert(t *testing.T) {
	e := newTestExecutor(t)

	results, errs := e.ExecSQL(`
		CREATE TABLE users (id int, active bool);
		INSERT INTO users (id, active) VALUES (1, TRUE), (2, FALSE);
	`)
	require.Empty(t, errs)
	require.Len(t, results, 2)

	require.Equal(t, int64(0), results[0].AffectedRows)
	require.Equal(t, int64(2), results[1].AffectedRows)
}

func TestExecSQL_InsertIntoUnknownTable(t *testing.T) {
	e := newTestExecutor(t)

	_, errs := e.ExecSQL(`INSERT INTO ghost (id) VALUES (1);`)
	require.NotEmpty(t, errs)
}

func TestExecSQL_ParseErrorsStopTheBatch(t *testing.T) {
	e := newTestExecutor(t)

	results, errs := e.ExecSQL(`CREATE TABLE (`)
	require.NotEmpty(t, errs)
	require.Empty(t, results)
}

func TestExecSQL_Select(t *testing.T) {
	e := newTestExecutor(t)

	_, errs := e.ExecSQL(`CREATE TABLE t (a int);`)
	require.Empty(t, errs)

	results, errs := e.ExecSQL(`SELECT FROM t;`)
	require.Empty(t, errs)
	require.Len(t, results, 1)
	require.Equal(t, []string{"a"}, results[0].Columns)
}

func TestExecSQL_BatchContinuesPastAPerStatementError(t *testing.T) {
	e := newTestExecutor(t)

	results, errs := e.ExecSQL(`
		CREATE TABLE t (a int);
		INSERT INTO missing (a) VALUES (1);
		INSERT INTO t (a) VALUES (2);
	`)
	require.Len(t, errs, 1)
	require.Len(t, results, 2)
	require.Equal(t, int64(1), results[1].AffectedRows)
}

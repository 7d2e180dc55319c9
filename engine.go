// Package novadb wires the storage core, catalog, and SQL front end into a
// single embedded engine.
package novadb

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tuannm99/novadb/internal/catalog"
	"github.com/tuannm99/novadb/internal/config"
	"github.com/tuannm99/novadb/internal/sql/executor"
	"github.com/tuannm99/novadb/internal/storage"
)

var ErrDatabaseClosed = errors.New("novadb: database is closed")

// Engine is a single-process, single-database instance: one backing file, one
// buffer pool, one catalog, one executor. Exec is not safe for concurrent
// use: the buffer pool's lock covers its frame bookkeeping only, while page
// buffers and the catalog's table list are mutated without a lock.
type Engine struct {
	mu     sync.Mutex
	closed bool

	dm  *storage.DiskManager
	bp  *storage.BufferPool
	cat *catalog.Catalog
	exe *executor.Executor
}

// Open creates (if needed) the backing file under cfg.Storage.DataDir,
// loads the catalog off page 0, and returns a ready-to-use Engine.
func Open(cfg config.Config) (*Engine, error) {
	dm, err := storage.NewDiskManager(cfg.Storage.DataDir, cfg.Storage.FileName)
	if err != nil {
		return nil, fmt.Errorf("novadb: open disk manager: %w", err)
	}

	bp := storage.NewBufferPool(dm, cfg.Storage.PoolSize, cfg.Storage.ReplacerK)

	cat, err := catalog.Load(bp)
	if err != nil {
		_ = dm.Close()
		return nil, fmt.Errorf("novadb: load catalog: %w", err)
	}

	slog.Info("novadb: opened", "data_dir", cfg.Storage.DataDir, "file", cfg.Storage.FileName, "tables", len(cat.Tables()))

	return &Engine{
		dm:  dm,
		bp:  bp,
		cat: cat,
		exe: executor.New(bp, cat),
	}, nil
}

// Exec runs one or more semicolon-terminated statements against the engine.
func (e *Engine) Exec(sql string) ([]*executor.Result, []error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, []error{ErrDatabaseClosed}
	}
	return e.exe.ExecSQL(sql)
}

// Close flushes every dirty page and closes the backing file. Further calls
// to Exec return ErrDatabaseClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	if err := e.bp.FlushAllPages(); err != nil {
		return fmt.Errorf("novadb: flush on close: %w", err)
	}
	return e.dm.Close()
}

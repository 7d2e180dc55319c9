package catalog

import (
	"fmt"
	"log/slog"

	"github.com/tuannm99/novadb/internal/storage"
)

// Catalog is the set of table schemas: a persistent copy on the reserved
// catalog page (page 0, formatted as a table page) and an in-memory list
// kept in lockstep with it.
//
// The catalog is single-page only; overflow onto further pages is not
// handled (open question carried over from spec.md: NextPageID chaining
// is reserved on the catalog page's header the same as on any other table
// page, but nothing currently follows that link for catalog overflow).
type Catalog struct {
	bp *storage.BufferPool

	tables []TableSchema
}

// Load reads page 0 and deserializes each of its tuples as a schema. If the
// backing file is empty, the catalog page comes back zero-filled and is
// treated as a freshly initialized, empty table page.
func Load(bp *storage.BufferPool) (*Catalog, error) {
	c := &Catalog{bp: bp}

	frame, err := bp.GetCatalogPage()
	if err != nil {
		return nil, fmt.Errorf("catalog: load catalog page: %w", err)
	}
	defer func() { _ = bp.UnpinPage(storage.CatalogPageID, false) }()

	// A fresh backing file reads back as all zero bytes, which is already a
	// well-formed empty table page (NumTuples == 0), so no explicit
	// initialization is needed here.
	tp := storage.NewTablePage(frame.Buf)

	n := int(tp.NumTuples())
	c.tables = make([]TableSchema, 0, n)
	for i := 0; i < n; i++ {
		if tp.IsDeleted(i) {
			continue
		}
		raw, err := tp.GetTuple(i)
		if err != nil {
			return nil, fmt.Errorf("catalog: read schema tuple %d: %w", i, err)
		}
		schema, err := DeserializeTableSchema(raw)
		if err != nil {
			return nil, err // fatal: invariant violation, propagate to caller to abort
		}
		c.tables = append(c.tables, schema)
	}

	slog.Debug("catalog: loaded", "numTables", len(c.tables))
	return c, nil
}

// Tables returns the in-memory list of table schemas, in load/creation
// order.
func (c *Catalog) Tables() []TableSchema {
	return c.tables
}

// Lookup returns the schema for name, if any.
func (c *Catalog) Lookup(name string) (TableSchema, bool) {
	for _, t := range c.tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableSchema{}, false
}

// CreateTable allocates a fresh page for the table's first page, builds its
// schema, appends it to both the in-memory list and the catalog page, and
// returns the schema.
func (c *Catalog) CreateTable(name string, columns []Column) (TableSchema, error) {
	if _, exists := c.Lookup(name); exists {
		return TableSchema{}, fmt.Errorf("catalog: table %q already exists", name)
	}

	firstPage, err := c.bp.NewPage()
	if err != nil {
		return TableSchema{}, fmt.Errorf("catalog: allocate first page for table %q: %w", name, err)
	}
	tp := storage.NewTablePage(firstPage.Buf)
	tp.InitEmpty()
	if err := c.bp.UnpinPage(firstPage.PageID(), true); err != nil {
		return TableSchema{}, err
	}

	schema := TableSchema{
		Name:        name,
		FirstPageID: firstPage.PageID(),
		Columns:     columns,
	}

	encoded, err := schema.Serialize()
	if err != nil {
		return TableSchema{}, err
	}

	catalogFrame, err := c.bp.GetCatalogPage()
	if err != nil {
		return TableSchema{}, fmt.Errorf("catalog: fetch catalog page: %w", err)
	}
	cp := storage.NewTablePage(catalogFrame.Buf)
	if _, ok := cp.InsertTuple(encoded); !ok {
		_ = c.bp.UnpinPage(storage.CatalogPageID, false)
		return TableSchema{}, fmt.Errorf("catalog: catalog page full, cannot persist table %q (single-page catalog overflow is unsupported)", name)
	}
	if err := c.bp.UnpinPage(storage.CatalogPageID, true); err != nil {
		return TableSchema{}, err
	}

	c.tables = append(c.tables, schema)
	slog.Debug("catalog: created table", "name", name, "firstPageID", schema.FirstPageID)
	return schema, nil
}

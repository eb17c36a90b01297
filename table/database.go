package table

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Database is a named collection of Tables, mirroring the teacher's
// memory.Database shape (memory/database_test.go).
type Database struct {
	mu     sync.RWMutex
	name   string
	tables map[string]*Table
}

// NewDatabase builds an empty Database named name.
func NewDatabase(name string) *Database {
	return &Database{name: name, tables: make(map[string]*Table)}
}

// Name returns the database's name.
func (d *Database) Name() string { return d.name }

// AddTable registers t under its own name, replacing any existing table of
// the same name.
func (d *Database) AddTable(t *Table) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tables[t.Name()] = t
}

// Table returns the named table, or an error if it is not present.
func (d *Database) Table(name string) (*Table, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.tables[name]
	if !ok {
		return nil, errors.Errorf("database %s: no table %q", d.name, name)
	}
	return t, nil
}

// TableNames returns every registered table's name, sorted.
func (d *Database) TableNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.tables))
	for n := range d.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DBProvider resolves database names to Databases, mirroring the teacher's
// memory.DBProvider (memory/provider_test.go).
type DBProvider struct {
	mu  sync.RWMutex
	dbs map[string]*Database
}

// NewDBProvider builds a DBProvider seeded with dbs.
func NewDBProvider(dbs ...*Database) *DBProvider {
	p := &DBProvider{dbs: make(map[string]*Database)}
	for _, db := range dbs {
		p.dbs[db.Name()] = db
	}
	return p
}

// Database returns the named database, or an error if it is not present.
func (p *DBProvider) Database(name string) (*Database, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	db, ok := p.dbs[name]
	if !ok {
		return nil, errors.Errorf("no database %q", name)
	}
	return db, nil
}

// AddDatabase registers db, replacing any existing database of the same
// name.
func (p *DBProvider) AddDatabase(db *Database) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dbs[db.Name()] = db
}

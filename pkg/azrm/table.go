package azrm

import (
	"fmt"
	"sync"
)

// maxAliasDepth bounds alias chains so a cycle cannot loop forever.
const maxAliasDepth = 16

// Projector extracts a column value from a row. The boolean reports whether
// the value is present.
type Projector func(row *Record) (any, bool)

// FieldPath projects the nested field at path.
func FieldPath(path ...string) Projector {
	return func(row *Record) (any, bool) {
		return row.Dig(path...)
	}
}

// ColumnDefinition is one registered column: either a projector or an
// alias of another column.
type ColumnDefinition struct {
	Name    string
	Project Projector
	AliasOf string
}

// ColumnRegistry declares the columns of a FilterTable. It is usually built
// once per resource type and materialized for every query. Registration is
// only allowed until the first Materialize call.
type ColumnRegistry struct {
	mu      sync.Mutex
	order   []string
	columns map[string]ColumnDefinition
	sealed  bool
}

// NewColumnRegistry creates an empty registry.
func NewColumnRegistry() *ColumnRegistry {
	return &ColumnRegistry{
		columns: make(map[string]ColumnDefinition),
	}
}

// Register adds or replaces a column. A replaced column keeps its original
// position. Registering on a materialized registry panics: it is a
// programming error.
func (r *ColumnRegistry) Register(name string, projector Projector) *ColumnRegistry {
	return r.register(ColumnDefinition{Name: name, Project: projector})
}

// RegisterField registers a column projecting the nested field at path.
func (r *ColumnRegistry) RegisterField(name string, path ...string) *ColumnRegistry {
	return r.Register(name, FieldPath(path...))
}

// RegisterFunc registers a column computed by fn. The value is always
// considered present.
func (r *ColumnRegistry) RegisterFunc(name string, fn func(row *Record) any) *ColumnRegistry {
	return r.Register(name, func(row *Record) (any, bool) {
		return fn(row), true
	})
}

// RegisterAlias registers name as another spelling of target. The alias is
// resolved at query time.
func (r *ColumnRegistry) RegisterAlias(name, target string) *ColumnRegistry {
	return r.register(ColumnDefinition{Name: name, AliasOf: target})
}

func (r *ColumnRegistry) register(def ColumnDefinition) *ColumnRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		panic(fmt.Errorf("%w: cannot register column %q", ErrRegistrySealed, def.Name))
	}

	if _, ok := r.columns[def.Name]; !ok {
		r.order = append(r.order, def.Name)
	}

	r.columns[def.Name] = def

	return r
}

// Names returns the column names in registration order.
func (r *ColumnRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.order))
	copy(out, r.order)

	return out
}

// Sealed reports whether the registry has been materialized.
func (r *ColumnRegistry) Sealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sealed
}

// Materialize binds the registry to rows. The registry is sealed from then
// on; rows are not modified.
func (r *ColumnRegistry) Materialize(rows []*Record) *FilterTable {
	r.mu.Lock()
	r.sealed = true

	columns := make(map[string]ColumnDefinition, len(r.columns))
	for k, v := range r.columns {
		columns[k] = v
	}

	order := make([]string, len(r.order))
	copy(order, r.order)
	r.mu.Unlock()

	bound := make([]*Record, len(rows))
	copy(bound, rows)

	return &FilterTable{
		order:   order,
		columns: columns,
		rows:    bound,
	}
}

// FilterTable is a registry bound to a record sequence. It is immutable;
// Where returns a new table.
type FilterTable struct {
	order   []string
	columns map[string]ColumnDefinition
	rows    []*Record
}

// Exists reports whether the table has at least one row.
func (t *FilterTable) Exists() bool {
	return t.Count() > 0
}

// Count returns the number of rows.
func (t *FilterTable) Count() int {
	if t == nil {
		return 0
	}

	return len(t.rows)
}

// Columns returns the registered column names in registration order.
func (t *FilterTable) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)

	return out
}

// HasColumn reports whether name is registered.
func (t *FilterTable) HasColumn(name string) bool {
	_, ok := t.columns[name]

	return ok
}

// Records returns the raw rows.
func (t *FilterTable) Records() []*Record {
	out := make([]*Record, len(t.rows))
	copy(out, t.rows)

	return out
}

// Value projects column name from row. Absent values are reported as
// (nil, false).
func (t *FilterTable) Value(row *Record, name string) (any, bool, error) {
	def, err := t.resolve(name)
	if err != nil {
		return nil, false, err
	}

	v, ok := def.Project(row)

	return v, ok, nil
}

func (t *FilterTable) resolve(name string) (ColumnDefinition, error) {
	current := name

	for range maxAliasDepth {
		def, ok := t.columns[current]
		if !ok {
			return ColumnDefinition{}, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}

		if def.AliasOf == "" {
			return def, nil
		}

		current = def.AliasOf
	}

	return ColumnDefinition{}, fmt.Errorf("%w: alias cycle at %s", ErrUnknownColumn, name)
}

// Column returns one value per row, in row order. Absent values are nil.
func (t *FilterTable) Column(name string) ([]any, error) {
	def, err := t.resolve(name)
	if err != nil {
		return nil, err
	}

	values := make([]any, len(t.rows))
	for i, row := range t.rows {
		values[i], _ = def.Project(row)
	}

	return values, nil
}

// Entries returns each row projected onto the registered columns, in
// registration order. Every entry carries every column; absent values are
// null.
func (t *FilterTable) Entries() []*Record {
	entries := make([]*Record, len(t.rows))

	for i, row := range t.rows {
		fields := make([]Field, 0, len(t.order))

		for _, name := range t.order {
			v, _, err := t.Value(row, name)
			if err != nil {
				v = nil
			}

			fields = append(fields, F(name, v))
		}

		entries[i] = NewRecord(fields...)
	}

	return entries
}

// Where returns the rows matching every predicate. A predicate reading an
// unregistered column fails with ErrUnknownColumn, with or without rows.
func (t *FilterTable) Where(preds ...Predicate) (*FilterTable, error) {
	for _, name := range columnsOf(preds) {
		if _, err := t.resolve(name); err != nil {
			return nil, err
		}
	}

	matched := make([]*Record, 0, len(t.rows))

	for _, row := range t.rows {
		ok, err := t.matches(row, preds)
		if err != nil {
			return nil, err
		}

		if ok {
			matched = append(matched, row)
		}
	}

	return &FilterTable{
		order:   t.order,
		columns: t.columns,
		rows:    matched,
	}, nil
}

func (t *FilterTable) matches(row *Record, preds []Predicate) (bool, error) {
	r := Row{table: t, record: row}

	for _, pred := range preds {
		ok, err := pred.Match(r)
		if err != nil {
			return false, err
		}

		if !ok {
			return false, nil
		}
	}

	return true, nil
}

// Row is the view of one table row handed to predicates.
type Row struct {
	table  *FilterTable
	record *Record
}

// Column projects a registered column for this row.
func (r Row) Column(name string) (any, bool, error) {
	return r.table.Value(r.record, name)
}

// Record returns the raw row.
func (r Row) Record() *Record {
	return r.record
}

package azrm

// Singular is the result of a query for one named resource.
type Singular struct {
	record *Record
	count  int
	err    error
}

// NewSingular builds a singular result from a fetch. A failed fetch keeps
// only the error.
func NewSingular(records []*Record, err error) *Singular {
	if err != nil {
		return &Singular{err: err}
	}

	s := &Singular{count: len(records)}
	if len(records) == 1 {
		s.record = records[0]
	}

	return s
}

// Exists reports whether exactly one resource with at least one populated
// field was returned. A failed fetch is reported as an error, never as
// false.
func (s *Singular) Exists() (bool, error) {
	if s.err != nil {
		return false, s.err
	}

	if s.record == nil {
		return false, nil
	}

	for _, v := range s.record.Values() {
		if v != nil {
			return true, nil
		}
	}

	return false, nil
}

// Err returns the fetch error, if any.
func (s *Singular) Err() error {
	return s.err
}

// Count returns the number of items the fetch returned.
func (s *Singular) Count() int {
	return s.count
}

// Record returns the resource, or nil when there is none.
func (s *Singular) Record() *Record {
	return s.record
}

// Attr returns a top-level field of the resource.
func (s *Singular) Attr(name string) (any, bool) {
	return s.record.Lookup(name)
}

// Dig returns a nested field of the resource.
func (s *Singular) Dig(path ...string) (any, bool) {
	if s.record == nil {
		return nil, false
	}

	return s.record.Dig(path...)
}

// Plural is the result of a query for a collection of resources.
type Plural struct {
	table *FilterTable
	err   error
}

// NewPlural binds records to registry. A failed fetch yields a result
// carrying only the error; there is never a partial table.
func NewPlural(registry *ColumnRegistry, records []*Record, err error) *Plural {
	if err != nil {
		return &Plural{err: err}
	}

	return &Plural{table: registry.Materialize(records)}
}

// Exists reports whether the collection has at least one row.
func (p *Plural) Exists() (bool, error) {
	if p.err != nil {
		return false, p.err
	}

	return p.table.Exists(), nil
}

// Err returns the fetch error, if any.
func (p *Plural) Err() error {
	return p.err
}

// Table returns the bound filter table, or the fetch error.
func (p *Plural) Table() (*FilterTable, error) {
	if p.err != nil {
		return nil, p.err
	}

	return p.table, nil
}

// Where filters the collection.
func (p *Plural) Where(preds ...Predicate) (*Plural, error) {
	if p.err != nil {
		return nil, p.err
	}

	table, err := p.table.Where(preds...)
	if err != nil {
		return nil, err
	}

	return &Plural{table: table}, nil
}

// Column returns the values of one column.
func (p *Plural) Column(name string) ([]any, error) {
	if p.err != nil {
		return nil, p.err
	}

	return p.table.Column(name)
}

// Entries returns the rows projected onto the registered columns.
func (p *Plural) Entries() ([]*Record, error) {
	if p.err != nil {
		return nil, p.err
	}

	return p.table.Entries(), nil
}

// Count returns the number of rows, zero after a failed fetch.
func (p *Plural) Count() int {
	return p.table.Count()
}

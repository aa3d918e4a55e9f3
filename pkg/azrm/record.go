package azrm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	orderedmap "github.com/pb33f/ordered-map/v2"
)

// Static errors for err113 compliance.
var (
	ErrInvalidJSONKey     = errors.New("invalid JSON object key")
	ErrTrailingJSONTokens = errors.New("unexpected trailing data after JSON value")
)

// Field is a single name/value pair of a Record.
type Field struct {
	Name  string
	Value any
}

// F builds a Field.
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Record is the normalized form of one fetched item: an insertion-ordered
// mapping of field name to value. Lookups are case-insensitive. Values are
// nested *Record, []any, string, float64, bool or nil.
//
// A Record is not mutated once it has been handed out; transformations use
// With and friends, which return a copy.
type Record struct {
	fields *orderedmap.OrderedMap[string, any]
	index  map[string]string
}

// NewRecord builds a record from fields in order. A later field whose name
// matches an earlier one (case-insensitively) replaces its value in place.
func NewRecord(fields ...Field) *Record {
	rec := newRecord()
	for _, f := range fields {
		rec.set(f.Name, f.Value)
	}

	return rec
}

func newRecord() *Record {
	return &Record{
		fields: orderedmap.New[string, any](),
		index:  make(map[string]string),
	}
}

func (r *Record) set(name string, value any) {
	if existing, ok := r.index[strings.ToLower(name)]; ok {
		r.fields.Set(existing, value)

		return
	}

	r.fields.Set(name, value)
	r.index[strings.ToLower(name)] = name
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}

	return r.fields.Len()
}

// Lookup returns the value of a field and whether the field is present.
// A present field may hold nil.
func (r *Record) Lookup(name string) (any, bool) {
	if r == nil {
		return nil, false
	}

	if v, ok := r.fields.Get(name); ok {
		return v, true
	}

	key, ok := r.index[strings.ToLower(name)]
	if !ok {
		return nil, false
	}

	return r.fields.Get(key)
}

// Has reports whether a field is present.
func (r *Record) Has(name string) bool {
	_, ok := r.Lookup(name)

	return ok
}

// Get returns the value of a field or nil when absent.
func (r *Record) Get(name string) any {
	v, _ := r.Lookup(name)

	return v
}

// Dig walks nested records along path. Numeric segments index into
// sequences.
func (r *Record) Dig(path ...string) (any, bool) {
	var current any = r

	for _, segment := range path {
		switch node := current.(type) {
		case *Record:
			v, ok := node.Lookup(segment)
			if !ok {
				return nil, false
			}

			current = v
		case []any:
			i, err := strconv.Atoi(segment)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}

			current = node[i]
		default:
			return nil, false
		}
	}

	if rec, ok := current.(*Record); ok && rec == nil {
		return nil, false
	}

	return current, true
}

// DigRecord is Dig for values expected to be nested records.
func (r *Record) DigRecord(path ...string) (*Record, bool) {
	v, ok := r.Dig(path...)
	if !ok {
		return nil, false
	}

	rec, ok := v.(*Record)

	return rec, ok && rec != nil
}

// DigString is Dig for string leaves.
func (r *Record) DigString(path ...string) (string, bool) {
	v, ok := r.Dig(path...)
	if !ok {
		return "", false
	}

	s, ok := v.(string)

	return s, ok
}

// DigSlice is Dig for sequences. A present non-sequence value is wrapped in
// a single element slice, an absent or null one yields an empty slice.
func (r *Record) DigSlice(path ...string) []any {
	v, ok := r.Dig(path...)
	if !ok || v == nil {
		return []any{}
	}

	if s, ok := v.([]any); ok {
		return s
	}

	return []any{v}
}

// Names returns the field names in order.
func (r *Record) Names() []string {
	if r == nil {
		return nil
	}

	names := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}

	return names
}

// Fields returns the fields in order.
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}

	fields := make([]Field, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		fields = append(fields, Field{Name: pair.Key, Value: pair.Value})
	}

	return fields
}

// Values returns the field values in order.
func (r *Record) Values() []any {
	if r == nil {
		return nil
	}

	values := make([]any, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, pair.Value)
	}

	return values
}

// Clone returns a shallow copy. Nested values are shared, which is safe
// because records are never mutated after construction.
func (r *Record) Clone() *Record {
	if r == nil {
		return newRecord()
	}

	return NewRecord(r.Fields()...)
}

// With returns a copy of r with name set to value. An existing field keeps
// its position.
func (r *Record) With(name string, value any) *Record {
	rec := r.Clone()
	rec.set(name, value)

	return rec
}

// WithFields returns a copy of r with every field of fields set in order.
func (r *Record) WithFields(fields ...Field) *Record {
	rec := r.Clone()
	for _, f := range fields {
		rec.set(f.Name, f.Value)
	}

	return rec
}

// ToMap converts the record, recursively, into plain maps and slices.
func (r *Record) ToMap() map[string]any {
	if r == nil {
		return nil
	}

	out := make(map[string]any, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = plainValue(pair.Value)
	}

	return out
}

func plainValue(v any) any {
	switch val := v.(type) {
	case *Record:
		if val == nil {
			return nil
		}

		return val.ToMap()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}

		return out
	default:
		return v
	}
}

// MarshalJSON encodes the record keeping field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer

	buf.WriteByte('{')

	first := true
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		key, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", pair.Key, err)
		}

		value, err := json.Marshal(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", pair.Key, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping field order.
func (r *Record) UnmarshalJSON(data []byte) error {
	v, err := DecodeValue(data)
	if err != nil {
		return err
	}

	rec, ok := v.(*Record)
	if !ok {
		return fmt.Errorf("%w: expected object, got %T", ErrMalformedEnvelope, v)
	}

	*r = *rec

	return nil
}

// String renders the record as JSON.
func (r *Record) String() string {
	data, err := r.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<record: %v>", err)
	}

	return string(data)
}

// DecodeRecord decodes a JSON object into an ordered record.
func DecodeRecord(data []byte) (*Record, error) {
	rec := newRecord()

	err := rec.UnmarshalJSON(data)
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// DecodeValue decodes any JSON value. Objects become *Record with their
// field order preserved, arrays become []any.
func DecodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	_, err = dec.Token()
	if !errors.Is(err, io.EOF) {
		return nil, ErrTrailingJSONTokens
	}

	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading JSON token: %w", err)
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		rec := newRecord()

		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("reading JSON key: %w", err)
			}

			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %v", ErrInvalidJSONKey, keyTok)
			}

			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}

			rec.set(key, value)
		}

		_, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("closing JSON object: %w", err)
		}

		return rec, nil
	case '[':
		items := make([]any, 0)

		for dec.More() {
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}

			items = append(items, value)
		}

		_, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("closing JSON array: %w", err)
		}

		return items, nil
	default:
		return nil, fmt.Errorf("%w: unexpected delimiter %v", ErrMalformedEnvelope, delim)
	}
}

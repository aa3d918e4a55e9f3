package azrm

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/itchyny/gojq"
)

// Predicate decides whether a row belongs in a filtered table. It names
// the columns it reads so a table can reject unknown ones before looking
// at any row.
type Predicate struct {
	columns []string
	match   func(row Row) (bool, error)
}

func columnPredicate(column string, match func(row Row) (bool, error)) Predicate {
	return Predicate{columns: []string{column}, match: match}
}

// Columns returns the columns the predicate reads. Raw row predicates such
// as JQ read none.
func (p Predicate) Columns() []string {
	return slices.Clone(p.columns)
}

// Match evaluates the predicate on row. The zero Predicate matches every
// row.
func (p Predicate) Match(row Row) (bool, error) {
	if p.match == nil {
		return true, nil
	}

	return p.match(row)
}

func columnsOf(preds []Predicate) []string {
	var columns []string
	for _, p := range preds {
		columns = append(columns, p.columns...)
	}

	return columns
}

// Eq matches rows whose column equals value. Numbers compare by value
// regardless of their Go type.
func Eq(column string, value any) Predicate {
	return columnPredicate(column, func(row Row) (bool, error) {
		v, _, err := row.Column(column)
		if err != nil {
			return false, err
		}

		return valuesEqual(v, value), nil
	})
}

// In matches rows whose column equals any of values.
func In(column string, values ...any) Predicate {
	return columnPredicate(column, func(row Row) (bool, error) {
		v, _, err := row.Column(column)
		if err != nil {
			return false, err
		}

		for _, want := range values {
			if valuesEqual(v, want) {
				return true, nil
			}
		}

		return false, nil
	})
}

// Contains matches a substring on string columns and membership on list
// columns.
func Contains(column string, value any) Predicate {
	return columnPredicate(column, func(row Row) (bool, error) {
		v, _, err := row.Column(column)
		if err != nil {
			return false, err
		}

		switch got := v.(type) {
		case string:
			s, ok := value.(string)

			return ok && strings.Contains(got, s), nil
		case []any:
			return slices.ContainsFunc(got, func(e any) bool { return valuesEqual(e, value) }), nil
		case []string:
			return slices.ContainsFunc(got, func(e string) bool { return valuesEqual(e, value) }), nil
		default:
			return false, nil
		}
	})
}

// Matches matches string columns against re. On list columns any matching
// string element is enough.
func Matches(column string, re *regexp.Regexp) Predicate {
	return columnPredicate(column, func(row Row) (bool, error) {
		v, _, err := row.Column(column)
		if err != nil {
			return false, err
		}

		switch got := v.(type) {
		case string:
			return re.MatchString(got), nil
		case []any:
			return slices.ContainsFunc(got, func(e any) bool {
				s, ok := e.(string)

				return ok && re.MatchString(s)
			}), nil
		case []string:
			return slices.ContainsFunc(got, re.MatchString), nil
		default:
			return false, nil
		}
	})
}

// Present matches rows where the column is present and not null.
func Present(column string) Predicate {
	return columnPredicate(column, func(row Row) (bool, error) {
		v, ok, err := row.Column(column)
		if err != nil {
			return false, err
		}

		return ok && v != nil, nil
	})
}

// Func matches rows for which fn returns true on the column value.
func Func(column string, fn func(value any) bool) Predicate {
	return columnPredicate(column, func(row Row) (bool, error) {
		v, _, err := row.Column(column)
		if err != nil {
			return false, err
		}

		return fn(v), nil
	})
}

// Not negates p.
func Not(p Predicate) Predicate {
	return Predicate{
		columns: p.Columns(),
		match: func(row Row) (bool, error) {
			ok, err := p.Match(row)
			if err != nil {
				return false, err
			}

			return !ok, nil
		},
	}
}

// And matches when every predicate matches.
func And(preds ...Predicate) Predicate {
	return Predicate{
		columns: columnsOf(preds),
		match: func(row Row) (bool, error) {
			for _, p := range preds {
				ok, err := p.Match(row)
				if err != nil || !ok {
					return false, err
				}
			}

			return true, nil
		},
	}
}

// Or matches when any predicate matches.
func Or(preds ...Predicate) Predicate {
	return Predicate{
		columns: columnsOf(preds),
		match: func(row Row) (bool, error) {
			for _, p := range preds {
				ok, err := p.Match(row)
				if err != nil {
					return false, err
				}

				if ok {
					return true, nil
				}
			}

			return false, nil
		},
	}
}

// JQ compiles a jq expression evaluated against the raw row. The row
// matches when the first output is truthy (neither false nor null).
func JQ(expr string) (Predicate, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return Predicate{}, fmt.Errorf("%w: jq %q: %w", ErrInvalidPredicate, expr, err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return Predicate{}, fmt.Errorf("%w: jq %q: %w", ErrInvalidPredicate, expr, err)
	}

	return Predicate{match: func(row Row) (bool, error) {
		iter := code.Run(row.Record().ToMap())

		v, ok := iter.Next()
		if !ok {
			return false, nil
		}

		if err, isErr := v.(error); isErr {
			return false, fmt.Errorf("evaluating jq %q: %w", expr, err)
		}

		return truthy(v), nil
	}}, nil
}

func truthy(v any) bool {
	if v == nil {
		return false
	}

	if b, ok := v.(bool); ok {
		return b
	}

	return true
}

// ParsePredicate parses the textual filter form used on the command line:
//
//	col=value    equal
//	col!=value   not equal
//	col~=regexp  regular expression match
//	col=in:a,b   equal to any listed value
//
// Values compare against the column's text form, so "true", "42" and
// "null" match booleans, numbers and nulls.
func ParsePredicate(expr string) (Predicate, error) {
	idx := strings.Index(expr, "=")
	if idx <= 0 {
		return Predicate{}, fmt.Errorf("%w: %q: expected column=value", ErrInvalidPredicate, expr)
	}

	column, value := expr[:idx], expr[idx+1:]

	switch {
	case strings.HasSuffix(column, "!"):
		column = strings.TrimSuffix(column, "!")
		if column == "" {
			return Predicate{}, fmt.Errorf("%w: %q: missing column", ErrInvalidPredicate, expr)
		}

		return Not(Func(column, func(v any) bool { return textEqual(v, value) })), nil
	case strings.HasSuffix(column, "~"):
		column = strings.TrimSuffix(column, "~")
		if column == "" {
			return Predicate{}, fmt.Errorf("%w: %q: missing column", ErrInvalidPredicate, expr)
		}

		re, err := regexp.Compile(value)
		if err != nil {
			return Predicate{}, fmt.Errorf("%w: %q: %w", ErrInvalidPredicate, expr, err)
		}

		return Matches(column, re), nil
	case strings.HasPrefix(value, "in:"):
		choices := strings.Split(strings.TrimPrefix(value, "in:"), ",")

		return Func(column, func(v any) bool {
			return slices.ContainsFunc(choices, func(c string) bool { return textEqual(v, c) })
		}), nil
	default:
		return Func(column, func(v any) bool { return textEqual(v, value) }), nil
	}
}

func textEqual(v any, text string) bool {
	switch got := v.(type) {
	case nil:
		return text == "null"
	case string:
		return got == text
	case bool:
		return strconv.FormatBool(got) == text
	case float64:
		return strconv.FormatFloat(got, 'f', -1, 64) == text
	default:
		data, err := json.Marshal(v)

		return err == nil && string(data) == text
	}
}

func valuesEqual(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		fb, ok := asFloat(b)

		return ok && fa == fb
	}

	ra, aIsRecord := a.(*Record)
	rb, bIsRecord := b.(*Record)

	switch {
	case aIsRecord && bIsRecord:
		return reflect.DeepEqual(ra.ToMap(), rb.ToMap())
	case aIsRecord:
		return reflect.DeepEqual(ra.ToMap(), b)
	case bIsRecord:
		return reflect.DeepEqual(a, rb.ToMap())
	}

	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()

		return f, err == nil
	default:
		return 0, false
	}
}

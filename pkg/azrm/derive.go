package azrm

import (
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
)

// Step computes one derived field of a record. Steps return a new record
// and must be deterministic so a pipeline can be re-applied safely.
type Step func(rec *Record) *Record

// Pipeline applies steps in order to every record of a result set.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline of steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Then returns a pipeline extended with more steps.
func (p *Pipeline) Then(steps ...Step) *Pipeline {
	combined := make([]Step, 0, p.Len()+len(steps))
	if p != nil {
		combined = append(combined, p.steps...)
	}

	return &Pipeline{steps: append(combined, steps...)}
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}

	return len(p.steps)
}

// ApplyOne runs every step on a single record.
func (p *Pipeline) ApplyOne(rec *Record) *Record {
	if rec == nil {
		rec = newRecord()
	}

	if p == nil {
		return rec
	}

	for _, step := range p.steps {
		rec = step(rec)
	}

	return rec
}

// Apply runs the pipeline over records and returns the derived records in
// the same order.
func (p *Pipeline) Apply(records []*Record) []*Record {
	out := make([]*Record, len(records))
	for i, rec := range records {
		out[i] = p.ApplyOne(rec)
	}

	return out
}

// Derive sets name to fn(rec).
func Derive(name string, fn func(rec *Record) any) Step {
	return func(rec *Record) *Record {
		return rec.With(name, fn(rec))
	}
}

// DefaultNull inserts name as null when it is absent.
func DefaultNull(name string) Step {
	return func(rec *Record) *Record {
		if rec.Has(name) {
			return rec
		}

		return rec.With(name, nil)
	}
}

// Case is one branch of Classify.
type Case struct {
	Value string
	When  func(rec *Record) bool
}

// WhenPresent is a Case taken when the nested field at path is present,
// even with a null value.
func WhenPresent(value string, path ...string) Case {
	return Case{
		Value: value,
		When: func(rec *Record) bool {
			_, ok := rec.Dig(path...)

			return ok
		},
	}
}

// WhenEquals is a Case taken when the string at path equals want, ignoring
// case.
func WhenEquals(value, want string, path ...string) Case {
	return Case{
		Value: value,
		When: func(rec *Record) bool {
			s, ok := rec.DigString(path...)

			return ok && strings.EqualFold(s, want)
		},
	}
}

// Classify sets name to the value of the first matching case, or fallback.
func Classify(name, fallback string, cases ...Case) Step {
	return func(rec *Record) *Record {
		for _, c := range cases {
			if c.When(rec) {
				return rec.With(name, c.Value)
			}
		}

		return rec.With(name, fallback)
	}
}

// LeafName sets name to the last segment of the resource id found at path,
// or "" when the path is missing.
func LeafName(name string, path ...string) Step {
	return func(rec *Record) *Record {
		id, _ := rec.DigString(path...)

		return rec.With(name, leafOf(id))
	}
}

// LeafNames sets name to the leaf names of the idField of every element in
// the collection at collectionPath. A missing collection yields an empty
// list.
func LeafNames(name string, collectionPath []string, idField string) Step {
	return func(rec *Record) *Record {
		items := rec.DigSlice(collectionPath...)
		names := make([]any, 0, len(items))

		for _, item := range items {
			elem, ok := item.(*Record)
			if !ok {
				continue
			}

			if id, ok := elem.DigString(idField); ok {
				names = append(names, leafOf(id))
			}
		}

		return rec.With(name, names)
	}
}

// SelectProject sets name to projectField of every element of the
// collection at collectionPath that carries requireKey. A missing
// collection yields an empty list.
func SelectProject(name string, collectionPath []string, requireKey, projectField string) Step {
	return func(rec *Record) *Record {
		items := rec.DigSlice(collectionPath...)
		values := make([]any, 0, len(items))

		for _, item := range items {
			elem, ok := item.(*Record)
			if !ok || !elem.Has(requireKey) {
				continue
			}

			values = append(values, elem.Get(projectField))
		}

		return rec.With(name, values)
	}
}

// leafOf returns the last segment of an ARM resource id. Strings that are
// not resource ids fall back to their last non-empty path segment.
func leafOf(id string) string {
	if id == "" {
		return ""
	}

	if rid, err := arm.ParseResourceID(id); err == nil && rid.Name != "" {
		return rid.Name
	}

	segments := strings.Split(strings.TrimRight(id, "/"), "/")

	return segments[len(segments)-1]
}

package azrm

import "strings"

// Expand flattens nested sub-objects into their parent rows so a table sees
// one uniform column set.
//
// For each record and each key in keys, when the record carries key as a
// nested object, that object's fields come first, followed by the record's
// own fields, with every name lowercased. Finally every name in required
// that is still absent is inserted as null. Records without any of keys are
// only given the required nulls. The input is not modified.
func Expand(records []*Record, keys []string, required []string) []*Record {
	out := make([]*Record, len(records))

	for i, rec := range records {
		entry := rec
		if entry == nil {
			entry = newRecord()
		}

		for _, key := range keys {
			v, ok := entry.Lookup(key)
			if !ok {
				continue
			}

			sub, _ := v.(*Record)
			entry = mergeLower(sub, entry)
		}

		out[i] = withRequired(entry, required)
	}

	return out
}

func mergeLower(sub, entry *Record) *Record {
	merged := newRecord()

	for _, f := range sub.Fields() {
		merged.set(strings.ToLower(f.Name), f.Value)
	}

	for _, f := range entry.Fields() {
		merged.set(strings.ToLower(f.Name), f.Value)
	}

	return merged
}

func withRequired(entry *Record, required []string) *Record {
	var missing []Field

	for _, name := range required {
		if !entry.Has(name) {
			missing = append(missing, F(name, nil))
		}
	}

	if len(missing) == 0 {
		return entry
	}

	return entry.WithFields(missing...)
}

package azrm

import (
	"bytes"
	"fmt"
)

// DefaultNextLinkField is the continuation field of the ARM list envelope.
const DefaultNextLinkField = "nextLink"

// Envelope is one parsed page of a response.
type Envelope struct {
	Items    []*Record
	NextLink string
}

// ParseEnvelope parses a page using the default continuation field.
func ParseEnvelope(body []byte) (*Envelope, error) {
	return parseEnvelope(body, DefaultNextLinkField)
}

// parseEnvelope accepts three shapes: an object carrying a "value" array (or
// object, or null) plus an optional continuation field; a bare object, which
// is a single item; or a bare array of objects.
func parseEnvelope(body []byte, nextLinkField string) (*Envelope, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedEnvelope)
	}

	decoded, err := DecodeValue(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}

	switch root := decoded.(type) {
	case []any:
		items, err := recordsOf(root)
		if err != nil {
			return nil, err
		}

		return &Envelope{Items: items}, nil
	case *Record:
		return envelopeFromObject(root, nextLinkField)
	default:
		return nil, fmt.Errorf("%w: top-level %T", ErrMalformedEnvelope, decoded)
	}
}

func envelopeFromObject(root *Record, nextLinkField string) (*Envelope, error) {
	value, hasValue := root.Lookup("value")

	switch payload := value.(type) {
	case []any:
		items, err := recordsOf(payload)
		if err != nil {
			return nil, err
		}

		next, err := nextLinkOf(root, nextLinkField)
		if err != nil {
			return nil, err
		}

		return &Envelope{Items: items, NextLink: next}, nil
	case *Record:
		next, err := nextLinkOf(root, nextLinkField)
		if err != nil {
			return nil, err
		}

		return &Envelope{Items: []*Record{payload}, NextLink: next}, nil
	case nil:
		if !hasValue {
			return &Envelope{Items: []*Record{root}}, nil
		}

		next, err := nextLinkOf(root, nextLinkField)
		if err != nil {
			return nil, err
		}

		return &Envelope{Items: []*Record{}, NextLink: next}, nil
	default:
		// A scalar "value" is a property of a single resource, unless the
		// object also carries a continuation and so claims to be a page.
		next, err := nextLinkOf(root, nextLinkField)
		if err != nil {
			return nil, err
		}

		if next != "" {
			return nil, fmt.Errorf("%w: value is %T", ErrMalformedEnvelope, payload)
		}

		return &Envelope{Items: []*Record{root}}, nil
	}
}

func recordsOf(values []any) ([]*Record, error) {
	items := make([]*Record, 0, len(values))

	for i, v := range values {
		rec, ok := v.(*Record)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is %T, not an object", ErrMalformedEnvelope, i, v)
		}

		items = append(items, rec)
	}

	return items, nil
}

func nextLinkOf(root *Record, field string) (string, error) {
	v, ok := root.Lookup(field)
	if !ok || v == nil {
		return "", nil
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, not a string", ErrMalformedEnvelope, field, v)
	}

	return s, nil
}

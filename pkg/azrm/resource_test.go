package azrm_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

func TestSingular_Exists(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		records []*azrm.Record
		err     error
		want    bool
		wantErr error
	}{
		{name: "one populated item", records: []*azrm.Record{azrm.NewRecord(azrm.F("name", "vm1"))}, want: true},
		{name: "no items", records: []*azrm.Record{}, want: false},
		{name: "empty object", records: []*azrm.Record{azrm.NewRecord()}, want: false},
		{name: "only null fields", records: []*azrm.Record{decode(t, `{"id":null,"name":null}`)}, want: false},
		{name: "one populated among nulls", records: []*azrm.Record{decode(t, `{"id":null,"name":"vm1"}`)}, want: true},
		{name: "several items", records: []*azrm.Record{azrm.NewRecord(azrm.F("a", 1)), azrm.NewRecord(azrm.F("b", 2))}, want: false},
		{name: "fetch failed", err: errBoom, wantErr: errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := azrm.NewSingular(tt.records, tt.err)

			got, err := s.Exists()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.False(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSingular_Readers(t *testing.T) {
	t.Parallel()

	rec := decode(t, `{"name":"sa1","properties":{"encryption":{"services":{"blob":{"enabled":true}}}}}`)
	s := azrm.NewSingular([]*azrm.Record{rec}, nil)

	name, ok := s.Attr("name")
	assert.True(t, ok)
	assert.Equal(t, "sa1", name)

	enabled, ok := s.Dig("properties", "encryption", "services", "blob", "enabled")
	assert.True(t, ok)
	assert.Equal(t, true, enabled)

	missing := azrm.NewSingular(nil, nil)
	_, ok = missing.Attr("name")
	assert.False(t, ok)
	_, ok = missing.Dig("properties")
	assert.False(t, ok)
	assert.Nil(t, missing.Record())
}

func TestSingular_NotFoundFetchIsAnError(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		first: fakePage{status: http.StatusNotFound, body: `{"error":{"code":"ResourceNotFound","message":"not found"}}`},
	}
	records, err := azrm.NewFetcher(transport).Get(context.Background(), "/x/vm1", "2019-07-01", nil)

	s := azrm.NewSingular(records, err)
	_, existsErr := s.Exists()
	require.Error(t, existsErr)
	assert.True(t, azrm.IsNotFound(s.Err()))
}

func TestPlural(t *testing.T) {
	t.Parallel()

	registry := azrm.NewColumnRegistry().RegisterField("names", "name")

	empty := azrm.NewPlural(registry, []*azrm.Record{}, nil)
	exists, err := empty.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	full := azrm.NewPlural(registry, []*azrm.Record{azrm.NewRecord(azrm.F("name", "a")), azrm.NewRecord(azrm.F("name", "b"))}, nil)
	exists, err = full.Exists()
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 2, full.Count())

	filtered, err := full.Where(azrm.Eq("names", "b"))
	require.NoError(t, err)

	names, err := filtered.Column("names")
	require.NoError(t, err)
	assert.Equal(t, []any{"b"}, names)

	entries, err := filtered.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].Get("names"))
}

func TestPlural_FailedFetch(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	p := azrm.NewPlural(azrm.NewColumnRegistry(), nil, errBoom)

	exists, err := p.Exists()
	require.ErrorIs(t, err, errBoom)
	assert.False(t, exists)
	assert.Equal(t, 0, p.Count())

	_, err = p.Table()
	require.ErrorIs(t, err, errBoom)

	_, err = p.Column("names")
	require.ErrorIs(t, err, errBoom)

	_, err = p.Where()
	require.ErrorIs(t, err, errBoom)

	_, err = p.Entries()
	require.ErrorIs(t, err, errBoom)
}

package azrm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

func TestParseEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantNames []string
		wantNext  string
	}{
		{
			name:      "value array with next link",
			body:      `{"value":[{"name":"a"},{"name":"b"}],"nextLink":"https://management.azure.com/next?page=2"}`,
			wantNames: []string{"a", "b"},
			wantNext:  "https://management.azure.com/next?page=2",
		},
		{
			name:      "value array without next link",
			body:      `{"value":[{"name":"a"}]}`,
			wantNames: []string{"a"},
		},
		{
			name:      "empty value array",
			body:      `{"value":[]}`,
			wantNames: []string{},
		},
		{
			name:      "null value",
			body:      `{"value":null}`,
			wantNames: []string{},
		},
		{
			name:      "value object",
			body:      `{"value":{"name":"single"}}`,
			wantNames: []string{"single"},
		},
		{
			name:      "bare object",
			body:      `{"name":"vm1","location":"westeurope"}`,
			wantNames: []string{"vm1"},
		},
		{
			name:      "bare object with scalar value property",
			body:      `{"name":"setting","value":"enabled"}`,
			wantNames: []string{"setting"},
		},
		{
			name:      "bare array",
			body:      `[{"name":"a"},{"name":"b"},{"name":"c"}]`,
			wantNames: []string{"a", "b", "c"},
		},
		{
			name:      "null next link",
			body:      `{"value":[{"name":"a"}],"nextLink":null}`,
			wantNames: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, err := azrm.ParseEnvelope([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, names(t, env.Items))
			assert.Equal(t, tt.wantNext, env.NextLink)
		})
	}
}

func TestParseEnvelope_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ``},
		{name: "whitespace", body: "  \n"},
		{name: "html error page", body: `<html><body>Bad Gateway</body></html>`},
		{name: "scalar", body: `"hello"`},
		{name: "number", body: `42`},
		{name: "array of scalars", body: `[1,2,3]`},
		{name: "value array of scalars", body: `{"value":["a","b"]}`},
		{name: "non-string next link", body: `{"value":[],"nextLink":42}`},
		{name: "scalar value with next link", body: `{"value":5,"nextLink":7}`},
		{name: "scalar value with string next link", body: `{"value":"x","nextLink":"https://management.azure.com/next"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := azrm.ParseEnvelope([]byte(tt.body))
			require.ErrorIs(t, err, azrm.ErrMalformedEnvelope)
		})
	}
}

package azrm_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

const vmListPath = "/subscriptions/sub1/providers/Microsoft.Compute/virtualMachines"

func TestFetcher_FollowsNextLinks(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		first: fakePage{body: `{"value":[{"name":"a"},{"name":"b"}],"nextLink":"https://arm/page2"}`},
		pages: map[string]fakePage{
			"https://arm/page2": {body: `{"value":[{"name":"c"}],"nextLink":"https://arm/page3"}`},
			"https://arm/page3": {body: `{"value":[]}`},
		},
	}
	logger := &MockLogger{}
	fetcher := azrm.NewFetcher(transport, azrm.WithFetchLogger(logger))

	records, err := fetcher.Get(context.Background(), vmListPath, "2019-07-01", url.Values{"$filter": {"x"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, names(t, records))
	assert.Equal(t, []string{
		"GET " + vmListPath,
		"NEXT https://arm/page2",
		"NEXT https://arm/page3",
	}, transport.calls)
	assert.Equal(t, "2019-07-01", transport.apiVersion)
	assert.Equal(t, "x", transport.params.Get("$filter"))
	assert.Contains(t, logger.messages(), "fetch complete")
}

func TestFetcher_SecondPageFailureDiscardsEverything(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		first: fakePage{body: `{"value":[{"name":"a"},{"name":"b"}],"nextLink":"https://arm/page2"}`},
		pages: map[string]fakePage{
			"https://arm/page2": {status: http.StatusServiceUnavailable, body: `{"error":{"code":"ServerBusy","message":"try later"}}`},
		},
	}
	logger := &MockLogger{}
	fetcher := azrm.NewFetcher(transport, azrm.WithFetchLogger(logger))

	records, err := fetcher.Get(context.Background(), vmListPath, "2019-07-01", nil)
	require.Error(t, err)
	assert.Nil(t, records)

	var fetchErr *azrm.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
	assert.Equal(t, "https://arm/page2", fetchErr.URL)

	var apiErr *azrm.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "ServerBusy", apiErr.Code)

	assert.Contains(t, logger.messages(), "page fetch failed")
}

func TestFetcher_FirstPageFailure(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		first: fakePage{status: http.StatusNotFound, body: `{"error":{"code":"ResourceGroupNotFound","message":"Resource group 'rg' could not be found."}}`},
	}
	fetcher := azrm.NewFetcher(transport)

	records, err := fetcher.Get(context.Background(), "/subscriptions/sub1/resourceGroups/rg", "2019-08-01", nil)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, azrm.IsNotFound(err))
}

func TestFetcher_NetworkError(t *testing.T) {
	t.Parallel()

	errDial := errors.New("dial tcp: connection refused")
	transport := &fakeTransport{first: fakePage{err: errDial}}
	fetcher := azrm.NewFetcher(transport)

	_, err := fetcher.Get(context.Background(), vmListPath, "2019-07-01", nil)
	require.ErrorIs(t, err, errDial)

	var fetchErr *azrm.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.MethodGet, fetchErr.Method)
	assert.Zero(t, fetchErr.StatusCode)
}

func TestFetcher_MalformedPage(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		first: fakePage{body: `{"value":[{"name":"a"}],"nextLink":"https://arm/page2"}`},
		pages: map[string]fakePage{
			"https://arm/page2": {body: `<html>gateway</html>`},
		},
	}
	fetcher := azrm.NewFetcher(transport)

	records, err := fetcher.Get(context.Background(), vmListPath, "2019-07-01", nil)
	require.ErrorIs(t, err, azrm.ErrMalformedEnvelope)
	assert.Nil(t, records)
}

func TestFetcher_PaginationLoop(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		first: fakePage{body: `{"value":[{"name":"a"}],"nextLink":"https://arm/page2"}`},
		pages: map[string]fakePage{
			"https://arm/page2": {body: `{"value":[{"name":"b"}],"nextLink":"https://arm/page2"}`},
		},
	}
	fetcher := azrm.NewFetcher(transport)

	_, err := fetcher.Get(context.Background(), vmListPath, "2019-07-01", nil)
	require.ErrorIs(t, err, azrm.ErrPaginationLoop)
}

func TestFetcher_SingleObject(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{first: fakePage{body: `{"name":"vm1","id":"/subscriptions/s/resourceGroups/rg/providers/Microsoft.Compute/virtualMachines/vm1"}`}}
	fetcher := azrm.NewFetcher(transport)

	records, err := fetcher.Get(context.Background(), vmListPath+"/vm1", "2019-07-01", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"vm1"}, names(t, records))
}

func TestFetcher_PostThenGetNext(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		first: fakePage{body: `{"value":[{"name":"a"}],"nextLink":"https://arm/page2"}`},
		pages: map[string]fakePage{
			"https://arm/page2": {body: `{"value":[{"name":"b"}]}`},
		},
	}
	fetcher := azrm.NewFetcher(transport)

	records, err := fetcher.Post(context.Background(), "/x/flowLogStatus", "2019-09-01", []byte(`{"targetResourceId":"id"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(t, records))
	assert.Equal(t, []string{"POST /x/flowLogStatus", "NEXT https://arm/page2"}, transport.calls)
	assert.JSONEq(t, `{"targetResourceId":"id"}`, string(transport.postBody))
}

func TestFetcher_CustomNextLinkField(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		first: fakePage{body: `{"value":[{"name":"a"}],"@odata.nextLink":"https://arm/page2"}`},
		pages: map[string]fakePage{
			"https://arm/page2": {body: `{"value":[{"name":"b"}]}`},
		},
	}
	fetcher := azrm.NewFetcher(transport, azrm.WithNextLinkField("@odata.nextLink"))

	records, err := fetcher.Get(context.Background(), "/providers/Microsoft.Management/managementGroups", "2018-03-01-preview", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(t, records))
}

func TestFetcher_UnsupportedMethod(t *testing.T) {
	t.Parallel()

	fetcher := azrm.NewFetcher(&fakeTransport{})

	_, err := fetcher.Fetch(context.Background(), azrm.FetchRequest{Method: http.MethodDelete, URL: "/x"})
	require.ErrorIs(t, err, azrm.ErrUnsupportedMethod)
}

func TestFetcher_NoTransport(t *testing.T) {
	t.Parallel()

	_, err := azrm.NewFetcher(nil).Get(context.Background(), "/x", "", nil)
	require.ErrorIs(t, err, azrm.ErrNoTransport)
}

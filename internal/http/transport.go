package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// Transport adapts a Client to azrm.Transport.
type Transport struct {
	client *Client
}

var _ azrm.Transport = (*Transport)(nil)

// NewTransport wraps client.
func NewTransport(client *Client) *Transport {
	return &Transport{client: client}
}

// Get issues a GET with api-version and params.
func (t *Transport) Get(ctx context.Context, path, apiVersion string, params url.Values) (*azrm.RawResponse, error) {
	query := withAPIVersion(params, apiVersion)

	return t.do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post issues a POST with api-version and an optional JSON body.
func (t *Transport) Post(ctx context.Context, path, apiVersion string, body []byte) (*azrm.RawResponse, error) {
	req := &Request{Method: http.MethodPost, Path: path, Query: withAPIVersion(nil, apiVersion)}
	if len(body) > 0 {
		req.Body = body
	}

	return t.do(ctx, req)
}

// GetNext fetches a continuation link as given by the service.
func (t *Transport) GetNext(ctx context.Context, nextLink string) (*azrm.RawResponse, error) {
	return t.do(ctx, &Request{Method: http.MethodGet, Path: nextLink})
}

func (t *Transport) do(ctx context.Context, req *Request) (*azrm.RawResponse, error) {
	resp, err := t.client.Do(ctx, req)
	if resp == nil {
		return nil, err
	}

	raw := &azrm.RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Headers,
		Body:       resp.Body,
	}

	// The fetcher decodes the ARM error body itself.
	if err != nil && resp.StatusCode >= http.StatusBadRequest {
		return raw, fmt.Errorf("%w: %d", azrm.ErrUnexpectedStatus, resp.StatusCode)
	}

	return raw, err
}

func withAPIVersion(params url.Values, apiVersion string) url.Values {
	query := make(url.Values, len(params)+1)
	for key, values := range params {
		query[key] = append([]string(nil), values...)
	}

	if apiVersion != "" {
		query.Set("api-version", apiVersion)
	}

	return query
}

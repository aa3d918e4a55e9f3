package azrm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// RawResponse is what the transport hands back for one request.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport issues authenticated requests against the management endpoint.
// Implementations attach the api-version and credentials; GetNext fetches
// a continuation link verbatim with the same credentials. A non-2xx status
// must be reported as an error.
type Transport interface {
	Get(ctx context.Context, path, apiVersion string, params url.Values) (*RawResponse, error)
	Post(ctx context.Context, path, apiVersion string, body []byte) (*RawResponse, error)
	GetNext(ctx context.Context, nextLink string) (*RawResponse, error)
}

// FetchRequest describes the first page of a query.
type FetchRequest struct {
	Method     string
	URL        string
	APIVersion string
	Params     url.Values
	Body       []byte
}

// Fetcher walks continuation links and returns complete result sets.
type Fetcher struct {
	transport     Transport
	logger        Logger
	nextLinkField string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchLogger sets the logger used for page diagnostics.
func WithFetchLogger(logger Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = loggerOrNop(logger)
	}
}

// WithNextLinkField overrides the continuation field name.
func WithNextLinkField(name string) FetcherOption {
	return func(f *Fetcher) {
		if name != "" {
			f.nextLinkField = name
		}
	}
}

// NewFetcher creates a fetcher over transport.
func NewFetcher(transport Transport, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		transport:     transport,
		logger:        NopLogger{},
		nextLinkField: DefaultNextLinkField,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Get fetches every page of a GET query.
func (f *Fetcher) Get(ctx context.Context, path, apiVersion string, params url.Values) ([]*Record, error) {
	return f.Fetch(ctx, FetchRequest{
		Method:     http.MethodGet,
		URL:        path,
		APIVersion: apiVersion,
		Params:     params,
	})
}

// Post fetches every page of a POST query. Follow-up pages are GETs.
func (f *Fetcher) Post(ctx context.Context, path, apiVersion string, body []byte) ([]*Record, error) {
	return f.Fetch(ctx, FetchRequest{
		Method:     http.MethodPost,
		URL:        path,
		APIVersion: apiVersion,
		Body:       body,
	})
}

// Fetch issues the first request and follows continuation links until none
// remains. Items keep server order, page by page. Any failing page discards
// everything fetched so far and returns the error: a result is either
// complete or absent.
func (f *Fetcher) Fetch(ctx context.Context, req FetchRequest) ([]*Record, error) {
	if f.transport == nil {
		return nil, ErrNoTransport
	}

	resp, err := f.first(ctx, req)
	if err == nil {
		err = checkStatus(resp)
	}

	if err != nil {
		return nil, asFetchError(req.Method, req.URL, resp, err)
	}

	page, err := parseEnvelope(resp.Body, f.nextLinkField)
	if err != nil {
		return nil, &FetchError{Method: req.Method, URL: req.URL, StatusCode: resp.StatusCode, Err: err}
	}

	items := page.Items
	seen := map[string]struct{}{}
	pages := 1

	for page.NextLink != "" {
		next := page.NextLink
		if _, dup := seen[next]; dup {
			return nil, &FetchError{Method: http.MethodGet, URL: next, Err: ErrPaginationLoop}
		}

		seen[next] = struct{}{}

		resp, err = f.transport.GetNext(ctx, next)
		if err == nil {
			err = checkStatus(resp)
		}

		if err != nil {
			f.logger.Warn("page fetch failed", map[string]interface{}{
				"url":   next,
				"page":  pages + 1,
				"error": err.Error(),
			})

			return nil, asFetchError(http.MethodGet, next, resp, err)
		}

		page, err = parseEnvelope(resp.Body, f.nextLinkField)
		if err != nil {
			return nil, &FetchError{Method: http.MethodGet, URL: next, StatusCode: resp.StatusCode, Err: err}
		}

		items = append(items, page.Items...)
		pages++
	}

	f.logger.Debug("fetch complete", map[string]interface{}{
		"url":   req.URL,
		"pages": pages,
		"items": len(items),
	})

	return items, nil
}

func (f *Fetcher) first(ctx context.Context, req FetchRequest) (*RawResponse, error) {
	switch req.Method {
	case http.MethodGet, "":
		return f.transport.Get(ctx, req.URL, req.APIVersion, req.Params)
	case http.MethodPost:
		return f.transport.Post(ctx, req.URL, req.APIVersion, req.Body)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, req.Method)
	}
}

// Static errors for err113 compliance.
var (
	ErrNilResponse      = errors.New("transport returned no response")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

func checkStatus(resp *RawResponse) error {
	if resp == nil {
		return ErrNilResponse
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}

func asFetchError(method, target string, resp *RawResponse, err error) error {
	if method == "" {
		method = http.MethodGet
	}

	fetchErr := &FetchError{}
	if errors.As(err, &fetchErr) {
		return err
	}

	out := &FetchError{Method: method, URL: target, Err: err}
	if resp != nil {
		out.StatusCode = resp.StatusCode

		if errResp, parseErr := ParseResponseError(resp.Body); parseErr == nil {
			out.Err = errors.Join(errResp, err)
		}
	}

	return out
}

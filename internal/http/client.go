package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/fivetwenty-io/azrm/internal/constants"
	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// Static errors for err113 compliance.
var (
	ErrForeignNextLink = errors.New("continuation link points at a different host")
	ErrHTTPStatus      = errors.New("HTTP error")
)

const defaultUserAgent = "azrm-go/1.0"

// TokenManager supplies bearer tokens for the management endpoint.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
	SetToken(token string, expiresAt time.Time)
}

// Request is one call against the management endpoint. Path is either
// relative to the base URL or, for continuation links, absolute.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is the raw answer of the service.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is a retrying, authenticated HTTP client.
type Client struct {
	baseURL      *url.URL
	httpClient   *retryablehttp.Client
	tokenManager TokenManager
	logger       azrm.Logger
	debug        bool
	userAgent    string
	limiter      *rate.Limiter
	cache        *azrm.CacheManager
	interceptors *azrm.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger azrm.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig sets the retry budget and backoff bounds.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the per attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient.HTTPClient = httpClient
		}
	}
}

// WithRateLimit caps the request rate. A non-positive rate disables it.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = nil

			return
		}

		if burst <= 0 {
			burst = constants.DefaultRateBurst
		}

		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithCacheManager enables response caching for cacheable requests.
func WithCacheManager(manager *azrm.CacheManager) Option {
	return func(c *Client) {
		c.cache = manager
	}
}

// WithInterceptors runs chain around every request.
func WithInterceptors(chain *azrm.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a client for baseURL. tokenManager may be nil for
// anonymous requests.
func NewClient(baseURL string, tokenManager TokenManager, opts ...Option) *Client {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		parsed = &url.URL{}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      parsed,
		httpClient:   retryClient,
		tokenManager: tokenManager,
		logger:       azrm.NopLogger{},
		userAgent:    defaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.logger == nil {
		client.logger = azrm.NopLogger{}
	}

	return client
}

// BaseURL returns the management endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// Do executes req. A non-2xx answer returns both the response and an
// error; the error is an *azrm.ResponseError when the body carries one.
//
//nolint:funlen // request pipeline reads best in one place
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	target, err := c.resolve(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	intercepted := &azrm.Request{
		Method:  req.Method,
		Path:    target.Path,
		Query:   target.Query(),
		Headers: make(http.Header),
		Body:    body,
	}

	for key, value := range req.Headers {
		intercepted.Headers.Set(key, value)
	}

	cacheKey := ""
	if c.cache != nil && c.cache.Policy().ShouldCache(req.Method, target.Path, http.StatusOK) {
		cacheKey = c.cache.GetCacheKey(req.Method, target.Path, target.Query())

		if cached, cacheErr := c.cache.Get(ctx, cacheKey); cacheErr == nil {
			c.logger.Debug("cache hit", map[string]interface{}{"path": target.Path})

			return &Response{StatusCode: http.StatusOK, Headers: make(http.Header), Body: cached}, nil
		}
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
		if err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
	}

	if c.limiter != nil {
		err = c.limiter.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	resp, err := c.send(ctx, target, intercepted)
	if err == nil && resp.StatusCode == http.StatusUnauthorized && c.tokenManager != nil {
		if refreshErr := c.tokenManager.RefreshToken(ctx); refreshErr == nil {
			resp, err = c.send(ctx, target, intercepted)
		}
	}

	if c.interceptors != nil {
		out := &azrm.Response{Error: err}
		if resp != nil {
			out.StatusCode = resp.StatusCode
			out.Headers = resp.Headers
			out.Body = resp.Body
		}

		if interceptErr := c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, out); interceptErr != nil && err == nil {
			err = fmt.Errorf("response interceptor: %w", interceptErr)
		}
	}

	if err != nil {
		return resp, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if errResp, parseErr := azrm.ParseResponseError(resp.Body); parseErr == nil {
			return resp, errResp
		}

		return resp, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}

	if cacheKey != "" && c.cache.Policy().ShouldCache(req.Method, target.Path, resp.StatusCode) {
		if setErr := c.cache.Set(ctx, cacheKey, resp.Body, 0); setErr != nil {
			c.logger.Warn("cache store failed", map[string]interface{}{"error": setErr.Error()})
		}
	}

	return resp, nil
}

func (c *Client) send(ctx context.Context, target *url.URL, req *azrm.Request) (*Response, error) {
	var reader io.Reader
	if req.Body != nil {
		reader = bytes.NewReader(req.Body)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for key, values := range req.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.tokenManager != nil {
		token, tokenErr := c.tokenManager.GetToken(ctx)
		if tokenErr != nil {
			return nil, fmt.Errorf("getting token: %w", tokenErr)
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    target.String(),
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":         httpResp.StatusCode,
			"duration":       time.Since(start).String(),
			"request_id":     httpResp.Header.Get(constants.HeaderRequestID),
			"correlation_id": httpResp.Header.Get(constants.HeaderCorrelationRequestID),
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

// resolve joins path onto the base URL. Absolute links must stay on the
// base host so credentials never leave the management endpoint.
func (c *Client) resolve(path string, query url.Values) (*url.URL, error) {
	var target *url.URL

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		parsed, err := url.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("parsing link: %w", err)
		}

		if c.baseURL.Host != "" && !strings.EqualFold(parsed.Host, c.baseURL.Host) {
			return nil, fmt.Errorf("%w: %s", ErrForeignNextLink, parsed.Host)
		}

		target = parsed
	} else {
		target = c.baseURL.JoinPath(path)
		if !strings.HasPrefix(target.Path, "/") {
			target.Path = "/" + target.Path
		}
	}

	if len(query) > 0 {
		merged := target.Query()
		for key, values := range query {
			merged[key] = values
		}

		target.RawQuery = merged.Encode()
	}

	return target, nil
}

func encodeBody(body interface{}) ([]byte, error) {
	switch typed := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return typed, nil
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		return data, nil
	}
}

package azrm_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// MockLogger records log calls.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

func (l *MockLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, 0, len(l.logs))
	for _, entry := range l.logs {
		out = append(out, fmt.Sprint(entry["msg"]))
	}

	return out
}

// fakePage is a canned transport answer.
type fakePage struct {
	status int
	body   string
	err    error
}

// fakeTransport serves the first request from first and follow-up links
// from pages.
type fakeTransport struct {
	mu         sync.Mutex
	first      fakePage
	pages      map[string]fakePage
	calls      []string
	apiVersion string
	params     url.Values
	postBody   []byte
}

func (f *fakeTransport) answer(page fakePage) (*azrm.RawResponse, error) {
	if page.err != nil {
		return nil, page.err
	}

	status := page.status
	if status == 0 {
		status = http.StatusOK
	}

	resp := &azrm.RawResponse{StatusCode: status, Header: http.Header{}, Body: []byte(page.body)}
	if status >= http.StatusBadRequest {
		return resp, fmt.Errorf("%w: %d", errFakeStatus, status)
	}

	return resp, nil
}

func (f *fakeTransport) Get(ctx context.Context, path, apiVersion string, params url.Values) (*azrm.RawResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "GET "+path)
	f.apiVersion = apiVersion
	f.params = params
	f.mu.Unlock()

	return f.answer(f.first)
}

func (f *fakeTransport) Post(ctx context.Context, path, apiVersion string, body []byte) (*azrm.RawResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "POST "+path)
	f.apiVersion = apiVersion
	f.postBody = body
	f.mu.Unlock()

	return f.answer(f.first)
}

func (f *fakeTransport) GetNext(ctx context.Context, nextLink string) (*azrm.RawResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "NEXT "+nextLink)
	page, ok := f.pages[nextLink]
	f.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", errFakeNoPage, nextLink)
	}

	return f.answer(page)
}

var (
	errFakeStatus = errors.New("fake status")
	errFakeNoPage = errors.New("no such page")
)

func names(t interface{ Helper() }, records []*azrm.Record) []string {
	t.Helper()

	out := make([]string, 0, len(records))
	for _, rec := range records {
		s, _ := rec.DigString("name")
		out = append(out, s)
	}

	return out
}

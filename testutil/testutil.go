// Package testutil provides testing helpers for reqforge request shapes:
// assertions on assembled requests and builders for inbound requests.
// This package is designed to be import-cycle safe and can be used from any
// package except reqforge's own internal tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/broady/reqforge"
)

// RequestBuilder helps construct inbound test HTTP requests with fluent API.
type RequestBuilder struct {
	method  string
	path    string
	body    []byte
	headers http.Header
	query   url.Values
}

// NewRequest creates a new request builder for GET /.
func NewRequest() *RequestBuilder {
	return &RequestBuilder{
		method:  http.MethodGet,
		path:    "/",
		headers: make(http.Header),
		query:   make(url.Values),
	}
}

// GET sets the HTTP method to GET.
func (b *RequestBuilder) GET(path string) *RequestBuilder {
	b.method = http.MethodGet
	b.path = path
	return b
}

// POST sets the HTTP method to POST.
func (b *RequestBuilder) POST(path string) *RequestBuilder {
	b.method = http.MethodPost
	b.path = path
	return b
}

// WithJSON sets the request body as JSON.
func (b *RequestBuilder) WithJSON(v any) *RequestBuilder {
	data, _ := json.Marshal(v)
	b.body = data
	b.headers.Set("Content-Type", "application/json")
	return b
}

// WithForm sets the request body as URL-encoded form fields.
func (b *RequestBuilder) WithForm(form url.Values) *RequestBuilder {
	b.body = []byte(form.Encode())
	b.headers.Set("Content-Type", "application/x-www-form-urlencoded")
	return b
}

// WithBody sets the raw request body.
func (b *RequestBuilder) WithBody(body string) *RequestBuilder {
	b.body = []byte(body)
	return b
}

// WithHeader adds a header to the request.
func (b *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	b.headers.Add(key, value)
	return b
}

// WithQuery adds a query parameter.
func (b *RequestBuilder) WithQuery(key, value string) *RequestBuilder {
	b.query.Add(key, value)
	return b
}

// Build creates the HTTP request.
func (b *RequestBuilder) Build() *http.Request {
	path := b.path
	if len(b.query) > 0 {
		path += "?" + b.query.Encode()
	}

	var body io.Reader
	if len(b.body) > 0 {
		body = bytes.NewReader(b.body)
	}
	req := httptest.NewRequest(b.method, path, body)
	for k, vals := range b.headers {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	return req
}

// Server is an httptest server that records the requests it receives, with
// their bodies buffered so they can be read again.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
}

// NewServer starts a recording server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		clone := r.Clone(r.Context())
		clone.Body = io.NopCloser(bytes.NewReader(data))

		s.mu.Lock()
		s.requests = append(s.requests, clone)
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(s.Close)
	return s
}

// Send sends an assembled request to the server and returns the request as
// the server received it.
func (s *Server) Send(t testing.TB, r *reqforge.AssembledRequest) *http.Request {
	t.Helper()
	req, err := r.NewHTTPRequest(t.Context())
	if err != nil {
		t.Fatalf("new http request: %v", err)
	}
	resp, err := s.Client().Do(req)
	if err != nil {
		t.Fatalf("send %s: %v", r, err)
	}
	resp.Body.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		t.Fatalf("server recorded no request for %s", r)
	}
	return s.requests[len(s.requests)-1]
}

// AssertURL checks the URL of an assembled request, without its query.
func AssertURL(t testing.TB, r *reqforge.AssembledRequest, expected string) {
	t.Helper()
	if r.URL != expected {
		t.Errorf("expected URL %s, got %s", expected, r.URL)
	}
}

// AssertParams checks that p holds exactly the given alternating keys and
// values, in order. No pairs means p must be nil.
func AssertParams(t testing.TB, p *reqforge.Params, kv ...string) {
	t.Helper()
	if len(kv) == 0 {
		if p != nil {
			t.Errorf("expected no params, got %s", formatParams(p))
		}
		return
	}
	expected := reqforge.ParamsFromPairs(kv...)
	if got, want := formatParams(p), formatParams(expected); got != want {
		t.Errorf("params mismatch:\nExpected: %s\nActual:   %s", want, got)
	}
}

func formatParams(p *reqforge.Params) string {
	if p == nil {
		return "<nil>"
	}
	var parts []string
	for pair := p.Oldest(); pair != nil; pair = pair.Next() {
		parts = append(parts, pair.Key+"="+pair.Value)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// AssertJSONBody checks that the request has a JSON body equal to expected,
// compared as JSON to ignore formatting differences.
func AssertJSONBody(t testing.TB, r *reqforge.AssembledRequest, expected any) {
	t.Helper()
	if r.Body == nil || r.Body.Kind != reqforge.BodyJSON {
		t.Fatalf("expected a JSON body, got %+v", r.Body)
	}

	var expectedJSON []byte
	switch e := expected.(type) {
	case string:
		expectedJSON = []byte(e)
	default:
		expectedJSON, _ = json.Marshal(expected)
	}

	var expectedData, actualData any
	json.Unmarshal(expectedJSON, &expectedData)
	json.Unmarshal(r.Body.Document, &actualData)

	expectedStr, _ := json.MarshalIndent(expectedData, "", "  ")
	actualStr, _ := json.MarshalIndent(actualData, "", "  ")

	if string(expectedStr) != string(actualStr) {
		t.Errorf("body mismatch:\nExpected:\n%s\nActual:\n%s", expectedStr, actualStr)
	}
}

// AssertNoBody checks that no body is sent.
func AssertNoBody(t testing.TB, r *reqforge.AssembledRequest) {
	t.Helper()
	if r.Body != nil {
		t.Errorf("expected no body, got %s body", r.Body.Kind)
	}
}

// AssertErrorCode checks that err is a *reqforge.Error with the expected code
// and returns it.
func AssertErrorCode(t testing.TB, err error, expectedCode reqforge.ErrorCode) *reqforge.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", expectedCode)
	}
	var rfErr *reqforge.Error
	if !errors.As(err, &rfErr) {
		t.Fatalf("expected *reqforge.Error, got %T: %v", err, err)
	}
	if rfErr.Code != expectedCode {
		t.Errorf("expected error code %s, got %s (message: %s)", expectedCode, rfErr.Code, rfErr.Message)
	}
	return rfErr
}

// AssertHeaderError checks that err is a CodeHeader error for key that
// failed the given check.
func AssertHeaderError(t testing.TB, err error, key string, check reqforge.HeaderCheck) {
	t.Helper()
	rfErr := AssertErrorCode(t, err, reqforge.CodeHeader)
	if rfErr.HeaderKey() != key {
		t.Errorf("expected header key %q, got %q", key, rfErr.HeaderKey())
	}
	if got := rfErr.Details["check"]; got != string(check) {
		t.Errorf("expected header check %s, got %v", check, got)
	}
}

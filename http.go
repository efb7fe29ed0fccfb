package reqforge

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// QueryString returns the query parameters URL-encoded in insertion order,
// or "" when there are none.
func (r *AssembledRequest) QueryString() string {
	return encodeParams(r.Query)
}

func (r *AssembledRequest) fullURL() string {
	qs := r.QueryString()
	if qs == "" {
		return r.URL
	}
	sep := "?"
	if strings.Contains(r.URL, "?") {
		sep = "&"
	}
	return r.URL + sep + qs
}

// NewHTTPRequest converts r into an *http.Request for any HTTP client.
// The body is encoded according to its kind and its Content-Type is set
// before the request headers, so an explicit Content-Type header wins.
func (r *AssembledRequest) NewHTTPRequest(ctx context.Context) (*http.Request, error) {
	var (
		body        io.Reader
		contentType string
	)
	if r.Body != nil {
		switch r.Body.Kind {
		case BodyJSON:
			body = bytes.NewReader(r.Body.Document)
			contentType = contentTypeJSON
		case BodyForm:
			body = strings.NewReader(encodeParams(r.Body.Form))
			contentType = contentTypeForm
		case BodyMultipart:
			data, ct, err := r.Body.Multipart.Encode()
			if err != nil {
				return nil, err
			}
			body = bytes.NewReader(data)
			contentType = ct
		}
	}

	req, err := http.NewRequestWithContext(ctx, string(r.Method), r.fullURL(), body)
	if err != nil {
		return nil, Errorf(CodeInvalidRequest, "new request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.Headers != nil {
		for pair := r.Headers.Oldest(); pair != nil; pair = pair.Next() {
			req.Header.Set(pair.Key, pair.Value)
		}
	}
	return req, nil
}

func encodeParams(p *Params) string {
	if p == nil || p.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	for pair := p.Oldest(); pair != nil; pair = pair.Next() {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(pair.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(pair.Value))
	}
	return sb.String()
}

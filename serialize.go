package reqforge

import (
	"bytes"
	"encoding/json"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// onError is the error-handling policy shared by the strict and lenient
// variants of every fallible step. Returning the error aborts the step;
// returning nil drops the affected piece and continues.
type onError func(err error) error

func propagate(err error) error { return err }

func discard(error) error { return nil }

// JoinURL joins a base URL and an endpoint with exactly one slash.
// Trailing slashes on base and leading slashes on endpoint are removed;
// an empty endpoint yields the trimmed base.
func JoinURL(base, endpoint string) string {
	base = strings.TrimRight(base, "/")
	endpoint = strings.TrimLeft(endpoint, "/")
	if endpoint == "" {
		return base
	}
	return base + "/" + endpoint
}

// FlattenForm converts v into flat form fields. v must serialize to a JSON
// object. Strings are kept verbatim, numbers and booleans use their JSON
// text, null fields are dropped and nested arrays or objects become a single
// compact JSON string.
func FlattenForm(v any) (*Params, error) {
	return flattenForm(v, propagate)
}

// FlattenFormLenient is FlattenForm without errors: a value that cannot be
// flattened yields empty Params.
func FlattenFormLenient(v any) *Params {
	params, _ := flattenForm(v, discard)
	return params
}

func flattenForm(v any, handle onError) (*Params, error) {
	doc, err := toDocument(v)
	if err != nil {
		if err := handle(err); err != nil {
			return nil, err
		}
		return NewParams(), nil
	}

	params := NewParams()
	for pair := doc.Oldest(); pair != nil; pair = pair.Next() {
		if s, ok := fieldText(pair.Value); ok {
			params.Set(pair.Key, s)
		}
	}
	return params, nil
}

// BuildHeaders converts v into a validated header set. v must serialize to
// a JSON object whose values are all strings. Each name must be an RFC 9110
// token and each value must be printable ASCII without CR or LF. The first
// failure is returned as a CodeHeader error naming the key, the attempted
// value and the check that failed.
func BuildHeaders(v any) (*Params, error) {
	return buildHeaders(v, propagate)
}

// BuildHeadersLenient is BuildHeaders without errors: entries that fail
// validation are left out.
func BuildHeadersLenient(v any) *Params {
	headers, _ := buildHeaders(v, discard)
	return headers
}

func buildHeaders(v any, handle onError) (*Params, error) {
	doc, err := toDocument(v)
	if err != nil {
		if err := handle(err); err != nil {
			return nil, err
		}
		return NewParams(), nil
	}

	headers := NewParams()
	for pair := doc.Oldest(); pair != nil; pair = pair.Next() {
		key := pair.Key
		raw := bytes.TrimSpace(pair.Value)

		var value string
		if len(raw) == 0 || raw[0] != '"' || json.Unmarshal(raw, &value) != nil {
			if err := handle(newHeaderError(key, string(raw), CheckType, "header value must be a string")); err != nil {
				return nil, err
			}
			continue
		}
		if !httpguts.ValidHeaderFieldName(key) {
			if err := handle(newHeaderError(key, value, CheckName, "invalid header name")); err != nil {
				return nil, err
			}
			continue
		}
		if !validHeaderValue(value) {
			if err := handle(newHeaderError(key, value, CheckValue, "invalid header value")); err != nil {
				return nil, err
			}
			continue
		}
		headers.Set(key, value)
	}
	return headers, nil
}

// validHeaderValue accepts visible ASCII, space and tab.
func validHeaderValue(v string) bool {
	for i := 0; i < len(v); i++ {
		if v[i] >= 0x80 {
			return false
		}
	}
	return httpguts.ValidHeaderFieldValue(v)
}

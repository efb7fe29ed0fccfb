package reqforge

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/elnormous/contenttype"
	"github.com/gorilla/schema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	schemaDecoder = schema.NewDecoder()

	jsonMediaType      = contenttype.NewMediaType(contentTypeJSON)
	formMediaType      = contenttype.NewMediaType(contentTypeForm)
	multipartMediaType = contenttype.NewMediaType("multipart/form-data")
)

// maxBodyBytes bounds the size of a decoded body and the memory used to
// parse multipart bodies.
const maxBodyBytes = 32 << 20

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
	// Parameters are keyed by Go field name; no field carries this tag.
	schemaDecoder.SetAliasTag("reqforge")
}

// Decode reads an inbound request for this shape back into a new value. It
// is the inverse of assembly: the body is decoded according to its
// Content-Type, path fields are taken from the trailing URL path segments
// matching the template, and query and header fields from their resolved
// names. The result is checked against its `validate` tags.
func (s *Shape[T]) Decode(r *http.Request) (*T, error) {
	v := new(T)
	if err := s.decodeBody(r, v); err != nil {
		return nil, err
	}

	values := url.Values{}
	if err := s.pathValues(r.URL.Path, values); err != nil {
		return nil, err
	}
	query := r.URL.Query()
	for _, f := range s.desc.Roles(RoleQuery) {
		if vals, ok := query[f.Name]; ok {
			values[f.Field] = vals
		}
	}
	for _, f := range s.desc.Roles(RoleHeader) {
		if val := r.Header.Get(f.Name); val != "" {
			values.Set(f.Field, val)
		}
	}

	if len(values) > 0 {
		if err := schemaDecoder.Decode(v, values); err != nil {
			return nil, Errorf(CodeInvalidRequest, "decode parameters: %w", err)
		}
	}

	if err := validate.Struct(v); err != nil {
		return nil, fromValidation(err)
	}
	return v, nil
}

func (s *Shape[T]) decodeBody(r *http.Request, v *T) error {
	if r.Body == nil || s.desc.Body == BodyNone {
		return nil
	}
	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Errorf(CodeInvalidRequest, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return Errorf(CodeIO, "read body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	ctype, err := contenttype.GetMediaType(r)
	if err != nil {
		return Errorf(CodeInvalidRequest, "invalid content type: %w", err)
	}

	// Without a Content-Type the declared body kind is assumed.
	if ctype.Type == "" {
		switch s.desc.Body {
		case BodyJSON:
			ctype = jsonMediaType
		case BodyForm:
			ctype = formMediaType
		}
	}

	switch {
	case sameType(ctype, jsonMediaType):
		if err := json.Unmarshal(data, v); err != nil {
			return serializationError(err)
		}
		return nil
	case sameType(ctype, formMediaType):
		form, err := url.ParseQuery(string(data))
		if err != nil {
			return Errorf(CodeSerialization, "parse form: %w", err)
		}
		return s.decodeForm(form, v)
	case sameType(ctype, multipartMediaType):
		mr := multipart.NewReader(bytes.NewReader(data), ctype.Parameters["boundary"])
		form, err := mr.ReadForm(maxBodyBytes)
		if err != nil {
			return Errorf(CodeSerialization, "parse multipart form: %w", err)
		}
		defer form.RemoveAll()
		return s.decodeForm(url.Values(form.Value), v)
	default:
		return Errorf(CodeInvalidRequest, "unsupported content type %q", ctype.String())
	}
}

// sameType compares media types ignoring parameters such as charset.
func sameType(a, b contenttype.MediaType) bool {
	return strings.EqualFold(a.Type, b.Type) && strings.EqualFold(a.Subtype, b.Subtype)
}

// decodeForm reverses FlattenForm: values of string fields are quoted,
// every other value is read as JSON text.
func (s *Shape[T]) decodeForm(form url.Values, v *T) error {
	doc := orderedmap.New[string, json.RawMessage]()
	for _, f := range s.desc.Roles(RoleBody) {
		if f.JSONName == "" {
			continue
		}
		if _, ok := form[f.JSONName]; !ok {
			continue
		}
		val := form.Get(f.JSONName)
		switch {
		case isStringField(f.Type):
			quoted, err := json.Marshal(val)
			if err != nil {
				return serializationError(err)
			}
			doc.Set(f.JSONName, quoted)
		case val != "":
			if !json.Valid([]byte(val)) {
				return Errorf(CodeSerialization, "form field %s: invalid value %q", f.JSONName, val)
			}
			doc.Set(f.JSONName, json.RawMessage(val))
		}
	}
	data, err := doc.MarshalJSON()
	if err != nil {
		return serializationError(err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return serializationError(err)
	}
	return nil
}

func isStringField(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.String {
		return true
	}
	if ek, ok := reflect.Zero(t).Interface().(interface{ elemKind() reflect.Kind }); ok {
		return ek.elemKind() == reflect.String
	}
	return false
}

// pathValues matches the trailing segments of path against the template
// and stores each captured placeholder under the Go name of its field.
func (s *Shape[T]) pathValues(path string, values url.Values) error {
	fields := s.desc.Roles(RolePath)
	if len(fields) == 0 {
		return nil
	}

	tmpl := splitPath(s.desc.Path)
	segs := splitPath(path)
	if len(segs) < len(tmpl) {
		return Errorf(CodeInvalidRequest, "path %q does not match template %q", path, s.desc.Path)
	}
	segs = segs[len(segs)-len(tmpl):]

	captured := make(map[string]string)
	for i, t := range tmpl {
		name, value, ok := matchSegment(t, segs[i])
		if !ok {
			return Errorf(CodeInvalidRequest, "path %q does not match template %q", path, s.desc.Path)
		}
		if name != "" {
			if _, dup := captured[name]; !dup {
				captured[name] = value
			}
		}
	}

	for _, f := range fields {
		if value, ok := captured[f.Name]; ok {
			values.Set(f.Field, value)
		}
	}
	return nil
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// matchSegment matches one path segment against a template segment holding
// at most one {name} placeholder with optional literal prefix and suffix.
func matchSegment(tmpl, seg string) (name, value string, ok bool) {
	start := strings.IndexByte(tmpl, '{')
	end := strings.IndexByte(tmpl, '}')
	if start < 0 || end < start {
		return "", "", tmpl == seg
	}
	prefix, suffix := tmpl[:start], tmpl[end+1:]
	if !strings.HasPrefix(seg, prefix) || !strings.HasSuffix(seg, suffix) || len(seg) < len(prefix)+len(suffix) {
		return "", "", false
	}
	return tmpl[start+1 : end], seg[len(prefix) : len(seg)-len(suffix)], true
}

// Package tags parses reqforge struct tags.
//
// A shape declares its container attributes on a blank field:
//
//	type CreatePost struct {
//		_ struct{} `request:"method=POST,path=/users/{id}/posts,body=json"`
//
//		ID    uint64 `path:""`
//		Draft *bool  `query:"draft"`
//		Token string `header:"Authorization"`
//		Title string `json:"title"`
//	}
//
// Field roles are declared with one of the path, query, header or body tags.
// An empty tag value means the field's own name. Untagged fields are body fields.
//
// The same parser serves runtime resolution (reflect) and code generation
// (go/ast), so both accept exactly the same vocabulary.
package tags

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestTag is the struct tag key holding container attributes.
const RequestTag = "request"

// Role tag keys.
const (
	RolePath   = "path"
	RoleQuery  = "query"
	RoleHeader = "header"
	RoleBody   = "body"
)

var roleKeys = []string{RolePath, RoleQuery, RoleHeader, RoleBody}

var validate = validator.New()

// Request holds the container attributes of a shape.
type Request struct {
	Method string `validate:"required,oneof=GET POST PUT DELETE PATCH HEAD OPTIONS"`
	Path   string `validate:"required"`
	Body   string `validate:"omitempty,oneof=json form multipart none"`
}

// ParseRequest parses the value of a request tag.
//
// The value is a comma-separated list of key=value pairs. Recognized keys are
// method, path and body; method and path are required. A comma inside the
// path is kept when the text after it has no '=', so /tiles/{z},{x} needs no
// quoting. Any value may be wrapped in single quotes to hold arbitrary commas:
//
//	method=GET,path='/a;x=1,y=2'
func ParseRequest(value string) (Request, error) {
	var req Request
	if strings.TrimSpace(value) == "" {
		return req, errors.New("empty request attributes")
	}

	parts, err := splitAttributes(value)
	if err != nil {
		return req, err
	}

	seen := make(map[string]bool)
	last, lastQuoted := "", false
	for _, part := range parts {
		if last == "path" && !lastQuoted && !strings.Contains(part, "=") {
			req.Path += "," + strings.TrimSpace(part)
			continue
		}
		part = strings.TrimSpace(part)
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return req, fmt.Errorf("malformed request attribute %q: expected key=value", part)
		}
		key = strings.TrimSpace(key)
		val, quoted := unquote(strings.TrimSpace(val))
		if seen[key] {
			return req, fmt.Errorf("duplicate request attribute %q", key)
		}
		seen[key] = true
		last, lastQuoted = key, quoted

		switch key {
		case "method":
			req.Method = val
		case "path":
			req.Path = val
		case "body":
			req.Body = val
		default:
			return req, fmt.Errorf("unknown request attribute %q", key)
		}
	}

	if err := validate.Struct(req); err != nil {
		return req, describe(err)
	}
	return req, nil
}

// splitAttributes splits value on commas outside single-quoted values.
// A quote opens only as the first character of a value.
func splitAttributes(value string) ([]string, error) {
	var (
		parts  []string
		cur    strings.Builder
		quoted bool
	)
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case quoted:
			cur.WriteByte(c)
			if c == '\'' {
				quoted = false
			}
		case c == '\'' && opensValue(cur.String()):
			quoted = true
			cur.WriteByte(c)
		case c == ',':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote in request attributes")
	}
	return append(parts, cur.String()), nil
}

// opensValue reports whether s ends right after a key's '='.
func opensValue(s string) bool {
	_, val, ok := strings.Cut(s, "=")
	return ok && strings.TrimSpace(val) == ""
}

func unquote(val string) (string, bool) {
	if len(val) >= 2 && val[0] == '\'' && val[len(val)-1] == '\'' {
		return val[1 : len(val)-1], true
	}
	return val, false
}

// describe turns a validator failure into a message naming the offending token.
func describe(err error) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) || len(valErrs) == 0 {
		return err
	}
	ve := valErrs[0]
	switch {
	case ve.Tag() == "required":
		return fmt.Errorf("missing required %q attribute", strings.ToLower(ve.Field()))
	case ve.Field() == "Method":
		return fmt.Errorf("unsupported HTTP method: %v", ve.Value())
	case ve.Field() == "Body":
		return fmt.Errorf("unsupported body type: %v", ve.Value())
	default:
		return fmt.Errorf("invalid %s attribute: %v", strings.ToLower(ve.Field()), ve.Value())
	}
}

// Field is the role declared on a single struct field.
type Field struct {
	// Role is one of the Role* constants, or empty for an untagged field.
	Role string
	// Name is the explicit name given in the tag, empty when the tag value was empty.
	Name string
}

// ParseField reads the role tags of a struct field.
// A field may carry at most one role.
func ParseField(tag reflect.StructTag) (Field, error) {
	var f Field
	for _, key := range roleKeys {
		val, ok := tag.Lookup(key)
		if !ok {
			continue
		}
		if f.Role != "" {
			return f, fmt.Errorf("field carries both %q and %q roles", f.Role, key)
		}
		if strings.ContainsAny(val, ",{}") {
			return f, fmt.Errorf("malformed %s tag %q", key, val)
		}
		if key == RoleBody && val != "" {
			return f, fmt.Errorf("body tag takes no name, got %q", val)
		}
		f.Role = key
		f.Name = val
	}
	return f, nil
}

// JSONName returns the document key encoding/json uses for a field,
// and false if the field is excluded from the document.
func JSONName(tag reflect.StructTag, goName string) (string, bool) {
	val, ok := tag.Lookup("json")
	if !ok {
		return goName, true
	}
	if val == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(val, ",")
	if name == "" {
		return goName, true
	}
	return name, true
}

// Placeholders returns the {name} tokens of a path template in order of
// first appearance.
func Placeholders(path string) []string {
	var names []string
	seen := make(map[string]bool)
	for {
		start := strings.IndexByte(path, '{')
		if start < 0 {
			return names
		}
		end := strings.IndexByte(path[start:], '}')
		if end < 0 {
			return names
		}
		name := path[start+1 : start+end]
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		path = path[start+end+1:]
	}
}

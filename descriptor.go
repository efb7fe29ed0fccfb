package reqforge

import (
	"reflect"

	"github.com/broady/reqforge/internal/tags"
)

// Method is an HTTP request method.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
)

// ParseMethod returns the Method named by token.
func ParseMethod(token string) (Method, error) {
	switch m := Method(token); m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch, MethodHead, MethodOptions:
		return m, nil
	}
	return "", Errorf(CodeDefinition, "unsupported HTTP method: %s", token)
}

func (m Method) String() string {
	return string(m)
}

// BodyKind selects how the body of a request is encoded.
// The kinds are mutually exclusive.
type BodyKind string

const (
	// BodyJSON attaches the payload as a JSON document. It is the default.
	BodyJSON BodyKind = "json"
	// BodyForm attaches the payload as application/x-www-form-urlencoded fields.
	BodyForm BodyKind = "form"
	// BodyMultipart attaches the form returned by MultipartSource.
	BodyMultipart BodyKind = "multipart"
	// BodyNone sends no body.
	BodyNone BodyKind = "none"
)

// ParseBodyKind returns the BodyKind named by token.
// The empty string is BodyJSON.
func ParseBodyKind(token string) (BodyKind, error) {
	switch k := BodyKind(token); k {
	case "":
		return BodyJSON, nil
	case BodyJSON, BodyForm, BodyMultipart, BodyNone:
		return k, nil
	}
	return "", Errorf(CodeDefinition, "unsupported body type: %s", token)
}

func (k BodyKind) String() string {
	if k == "" {
		return string(BodyJSON)
	}
	return string(k)
}

// Role is the single purpose a field plays in a request.
type Role int

const (
	RoleBody Role = iota
	RolePath
	RoleQuery
	RoleHeader
)

func (r Role) String() string {
	switch r {
	case RoleBody:
		return "body"
	case RolePath:
		return "path"
	case RoleQuery:
		return "query"
	case RoleHeader:
		return "header"
	default:
		return "unknown"
	}
}

func roleFromTag(tag string) Role {
	switch tag {
	case tags.RolePath:
		return RolePath
	case tags.RoleQuery:
		return RoleQuery
	case tags.RoleHeader:
		return RoleHeader
	default:
		return RoleBody
	}
}

// FieldRole records the role of one exported field of a shape.
type FieldRole struct {
	// Field is the Go field name.
	Field string
	// Index is the field index for reflect.Value.FieldByIndex.
	Index []int
	Role  Role
	// Name is the placeholder, query parameter or header name.
	// For body fields it equals JSONName.
	Name string
	// JSONName is the document key of the field, empty if the field is
	// excluded from JSON.
	JSONName string
	Type     reflect.Type
}

// Descriptor is the resolved description of a shape.
// It is created once per shape and never mutated.
type Descriptor struct {
	Type   reflect.Type
	Method Method
	Path   string
	Body   BodyKind
	Fields []FieldRole
}

// Roles returns the fields with the given role in declaration order.
func (d *Descriptor) Roles(role Role) []FieldRole {
	var out []FieldRole
	for _, f := range d.Fields {
		if f.Role == role {
			out = append(out, f)
		}
	}
	return out
}

// Placeholders returns the {name} tokens of the path template.
func (d *Descriptor) Placeholders() []string {
	return tags.Placeholders(d.Path)
}

// nonBodyKeys returns the document keys of every path, query and header field.
func (d *Descriptor) nonBodyKeys() []string {
	var keys []string
	for _, f := range d.Fields {
		if f.Role != RoleBody && f.JSONName != "" {
			keys = append(keys, f.JSONName)
		}
	}
	return keys
}

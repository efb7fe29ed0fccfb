package reqforge

import (
	"reflect"
	"strings"
)

// accessor reads one role-tagged field out of a shape value.
type accessor struct {
	name string
	get  func(v reflect.Value) any
}

// Shape is a resolved request shape for the struct type T. It holds the
// Descriptor together with field accessors grouped by role, and implements
// the assembly protocol generically over them.
//
// Shapes are created once, typically in a package-level variable:
//
//	var getUser = reqforge.MustShape[GetUserRequest]()
//
//	req := getUser.Bind(&GetUserRequest{ID: 42})
//	out, err := reqforge.TryBuild(baseURL, req)
//
// A Shape is immutable and safe for concurrent use.
type Shape[T any] struct {
	desc  *Descriptor
	roles map[Role][]accessor
	omit  []string
}

// NewShape resolves T and returns its Shape. T must be a struct type.
func NewShape[T any]() (*Shape[T], error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, Errorf(CodeDefinition, "%s: shapes must be struct types", t)
	}
	desc, err := Resolve(t)
	if err != nil {
		return nil, err
	}

	s := &Shape[T]{
		desc:  desc,
		roles: make(map[Role][]accessor),
		omit:  desc.nonBodyKeys(),
	}
	for _, f := range desc.Fields {
		index := f.Index
		s.roles[f.Role] = append(s.roles[f.Role], accessor{
			name: f.Name,
			get: func(v reflect.Value) any {
				return v.FieldByIndex(index).Interface()
			},
		})
	}
	return s, nil
}

// MustShape is like NewShape but panics if T cannot be resolved.
func MustShape[T any]() *Shape[T] {
	s, err := NewShape[T]()
	if err != nil {
		panic("reqforge: " + err.Error())
	}
	return s
}

// Descriptor returns the resolved descriptor.
func (s *Shape[T]) Descriptor() *Descriptor {
	return s.desc
}

// Endpoint substitutes every {name} placeholder of the path template with
// the value of the path field of that name. Fields are substituted in
// declaration order with plain text replacement, so a value that itself
// contains the placeholder of a later field is replaced again.
func (s *Shape[T]) Endpoint(v *T) string {
	path := s.desc.Path
	fields := s.roles[RolePath]
	if len(fields) == 0 {
		return path
	}
	rv := reflect.ValueOf(v).Elem()
	for _, a := range fields {
		path = strings.ReplaceAll(path, "{"+a.name+"}", PathValue(a.get(rv)))
	}
	return path
}

// QueryParams returns the present query fields under their resolved names,
// or nil when there are none.
func (s *Shape[T]) QueryParams(v *T) *Params {
	return s.collect(RoleQuery, v)
}

// Headers returns the present header fields under their resolved names, or
// nil when there are none.
func (s *Shape[T]) Headers(v *T) *Params {
	return s.collect(RoleHeader, v)
}

func (s *Shape[T]) collect(role Role, v *T) *Params {
	fields := s.roles[role]
	if len(fields) == 0 {
		return nil
	}
	rv := reflect.ValueOf(v).Elem()
	params := NewParams()
	for _, a := range fields {
		AddParam(params, a.name, a.get(rv))
	}
	return NilIfEmpty(params)
}

// Payload returns the value encoded as the JSON or form body: v without
// its path, query and header fields.
func (s *Shape[T]) Payload(v *T) any {
	if len(s.omit) == 0 {
		return v
	}
	return OmitKeys(v, s.omit...)
}

// Bind returns the assembly protocol implementation for v.
func (s *Shape[T]) Bind(v *T) Request {
	return &bound[T]{shape: s, v: v}
}

type bound[T any] struct {
	shape *Shape[T]
	v     *T
}

func (b *bound[T]) Method() Method { return b.shape.desc.Method }

func (b *bound[T]) Endpoint() string { return b.shape.Endpoint(b.v) }

func (b *bound[T]) BodyKind() BodyKind { return b.shape.desc.Body }

func (b *bound[T]) Payload() any { return b.shape.Payload(b.v) }

func (b *bound[T]) QueryParams() *Params { return b.shape.QueryParams(b.v) }

func (b *bound[T]) value() any { return b.v }

func (b *bound[T]) Headers() any {
	if h := b.shape.Headers(b.v); h != nil {
		return h
	}
	return nil
}

func (b *bound[T]) MultipartForm() *MultipartForm {
	if ms, ok := any(b.v).(MultipartSource); ok {
		return ms.MultipartForm()
	}
	return nil
}

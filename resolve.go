package reqforge

import (
	"fmt"
	"reflect"

	"github.com/broady/reqforge/internal/tags"
)

// Resolve reads the reqforge tags of a struct type and returns its
// Descriptor. Every problem with the annotations is reported here, as a
// CodeDefinition error, so that a shape is either fully usable or rejected.
//
// The container attributes live on a blank field:
//
//	_ struct{} `request:"method=GET,path=/users/{id},body=none"`
//
// method and path are required; body defaults to json.
func Resolve(t reflect.Type) (*Descriptor, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, definitionError(t, fmt.Errorf("only structs are supported, got %s", t.Kind()))
	}

	desc := &Descriptor{Type: t}
	found := false

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Name == "_" {
			value, ok := field.Tag.Lookup(tags.RequestTag)
			if !ok {
				continue
			}
			if found {
				return nil, definitionError(t, fmt.Errorf("multiple %s attribute fields", tags.RequestTag))
			}
			found = true
			attrs, err := tags.ParseRequest(value)
			if err != nil {
				return nil, definitionError(t, err)
			}
			if desc.Method, err = ParseMethod(attrs.Method); err != nil {
				return nil, definitionError(t, err)
			}
			if desc.Body, err = ParseBodyKind(attrs.Body); err != nil {
				return nil, definitionError(t, err)
			}
			desc.Path = attrs.Path
			continue
		}

		if !field.IsExported() {
			continue
		}

		ft, err := tags.ParseField(field.Tag)
		if err != nil {
			return nil, definitionError(t, fmt.Errorf("field %s: %w", field.Name, err))
		}
		role := roleFromTag(ft.Role)
		jsonName, inJSON := tags.JSONName(field.Tag, field.Name)

		if role != RoleBody {
			if field.Anonymous {
				return nil, definitionError(t, fmt.Errorf("field %s: embedded fields cannot be %s fields", field.Name, role))
			}
			if !SupportedParamType(field.Type) {
				return nil, definitionError(t, fmt.Errorf("field %s: unsupported %s field type %s", field.Name, role, field.Type))
			}
		}

		fr := FieldRole{
			Field: field.Name,
			Index: field.Index,
			Role:  role,
			Name:  ft.Name,
			Type:  field.Type,
		}
		if inJSON {
			fr.JSONName = jsonName
		}
		if fr.Name == "" {
			fr.Name = jsonName
			if !inJSON {
				fr.Name = field.Name
			}
		}
		desc.Fields = append(desc.Fields, fr)
	}

	if !found {
		return nil, definitionError(t, fmt.Errorf("missing %s attributes: add a blank field `_ struct{} `%s:\"method=...,path=...\"``", tags.RequestTag, tags.RequestTag))
	}
	return desc, nil
}

func definitionError(t reflect.Type, err error) *Error {
	return Errorf(CodeDefinition, "%s: %w", t, err).WithDetail("type", t.String())
}

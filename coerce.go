package reqforge

import (
	"reflect"
	"strconv"
)

// Valuer is implemented by field types that render their own query and
// header text. Implement it to make a custom type usable as a path, query or
// header field.
type Valuer interface {
	// ParamValue returns the canonical text of the value, or false when the
	// value is absent and the field should be omitted.
	ParamValue() (string, bool)
}

var valuerType = reflect.TypeFor[Valuer]()

// ParamValue returns the canonical text of v for use in a path, query
// parameter or header. Nil pointers and unset Optionals are absent.
// Strings are returned verbatim; integers in base 10; booleans as "true" or
// "false". Any other kind is reported absent.
func ParamValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	return reflectParam(reflect.ValueOf(v))
}

func reflectParam(rv reflect.Value) (string, bool) {
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		if pv, ok := rv.Interface().(Valuer); ok {
			return pv.ParamValue()
		}
		rv = rv.Elem()
	}
	if rv.CanInterface() {
		if pv, ok := rv.Interface().(Valuer); ok {
			return pv.ParamValue()
		}
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	}
	return "", false
}

// PathValue returns the text substituted for a path placeholder.
// An absent value substitutes the empty string.
func PathValue(v any) string {
	s, _ := ParamValue(v)
	return s
}

// SupportedParamType reports whether fields of type t can be path, query or
// header fields: Valuer implementations, the scalar kinds ParamValue
// renders, and pointers to either.
func SupportedParamType(t reflect.Type) bool {
	if t.Implements(valuerType) || reflect.PointerTo(t).Implements(valuerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Pointer:
		return SupportedParamType(t.Elem())
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

package reqforge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// Scalar is the set of types Optional can wrap.
type Scalar interface {
	~string | ~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Optional is a scalar that may be absent. An absent Optional contributes
// nothing to query parameters and headers and marshals to JSON null.
// The zero value is absent.
type Optional[T Scalar] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T Scalar](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional.
func None[T Scalar]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// IsZero reports whether the value is absent, for the omitzero JSON option.
func (o Optional[T]) IsZero() bool {
	return !o.set
}

// ParamValue implements Valuer.
func (o Optional[T]) ParamValue() (string, bool) {
	if !o.set {
		return "", false
	}
	return reflectParam(reflect.ValueOf(o.value))
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// UnmarshalText parses the canonical text form produced by ParamValue.
func (o *Optional[T]) UnmarshalText(text []byte) error {
	var v T
	rv := reflect.ValueOf(&v).Elem()
	s := string(text)
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, rv.Type().Bits())
		if err != nil {
			return err
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, rv.Type().Bits())
		if err != nil {
			return err
		}
		rv.SetUint(n)
	default:
		return fmt.Errorf("unsupported optional kind %s", rv.Kind())
	}
	*o = Some(v)
	return nil
}

func (Optional[T]) elemKind() reflect.Kind {
	return reflect.TypeFor[T]().Kind()
}

func (o Optional[T]) String() string {
	if s, ok := o.ParamValue(); ok {
		return s
	}
	return "<none>"
}

package scene

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnknownProperty = errors.New("unknown property")
	ErrPropertyType    = errors.New("property type mismatch")
)

// Copier is implemented by mutable values that must keep their identity when
// a property is set: the new value is copied into the existing one.
type Copier interface {
	CopyFrom(src any) error
}

// Cloner is implemented by reference-typed property values so commands can
// keep an independent snapshot of the old value.
type Cloner interface {
	CloneValue() any
}

// field resolves a dotted path of exported struct fields, following
// pointers. Embedded Object fields are promoted, so "Position" works on every
// kind.
func field(n Node, path string) (reflect.Value, error) {
	if path == "" {
		return reflect.Value{}, errors.Wrap(ErrUnknownProperty, "empty path")
	}
	v := reflect.ValueOf(n)
	for _, name := range strings.Split(path, ".") {
		for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
			if v.IsNil() {
				return reflect.Value{}, errors.Wrapf(ErrUnknownProperty, "%q: nil value before %q", path, name)
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, errors.Wrapf(ErrUnknownProperty, "%q: %v has no fields", path, v.Type())
		}
		f := v.FieldByName(name)
		if !f.IsValid() || !f.CanSet() {
			return reflect.Value{}, errors.Wrapf(ErrUnknownProperty, "%q on %v", path, n.Kind().Name)
		}
		v = f
	}
	return v, nil
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// convert turns value into something assignable to t.
func convert(t reflect.Type, value any) (reflect.Value, error) {
	if value == nil {
		if nillable(t.Kind()) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, errors.Wrapf(ErrPropertyType, "nil for %v", t)
	}
	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if isNumber(rv.Kind()) && isNumber(t.Kind()) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, errors.Wrapf(ErrPropertyType, "%T for %v", value, t)
}

// GetProperty returns the current value at path.
func GetProperty(n Node, path string) (any, error) {
	f, err := field(n, path)
	if err != nil {
		return nil, err
	}
	return f.Interface(), nil
}

// SnapshotProperty returns a copy of the value at path that later edits of
// the node cannot reach.
func SnapshotProperty(n Node, path string) (any, error) {
	v, err := GetProperty(n, path)
	if err != nil {
		return nil, err
	}
	if c, ok := v.(Cloner); ok {
		if rv := reflect.ValueOf(v); !nillable(rv.Kind()) || !rv.IsNil() {
			return c.CloneValue(), nil
		}
	}
	return v, nil
}

// CheckProperty validates that value can be stored at path.
func CheckProperty(n Node, path string, value any) error {
	f, err := field(n, path)
	if err != nil {
		return err
	}
	_, err = convert(f.Type(), value)
	return err
}

// SetProperty stores value at path. A non-nil current value implementing
// Copier receives the new value in place.
func SetProperty(n Node, path string, value any) error {
	f, err := field(n, path)
	if err != nil {
		return err
	}
	rv, err := convert(f.Type(), value)
	if err != nil {
		return err
	}
	if !(nillable(f.Kind()) && f.IsNil()) && value != nil {
		if c, ok := f.Interface().(Copier); ok {
			return c.CopyFrom(rv.Interface())
		}
	}
	f.Set(rv)
	return nil
}

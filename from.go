package treejson

import (
	"encoding"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// ErrCycle is returned by [From] when a pointer, map, or slice refers back
// to one of its own ancestors.
var ErrCycle = errors.New("cycle detected")

var (
	valueType         = reflect.TypeFor[Value]()
	objectType        = reflect.TypeFor[Object]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// From converts a Go value into a [Value] graph.
//
// Strings, numbers and booleans become scalars; slices and arrays become
// lists; structs become objects with their exported fields in declaration
// order; maps become objects with their keys sorted. Nil pointers, maps,
// slices and interfaces become [Null]. Values that already implement [Value]
// are used as-is, as is an [Object] passed by value. Types that implement
// [encoding.TextMarshaler] are converted to a [String]. Byte slices are
// base64 encoded.
//
// Struct fields are named by a `treejson:"name"` tag, then a `json:"name"` tag,
// and finally the field name. The tag options "-" and "omitempty" behave as
// they do in encoding/json.
//
// Channels, functions and complex numbers have no representation and cause
// From to return an error wrapping [ErrUnsupportedValueKind].
func From(v any) (Value, error) {
	c := converter{seen: map[any]bool{}}
	return c.value(reflect.ValueOf(v), "")
}

type converter struct {
	seen map[any]bool
}

func (c *converter) value(val reflect.Value, path string) (Value, error) {
	if !val.IsValid() {
		return Null{}, nil
	}

	if (val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface) && val.IsNil() {
		return Null{}, nil
	}

	if val.Type().Implements(valueType) {
		return val.Interface().(Value), nil
	}

	// Object implements Value on its pointer
	if val.Type() == objectType {
		if val.CanAddr() {
			return val.Addr().Interface().(Value), nil
		}
		p := reflect.New(objectType)
		p.Elem().Set(val)
		return p.Interface().(Value), nil
	}

	if val.Type().Implements(textMarshalerType) {
		text, err := val.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", displayPath(path), err)
		}
		return String(text), nil
	}

	switch val.Kind() {
	case reflect.Pointer, reflect.Interface:
		if val.Kind() == reflect.Interface {
			return c.value(val.Elem(), path)
		}
		return c.visit(val, path, func() (Value, error) {
			return c.value(val.Elem(), path)
		})

	case reflect.String:
		return String(val.String()), nil

	case reflect.Bool:
		return Boolean(val.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(val.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := val.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%s: %d overflows Integer", displayPath(path), u)
		}
		return Integer(u), nil

	case reflect.Float32, reflect.Float64:
		return Float(val.Float()), nil

	case reflect.Slice:
		if val.IsNil() {
			return Null{}, nil
		}
		if val.Type().Elem().Kind() == reflect.Uint8 {
			return String(base64.StdEncoding.EncodeToString(val.Bytes())), nil
		}
		return c.visit(val, path, func() (Value, error) {
			return c.list(val, path)
		})

	case reflect.Array:
		return c.list(val, path)

	case reflect.Map:
		if val.IsNil() {
			return Null{}, nil
		}
		return c.visit(val, path, func() (Value, error) {
			return c.object(val, path)
		})

	case reflect.Struct:
		return c.structObject(val, path)
	}

	return nil, fmt.Errorf("%s: %w %s", displayPath(path), ErrUnsupportedValueKind, val.Type())
}

// visit guards against reference cycles while fn converts val.
func (c *converter) visit(val reflect.Value, path string, fn func() (Value, error)) (Value, error) {
	var key any = val.Pointer()
	if val.Kind() == reflect.Slice {
		key = struct {
			ptr uintptr
			len int
		}{val.Pointer(), val.Len()}
	}
	if c.seen[key] {
		return nil, fmt.Errorf("%s: %w", displayPath(path), ErrCycle)
	}
	c.seen[key] = true
	defer delete(c.seen, key)
	return fn()
}

func (c *converter) list(val reflect.Value, path string) (Value, error) {
	list := make(List, 0, val.Len())
	for i := range val.Len() {
		v, err := c.value(val.Index(i), path+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, nil
}

func (c *converter) object(val reflect.Value, path string) (Value, error) {
	type entry struct {
		key   string
		value reflect.Value
	}
	entries := make([]entry, 0, val.Len())
	for iter := val.MapRange(); iter.Next(); {
		key, err := mapKey(iter.Key())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", displayPath(path), err)
		}
		entries = append(entries, entry{key, iter.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return strings.Compare(a.key, b.key)
	})

	obj := &Object{}
	for _, e := range entries {
		v, err := c.value(e.value, joinPath(path, e.key))
		if err != nil {
			return nil, err
		}
		obj.Set(e.key, v)
	}
	return obj, nil
}

func mapKey(key reflect.Value) (string, error) {
	if m, ok := key.Interface().(encoding.TextMarshaler); ok {
		text, err := m.MarshalText()
		if err != nil {
			return "", err
		}
		return string(text), nil
	}
	switch key.Kind() {
	case reflect.String:
		return key.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(key.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(key.Uint(), 10), nil
	}
	return "", fmt.Errorf("unsupported map key type: %s", key.Type())
}

func (c *converter) structObject(val reflect.Value, path string) (Value, error) {
	obj := &Object{}
	t := val.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, ok := field.Tag.Lookup("treejson")
		if !ok {
			tag, _ = field.Tag.Lookup("json")
		}
		if tag == "-" {
			continue
		}
		name, options, _ := strings.Cut(tag, ",")
		if name == "" {
			name = field.Name
		}
		fv := val.Field(i)
		if slices.Contains(strings.Split(options, ","), "omitempty") && isEmpty(fv) {
			continue
		}
		v, err := c.value(fv, joinPath(path, name))
		if err != nil {
			return nil, err
		}
		obj.Set(name, v)
	}
	return obj, nil
}

// isEmpty follows encoding/json's definition of an empty value for omitempty.
func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return v.IsZero()
}

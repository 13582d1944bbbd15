// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package facade

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// Kind records which capabilities a proxy forwards.
type Kind int

const (
	KindStructured Kind = iota + 1
	KindCallable
	KindBoth
)

func (k Kind) String() string {
	switch k {
	case KindStructured:
		return "structured"
	case KindCallable:
		return "callable"
	case KindBoth:
		return "structured+callable"
	default:
		return "unknown"
	}
}

// Structured reports whether field reads are forwarded.
func (k Kind) Structured() bool { return k == KindStructured || k == KindBoth }

// Callable reports whether invocation is forwarded.
func (k Kind) Callable() bool { return k == KindCallable || k == KindBoth }

// Structured is implemented by API values that serve named fields themselves.
type Structured interface {
	Field(name string) (any, bool)
}

// Callable is implemented by API values that can be invoked.
type Callable interface {
	Call(args ...any) (any, error)
}

type fieldsFunc func(name string) (any, bool)

type invokeFunc func(args ...any) (any, error)

// fieldTag is the struct tag that renames a Go field as seen through a proxy.
const fieldTag = "api"

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// fieldsOf returns a read-through field accessor, or nil if value has no fields.
func fieldsOf(value any) fieldsFunc {
	switch v := value.(type) {
	case nil:
		return nil
	case Structured:
		return v.Field
	case map[string]any:
		return func(name string) (any, bool) {
			f, ok := v[name]
			return f, ok
		}
	case cty.Value:
		return ctyFields(v)
	}

	rv := reflect.ValueOf(value)
	target := rv
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		target = rv.Elem()
	}
	switch target.Kind() {
	case reflect.Map:
		return mapFields(target)
	case reflect.Struct:
	default:
		return nil
	}
	return func(name string) (any, bool) {
		for _, f := range reflect.VisibleFields(target.Type()) {
			if f.Anonymous || !f.IsExported() {
				continue
			}
			if f.Name == name || f.Tag.Get(fieldTag) == name {
				// A nil embedded pointer leaves the field unreachable.
				fv, err := target.FieldByIndexErr(f.Index)
				if err != nil {
					return nil, false
				}
				return fv.Interface(), true
			}
		}
		if m := rv.MethodByName(name); m.IsValid() {
			return m.Interface(), true
		}
		return nil, false
	}
}

// mapFields serves any map keyed by a string kind.
func mapFields(m reflect.Value) fieldsFunc {
	keyType := m.Type().Key()
	if keyType.Kind() != reflect.String {
		return nil
	}
	return func(name string) (any, bool) {
		v := m.MapIndex(reflect.ValueOf(name).Convert(keyType))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	}
}

func ctyFields(v cty.Value) fieldsFunc {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty.IsObjectType():
		return func(name string) (any, bool) {
			if !ty.HasAttribute(name) {
				return nil, false
			}
			return v.GetAttr(name), true
		}
	case ty.IsMapType():
		return func(name string) (any, bool) {
			key := cty.StringVal(name)
			if has := v.HasIndex(key); !has.IsKnown() || has.False() {
				return nil, false
			}
			return v.Index(key), true
		}
	default:
		return nil
	}
}

// invokerOf returns a forwarding invoker, or nil if value cannot be called.
func invokerOf(value any) invokeFunc {
	switch v := value.(type) {
	case nil:
		return nil
	case Callable:
		return v.Call
	case func(...any) (any, error):
		return v
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil
	}
	return reflectInvoker(rv)
}

// reflectInvoker adapts an arbitrary Go func. A trailing error result becomes
// the returned error; a single remaining result is returned as is and several
// are returned as []any.
func reflectInvoker(fn reflect.Value) invokeFunc {
	ft := fn.Type()
	return func(args ...any) (any, error) {
		in, err := callArgs(ft, args)
		if err != nil {
			return nil, err
		}
		out := fn.Call(in)

		var callErr error
		if n := len(out); n > 0 && ft.Out(n-1) == errorType {
			if e := out[n-1]; !e.IsNil() {
				callErr = e.Interface().(error) //nolint:forcetypeassert // checked against errorType
			}
			out = out[:n-1]
		}

		switch len(out) {
		case 0:
			return nil, callErr
		case 1:
			return out[0].Interface(), callErr
		default:
			results := make([]any, len(out))
			for i, o := range out {
				results[i] = o.Interface()
			}
			return results, callErr
		}
	}
}

func callArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	n := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < n-1 {
			return nil, fmt.Errorf("%w: want at least %d, got %d", ErrBadArguments, n-1, len(args))
		}
	} else if len(args) != n {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrBadArguments, n, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var pt reflect.Type
		if ft.IsVariadic() && i >= n-1 {
			pt = ft.In(n - 1).Elem()
		} else {
			pt = ft.In(i)
		}
		if a == nil {
			in[i] = reflect.Zero(pt)
			continue
		}
		av := reflect.ValueOf(a)
		if !av.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("%w: argument %d: cannot use %s as %s", ErrBadArguments, i, av.Type(), pt)
		}
		in[i] = av
	}
	return in, nil
}

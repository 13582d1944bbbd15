// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package facade

import (
	"errors"
	"fmt"
)

var (
	// ErrNotWrappable is returned by Build for values that are neither
	// structured nor callable.
	ErrNotWrappable = errors.New("value is neither structured nor callable")
	// ErrNotStructured is returned when reading a field of a callable-only proxy.
	ErrNotStructured = errors.New("api has no fields")
	// ErrNotCallable is returned when invoking a structured-only proxy.
	ErrNotCallable = errors.New("api is not callable")
	// ErrNoResolver is returned by V on proxies and bundles built without a resolver.
	ErrNoResolver = errors.New("no version resolver attached")
	// ErrBadArguments is returned when call arguments do not fit the wrapped func.
	ErrBadArguments = errors.New("bad call arguments")
)

// UnknownVersionError reports a version that is not registered under any
// representation.
type UnknownVersionError struct {
	Product string
	// Version is the representation the caller supplied, e.g. "9.9.9" or "2".
	Version string
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("invalid %s version %q", e.Product, e.Version)
}

// NameNotFoundError reports an API name that has no proxy at a known version.
type NameNotFoundError struct {
	Product string
	Name    string
	Version string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("%s %q (%s) was not found", e.Product, e.Name, e.Version)
}

// FieldNotFoundError reports a field read that the underlying value could not serve.
type FieldNotFoundError struct {
	API   string
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("api %q has no field %q", e.API, e.Field)
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package facade wraps resolved API values into version-pinned proxies and
// groups them into immutable bundles.
//
// # Why proxies?
//
// Plugin code never holds a raw API value. It holds a Proxy, which knows the
// API name and the version it was resolved at, forwards field reads and calls
// to the underlying value, and can hop to the same API at another version
// through V.
//
// The shape of the underlying value is decided once, when the proxy is built,
// and recorded as a Kind:
//
//   - KindStructured: the value exposes named fields (Structured, map[string]any,
//     cty object or map values, Go structs).
//   - KindCallable: the value can be invoked (Callable, any Go func).
//   - KindBoth: the value supports both.
//
// Anything else, such as a bare string or number, cannot be wrapped.
//
// # Errors
//
// Version and name lookups never panic. They return *UnknownVersionError or
// *NameNotFoundError, whose messages are part of the public surface seen by
// plugin authors.
package facade

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package version parses dotted numeric API versions and converts them into
// the keys and path segments used by the rest of the resolver.
//
// A version is written as `major`, `major.minor` or `major.minor.patch`. The
// parser keeps missing components absent (see Partial) so that each call site
// decides how to default them. Once defaulted, a Triple is always fully
// qualified.
//
// Every version representation the registry understands (canonical string,
// numeric code, bare major, major.minor) is normalized here into a single
// string key type. The numeric code packs each component into two decimal
// digits (`MMmmpp`), which only holds while every component is at most 99;
// Triple.Validate reports anything larger instead of letting codes collide.
package version

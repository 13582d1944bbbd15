// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package registry provides the compatibility registry that answers version
// queries, and the assembler that fills it at startup.
//
// The Registry maps every textual and numeric representation of a registered
// version (canonical "major.minor.patch", numeric code, bare major,
// "major.minor") to the Bundle produced for that version. Several keys point
// at the same Bundle. Registering a later version only adds or overwrites
// keys, so an earlier exact version stays addressable after a newer one on
// the same line takes over its major and minor keys.
//
// The latest pointer follows declaration order, not numeric order: declaring
// "2.0.0" and then "1.0.0" makes 1.0.0 the latest bundle.
//
// Initialize is the only way to obtain a populated Registry. It runs once,
// sequentially, and the returned value exposes no mutators, so any number of
// goroutines may query it afterwards without locking.
package registry

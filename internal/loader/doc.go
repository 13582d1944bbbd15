// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package loader resolves one API name at one version by probing
// progressively less specific module paths on a Source.
//
// # The fallback ladder
//
// For a name and a requested version the Loader tries, in order:
//
//  1. <namespace>.<MM>.<mm>.<pp>.<name>  (only if minor and patch were given)
//  2. <namespace>.<MM>.<mm>.<name>       (only if minor was given, patch reported as 0)
//  3. <namespace>.<MM>.<name>            (minor and patch reported as 0)
//  4. the latest bundle's proxy for name, if a latest bundle exists
//  5. <namespace>.<name>                 (unversioned)
//
// Components are zero-padded to two digits. The first rung that yields a
// wrappable value wins; when every rung fails the result carries no proxy,
// which is not an error.
//
// # Probe outcomes
//
// A Source reports a missing module with ErrModuleNotFound. That outcome is
// ProbeAbsent and is ordinary control flow. Any other error is ProbeError: it
// is logged at warn level and the ladder still moves on to the next rung.
package loader

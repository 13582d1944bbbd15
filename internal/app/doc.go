// Package app wires the resolver together. It builds the logger, loads the
// configuration, installs compiled-in and configuration-declared modules into
// a catalog, initializes the version registry, and exposes it through the
// describe output and the introspection HTTP server. It is decoupled from any
// specific entrypoint like the CLI.
package app

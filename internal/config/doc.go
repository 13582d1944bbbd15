// Package config defines the format-agnostic configuration model of the
// resolver, along with the Loader interface for reading it from disk.
//
// The `config.Model` holds the static declaration consumed once at startup:
// the product identity, the module namespace, the ordered list of versions to
// register, the API names to resolve at each version, and any static modules
// declared inline. Concrete loaders, such as for HCL, live in separate packages.
package config

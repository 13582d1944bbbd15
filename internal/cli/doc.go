// Package cli builds the cobra command tree for verapi: describe, resolve and
// serve. Global flags fall back to VERAPI_* environment variables. Usage
// mistakes surface as *ExitError with code 2; everything else exits 1.
package cli

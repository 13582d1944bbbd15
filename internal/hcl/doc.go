// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It parses resolver declarations, merges them across files and
// translates inline `module` blocks into cty values served as static APIs.
//
// A minimal declaration:
//
//	product     = "edge"
//	sdk_version = "0.4.0"
//	namespace   = "edge.api"
//	versions    = ["1.0.0", "1.0.1", "2.0.0"]
//	apis        = ["cache", "log", "features"]
//
//	module "features" {
//	  version    = "1"
//	  type       = map(string)
//	  attributes = { region = "eu" }
//	}
//
// Top-level attributes may be split across files but each may only be set
// once. Module blocks accumulate.
package hcl

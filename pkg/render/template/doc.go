// Package template defines the engine-agnostic renderer contract that writes
// templates into output sinks. The gotemplate subpackage provides a
// pongo2-backed implementation.
package template

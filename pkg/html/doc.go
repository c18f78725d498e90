// Package html classifies rendered fragments by escaping disposition and
// writes them into context-aware HTML sinks.
//
// A generated renderer knows statically where each fragment lands: plain
// text, a tag body or a tag attribute value. TemplateOutput exposes one
// operation per landing zone, and Content variants (Unescaped, Escaped,
// Sanitized) pick how their payload is written into each one. The choice is
// made per fragment, so an unescaped fragment never disables escaping for
// the fragments around it.
package html

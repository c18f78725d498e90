package template

import (
	"github.com/goliatone/go-tplout/pkg/output"
)

// TemplateRenderer is the seam between a template engine and the output
// sinks. RenderTo streams into any sink; Render and RenderString return a
// materialized copy of the rendered bytes.
type TemplateRenderer interface {
	RenderTo(name string, data any, out output.TemplateOutput) error
	Render(name string, data any) ([]byte, error)
	RenderString(templateContent string, data any) ([]byte, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

package html

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-tplout/pkg/output"
)

// TemplateOutput is an output.TemplateOutput that also receives the markup
// context a fragment lands in.
type TemplateOutput interface {
	output.TemplateOutput
	WriteTagBodyUserContent(value, tagName string) error
	WriteTagAttributeUserContent(value, tagName, attributeName string) error
}

// Option configures an Output.
type Option func(*config)

type config struct {
	policy Policy
	logger zerolog.Logger
}

// WithPolicy sets the escaping policy Escaped content uses with this sink.
func WithPolicy(policy Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithLogger traces context writes at trace level.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// Output adapts any output.TemplateOutput into an HTML-aware sink. Context
// writes receive content that its Content variant already classified, so
// they are written through unchanged.
type Output struct {
	out    output.TemplateOutput
	policy Policy
	logger zerolog.Logger
}

var (
	_ TemplateOutput = (*Output)(nil)
	_ PolicyProvider = (*Output)(nil)
)

// NewOutput wraps out.
func NewOutput(out output.TemplateOutput, options ...Option) *Output {
	cfg := &config{
		policy: DefaultPolicy,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return &Output{
		out:    out,
		policy: cfg.policy,
		logger: cfg.logger,
	}
}

// Unwrap returns the wrapped sink.
func (o *Output) Unwrap() output.TemplateOutput {
	return o.out
}

// EscapePolicy implements PolicyProvider.
func (o *Output) EscapePolicy() Policy {
	return o.policy
}

func (o *Output) WriteContent(value string) error {
	return o.out.WriteContent(value)
}

func (o *Output) WriteBinaryContent(value []byte) error {
	return o.out.WriteBinaryContent(value)
}

func (o *Output) WriteTagBodyUserContent(value, tagName string) error {
	o.logger.Trace().Str("tag", tagName).Int("bytes", len(value)).Msg("tag body content")
	return o.out.WriteContent(value)
}

func (o *Output) WriteTagAttributeUserContent(value, tagName, attributeName string) error {
	o.logger.Trace().
		Str("tag", tagName).
		Str("attribute", attributeName).
		Int("bytes", len(value)).
		Msg("tag attribute content")
	return o.out.WriteContent(value)
}

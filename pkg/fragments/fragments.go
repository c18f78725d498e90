// Package fragments loads YAML descriptions of content fragments and writes
// them through the html content variants. It drives the classifier end to
// end without a template compiler in front of it.
package fragments

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tplout/pkg/html"
)

// Landing zones a fragment can be written into.
const (
	ContextPlain     = "plain"
	ContextBody      = "body"
	ContextAttribute = "attribute"
)

// Escaping modes.
const (
	ModeRaw       = "raw"
	ModeEscaped   = "escaped"
	ModeSanitized = "sanitized"
)

// ErrInvalidFragment is wrapped by validation failures.
var ErrInvalidFragment = errors.New("fragments: invalid fragment")

// Fragment is one piece of content and where it lands.
type Fragment struct {
	Context   string `yaml:"context"`
	Tag       string `yaml:"tag,omitempty"`
	Attribute string `yaml:"attribute,omitempty"`
	Mode      string `yaml:"mode"`
	Value     string `yaml:"value"`
}

// Document is an ordered list of fragments.
type Document struct {
	Capacity  int        `yaml:"capacity,omitempty"`
	Fragments []Fragment `yaml:"fragments"`
}

// Load decodes and validates a document. Missing context and mode default to
// plain and escaped.
func Load(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, nil
		}
		return Document{}, fmt.Errorf("fragments: decode: %w", err)
	}
	for i := range doc.Fragments {
		doc.Fragments[i].normalize()
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (f *Fragment) normalize() {
	f.Context = strings.ToLower(strings.TrimSpace(f.Context))
	f.Mode = strings.ToLower(strings.TrimSpace(f.Mode))
	f.Tag = strings.TrimSpace(f.Tag)
	f.Attribute = strings.TrimSpace(f.Attribute)
	if f.Context == "" {
		f.Context = ContextPlain
	}
	if f.Mode == "" {
		f.Mode = ModeEscaped
	}
}

// Validate reports the first fragment whose context, mode or names are
// inconsistent.
func (d Document) Validate() error {
	if d.Capacity < 0 {
		return fmt.Errorf("%w: capacity %d is negative", ErrInvalidFragment, d.Capacity)
	}
	for i, f := range d.Fragments {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("fragment %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks a single fragment.
func (f Fragment) Validate() error {
	switch f.Mode {
	case ModeRaw, ModeEscaped, ModeSanitized:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidFragment, f.Mode)
	}

	switch f.Context {
	case ContextPlain:
	case ContextBody:
		if f.Tag == "" {
			return fmt.Errorf("%w: body content needs a tag", ErrInvalidFragment)
		}
	case ContextAttribute:
		if f.Tag == "" || f.Attribute == "" {
			return fmt.Errorf("%w: attribute content needs a tag and an attribute", ErrInvalidFragment)
		}
	default:
		return fmt.Errorf("%w: unknown context %q", ErrInvalidFragment, f.Context)
	}
	return nil
}

// Content returns the html content variant for the fragment's mode.
func (f Fragment) Content() html.Content {
	switch f.Mode {
	case ModeRaw:
		return html.Unescaped(f.Value)
	case ModeSanitized:
		return html.Sanitized(f.Value, nil)
	default:
		return html.Escaped(f.Value)
	}
}

// Render writes the fragment into its landing zone.
func (f Fragment) Render(out html.TemplateOutput) error {
	content := f.Content()
	switch f.Context {
	case ContextBody:
		return content.WriteTagBodyUserContent(out, f.Tag)
	case ContextAttribute:
		return content.WriteTagAttributeUserContent(out, f.Tag, f.Attribute)
	default:
		return content.WriteContent(out)
	}
}

// Render writes every fragment in order and stops at the first error.
func (d Document) Render(out html.TemplateOutput) error {
	for i, f := range d.Fragments {
		if err := f.Render(out); err != nil {
			return fmt.Errorf("fragments: write fragment %d: %w", i, err)
		}
	}
	return nil
}

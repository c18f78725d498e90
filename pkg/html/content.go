package html

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Content is a rendered fragment that knows how to write itself into each
// HTML landing zone.
type Content interface {
	WriteContent(out TemplateOutput) error
	WriteTagBodyUserContent(out TemplateOutput, tagName string) error
	WriteTagAttributeUserContent(out TemplateOutput, tagName, attributeName string) error
}

// Unescaped wraps value as known-safe content. Every operation hands the
// exact value to the sink; tag and attribute names are passed through.
func Unescaped(value string) Content {
	return unescaped(value)
}

type unescaped string

func (c unescaped) WriteContent(out TemplateOutput) error {
	return out.WriteContent(string(c))
}

func (c unescaped) WriteTagBodyUserContent(out TemplateOutput, tagName string) error {
	return out.WriteTagBodyUserContent(string(c), tagName)
}

func (c unescaped) WriteTagAttributeUserContent(out TemplateOutput, tagName, attributeName string) error {
	return out.WriteTagAttributeUserContent(string(c), tagName, attributeName)
}

// Escaped wraps untrusted value. It is escaped with the sink's policy when the
// sink implements PolicyProvider, and with DefaultPolicy otherwise.
func Escaped(value string) Content {
	return escaped(value)
}

type escaped string

func (c escaped) WriteContent(out TemplateOutput) error {
	return out.WriteContent(policyFor(out).EscapeContent(string(c)))
}

func (c escaped) WriteTagBodyUserContent(out TemplateOutput, tagName string) error {
	return out.WriteTagBodyUserContent(policyFor(out).EscapeTagBody(string(c), tagName), tagName)
}

func (c escaped) WriteTagAttributeUserContent(out TemplateOutput, tagName, attributeName string) error {
	value := policyFor(out).EscapeTagAttribute(string(c), tagName, attributeName)
	return out.WriteTagAttributeUserContent(value, tagName, attributeName)
}

// Sanitized wraps user-supplied markup. The markup is cleaned with policy
// (bluemonday.UGCPolicy when nil) and the result is written unescaped.
func Sanitized(value string, policy *bluemonday.Policy) Content {
	return unescaped(SanitizeMarkup(value, policy))
}

// SanitizeMarkup cleans value with policy, or bluemonday.UGCPolicy when nil.
func SanitizeMarkup(value string, policy *bluemonday.Policy) string {
	if policy == nil {
		policy = ugcPolicy()
	}
	return strings.TrimSpace(policy.Sanitize(value))
}

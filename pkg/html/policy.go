package html

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Policy decides how untrusted text is escaped for each landing zone.
type Policy interface {
	EscapeContent(value string) string
	EscapeTagBody(value, tagName string) string
	EscapeTagAttribute(value, tagName, attributeName string) string
}

// PolicyProvider is implemented by sinks that carry their own escaping policy.
type PolicyProvider interface {
	EscapePolicy() Policy
}

// DefaultPolicy escapes the characters that can end a text run or a quoted
// attribute value, in every landing zone.
var DefaultPolicy Policy = escapePolicy{}

type escapePolicy struct{}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func (escapePolicy) EscapeContent(value string) string {
	return htmlReplacer.Replace(value)
}

func (escapePolicy) EscapeTagBody(value, _ string) string {
	return htmlReplacer.Replace(value)
}

func (escapePolicy) EscapeTagAttribute(value, _, _ string) string {
	return htmlReplacer.Replace(value)
}

func policyFor(out TemplateOutput) Policy {
	if provider, ok := out.(PolicyProvider); ok {
		if policy := provider.EscapePolicy(); policy != nil {
			return policy
		}
	}
	return DefaultPolicy
}

var (
	ugcPolicyOnce sync.Once
	ugcSanitizer  *bluemonday.Policy
)

func ugcPolicy() *bluemonday.Policy {
	ugcPolicyOnce.Do(func() {
		ugcSanitizer = bluemonday.UGCPolicy()
	})
	return ugcSanitizer
}

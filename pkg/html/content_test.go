package html_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-tplout/pkg/html"
	"github.com/goliatone/go-tplout/pkg/output"
	"github.com/goliatone/go-tplout/pkg/testsupport"
)

func TestUnescaped_WritesValueVerbatimInEveryContext(t *testing.T) {
	const raw = "  <b>raw</b> & \"quoted\"\n"
	content := html.Unescaped(raw)
	sink := &testsupport.RecordingOutput{}

	if err := content.WriteContent(sink); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if err := content.WriteTagBodyUserContent(sink, "p"); err != nil {
		t.Fatalf("write tag body: %v", err)
	}
	if err := content.WriteTagAttributeUserContent(sink, "div", "title"); err != nil {
		t.Fatalf("write tag attribute: %v", err)
	}

	want := []testsupport.Call{
		{Kind: testsupport.CallContent, Value: raw},
		{Kind: testsupport.CallTagBody, Value: raw, Tag: "p"},
		{Kind: testsupport.CallTagAttribute, Value: raw, Tag: "div", Attribute: "title"},
	}
	if diff := cmp.Diff(want, sink.Calls); diff != "" {
		t.Fatalf("recorded calls mismatch (-want +got):\n%s", diff)
	}
}

func TestUnescaped_TagAttributePassesNamesThrough(t *testing.T) {
	sink := &testsupport.RecordingOutput{}
	if err := html.Unescaped("<b>raw</b>").WriteTagAttributeUserContent(sink, "div", "title"); err != nil {
		t.Fatalf("write tag attribute: %v", err)
	}

	want := []testsupport.Call{{
		Kind:      testsupport.CallTagAttribute,
		Value:     "<b>raw</b>",
		Tag:       "div",
		Attribute: "title",
	}}
	if diff := cmp.Diff(want, sink.Calls); diff != "" {
		t.Fatalf("recorded calls mismatch (-want +got):\n%s", diff)
	}
}

func TestUnescaped_IgnoresSinkPolicy(t *testing.T) {
	sink := &testsupport.PolicyRecordingOutput{}
	sink.Policy = html.DefaultPolicy

	if err := html.Unescaped("<i>").WriteTagBodyUserContent(sink, "span"); err != nil {
		t.Fatalf("write tag body: %v", err)
	}
	if got := sink.Calls[0].Value; got != "<i>" {
		t.Fatalf("expected raw value, got %q", got)
	}
}

func TestContent_PropagatesSinkErrors(t *testing.T) {
	failure := errors.New("broken pipe")
	variants := map[string]html.Content{
		"unescaped": html.Unescaped("a"),
		"escaped":   html.Escaped("a"),
		"sanitized": html.Sanitized("a", nil),
	}

	for name, content := range variants {
		t.Run(name, func(t *testing.T) {
			sink := &testsupport.RecordingOutput{Err: failure}
			if err := content.WriteContent(sink); !errors.Is(err, failure) {
				t.Fatalf("WriteContent: expected %v, got %v", failure, err)
			}
			if err := content.WriteTagBodyUserContent(sink, "p"); !errors.Is(err, failure) {
				t.Fatalf("WriteTagBodyUserContent: expected %v, got %v", failure, err)
			}
			if err := content.WriteTagAttributeUserContent(sink, "a", "href"); !errors.Is(err, failure) {
				t.Fatalf("WriteTagAttributeUserContent: expected %v, got %v", failure, err)
			}
		})
	}
}

func TestEscaped_UsesDefaultPolicy(t *testing.T) {
	sink := &testsupport.RecordingOutput{}
	content := html.Escaped(`<a href="x">Tom & 'Jerry'</a>`)

	if err := content.WriteTagBodyUserContent(sink, "p"); err != nil {
		t.Fatalf("write tag body: %v", err)
	}

	want := "&lt;a href=&quot;x&quot;&gt;Tom &amp; &#39;Jerry&#39;&lt;/a&gt;"
	if got := sink.Calls[0].Value; got != want {
		t.Fatalf("escaped value mismatch\nwant: %q\n got: %q", want, got)
	}
	if sink.Calls[0].Tag != "p" {
		t.Fatalf("expected tag p, got %q", sink.Calls[0].Tag)
	}
}

func TestEscaped_UsesSinkPolicy(t *testing.T) {
	sink := &testsupport.PolicyRecordingOutput{}
	sink.Policy = prefixPolicy{}

	content := html.Escaped("value")
	_ = content.WriteContent(sink)
	_ = content.WriteTagBodyUserContent(sink, "p")
	_ = content.WriteTagAttributeUserContent(sink, "input", "value")

	want := []testsupport.Call{
		{Kind: testsupport.CallContent, Value: "content:value"},
		{Kind: testsupport.CallTagBody, Value: "p:value", Tag: "p"},
		{Kind: testsupport.CallTagAttribute, Value: "input.value:value", Tag: "input", Attribute: "value"},
	}
	if diff := cmp.Diff(want, sink.Calls); diff != "" {
		t.Fatalf("recorded calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitized_StripsUnsafeMarkup(t *testing.T) {
	sink := &testsupport.RecordingOutput{}
	content := html.Sanitized(`<b>bold</b><script>alert(1)</script>`, nil)

	if err := content.WriteTagBodyUserContent(sink, "div"); err != nil {
		t.Fatalf("write tag body: %v", err)
	}
	if got := sink.Calls[0].Value; got != "<b>bold</b>" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
}

func TestSanitized_CustomPolicy(t *testing.T) {
	sink := &testsupport.RecordingOutput{}
	content := html.Sanitized(`<b>bold</b> text`, bluemonday.StrictPolicy())

	if err := content.WriteContent(sink); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if got := sink.Calls[0].Value; got != "bold text" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
}

func TestContent_EscapingIsPerFragment(t *testing.T) {
	acc := output.NewByteArrayOutput()
	out := html.NewOutput(acc)

	fragments := []html.Content{
		html.Escaped("<i>"),
		html.Unescaped("<b>"),
		html.Escaped("<i>"),
	}
	for _, fragment := range fragments {
		if err := fragment.WriteTagBodyUserContent(out, "p"); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	if got, want := acc.String(), "&lt;i&gt;<b>&lt;i&gt;"; got != want {
		t.Fatalf("unexpected output\nwant: %q\n got: %q", want, got)
	}
}

type prefixPolicy struct{}

func (prefixPolicy) EscapeContent(value string) string {
	return "content:" + value
}

func (prefixPolicy) EscapeTagBody(value, tagName string) string {
	return tagName + ":" + value
}

func (prefixPolicy) EscapeTagAttribute(value, tagName, attributeName string) string {
	return tagName + "." + attributeName + ":" + value
}

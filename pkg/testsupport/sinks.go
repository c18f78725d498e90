package testsupport

import (
	"github.com/goliatone/go-tplout/pkg/html"
)

// Call kinds recorded by RecordingOutput.
const (
	CallContent       = "content"
	CallBinaryContent = "binary"
	CallTagBody       = "tag-body"
	CallTagAttribute  = "tag-attribute"
)

// Call is one write observed by RecordingOutput.
type Call struct {
	Kind      string
	Value     string
	Tag       string
	Attribute string
}

// RecordingOutput is an html.TemplateOutput that records every call. When Err
// is set, each write is recorded and then fails with Err.
type RecordingOutput struct {
	Calls []Call
	Err   error
}

var _ html.TemplateOutput = (*RecordingOutput)(nil)

func (r *RecordingOutput) WriteContent(value string) error {
	r.Calls = append(r.Calls, Call{Kind: CallContent, Value: value})
	return r.Err
}

func (r *RecordingOutput) WriteBinaryContent(value []byte) error {
	r.Calls = append(r.Calls, Call{Kind: CallBinaryContent, Value: string(value)})
	return r.Err
}

func (r *RecordingOutput) WriteTagBodyUserContent(value, tagName string) error {
	r.Calls = append(r.Calls, Call{Kind: CallTagBody, Value: value, Tag: tagName})
	return r.Err
}

func (r *RecordingOutput) WriteTagAttributeUserContent(value, tagName, attributeName string) error {
	r.Calls = append(r.Calls, Call{Kind: CallTagAttribute, Value: value, Tag: tagName, Attribute: attributeName})
	return r.Err
}

// PolicyRecordingOutput is a RecordingOutput that also provides Policy to
// escaped content.
type PolicyRecordingOutput struct {
	RecordingOutput
	Policy html.Policy
}

func (r *PolicyRecordingOutput) EscapePolicy() html.Policy {
	return r.Policy
}

// FailingWriter is an io.Writer whose writes always fail with Err.
type FailingWriter struct {
	Err error
}

func (w FailingWriter) Write([]byte) (int, error) {
	return 0, w.Err
}

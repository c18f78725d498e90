package output

import (
	"io"
	"strings"
)

// TemplateOutput receives rendered content. Implementations decide where the
// bytes end up; errors from the destination are returned unchanged.
type TemplateOutput interface {
	WriteContent(value string) error
	WriteBinaryContent(value []byte) error
}

// WriterOutput streams content to an io.Writer.
type WriterOutput struct {
	w io.Writer
}

var _ TemplateOutput = (*WriterOutput)(nil)

// NewWriterOutput wraps w.
func NewWriterOutput(w io.Writer) *WriterOutput {
	return &WriterOutput{w: w}
}

// WriteContent writes value to the underlying writer.
func (o *WriterOutput) WriteContent(value string) error {
	if value == "" {
		return nil
	}
	_, err := io.WriteString(o.w, value)
	return err
}

// WriteBinaryContent writes value to the underlying writer.
func (o *WriterOutput) WriteBinaryContent(value []byte) error {
	if len(value) == 0 {
		return nil
	}
	_, err := o.w.Write(value)
	return err
}

// StringOutput collects content into a string.
type StringOutput struct {
	sb strings.Builder
}

var _ TemplateOutput = (*StringOutput)(nil)

func (o *StringOutput) WriteContent(value string) error {
	o.sb.WriteString(value)
	return nil
}

func (o *StringOutput) WriteBinaryContent(value []byte) error {
	o.sb.Write(value)
	return nil
}

// String returns everything written so far.
func (o *StringOutput) String() string {
	return o.sb.String()
}

// AsWriter adapts out to io.Writer so io-based producers can stream into it.
// Sinks that already implement io.Writer are returned as is.
func AsWriter(out TemplateOutput) io.Writer {
	if w, ok := out.(io.Writer); ok {
		return w
	}
	return writerAdapter{out: out}
}

type writerAdapter struct {
	out TemplateOutput
}

func (a writerAdapter) Write(p []byte) (int, error) {
	if err := a.out.WriteBinaryContent(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (a writerAdapter) WriteString(s string) (int, error) {
	if err := a.out.WriteContent(s); err != nil {
		return 0, err
	}
	return len(s), nil
}

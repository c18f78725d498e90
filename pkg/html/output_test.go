package html_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-tplout/pkg/html"
	"github.com/goliatone/go-tplout/pkg/output"
	"github.com/goliatone/go-tplout/pkg/testsupport"
)

func TestOutput_WritesThroughToAccumulator(t *testing.T) {
	acc := output.NewByteArrayOutputSize(4)
	out := html.NewOutput(acc)

	steps := []func() error{
		func() error { return out.WriteContent("<div title=\"") },
		func() error { return html.Escaped(`a"b`).WriteTagAttributeUserContent(out, "div", "title") },
		func() error { return out.WriteBinaryContent([]byte("\">")) },
		func() error { return html.Unescaped("<em>ok</em>").WriteTagBodyUserContent(out, "div") },
		func() error { return out.WriteContent("</div>") },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	want := `<div title="a&quot;b"><em>ok</em></div>`
	if got := acc.String(); got != want {
		t.Fatalf("unexpected output\nwant: %q\n got: %q", want, got)
	}
	if out.Unwrap() != output.TemplateOutput(acc) {
		t.Fatalf("unwrap returned %T", out.Unwrap())
	}
}

func TestOutput_CustomPolicy(t *testing.T) {
	acc := output.NewByteArrayOutput()
	out := html.NewOutput(acc, html.WithPolicy(prefixPolicy{}), nil)

	if err := html.Escaped("x").WriteTagBodyUserContent(out, "td"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if acc.String() != "td:x" {
		t.Fatalf("unexpected output %q", acc.String())
	}

	fallback := html.NewOutput(acc, html.WithPolicy(nil))
	if fallback.EscapePolicy() != html.DefaultPolicy {
		t.Fatalf("nil policy must keep the default")
	}
}

func TestOutput_PropagatesWriterErrors(t *testing.T) {
	failure := errors.New("socket closed")
	out := html.NewOutput(output.NewWriterOutput(testsupport.FailingWriter{Err: failure}))

	if err := html.Unescaped("x").WriteTagBodyUserContent(out, "p"); !errors.Is(err, failure) {
		t.Fatalf("expected %v, got %v", failure, err)
	}
	if err := html.Escaped("x").WriteTagAttributeUserContent(out, "a", "href"); !errors.Is(err, failure) {
		t.Fatalf("expected %v, got %v", failure, err)
	}
	if err := out.WriteBinaryContent([]byte("x")); !errors.Is(err, failure) {
		t.Fatalf("expected %v, got %v", failure, err)
	}
}

func TestOutput_TracesContextWrites(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.TraceLevel)
	out := html.NewOutput(output.NewByteArrayOutput(), html.WithLogger(logger))

	_ = html.Unescaped("v").WriteTagAttributeUserContent(out, "img", "alt")

	line := logs.String()
	for _, want := range []string{`"tag":"img"`, `"attribute":"alt"`, `"bytes":1`} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q missing %s", line, want)
		}
	}
}

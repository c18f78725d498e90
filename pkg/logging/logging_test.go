package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevel(t *testing.T) {
	cases := map[int]zerolog.Level{
		-1: zerolog.WarnLevel,
		0:  zerolog.WarnLevel,
		1:  zerolog.InfoLevel,
		2:  zerolog.DebugLevel,
		3:  zerolog.TraceLevel,
		7:  zerolog.TraceLevel,
	}
	for verbosity, want := range cases {
		if got := Level(verbosity); got != want {
			t.Errorf("Level(%d) = %s, want %s", verbosity, got, want)
		}
	}
}

func TestSetup(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	var buf bytes.Buffer
	logger := Component(Setup(1, &buf), "render")

	logger.Debug().Msg("hidden")
	logger.Info().Msg("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug message logged at info verbosity: %q", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "render") {
		t.Fatalf("expected info message with component, got %q", out)
	}
}

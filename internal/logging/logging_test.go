package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestComponentField(t *testing.T) {
	var buf bytes.Buffer
	l := Component(zerolog.New(&buf), "player")
	l.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"component":"player"`) {
		t.Errorf("missing component field: %s", buf.String())
	}
}

package ytdlp

import (
	"testing"
	"time"
)

func TestParsePrint(t *testing.T) {
	tests := []struct {
		in       string
		wantLink string
		wantDur  time.Duration
	}{
		{"212.5\thttps://rr1.example/audio\n", "https://rr1.example/audio", 212500 * time.Millisecond},
		{"NA\thttps://cdn.example/a\n", "https://cdn.example/a", 0},
		{"300\tNA\n", "", 300 * time.Second},
		{"https://plain.example/only\n", "https://plain.example/only", 0},
		{"", "", 0},
	}
	for _, tt := range tests {
		link, d := parsePrint(tt.in)
		if link != tt.wantLink || d != tt.wantDur {
			t.Errorf("parsePrint(%q) = %q, %v; want %q, %v", tt.in, link, d, tt.wantLink, tt.wantDur)
		}
	}
}

package soundcloud

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func fakeRunner(out string, err error, gotArgs *[]string) runner {
	return func(ctx context.Context, flat bool, items int, args ...string) (string, error) {
		if gotArgs != nil {
			*gotArgs = args
		}
		return out, err
	}
}

func TestSearchParsesLines(t *testing.T) {
	var args []string
	out := "https://soundcloud.com/a/one\tOne\tArtist A\thttps://i1.sndcdn.com/a.jpg\n" +
		"https://soundcloud.com/b/two\tTwo\tNA\tNA\n" +
		"garbage line\n"
	s := &Source{run: fakeRunner(out, nil, &args)}

	hits, err := s.Search(context.Background(), "lofi", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].DisplayTitle("q") != "One" || hits[0].BestThumbnail() != "https://i1.sndcdn.com/a.jpg" {
		t.Errorf("unexpected first hit %+v", hits[0])
	}
	if hits[1].BestThumbnail() != "" || len(hits[1].Artists) != 0 {
		t.Errorf("NA fields should be empty: %+v", hits[1])
	}
	if len(args) != 1 || !strings.HasPrefix(args[0], "scsearch5:") {
		t.Errorf("unexpected args %v", args)
	}
}

func TestSearchError(t *testing.T) {
	s := &Source{run: fakeRunner("", errors.New("exit 1"), nil)}
	if _, err := s.Search(context.Background(), "x", 1); err == nil {
		t.Fatal("expected error")
	}
}

func TestLookupEmptyOutput(t *testing.T) {
	s := &Source{run: fakeRunner("\n", nil, nil)}
	if _, err := s.Lookup(context.Background(), "https://soundcloud.com/a/b"); !errors.Is(err, ErrNoTrackMatch) {
		t.Fatalf("expected ErrNoTrackMatch, got %v", err)
	}
}

func TestMatch(t *testing.T) {
	s := New()
	tests := map[string]bool{
		"https://soundcloud.com/artist/track":  true,
		"https://on.soundcloud.com/abc":        true,
		"https://www.youtube.com/watch?v=x":    false,
		"https://notsoundcloud.com/artist/x":   false,
		"lofi beats":                           false,
	}
	for in, want := range tests {
		if got := s.Match(in); got != want {
			t.Errorf("Match(%q) = %v, want %v", in, got, want)
		}
	}
}

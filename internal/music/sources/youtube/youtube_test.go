package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/keshon/jukebox/internal/music/sources"
	"github.com/rs/zerolog"
)

func TestIsYouTubeURL(t *testing.T) {
	tests := map[string]bool{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ": true,
		"https://youtu.be/dQw4w9WgXcQ":                true,
		"https://music.youtube.com/watch?v=abc":       true,
		"https://soundcloud.com/a/b":                  false,
		"youtube":                                     false,
	}
	for in, want := range tests {
		if got := IsYouTubeURL(in); got != want {
			t.Errorf("IsYouTubeURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ?si=x", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/shorts/abcdefghijk", "abcdefghijk", false},
		{"https://www.youtube.com/channel/xyz", "", true},
		{"https://example.com/watch?v=x", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractVideoID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ExtractVideoID(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanVideoURL(t *testing.T) {
	if got := CleanVideoURL("https://www.youtube.com/watch?v=abc&list=PL1&index=2"); got != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("CleanVideoURL = %q", got)
	}
	if got := CleanVideoURL("https://youtu.be/abc?t=3"); got != "https://youtu.be/abc" {
		t.Errorf("CleanVideoURL short = %q", got)
	}
}

func TestScraperDedupesAndLimits(t *testing.T) {
	page := `"url":"/watch?v=aaaaaaaaaaa" "url":"/watch?v=aaaaaaaaaaa" "url":"/watch?v=bbbbbbbbbbb" "url":"/watch?v=ccccccccccc"`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/results" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	s := newScraper(srv.Client())
	s.BaseURL = srv.URL

	ids, err := s.SearchVideoIDs(context.Background(), "anything", 2)
	if err != nil {
		t.Fatalf("SearchVideoIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "aaaaaaaaaaa" || ids[1] != "bbbbbbbbbbb" {
		t.Errorf("ids = %v", ids)
	}
}

func TestScraperStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := newScraper(srv.Client())
	s.BaseURL = srv.URL

	_, err := s.SearchVideoIDs(context.Background(), "q", 1)
	if err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestSearchFallsThroughBackends(t *testing.T) {
	s := &Source{log: zerolog.Nop()}
	var order []string
	s.backends = []backend{
		{name: "first", search: func(ctx context.Context, text string, limit int) ([]sources.Hit, error) {
			order = append(order, "first")
			return nil, errors.New("down")
		}},
		{name: "second", search: func(ctx context.Context, text string, limit int) ([]sources.Hit, error) {
			order = append(order, "second")
			return nil, nil
		}},
		{name: "third", search: func(ctx context.Context, text string, limit int) ([]sources.Hit, error) {
			order = append(order, "third")
			return []sources.Hit{{URL: WatchURL("x")}}, nil
		}},
	}

	hits, err := s.Search(context.Background(), "q", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || len(order) != 3 {
		t.Errorf("hits=%v order=%v", hits, order)
	}
}

func TestSearchAllBackendsFailing(t *testing.T) {
	s := &Source{log: zerolog.Nop()}
	s.backends = []backend{
		{name: "only", search: func(ctx context.Context, text string, limit int) ([]sources.Hit, error) {
			return nil, errors.New("down")
		}},
	}
	if _, err := s.Search(context.Background(), "q", 1); err == nil {
		t.Fatal("expected error when every backend fails")
	}
}

func TestThumbnailsForLargestLast(t *testing.T) {
	h := sources.Hit{Thumbnails: thumbnailsFor("abc")}
	if got := h.BestThumbnail(); got != "https://i.ytimg.com/vi/abc/hqdefault.jpg" {
		t.Errorf("BestThumbnail = %q", got)
	}
}

func TestNewHTTPClientProxySchemes(t *testing.T) {
	log := zerolog.Nop()

	if c := NewHTTPClient("", log); c.Transport != nil {
		t.Error("empty proxy should use the default transport")
	}
	if c := NewHTTPClient("ftp://proxy.test:21", log); c.Transport != nil {
		t.Error("unsupported scheme should go direct")
	}

	c := NewHTTPClient("http://proxy.test:8080", log)
	tr, ok := c.Transport.(*http.Transport)
	if !ok || tr.Proxy == nil {
		t.Fatalf("http proxy transport = %#v", c.Transport)
	}
	req, _ := http.NewRequest(http.MethodGet, "https://www.youtube.com", nil)
	if u, err := tr.Proxy(req); err != nil || u.Host != "proxy.test:8080" {
		t.Errorf("proxy for request = %v, %v", u, err)
	}

	for _, p := range []string{"socks5://127.0.0.1:1080", "socks4://127.0.0.1:1080"} {
		c := NewHTTPClient(p, log)
		tr, ok := c.Transport.(*http.Transport)
		if !ok || tr.DialContext == nil {
			t.Errorf("%s: expected a dialing transport, got %#v", p, c.Transport)
		}
	}
}

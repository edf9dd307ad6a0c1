// Package sources defines the capability the resolver queries for catalog
// lookups and the raw hit shape every provider returns.
package sources

import (
	"context"
	"net/url"
	"strings"

	"github.com/keshon/jukebox/internal/music/track"
)

// Thumbnail is one size of a provider thumbnail. Providers list them from the
// smallest to the largest.
type Thumbnail struct {
	URL    string
	Width  int
	Height int
}

// Hit is a raw provider result. Source names the provider that produced it;
// the remaining fields are filled as far as the provider knows them.
type Hit struct {
	Source     string
	Title      string
	Name       string
	URL        string
	Thumbnails []Thumbnail
	Thumbnail  string
	Artists    []string
}

// DisplayTitle returns Title, then Name, then fallback.
func (h Hit) DisplayTitle(fallback string) string {
	if t := strings.TrimSpace(h.Title); t != "" {
		return t
	}
	if n := strings.TrimSpace(h.Name); n != "" {
		return n
	}
	return fallback
}

// BestThumbnail returns the last (largest) entry of Thumbnails, then the
// single Thumbnail field, then "".
func (h Hit) BestThumbnail() string {
	for i := len(h.Thumbnails) - 1; i >= 0; i-- {
		if h.Thumbnails[i].URL != "" {
			return h.Thumbnails[i].URL
		}
	}
	return h.Thumbnail
}

// Candidate normalises the hit for the disambiguation menu.
func (h Hit) Candidate(fallbackTitle string) track.Candidate {
	return track.Candidate{
		Title:       h.DisplayTitle(fallbackTitle),
		URL:         h.URL,
		Thumbnail:   h.BestThumbnail(),
		SourceLabel: h.Source,
	}
}

// Track normalises the hit into a playable track.
func (h Hit) Track(fallbackTitle, requestedBy string) track.Track {
	return h.Candidate(fallbackTitle).Track(requestedBy)
}

// Searcher runs free-text searches.
type Searcher interface {
	Name() string
	Search(ctx context.Context, text string, limit int) ([]Hit, error)
}

// Lookuper resolves metadata for a link it recognises.
type Lookuper interface {
	Name() string
	Match(link string) bool
	Lookup(ctx context.Context, link string) (Hit, error)
}

// Aggregator is a catalog whose links carry metadata but no playable audio.
// Lookup returns the canonical title and artists of the linked track.
type Aggregator interface {
	Name() string
	Match(input string) bool
	Lookup(ctx context.Context, link string) (Hit, error)
}

// IsURL reports whether s is a well-formed absolute http(s) URL.
func IsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Clamp bounds a search limit to what providers accept.
func Clamp(limit int) int {
	switch {
	case limit < 1:
		return 1
	case limit > 25:
		return 25
	default:
		return limit
	}
}

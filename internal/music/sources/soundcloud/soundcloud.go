// Package soundcloud is the secondary search provider and the direct-lookup
// strategy for SoundCloud links. Both go through yt-dlp.
package soundcloud

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/keshon/jukebox/internal/music/sources"
	"github.com/keshon/jukebox/internal/music/track"

	"github.com/lrstanley/go-ytdlp"
)

// printFormat is the per-entry line yt-dlp prints; fields are tab separated.
const printFormat = "%(webpage_url,url)s\t%(title)s\t%(uploader)s\t%(thumbnail)s"

var ErrNoTrackMatch = errors.New("no track found for the given query")

// runner executes yt-dlp with the given arguments and returns its stdout.
type runner func(ctx context.Context, flat bool, items int, args ...string) (string, error)

// Source implements sources.Searcher and sources.Lookuper for SoundCloud.
type Source struct {
	run runner
}

// New returns a provider backed by the yt-dlp binary on PATH.
func New() *Source {
	return &Source{run: runYtdlp}
}

func runYtdlp(ctx context.Context, flat bool, items int, args ...string) (string, error) {
	cmd := ytdlp.New().
		Quiet().
		NoWarnings().
		IgnoreConfig().
		Print(printFormat)
	if flat {
		cmd = cmd.FlatPlaylist()
	}
	if items > 0 {
		cmd = cmd.PlaylistItems(fmt.Sprintf("1-%d", items))
	}

	res, err := cmd.Run(ctx, args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// Name returns the provider label.
func (s *Source) Name() string { return track.LabelSoundCloud }

// Search runs an scsearch query.
func (s *Source) Search(ctx context.Context, text string, limit int) ([]sources.Hit, error) {
	limit = sources.Clamp(limit)
	out, err := s.run(ctx, true, limit, fmt.Sprintf("scsearch%d:%s", limit, text))
	if err != nil {
		return nil, fmt.Errorf("scsearch: %w", err)
	}

	hits := parseLines(out)
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Match reports whether link points at SoundCloud.
func (s *Source) Match(link string) bool { return IsSoundCloudURL(link) }

// IsSoundCloudURL reports whether link points at SoundCloud.
func IsSoundCloudURL(link string) bool {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return false
	}
	switch strings.TrimPrefix(u.Hostname(), "www.") {
	case "soundcloud.com", "m.soundcloud.com", "on.soundcloud.com", "snd.sc":
		return true
	}
	return false
}

// Lookup reads track metadata for a SoundCloud link.
func (s *Source) Lookup(ctx context.Context, link string) (sources.Hit, error) {
	out, err := s.run(ctx, false, 1, "--no-playlist", link)
	if err != nil {
		return sources.Hit{}, fmt.Errorf("soundcloud lookup: %w", err)
	}

	hits := parseLines(out)
	if len(hits) == 0 {
		return sources.Hit{}, ErrNoTrackMatch
	}
	hit := hits[0]
	if hit.URL == "" {
		hit.URL = link
	}
	return hit, nil
}

func parseLines(out string) []sources.Hit {
	var hits []sources.Hit
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
			continue
		}
		hit := sources.Hit{
			Source: track.LabelSoundCloud,
			URL:    strings.TrimSpace(parts[0]),
			Name:   clean(parts[1]),
		}
		if len(parts) > 2 {
			if up := clean(parts[2]); up != "" {
				hit.Artists = []string{up}
			}
		}
		if len(parts) > 3 {
			hit.Thumbnail = clean(parts[3])
		}
		hits = append(hits, hit)
	}
	return hits
}

// clean maps yt-dlp's "NA" placeholder to "".
func clean(s string) string {
	s = strings.TrimSpace(s)
	if s == "NA" {
		return ""
	}
	return s
}

// Package youtube is the primary search provider. Searches go to the YouTube
// search API, then YouTube Music, then the results page; direct links are
// probed for basic video info.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/keshon/jukebox/internal/music/sources"
	"github.com/keshon/jukebox/internal/music/track"

	youtube "github.com/kkdai/youtube/v2"
	"github.com/ppalone/ytsearch"
	"github.com/raitonoberu/ytmusic"
	"github.com/rs/zerolog"
)

type backend struct {
	name   string
	search func(ctx context.Context, text string, limit int) ([]sources.Hit, error)
}

// Source implements sources.Searcher and sources.Lookuper for YouTube.
type Source struct {
	backends []backend
	video    *youtube.Client
	log      zerolog.Logger
}

// New builds the provider. A nil client means a direct 15s-timeout client.
func New(client *http.Client, log zerolog.Logger) *Source {
	if client == nil {
		client = &http.Client{}
	}

	s := &Source{
		video: &youtube.Client{HTTPClient: client},
		log:   log,
	}

	api := ytsearch.NewClient(client)
	page := newScraper(client)

	s.backends = []backend{
		{name: "ytsearch", search: func(ctx context.Context, text string, limit int) ([]sources.Hit, error) {
			res, err := api.Search(ctx, text)
			if err != nil {
				return nil, err
			}
			hits := make([]sources.Hit, 0, limit)
			for _, r := range res.Results {
				if r.VideoID == "" {
					continue
				}
				hits = append(hits, sources.Hit{
					Source:     track.LabelYouTube,
					Title:      r.Title,
					Name:       r.Channel,
					URL:        WatchURL(r.VideoID),
					Thumbnails: thumbnailsFor(r.VideoID),
				})
				if len(hits) == limit {
					break
				}
			}
			return hits, nil
		}},
		{name: "ytmusic", search: func(ctx context.Context, text string, limit int) ([]sources.Hit, error) {
			res, err := ytmusic.TrackSearch(text).Next()
			if err != nil {
				return nil, err
			}
			hits := make([]sources.Hit, 0, limit)
			for _, r := range res.Tracks {
				if r.VideoID == "" {
					continue
				}
				var artists []string
				for _, a := range r.Artists {
					artists = append(artists, a.Name)
				}
				hits = append(hits, sources.Hit{
					Source:     track.LabelYouTube,
					Title:      r.Title,
					URL:        WatchURL(r.VideoID),
					Thumbnails: thumbnailsFor(r.VideoID),
					Artists:    artists,
				})
				if len(hits) == limit {
					break
				}
			}
			return hits, nil
		}},
		{name: "scrape", search: func(ctx context.Context, text string, limit int) ([]sources.Hit, error) {
			ids, err := page.SearchVideoIDs(ctx, text, limit)
			if err != nil {
				return nil, err
			}
			hits := make([]sources.Hit, 0, len(ids))
			for _, id := range ids {
				hits = append(hits, sources.Hit{
					Source:     track.LabelYouTube,
					URL:        WatchURL(id),
					Thumbnails: thumbnailsFor(id),
				})
			}
			return hits, nil
		}},
	}

	return s
}

// Name returns the provider label.
func (s *Source) Name() string { return track.LabelYouTube }

// Search tries each backend in turn and returns the first non-empty result.
// It errors only when every backend failed.
func (s *Source) Search(ctx context.Context, text string, limit int) ([]sources.Hit, error) {
	limit = sources.Clamp(limit)

	var errs []error
	for _, b := range s.backends {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hits, err := b.search(ctx, text, limit)
		if err != nil {
			s.log.Debug().Err(err).Str("backend", b.name).Str("query", text).Msg("search backend failed")
			errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
			continue
		}
		if len(hits) > 0 {
			return hits, nil
		}
	}

	if len(errs) == len(s.backends) {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}

// Match reports whether link is a YouTube link.
func (s *Source) Match(link string) bool {
	return IsYouTubeURL(link)
}

// Lookup probes basic video info for a watch or short link.
func (s *Source) Lookup(ctx context.Context, link string) (sources.Hit, error) {
	id, err := ExtractVideoID(link)
	if err != nil {
		return sources.Hit{}, err
	}

	video, err := s.video.GetVideoContext(ctx, id)
	if err != nil {
		return sources.Hit{}, fmt.Errorf("video info %s: %w", id, err)
	}

	thumbs := make([]sources.Thumbnail, 0, len(video.Thumbnails))
	for _, t := range video.Thumbnails {
		thumbs = append(thumbs, sources.Thumbnail{URL: t.URL, Width: int(t.Width), Height: int(t.Height)})
	}

	return sources.Hit{
		Source:     track.LabelYouTube,
		Title:      video.Title,
		Name:       video.Author,
		URL:        link,
		Thumbnails: thumbs,
	}, nil
}

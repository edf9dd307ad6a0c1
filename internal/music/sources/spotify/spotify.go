// Package spotify resolves Spotify track, album and playlist links into the
// canonical title and artists of a single track. Spotify audio is never
// streamed; the resolver re-searches the primary provider with this metadata.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/keshon/jukebox/internal/music/sources"
	"github.com/keshon/jukebox/internal/music/track"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	linkPattern = regexp.MustCompile(`(?:https?://)?open\.spotify\.com/(?:intl-[a-z]{2}/)?(track|album|playlist)/([a-zA-Z0-9]+)`)

	ErrDisabled = errors.New("spotify credentials are not configured")
	ErrNoTracks = errors.New("spotify link has no tracks")
)

// catalog is the slice of the Spotify Web API the provider needs.
type catalog interface {
	GetTrack(ctx context.Context, id spotify.ID, opts ...spotify.RequestOption) (*spotify.FullTrack, error)
	GetAlbumTracks(ctx context.Context, id spotify.ID, opts ...spotify.RequestOption) (*spotify.SimpleTrackPage, error)
	GetPlaylistItems(ctx context.Context, playlistID spotify.ID, opts ...spotify.RequestOption) (*spotify.PlaylistItemPage, error)
}

// Source implements sources.Aggregator.
type Source struct {
	api catalog
}

// New authenticates with the client-credentials flow. Empty credentials give a
// provider that still matches links but fails every lookup.
func New(ctx context.Context, clientID, clientSecret string) *Source {
	if clientID == "" || clientSecret == "" {
		return &Source{}
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return &Source{api: spotify.New(cfg.Client(ctx))}
}

// Name returns the provider label.
func (s *Source) Name() string { return track.LabelSpotify }

// Match reports whether input contains a Spotify track, album or playlist link.
func (s *Source) Match(input string) bool {
	return linkPattern.MatchString(input)
}

// Lookup returns the first track the link refers to.
func (s *Source) Lookup(ctx context.Context, link string) (sources.Hit, error) {
	if s.api == nil {
		return sources.Hit{}, ErrDisabled
	}

	m := linkPattern.FindStringSubmatch(link)
	if m == nil {
		return sources.Hit{}, fmt.Errorf("not a spotify link: %q", link)
	}
	kind, id := m[1], spotify.ID(m[2])

	switch kind {
	case "track":
		t, err := s.api.GetTrack(ctx, id)
		if err != nil {
			return sources.Hit{}, fmt.Errorf("spotify track %s: %w", id, err)
		}
		return hitFrom(t.Name, t.Artists, t.ExternalURLs["spotify"], t.Album.Images), nil

	case "album":
		page, err := s.api.GetAlbumTracks(ctx, id, spotify.Limit(1))
		if err != nil {
			return sources.Hit{}, fmt.Errorf("spotify album %s: %w", id, err)
		}
		if len(page.Tracks) == 0 {
			return sources.Hit{}, ErrNoTracks
		}
		t := page.Tracks[0]
		return hitFrom(t.Name, t.Artists, t.ExternalURLs["spotify"], nil), nil

	default:
		page, err := s.api.GetPlaylistItems(ctx, id, spotify.Limit(5))
		if err != nil {
			return sources.Hit{}, fmt.Errorf("spotify playlist %s: %w", id, err)
		}
		for _, item := range page.Items {
			if t := item.Track.Track; t != nil {
				return hitFrom(t.Name, t.Artists, t.ExternalURLs["spotify"], t.Album.Images), nil
			}
		}
		return sources.Hit{}, ErrNoTracks
	}
}

func hitFrom(name string, artists []spotify.SimpleArtist, link string, images []spotify.Image) sources.Hit {
	hit := sources.Hit{
		Source: track.LabelSpotify,
		Name:   name,
		URL:    link,
	}
	for _, a := range artists {
		hit.Artists = append(hit.Artists, a.Name)
	}
	// Spotify lists images largest first.
	for i := len(images) - 1; i >= 0; i-- {
		hit.Thumbnails = append(hit.Thumbnails, sources.Thumbnail{
			URL:    images[i].URL,
			Width:  int(images[i].Width),
			Height: int(images[i].Height),
		})
	}
	return hit
}

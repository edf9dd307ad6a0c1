package spotify

import (
	"context"
	"errors"
	"testing"

	"github.com/zmb3/spotify/v2"
)

type fakeCatalog struct {
	track    *spotify.FullTrack
	album    *spotify.SimpleTrackPage
	playlist *spotify.PlaylistItemPage
	err      error
	gotID    spotify.ID
}

func (f *fakeCatalog) GetTrack(ctx context.Context, id spotify.ID, opts ...spotify.RequestOption) (*spotify.FullTrack, error) {
	f.gotID = id
	return f.track, f.err
}

func (f *fakeCatalog) GetAlbumTracks(ctx context.Context, id spotify.ID, opts ...spotify.RequestOption) (*spotify.SimpleTrackPage, error) {
	f.gotID = id
	return f.album, f.err
}

func (f *fakeCatalog) GetPlaylistItems(ctx context.Context, id spotify.ID, opts ...spotify.RequestOption) (*spotify.PlaylistItemPage, error) {
	f.gotID = id
	return f.playlist, f.err
}

func TestMatch(t *testing.T) {
	s := &Source{}
	tests := map[string]bool{
		"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC":          true,
		"https://open.spotify.com/intl-de/track/4uLU6hMCjMI75M1A2tKUQC":  true,
		"open.spotify.com/album/1DFixLWuPkv3KT3TnV35m3":                  true,
		"https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=ab": true,
		"https://open.spotify.com/artist/0OdUWJ0sBjDrqHygGUXeCF":         false,
		"https://www.youtube.com/watch?v=x":                              false,
	}
	for in, want := range tests {
		if got := s.Match(in); got != want {
			t.Errorf("Match(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLookupTrack(t *testing.T) {
	full := &spotify.FullTrack{}
	full.Name = "Never Gonna Give You Up"
	full.Artists = []spotify.SimpleArtist{{Name: "Rick Astley"}, {Name: "Guest"}}
	full.Album.Images = []spotify.Image{{URL: "large", Width: 640}, {URL: "small", Width: 64}}

	fc := &fakeCatalog{track: full}
	s := &Source{api: fc}

	hit, err := s.Lookup(context.Background(), "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=x")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if fc.gotID != "4uLU6hMCjMI75M1A2tKUQC" {
		t.Errorf("id = %q", fc.gotID)
	}
	if hit.DisplayTitle("") != "Never Gonna Give You Up" || len(hit.Artists) != 2 || hit.Artists[0] != "Rick Astley" {
		t.Errorf("unexpected hit %+v", hit)
	}
	if hit.BestThumbnail() != "large" {
		t.Errorf("BestThumbnail = %q, want large", hit.BestThumbnail())
	}
}

func TestLookupEmptyPlaylist(t *testing.T) {
	s := &Source{api: &fakeCatalog{playlist: &spotify.PlaylistItemPage{}}}
	_, err := s.Lookup(context.Background(), "https://open.spotify.com/playlist/abc")
	if !errors.Is(err, ErrNoTracks) {
		t.Fatalf("expected ErrNoTracks, got %v", err)
	}
}

func TestLookupDisabled(t *testing.T) {
	s := New(context.Background(), "", "")
	if !s.Match("https://open.spotify.com/track/abc") {
		t.Fatal("disabled provider should still match links")
	}
	if _, err := s.Lookup(context.Background(), "https://open.spotify.com/track/abc"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

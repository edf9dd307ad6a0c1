// Package track defines the playable unit handed from the resolver to the
// player and the unresolved hit shown in the disambiguation menu.
package track

import "fmt"

// Source labels.
const (
	LabelYouTube    = "YouTube"
	LabelSoundCloud = "SoundCloud"
	LabelSpotify    = "Spotify"
	LabelDirect     = "Direct"
)

// DirectTitle is used for links no provider recognises.
const DirectTitle = "Audio"

// Track is a resolved, playable unit. It is a value type and is never mutated
// once the resolver has built it.
type Track struct {
	Title       string
	URL         string
	Thumbnail   string // empty means none
	RequestedBy string
	SourceLabel string
}

// HasThumbnail reports whether a thumbnail URL is set.
func (t Track) HasThumbnail() bool { return t.Thumbnail != "" }

// Markdown renders the title as a link when a URL is known.
func (t Track) Markdown() string {
	switch {
	case t.Title != "" && t.URL != "":
		return fmt.Sprintf("[%s](%s)", t.Title, t.URL)
	case t.Title != "":
		return t.Title
	case t.URL != "":
		return t.URL
	default:
		return "Unknown track"
	}
}

// Candidate is one unresolved search hit offered for disambiguation.
type Candidate struct {
	Title       string
	URL         string
	Thumbnail   string
	SourceLabel string
}

// Track converts a picked candidate into a playable track.
func (c Candidate) Track(requestedBy string) Track {
	return Track{
		Title:       c.Title,
		URL:         c.URL,
		Thumbnail:   c.Thumbnail,
		RequestedBy: requestedBy,
		SourceLabel: c.SourceLabel,
	}
}

// ChainLabel builds the provenance label for a track found through an
// aggregator, e.g. "Spotify → YouTube".
func ChainLabel(aggregator, primary string) string {
	return aggregator + " → " + primary
}

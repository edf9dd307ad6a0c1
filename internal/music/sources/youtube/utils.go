package youtube

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/keshon/jukebox/internal/music/sources"
)

var (
	youtubeRegex = regexp.MustCompile(`^(?:https?://)?(?:www\.|music\.|m\.)?(youtube\.com|youtu\.be)/\S+`)

	ErrNotVideoURL = errors.New("not a YouTube video URL")
)

// IsYouTubeURL reports whether input points at youtube.com or youtu.be.
func IsYouTubeURL(input string) bool {
	return youtubeRegex.MatchString(strings.TrimSpace(input))
}

// CleanVideoURL strips everything but the video id from a watch link.
func CleanVideoURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	host := u.Hostname()

	switch host {
	case "youtu.be":
		vid := strings.Trim(u.Path, "/")
		if vid == "" {
			return raw
		}
		return fmt.Sprintf("https://youtu.be/%s", vid)

	case "www.youtube.com", "youtube.com", "music.youtube.com", "m.youtube.com":
		if u.Path == "/watch" {
			if vid := u.Query().Get("v"); vid != "" {
				return fmt.Sprintf("https://%s/watch?v=%s", host, vid)
			}
		}
		return raw

	default:
		return raw
	}
}

// ExtractVideoID returns the video id of a watch, short or shorts link.
func ExtractVideoID(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrNotVideoURL
	}

	switch u.Hostname() {
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
	case "www.youtube.com", "youtube.com", "music.youtube.com", "m.youtube.com":
		if u.Path == "/watch" {
			if id := u.Query().Get("v"); id != "" {
				return id, nil
			}
		}
		if id, ok := strings.CutPrefix(u.Path, "/shorts/"); ok && id != "" {
			return strings.Trim(id, "/"), nil
		}
	}
	return "", ErrNotVideoURL
}

// WatchURL builds the canonical watch link for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// thumbnailsFor lists the static thumbnail sizes YouTube serves for every
// video, smallest first.
func thumbnailsFor(id string) []sources.Thumbnail {
	base := "https://i.ytimg.com/vi/" + id + "/"
	return []sources.Thumbnail{
		{URL: base + "default.jpg", Width: 120, Height: 90},
		{URL: base + "mqdefault.jpg", Width: 320, Height: 180},
		{URL: base + "hqdefault.jpg", Width: 480, Height: 360},
	}
}

package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/keshon/jukebox/pkg/retrylimit"
)

var validContentTypes = []string{
	"audio/",
	"video/",
	"application/vnd.apple.mpegurl",
	"application/x-mpegurl",
	"application/ogg",
	"application/x-scpls",
	"application/xspf+xml",
	"application/octet-stream", // risky but often used for streams
}

var ErrNotMedia = errors.New("link does not serve audio")

// Prober validates direct media links by content type and file extension.
type Prober struct {
	Client *http.Client
}

func NewProber() *Prober {
	return &Prober{
		Client: &http.Client{
			Timeout: 5 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

// Check returns the content type of rawURL, or ErrNotMedia when neither the
// type nor the extension looks like a stream.
func (p *Prober) Check(ctx context.Context, rawURL string) (string, error) {
	contentType, finalURL, err := p.fetchContentType(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch content type: %w", err)
	}

	if isAllowedType(contentType) || isLikelyPlaylist(finalURL) || isLikelyAudioFile(finalURL) {
		return contentType, nil
	}
	return contentType, fmt.Errorf("%w: content-type %q, url %s", ErrNotMedia, contentType, finalURL)
}

func (p *Prober) fetchContentType(ctx context.Context, rawURL string) (string, string, error) {
	resp, err := p.do(ctx, http.MethodHead, rawURL)
	if err != nil || resp.StatusCode >= 400 {
		if resp != nil {
			resp.Body.Close()
		}
		// Some stream servers reject HEAD.
		resp, err = p.do(ctx, http.MethodGet, rawURL)
		if err != nil {
			return "", "", fmt.Errorf("GET fallback failed: %w", err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return "", "", &retrylimit.StatusError{Code: resp.StatusCode, URL: rawURL}
		}
	}
	defer resp.Body.Close()
	// Live streams never end; only peek at the body.
	_, _ = io.CopyN(io.Discard, resp.Body, 512)

	return resp.Header.Get("Content-Type"), resp.Request.URL.String(), nil
}

func (p *Prober) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	return p.Client.Do(req)
}

func isAllowedType(contentType string) bool {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	contentType = strings.ToLower(contentType)
	for _, allowed := range validContentTypes {
		if strings.HasPrefix(contentType, allowed) {
			return true
		}
	}
	return false
}

func isLikelyPlaylist(rawURL string) bool {
	switch extOf(rawURL) {
	case ".m3u", ".m3u8", ".pls", ".xspf", ".asx":
		return true
	}
	return false
}

func isLikelyAudioFile(rawURL string) bool {
	switch extOf(rawURL) {
	case ".mp3", ".ogg", ".opus", ".flac", ".wav", ".m4a", ".aac", ".webm":
		return true
	}
	return false
}

func extOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}

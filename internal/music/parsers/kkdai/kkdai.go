package kkdai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/keshon/jukebox/internal/music/parsers"
	yt "github.com/keshon/jukebox/internal/music/sources/youtube"

	youtube "github.com/kkdai/youtube/v2"
)

var ErrNoAudioFormats = errors.New("no audio formats found for video")

// KKDAIStreamer opens YouTube videos with the native kkdai client, which is
// usually faster than spawning yt-dlp.
type KKDAIStreamer struct {
	Client *youtube.Client
}

// New returns a streamer that talks to YouTube through httpClient (which may
// carry a proxy).
func New(httpClient *http.Client) *KKDAIStreamer {
	return &KKDAIStreamer{Client: &youtube.Client{HTTPClient: httpClient}}
}

func (s *KKDAIStreamer) GetLinkStream(ctx context.Context, track *parsers.TrackParse) (io.ReadCloser, func(), error) {
	return kkdaiLink(ctx, s.client(), track)
}

func (s *KKDAIStreamer) GetPipeStream(ctx context.Context, track *parsers.TrackParse) (io.ReadCloser, func(), error) {
	return kkdaiPipe(ctx, s.client(), track)
}

func (s *KKDAIStreamer) SupportsPipe() bool {
	return true
}

func (s *KKDAIStreamer) client() *youtube.Client {
	if s.Client == nil {
		return &youtube.Client{}
	}
	return s.Client
}

// audioVideo fetches video metadata and its best audio format.
func audioVideo(ctx context.Context, client *youtube.Client, track *parsers.TrackParse) (*youtube.Video, *youtube.Format, error) {
	videoID, err := yt.ExtractVideoID(track.URL)
	if err != nil {
		return nil, nil, err
	}

	video, err := client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, nil, fmt.Errorf("youtube client error: %w", err)
	}

	track.Duration = video.Duration
	if track.Title == "" {
		track.Title = video.Title
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, nil, ErrNoAudioFormats
	}
	return video, &formats[0], nil
}

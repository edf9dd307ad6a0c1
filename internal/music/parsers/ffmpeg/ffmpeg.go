package ffmpeg

import (
	"context"
	"errors"
	"io"

	"github.com/keshon/jukebox/internal/music/parsers"
)

// FFMPEGStreamer plays arbitrary media links (radio streams, plain files).
// Links are probed first so pages that are not media fail fast.
type FFMPEGStreamer struct {
	Probe *Prober
}

func (s *FFMPEGStreamer) GetLinkStream(ctx context.Context, track *parsers.TrackParse) (io.ReadCloser, func(), error) {
	p := s.Probe
	if p == nil {
		p = NewProber()
	}
	if _, err := p.Check(ctx, track.URL); err != nil {
		return nil, nil, err
	}
	return ffmpegLink(ctx, track.URL)
}

func (s *FFMPEGStreamer) GetPipeStream(ctx context.Context, track *parsers.TrackParse) (io.ReadCloser, func(), error) {
	return nil, nil, errors.New("pipe streaming not supported for direct links")
}

func (s *FFMPEGStreamer) SupportsPipe() bool {
	return false
}

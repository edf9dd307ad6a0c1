package parsers

import (
	"context"
	"io"
)

// Streamer opens a track as raw PCM (s16le, 48kHz, stereo). The returned
// cleanup stops every helper process; it is safe to call more than once.
type Streamer interface {
	GetLinkStream(ctx context.Context, track *TrackParse) (io.ReadCloser, func(), error)
	GetPipeStream(ctx context.Context, track *TrackParse) (io.ReadCloser, func(), error)
	SupportsPipe() bool
}

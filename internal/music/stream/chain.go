package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/keshon/jukebox/internal/music/parsers"
	"github.com/keshon/jukebox/internal/music/parsers/ffmpeg"
	"github.com/keshon/jukebox/internal/music/parsers/kkdai"
	"github.com/keshon/jukebox/internal/music/parsers/ytdlp"
	"github.com/keshon/jukebox/internal/music/sources/soundcloud"
	"github.com/keshon/jukebox/internal/music/sources/youtube"

	"github.com/rs/zerolog"
)

// DefaultFirstFrameTimeout bounds how long a parser may take to produce audio.
const DefaultFirstFrameTimeout = 20 * time.Second

// Streamers returns the parser registry keyed by parser name.
func Streamers(httpClient *http.Client, proxy string) map[string]parsers.Streamer {
	yt := &ytdlp.YTDLPStreamer{Proxy: proxy}
	kk := kkdai.New(httpClient)
	return map[string]parsers.Streamer{
		"ytdlp-link":  yt,
		"ytdlp-pipe":  yt,
		"kkdai-link":  kk,
		"kkdai-pipe":  kk,
		"ffmpeg-link": &ffmpeg.FFMPEGStreamer{Probe: ffmpeg.NewProber()},
	}
}

// ParsersFor lists the parsers to try for url, in order.
func ParsersFor(url string) []string {
	switch {
	case youtube.IsYouTubeURL(url):
		return []string{"kkdai-link", "ytdlp-pipe", "ytdlp-link", "kkdai-pipe"}
	case soundcloud.IsSoundCloudURL(url):
		return []string{"ytdlp-pipe", "ytdlp-link"}
	default:
		return []string{"ffmpeg-link"}
	}
}

func isPipeMode(parser string) bool {
	return strings.HasSuffix(parser, "-pipe")
}

// Chain opens a URL with the first parser that yields audio.
type Chain struct {
	streamers         map[string]parsers.Streamer
	FirstFrameTimeout time.Duration
	log               zerolog.Logger
}

func NewChain(streamers map[string]parsers.Streamer, log zerolog.Logger) *Chain {
	return &Chain{
		streamers:         streamers,
		FirstFrameTimeout: DefaultFirstFrameTimeout,
		log:               log,
	}
}

// Open tries every parser for url. A parser only wins once it has delivered
// a full PCM frame.
func (c *Chain) Open(ctx context.Context, url string) (Stream, error) {
	tp := &parsers.TrackParse{URL: url}
	var errs []error

	for _, parser := range ParsersFor(url) {
		tp.Parser = parser
		s, err := c.open(ctx, tp, parser)
		if err == nil {
			c.log.Debug().Str("parser", parser).Str("url", url).Msg("stream opened")
			return s, nil
		}
		errs = append(errs, fmt.Errorf("parser %s failed: %w", parser, err))
		c.log.Warn().Err(err).Str("parser", parser).Str("url", url).Msg("parser failed, trying next parser")
	}

	if len(errs) == 0 {
		return nil, ErrNoAudio
	}
	return nil, fmt.Errorf("all parsers failed for %s: %w", url, errors.Join(errs...))
}

func (c *Chain) open(ctx context.Context, tp *parsers.TrackParse, parser string) (Stream, error) {
	streamer, ok := c.streamers[parser]
	if !ok {
		return nil, fmt.Errorf("streamer not found for parser: %v", parser)
	}

	var (
		r       io.ReadCloser
		cleanup func()
		err     error
	)
	if isPipeMode(parser) && streamer.SupportsPipe() {
		r, cleanup, err = streamer.GetPipeStream(ctx, tp)
	} else {
		r, cleanup, err = streamer.GetLinkStream(ctx, tp)
	}
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, err
	}
	if cleanup == nil {
		cleanup = func() {}
	}

	first, err := c.firstFrame(ctx, r)
	if err != nil {
		_ = r.Close()
		cleanup()
		return nil, err
	}

	return &trackStream{
		Reader:  io.MultiReader(bytes.NewReader(first), r),
		body:    r,
		cleanup: cleanup,
		parser:  parser,
	}, nil
}

func (c *Chain) firstFrame(ctx context.Context, r io.Reader) ([]byte, error) {
	timeout := c.FirstFrameTimeout
	if timeout <= 0 {
		timeout = DefaultFirstFrameTimeout
	}

	type result struct {
		buf []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		buf := make([]byte, FrameBytes)
		_, err := io.ReadFull(r, buf)
		done <- result{buf, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if errors.Is(res.err, io.EOF) || errors.Is(res.err, io.ErrUnexpectedEOF) {
			return nil, ErrNoAudio
		}
		if res.err != nil {
			return nil, fmt.Errorf("read first frame: %w", res.err)
		}
		return res.buf, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: no frame within %s", ErrNoAudio, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type trackStream struct {
	io.Reader
	body    io.Closer
	cleanup func()
	parser  string
	once    sync.Once
}

func (t *trackStream) Parser() string { return t.parser }

func (t *trackStream) Close() error {
	var err error
	t.once.Do(func() {
		err = t.body.Close()
		t.cleanup()
	})
	return err
}

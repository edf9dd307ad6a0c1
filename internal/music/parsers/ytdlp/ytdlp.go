package ytdlp

import (
	"context"
	"io"

	"github.com/keshon/jukebox/internal/music/parsers"

	"github.com/lrstanley/go-ytdlp"
)

const audioFormat = "bestaudio[ext=webm]/bestaudio[ext=m4a]/bestaudio/best"

// YTDLPStreamer opens tracks through yt-dlp. Proxy is passed to yt-dlp as-is.
type YTDLPStreamer struct {
	Proxy string
}

func (s *YTDLPStreamer) GetLinkStream(ctx context.Context, track *parsers.TrackParse) (io.ReadCloser, func(), error) {
	return ytdlpLink(ctx, s.command(), track)
}

func (s *YTDLPStreamer) GetPipeStream(ctx context.Context, track *parsers.TrackParse) (io.ReadCloser, func(), error) {
	return ytdlpPipe(ctx, s.command(), track)
}

func (s *YTDLPStreamer) SupportsPipe() bool {
	return true
}

func (s *YTDLPStreamer) command() *ytdlp.Command {
	cmd := ytdlp.New().
		Quiet().
		NoWarnings().
		IgnoreConfig().
		NoPlaylist().
		Format(audioFormat)
	if s.Proxy != "" {
		cmd = cmd.Proxy(s.Proxy)
	}
	return cmd
}

package ytdlp

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/keshon/jukebox/internal/music/parsers"

	"github.com/lrstanley/go-ytdlp"
)

// ytdlpPipe downloads with yt-dlp to stdout and decodes through ffmpeg.
func ytdlpPipe(ctx context.Context, cmd *ytdlp.Command, track *parsers.TrackParse) (io.ReadCloser, func(), error) {
	download := cmd.
		Output("-").
		NoPart().
		BuildCommand(ctx, track.URL)

	ffmpeg := exec.CommandContext(ctx, "ffmpeg", parsers.FFmpegArgs("pipe:0")...)

	ffmpegIn, err := download.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("yt-dlp stdout pipe error: %w", err)
	}
	ffmpeg.Stdin = ffmpegIn

	reader, err := ffmpeg.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("ffmpeg stdout pipe error: %w", err)
	}

	if err := download.Start(); err != nil {
		return nil, nil, fmt.Errorf("yt-dlp start error: %w", err)
	}
	if err := ffmpeg.Start(); err != nil {
		parsers.Killer(download)()
		return nil, nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	return reader, parsers.Killer(ffmpeg, download), nil
}

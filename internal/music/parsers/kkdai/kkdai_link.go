package kkdai

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/keshon/jukebox/internal/music/parsers"

	"github.com/kkdai/youtube/v2"
)

func kkdaiLink(ctx context.Context, client *youtube.Client, track *parsers.TrackParse) (io.ReadCloser, func(), error) {
	video, format, err := audioVideo(ctx, client, track)
	if err != nil {
		return nil, nil, fmt.Errorf("[kkdai-link] %w", err)
	}

	link, err := client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		return nil, nil, fmt.Errorf("[kkdai-link] get stream URL error: %w", err)
	}

	ffmpeg := exec.CommandContext(ctx, "ffmpeg", parsers.FFmpegArgs(link)...)

	reader, err := ffmpeg.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe error: %w", err)
	}

	if err := ffmpeg.Start(); err != nil {
		return nil, nil, fmt.Errorf("command start error: %w", err)
	}

	return reader, parsers.Killer(ffmpeg), nil
}

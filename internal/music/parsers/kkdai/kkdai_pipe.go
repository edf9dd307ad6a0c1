package kkdai

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/keshon/jukebox/internal/music/parsers"

	"github.com/kkdai/youtube/v2"
)

func kkdaiPipe(ctx context.Context, client *youtube.Client, track *parsers.TrackParse) (io.ReadCloser, func(), error) {
	video, format, err := audioVideo(ctx, client, track)
	if err != nil {
		return nil, nil, fmt.Errorf("[kkdai-pipe] %w", err)
	}

	stream, _, err := client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, nil, fmt.Errorf("[kkdai-pipe] get stream error: %w", err)
	}

	ffmpeg := exec.CommandContext(ctx, "ffmpeg", parsers.FFmpegArgs("pipe:0")...)
	ffmpeg.Stdin = stream

	reader, err := ffmpeg.StdoutPipe()
	if err != nil {
		stream.Close()
		return nil, nil, fmt.Errorf("ffmpeg stdout pipe error: %w", err)
	}

	if err := ffmpeg.Start(); err != nil {
		stream.Close()
		return nil, nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	kill := parsers.Killer(ffmpeg)
	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			stream.Close()
			kill()
		})
	}

	return reader, cleanup, nil
}

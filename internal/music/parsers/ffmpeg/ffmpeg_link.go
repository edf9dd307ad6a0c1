package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/keshon/jukebox/internal/music/parsers"
)

func ffmpegLink(ctx context.Context, url string) (io.ReadCloser, func(), error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", parsers.FFmpegArgs(url)...)

	reader, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("command start error: %w", err)
	}

	return reader, parsers.Killer(cmd), nil
}

package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/keshon/jukebox/internal/music/parsers"

	"github.com/lrstanley/go-ytdlp"
)

// ytdlpLink asks yt-dlp for the media URL and lets ffmpeg fetch it.
func ytdlpLink(ctx context.Context, cmd *ytdlp.Command, track *parsers.TrackParse) (io.ReadCloser, func(), error) {
	res, err := cmd.Print("%(duration)s\t%(url)s").Run(ctx, track.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("yt-dlp get-url error: %w", err)
	}

	link, duration := parsePrint(res.Stdout)
	if link == "" {
		return nil, nil, errors.New("empty URL returned from yt-dlp")
	}
	track.Duration = duration

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

// parsePrint reads the first "duration<TAB>url" line yt-dlp printed.
func parsePrint(out string) (string, time.Duration) {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	durStr, link, ok := strings.Cut(line, "\t")
	if !ok {
		return strings.TrimSpace(line), 0
	}

	link = strings.TrimSpace(link)
	if link == "NA" {
		link = ""
	}

	var d time.Duration
	if secs, err := strconv.ParseFloat(strings.TrimSpace(durStr), 64); err == nil {
		d = time.Duration(secs * float64(time.Second))
	}
	return link, d
}

// Package parsers holds the stream openers: each turns a track URL into PCM
// through ffmpeg, fed either by a direct media link or by a pipe.
package parsers

import (
	"fmt"
	"os/exec"
	"sync"
	"time"
)

// PCM layout every parser produces.
const (
	Channels   = 2
	SampleRate = 48000
)

// TrackParse is the per-open scratch record parsers fill in.
type TrackParse struct {
	URL      string
	Title    string
	Duration time.Duration
	Parser   string
}

// FFmpegArgs returns the ffmpeg arguments that decode input to PCM on stdout.
// Network inputs get ffmpeg's reconnect options.
func FFmpegArgs(input string) []string {
	args := []string{}
	if input != "pipe:0" {
		args = append(args,
			"-reconnect", "1",
			"-reconnect_streamed", "1",
			"-reconnect_delay_max", "5",
		)
	}
	return append(args,
		"-i", input,
		"-vn",
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", SampleRate),
		"-ac", fmt.Sprintf("%d", Channels),
		"-loglevel", "warning",
		"pipe:1",
	)
}

// Killer returns a cleanup func that kills and reaps the given processes once.
func Killer(cmds ...*exec.Cmd) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			for _, c := range cmds {
				if c == nil || c.Process == nil {
					continue
				}
				_ = c.Process.Kill()
				_ = c.Wait()
			}
		})
	}
}

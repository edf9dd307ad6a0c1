// Package stream defines the voice sink capability the player drives and the
// parser chain that turns a track URL into 48kHz stereo PCM.
package stream

import (
	"context"
	"errors"
	"io"
)

// PCM layout produced by every parser.
const (
	Channels   = 2
	SampleRate = 48000
	FrameSize  = 960 // 20ms at 48kHz
	FrameBytes = FrameSize * Channels * 2
)

var (
	// ErrNotReady is returned with a usable, degraded connection when the voice
	// handshake did not finish before the context ended.
	ErrNotReady = errors.New("voice connection not ready")
	// ErrNoAudio means a parser started but produced no PCM.
	ErrNoAudio = errors.New("stream produced no audio")
)

// Stream is an open PCM source for one track.
type Stream interface {
	io.ReadCloser
	// Parser names the parser that opened the stream.
	Parser() string
}

// Connection is a voice channel handle owned by one session.
type Connection interface {
	// OpenStream starts decoding url and returns once audio is flowing.
	OpenStream(ctx context.Context, url string) (Stream, error)
	// Play renders s and calls onIdle exactly once when it ends, whether it
	// ran out or was stopped.
	Play(s Stream, onIdle func())
	Pause()
	Resume()
	Paused() bool
	// StopCurrent ends the current stream without waiting for it to drain.
	StopCurrent()
	Disconnect() error
}

// Sink connects to voice channels.
type Sink interface {
	// Connect joins the channel. When ctx ends before the handshake is done it
	// returns a degraded connection together with ErrNotReady.
	Connect(ctx context.Context, guildID, channelID string) (Connection, error)
}

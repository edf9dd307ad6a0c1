// Package voice is the Discord voice sink: it joins channels through
// discordgo and renders PCM streams as opus frames.
package voice

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/keshon/jukebox/internal/music/stream"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"gopkg.in/hraban/opus.v2"
)

const (
	bitrate     = 96000
	maxOpusSize = 4000
	frameDur    = 20 * time.Millisecond
)

// Sink implements stream.Sink on a discordgo session.
type Sink struct {
	dg    *discordgo.Session
	chain *stream.Chain
	log   zerolog.Logger
}

func NewSink(dg *discordgo.Session, chain *stream.Chain, log zerolog.Logger) *Sink {
	return &Sink{dg: dg, chain: chain, log: log}
}

// Connect joins channelID. If ctx ends first and discordgo already tracks a
// connection for the guild, that connection is returned with ErrNotReady.
func (s *Sink) Connect(ctx context.Context, guildID, channelID string) (stream.Connection, error) {
	type result struct {
		vc  *discordgo.VoiceConnection
		err error
	}
	done := make(chan result, 1)
	go func() {
		vc, err := s.dg.ChannelVoiceJoin(guildID, channelID, false, true)
		done <- result{vc, err}
	}()

	conn := &Connection{guildID: guildID, dg: s.dg, chain: s.chain, log: s.log}

	select {
	case res := <-done:
		if res.err == nil {
			conn.vc = res.vc
			return conn, nil
		}
		if s.lookup(guildID) == nil {
			return nil, fmt.Errorf("join voice channel %s: %w", channelID, res.err)
		}
		s.log.Debug().Err(res.err).Str("guild", guildID).Msg("voice join returned error with tracked connection")
		return conn, stream.ErrNotReady
	case <-ctx.Done():
		if s.lookup(guildID) == nil {
			return nil, fmt.Errorf("join voice channel %s: %w", channelID, ctx.Err())
		}
		return conn, stream.ErrNotReady
	}
}

func (s *Sink) lookup(guildID string) *discordgo.VoiceConnection {
	s.dg.RLock()
	defer s.dg.RUnlock()
	return s.dg.VoiceConnections[guildID]
}

type playback struct {
	stop chan struct{}
	once sync.Once
}

func (p *playback) halt() {
	p.once.Do(func() { close(p.stop) })
}

// Connection is one guild's voice handle.
type Connection struct {
	guildID string
	dg      *discordgo.Session
	chain   *stream.Chain
	log     zerolog.Logger

	mu      sync.Mutex
	vc      *discordgo.VoiceConnection
	current *playback
	paused  atomic.Bool
}

func (c *Connection) voice() *discordgo.VoiceConnection {
	c.mu.Lock()
	vc := c.vc
	c.mu.Unlock()
	if vc != nil {
		return vc
	}

	c.dg.RLock()
	vc = c.dg.VoiceConnections[c.guildID]
	c.dg.RUnlock()
	if vc != nil {
		c.mu.Lock()
		c.vc = vc
		c.mu.Unlock()
	}
	return vc
}

// sender returns the opus channel once the handshake has finished.
func (c *Connection) sender() chan []byte {
	vc := c.voice()
	if vc == nil {
		return nil
	}
	vc.RLock()
	defer vc.RUnlock()
	if !vc.Ready {
		return nil
	}
	return vc.OpusSend
}

func (c *Connection) OpenStream(ctx context.Context, url string) (stream.Stream, error) {
	return c.chain.Open(ctx, url)
}

// Play renders s in the background. onIdle runs after the stream is closed.
func (c *Connection) Play(s stream.Stream, onIdle func()) {
	p := &playback{stop: make(chan struct{})}

	c.mu.Lock()
	prev := c.current
	c.current = p
	c.mu.Unlock()
	if prev != nil {
		prev.halt()
	}
	c.paused.Store(false)

	go func() {
		defer onIdle()
		defer s.Close()
		defer c.release(p)

		if err := c.render(s, p.stop); err != nil {
			c.log.Warn().Err(err).Str("guild", c.guildID).Str("parser", s.Parser()).Msg("playback ended with error")
		}
	}()
}

func (c *Connection) release(p *playback) {
	c.mu.Lock()
	if c.current == p {
		c.current = nil
	}
	c.mu.Unlock()
	c.speaking(false)
}

func (c *Connection) speaking(on bool) {
	vc := c.voice()
	if vc == nil {
		return
	}
	if err := vc.Speaking(on); err != nil {
		c.log.Debug().Err(err).Bool("speaking", on).Msg("speaking update failed")
	}
}

func (c *Connection) render(r io.Reader, stop <-chan struct{}) error {
	encoder, err := opus.NewEncoder(stream.SampleRate, stream.Channels, opus.AppAudio)
	if err != nil {
		return fmt.Errorf("encoder error: %w", err)
	}
	if err := encoder.SetBitrate(bitrate); err != nil {
		return fmt.Errorf("encoder bitrate: %w", err)
	}

	c.speaking(true)

	pcmBuf := make([]byte, stream.FrameBytes)
	intBuf := make([]int16, stream.FrameSize*stream.Channels)
	opusBuf := make([]byte, maxOpusSize)
	tick := time.NewTicker(frameDur)
	defer tick.Stop()

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if c.paused.Load() {
			select {
			case <-stop:
				return nil
			case <-tick.C:
			}
			continue
		}

		if _, err := io.ReadFull(r, pcmBuf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		samples(pcmBuf, intBuf)
		n, err := encoder.Encode(intBuf, opusBuf)
		if err != nil {
			return fmt.Errorf("encode error: %w", err)
		}
		frame := make([]byte, n)
		copy(frame, opusBuf[:n])

		send := c.sender()
		if send == nil {
			// Not ready yet: drop the frame but keep real-time pacing.
			select {
			case <-stop:
				return nil
			case <-tick.C:
			}
			continue
		}
		select {
		case <-stop:
			return nil
		case send <- frame:
		}
	}
}

// samples decodes little-endian s16 PCM.
func samples(pcm []byte, out []int16) {
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
	}
}

func (c *Connection) Pause()       { c.paused.Store(true) }
func (c *Connection) Resume()      { c.paused.Store(false) }
func (c *Connection) Paused() bool { return c.paused.Load() }

func (c *Connection) StopCurrent() {
	c.mu.Lock()
	p := c.current
	c.mu.Unlock()
	if p != nil {
		p.halt()
	}
}

func (c *Connection) Disconnect() error {
	c.StopCurrent()
	vc := c.voice()
	if vc == nil {
		return nil
	}
	if err := vc.Disconnect(); err != nil {
		return fmt.Errorf("voice disconnect: %w", err)
	}
	return nil
}

// Package resolver turns a user query into one playable track or a short list
// of candidates. Provider failures never escape: they are logged and counted
// as "no results from that provider".
package resolver

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/keshon/jukebox/internal/music/sources"
	"github.com/keshon/jukebox/internal/music/track"
	"github.com/keshon/jukebox/pkg/retrylimit"

	"github.com/rs/zerolog"
)

// TopN is the size of the disambiguation list.
const TopN = 5

// ErrNotFound is the only error Resolve returns.
var ErrNotFound = errors.New("no playable result")

// Options wires the providers. Only Primary is required.
type Options struct {
	Primary     sources.Searcher
	Secondary   sources.Searcher
	Direct      []sources.Lookuper // provider-specific link lookups, tried first
	Probe       sources.Lookuper   // basic info probe, tried after Direct
	Aggregators []sources.Aggregator

	Limiter  *retrylimit.AdaptiveLimiter
	Attempts int
	Logger   zerolog.Logger
}

// Resolver dispatches queries to providers. Safe for concurrent use.
type Resolver struct {
	opts  Options
	retry retrylimit.Policy
	log   zerolog.Logger
}

// New returns a Resolver.
func New(opts Options) *Resolver {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}

	retry := retrylimit.DefaultPolicy()
	retry.Attempts = opts.Attempts
	retry.BaseDelay = 250 * time.Millisecond
	retry.MaxDelay = 2 * time.Second

	return &Resolver{opts: opts, retry: retry, log: opts.Logger}
}

// Resolve returns exactly one track for query or ErrNotFound.
//
// Aggregator links are re-searched on the primary provider, other URLs go
// through direct lookup and probing before degrading to an opaque stream, and
// free text is searched on the primary then the secondary provider.
func (r *Resolver) Resolve(ctx context.Context, query, requestedBy string) (track.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return track.Track{}, ErrNotFound
	}

	for _, agg := range r.opts.Aggregators {
		if agg.Match(query) {
			return r.viaAggregator(ctx, agg, query, requestedBy)
		}
	}

	if sources.IsURL(query) {
		return r.fromURL(ctx, query, requestedBy), nil
	}

	hits := r.searchChain(ctx, query, 1)
	if len(hits) == 0 {
		return track.Track{}, ErrNotFound
	}
	return hits[0].Track(query, requestedBy), nil
}

// SearchTop5 returns up to five candidates for free text, from the first
// provider that has any.
func (r *Resolver) SearchTop5(ctx context.Context, query string) []track.Candidate {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	hits := r.searchChain(ctx, query, TopN)
	if len(hits) > TopN {
		hits = hits[:TopN]
	}

	out := make([]track.Candidate, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Candidate(query))
	}
	return out
}

func (r *Resolver) viaAggregator(ctx context.Context, agg sources.Aggregator, query, requestedBy string) (track.Track, error) {
	var meta sources.Hit
	err := r.call(ctx, agg.Name(), "lookup", func() error {
		var err error
		meta, err = agg.Lookup(ctx, query)
		return err
	})
	if err != nil {
		return track.Track{}, ErrNotFound
	}

	name := meta.DisplayTitle("")
	if name == "" {
		return track.Track{}, ErrNotFound
	}

	searchText := name
	if len(meta.Artists) > 0 {
		searchText = strings.TrimSpace(name + " " + meta.Artists[0])
	}

	hits := r.search(ctx, r.opts.Primary, searchText, 1)
	if len(hits) == 0 {
		return track.Track{}, ErrNotFound
	}
	hit := hits[0]

	title := name
	if len(meta.Artists) > 0 {
		title = name + " — " + strings.Join(meta.Artists, ", ")
	}

	return track.Track{
		Title:       title,
		URL:         hit.URL,
		Thumbnail:   hit.BestThumbnail(),
		RequestedBy: requestedBy,
		SourceLabel: track.ChainLabel(agg.Name(), hit.Source),
	}, nil
}

// fromURL never fails: unknown links degrade to an opaque direct stream.
func (r *Resolver) fromURL(ctx context.Context, link, requestedBy string) track.Track {
	for _, lk := range r.opts.Direct {
		if !lk.Match(link) {
			continue
		}
		if hit, ok := r.lookup(ctx, lk, link); ok {
			if hit.URL == "" {
				hit.URL = link
			}
			return hit.Track(link, requestedBy)
		}
	}

	if p := r.opts.Probe; p != nil && p.Match(link) {
		if hit, ok := r.lookup(ctx, p, link); ok {
			hit.URL = link
			return hit.Track(link, requestedBy)
		}
	}

	return track.Track{
		Title:       track.DirectTitle,
		URL:         link,
		RequestedBy: requestedBy,
		SourceLabel: track.LabelDirect,
	}
}

func (r *Resolver) lookup(ctx context.Context, lk sources.Lookuper, link string) (sources.Hit, bool) {
	var hit sources.Hit
	err := r.call(ctx, lk.Name(), "lookup", func() error {
		var err error
		hit, err = lk.Lookup(ctx, link)
		return err
	})
	return hit, err == nil
}

func (r *Resolver) searchChain(ctx context.Context, text string, limit int) []sources.Hit {
	if hits := r.search(ctx, r.opts.Primary, text, limit); len(hits) > 0 {
		return hits
	}
	return r.search(ctx, r.opts.Secondary, text, limit)
}

func (r *Resolver) search(ctx context.Context, s sources.Searcher, text string, limit int) []sources.Hit {
	if s == nil {
		return nil
	}

	var hits []sources.Hit
	err := r.call(ctx, s.Name(), "search", func() error {
		var err error
		hits, err = s.Search(ctx, text, limit)
		return err
	})
	if err != nil {
		return nil
	}

	r.log.Debug().Str("provider", s.Name()).Str("query", text).Int("hits", len(hits)).Msg("search")

	// A hit without a URL cannot be played.
	playable := make([]sources.Hit, 0, len(hits))
	for _, h := range hits {
		if h.URL != "" {
			playable = append(playable, h)
		}
	}
	hits = playable
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// call runs fn under the shared limiter and retry policy and logs the final
// error. The caller treats any error as "no results".
func (r *Resolver) call(ctx context.Context, provider, op string, fn func() error) error {
	err := r.retry.Do(ctx, r.opts.Limiter, func(context.Context) error { return fn() })
	if err != nil {
		r.log.Warn().Err(err).Str("provider", provider).Str("op", op).Msg("provider call failed")
	}
	return err
}

package usecases

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	codecProbeTimeout = 30 * time.Second
	// sharedExtractionTimeout bounds a single-flight extraction, which no
	// longer follows any one caller's cancellation.
	sharedExtractionTimeout = 2 * time.Minute
)

// ResolveInput contains the input for the Resolve use case.
type ResolveInput struct {
	Identifier  string
	RequesterID snowflake.ID
}

// ResolveOutput contains the result of the Resolve use case.
type ResolveOutput struct {
	Track     *domain.Track
	FromCache bool
}

// StreamResolverOption configures a StreamResolver.
type StreamResolverOption func(*StreamResolver)

// WithSingleFlight collapses concurrent misses for the same identifier into
// one extraction.
func WithSingleFlight() StreamResolverOption {
	return func(r *StreamResolver) {
		r.group = &singleflight.Group{}
	}
}

// WithRateLimit bounds how often the extractor is called.
// A non-positive limit disables rate limiting.
func WithRateLimit(perSecond float64, burst int) StreamResolverOption {
	return func(r *StreamResolver) {
		if perSecond <= 0 {
			r.limiter = nil
			return
		}
		r.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

// WithCodecProbe refines the codec hint of fresh resolutions in the background.
func WithCodecProbe(probe *CodecProbeService) StreamResolverOption {
	return func(r *StreamResolver) {
		r.codecProbe = probe
	}
}

// WithResolverMetrics reports cache and extraction counters.
func WithResolverMetrics(metrics ports.ResolverMetrics) StreamResolverOption {
	return func(r *StreamResolver) {
		if metrics != nil {
			r.metrics = metrics
		}
	}
}

// WithDefaultVolume sets the volume given to resolved tracks.
func WithDefaultVolume(volume float64) StreamResolverOption {
	return func(r *StreamResolver) {
		r.defaultVolume = volume
	}
}

// StreamResolver turns source identifiers into tracks, consulting the
// resolution cache before extracting.
type StreamResolver struct {
	cache      ports.ResolutionCache
	extractor  ports.Extractor
	codecProbe *CodecProbeService
	metrics    ports.ResolverMetrics
	limiter    *rate.Limiter
	group      *singleflight.Group

	defaultVolume float64
}

// NewStreamResolver creates a new StreamResolver.
func NewStreamResolver(
	cache ports.ResolutionCache,
	extractor ports.Extractor,
	opts ...StreamResolverOption,
) *StreamResolver {
	r := &StreamResolver{
		cache:         cache,
		extractor:     extractor,
		metrics:       noopMetrics{},
		defaultVolume: domain.DefaultVolume,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a new Track for the identifier. A cached resolution is used
// without calling the extractor. Extraction failures are returned as
// *domain.ResolutionError and are never cached. A failure to store a fresh
// resolution is logged and the Track is still returned.
func (r *StreamResolver) Resolve(ctx context.Context, input ResolveInput) (*ResolveOutput, error) {
	id := domain.NewSourceIdentifier(input.Identifier)
	if id.IsEmpty() {
		return nil, ErrEmptyIdentifier
	}

	descriptor, fromCache, err := r.descriptor(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ResolveOutput{
		Track:     domain.NewTrack(descriptor, r.defaultVolume, input.RequesterID),
		FromCache: fromCache,
	}, nil
}

func (r *StreamResolver) descriptor(
	ctx context.Context,
	id domain.SourceIdentifier,
) (domain.StreamDescriptor, bool, error) {
	cached, err := r.cache.Get(ctx, id)
	switch {
	case err == nil:
		r.metrics.CacheHit()
		return cached, true, nil
	case !errors.Is(err, domain.ErrCacheMiss):
		slog.Warn("failed to read resolution cache", "identifier", id, "error", err)
	}
	r.metrics.CacheMiss()

	if r.group == nil {
		d, err := r.extractAndStore(ctx, id)
		return d, false, err
	}

	// The shared call must outlive the caller that started it; every caller
	// still stops waiting when its own ctx is done.
	ch := r.group.DoChan(id.String(), func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedExtractionTimeout)
		defer cancel()
		return r.extractAndStore(sharedCtx, id)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return domain.StreamDescriptor{}, false, res.Err
		}
		return res.Val.(domain.StreamDescriptor), false, nil
	case <-ctx.Done():
		return domain.StreamDescriptor{}, false, &domain.ResolutionError{Identifier: id.String(), Err: ctx.Err()}
	}
}

func (r *StreamResolver) extractAndStore(
	ctx context.Context,
	id domain.SourceIdentifier,
) (domain.StreamDescriptor, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return domain.StreamDescriptor{}, &domain.ResolutionError{Identifier: id.String(), Err: err}
		}
	}

	r.metrics.Extraction()
	result, err := r.extractor.Extract(ctx, id)
	if err == nil && (result == nil || result.StreamURL == "") {
		err = domain.ErrNoStream
	}
	if err != nil {
		r.metrics.ExtractionFailed()
		return domain.StreamDescriptor{}, &domain.ResolutionError{Identifier: id.String(), Err: err}
	}

	descriptor := domain.StreamDescriptor{
		StreamURL: result.StreamURL,
		Title:     result.Title,
		PageURL:   result.PageURL,
		Uploader:  result.Uploader,
		CodecHint: domain.CodecHintUnknown,
	}

	if err := r.cache.Put(ctx, id, descriptor); err != nil {
		r.metrics.CacheWriteFailed()
		slog.Warn("failed to store resolution", "identifier", id, "error", err)
		return descriptor, nil
	}

	if r.codecProbe != nil {
		go r.refineCodec(descriptor.StreamURL)
	}

	return descriptor, nil
}

func (r *StreamResolver) refineCodec(streamURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), codecProbeTimeout)
	defer cancel()

	hint, err := r.codecProbe.Refine(ctx, streamURL)
	if err != nil {
		slog.Debug("failed to refine codec hint", "error", err)
		return
	}
	slog.Debug("refined codec hint", "hint", hint)
}

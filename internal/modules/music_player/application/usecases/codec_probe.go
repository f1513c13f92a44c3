package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

// CodecProbeService fills in the codec hint of cached resolutions.
type CodecProbeService struct {
	cache  ports.ResolutionCache
	prober ports.CodecProber
}

// NewCodecProbeService creates a new CodecProbeService.
func NewCodecProbeService(cache ports.ResolutionCache, prober ports.CodecProber) *CodecProbeService {
	return &CodecProbeService{
		cache:  cache,
		prober: prober,
	}
}

// Refine returns the codec hint for a stream URL. A known hint already in the
// cache is returned without probing. Otherwise the stream is probed and the
// result stored on the matching cache entry. A failed probe leaves the cache
// untouched and returns CodecHintUnknown with the error.
func (s *CodecProbeService) Refine(ctx context.Context, streamURL string) (domain.CodecHint, error) {
	hint, err := s.cache.LookupCodecHint(ctx, streamURL)
	if err == nil && hint.IsKnown() {
		return hint, nil
	}
	if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
		return domain.CodecHintUnknown, fmt.Errorf("failed to look up codec hint: %w", err)
	}

	hint, err = s.prober.Probe(ctx, streamURL)
	if err != nil {
		return domain.CodecHintUnknown, fmt.Errorf("failed to probe stream: %w", err)
	}

	if err := s.cache.UpdateCodecHint(ctx, streamURL, hint); err != nil {
		return hint, fmt.Errorf("failed to store codec hint: %w", err)
	}
	return hint, nil
}

package ports

import (
	"context"

	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

// ResolutionCache persists source identifier to stream descriptor resolutions.
type ResolutionCache interface {
	// Get returns the stored descriptor, or domain.ErrCacheMiss.
	Get(ctx context.Context, id domain.SourceIdentifier) (domain.StreamDescriptor, error)

	// Put stores the descriptor, overwriting any previous entry in full.
	Put(ctx context.Context, id domain.SourceIdentifier, descriptor domain.StreamDescriptor) error

	// UpdateCodecHint sets the codec hint on the entry whose source identifier
	// or stream URL equals key. Returns domain.ErrCacheEntryNotFound if none matched.
	UpdateCodecHint(ctx context.Context, key string, hint domain.CodecHint) error

	// LookupCodecHint returns the codec hint stored for a stream URL, or domain.ErrCacheMiss.
	LookupCodecHint(ctx context.Context, streamURL string) (domain.CodecHint, error)

	// Close releases the underlying storage.
	Close() error
}

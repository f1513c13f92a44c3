package ports

import (
	"context"

	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

// CodecProber inspects a stream to find its audio codec.
type CodecProber interface {
	Probe(ctx context.Context, streamURL string) (domain.CodecHint, error)
}

package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

// DefaultProbeTimeout bounds how long FFmpeg may wait on the network.
const DefaultProbeTimeout = 15 * time.Second

// ErrNoAudioStream is returned when a probed input has no audio stream.
var ErrNoAudioStream = errors.New("no audio stream")

func init() {
	astiav.SetLogLevel(astiav.LogLevelFatal)
}

// AstiavProber finds the audio codec of a stream with FFmpeg's demuxers.
type AstiavProber struct {
	timeout time.Duration
}

// NewAstiavProber creates a new AstiavProber.
func NewAstiavProber(timeout time.Duration) *AstiavProber {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &AstiavProber{timeout: timeout}
}

// Probe opens the stream and reports whether its first audio stream is Opus.
// FFmpeg calls cannot be interrupted, so a cancelled ctx returns early while
// the probe finishes in the background within the configured timeout.
func (p *AstiavProber) Probe(ctx context.Context, streamURL string) (domain.CodecHint, error) {
	if err := ctx.Err(); err != nil {
		return domain.CodecHintUnknown, err
	}

	type outcome struct {
		hint domain.CodecHint
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		hint, err := p.probe(streamURL)
		done <- outcome{hint: hint, err: err}
	}()

	select {
	case <-ctx.Done():
		return domain.CodecHintUnknown, ctx.Err()
	case o := <-done:
		return o.hint, o.err
	}
}

func (p *AstiavProber) probe(streamURL string) (domain.CodecHint, error) {
	inputCtx := astiav.AllocFormatContext()
	if inputCtx == nil {
		return domain.CodecHintUnknown, errors.New("failed to alloc format context")
	}
	defer inputCtx.Free()

	opts := astiav.NewDictionary()
	defer opts.Free()
	opts.Set("timeout", strconv.FormatInt(p.timeout.Microseconds(), 10), 0)
	opts.Set("rw_timeout", strconv.FormatInt(p.timeout.Microseconds(), 10), 0)

	if err := inputCtx.OpenInput(streamURL, nil, opts); err != nil {
		return domain.CodecHintUnknown, fmt.Errorf("failed to open input: %w", err)
	}
	defer inputCtx.CloseInput()

	if err := inputCtx.FindStreamInfo(nil); err != nil {
		return domain.CodecHintUnknown, fmt.Errorf("failed to find stream info: %w", err)
	}

	for _, s := range inputCtx.Streams() {
		params := s.CodecParameters()
		if params.MediaType() != astiav.MediaTypeAudio {
			continue
		}
		return codecHintFor(params.CodecID()), nil
	}

	return domain.CodecHintUnknown, ErrNoAudioStream
}

func codecHintFor(id astiav.CodecID) domain.CodecHint {
	if id == astiav.CodecIDOpus {
		return domain.CodecHintOpus
	}
	return domain.CodecHintOther
}

// Ensure AstiavProber implements ports.CodecProber.
var _ ports.CodecProber = (*AstiavProber)(nil)

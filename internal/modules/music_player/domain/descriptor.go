package domain

// CodecHint is an advisory tag describing the audio codec of a stream.
type CodecHint string

const (
	CodecHintUnknown CodecHint = "unknown"
	CodecHintOpus    CodecHint = "opus"
	CodecHintOther   CodecHint = "other"
)

// ParseCodecHint converts a stored value to a CodecHint.
// Empty and unrecognised values are unknown.
func ParseCodecHint(s string) CodecHint {
	switch CodecHint(s) {
	case CodecHintOpus:
		return CodecHintOpus
	case CodecHintOther:
		return CodecHintOther
	default:
		return CodecHintUnknown
	}
}

// IsKnown returns true if the hint carries information.
func (h CodecHint) IsKnown() bool {
	return h == CodecHintOpus || h == CodecHintOther
}

// StreamDescriptor is the result of resolving a SourceIdentifier.
type StreamDescriptor struct {
	StreamURL string // Direct, playable media URL
	Title     string
	PageURL   string // Human-facing page the stream was extracted from
	Uploader  string
	CodecHint CodecHint
}

// Source returns the platform the descriptor was resolved from.
func (d StreamDescriptor) Source() TrackSource {
	return ParseTrackSource(d.PageURL)
}

// IsValid returns true if the descriptor has a stream to play.
func (d StreamDescriptor) IsValid() bool {
	return d.StreamURL != ""
}

// DisplayTitle returns the title, falling back to the page URL.
func (d StreamDescriptor) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	if d.PageURL != "" {
		return d.PageURL
	}
	return d.StreamURL
}

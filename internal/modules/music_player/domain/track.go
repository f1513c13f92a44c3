package domain

import (
	"math"
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// DefaultVolume is the volume a Track gets when none is requested.
const DefaultVolume = 0.8

// TrackID uniquely identifies one Track. Completion signals carry it so a
// late signal for an earlier track can be recognised.
type TrackID string

// NewTrackID returns a random TrackID.
func NewTrackID() TrackID {
	return TrackID(uuid.NewString())
}

// Track is an immutable playable unit built from a StreamDescriptor.
type Track struct {
	ID          TrackID
	Descriptor  StreamDescriptor
	Volume      float64      // Linear gain in [0, 1]
	RequesterID snowflake.ID // Discord user who added the track
	EnqueuedAt  time.Time
}

// NewTrack creates a new Track with a fresh ID. The volume is clamped to [0, 1].
func NewTrack(descriptor StreamDescriptor, volume float64, requesterID snowflake.ID) *Track {
	return &Track{
		ID:          NewTrackID(),
		Descriptor:  descriptor,
		Volume:      clampVolume(volume),
		RequesterID: requesterID,
		EnqueuedAt:  time.Now().UTC(),
	}
}

// WithVolume returns a copy of the track with a different volume.
// The copy keeps the ID, so it still matches completion signals.
func (t *Track) WithVolume(volume float64) *Track {
	c := *t
	c.Volume = clampVolume(volume)
	return &c
}

// Clone returns a copy of the track.
func (t *Track) Clone() *Track {
	c := *t
	return &c
}

// IsValid returns true if the track has the minimum required fields.
// A nil track is not valid.
func (t *Track) IsValid() bool {
	return t != nil && t.ID != "" && t.Descriptor.IsValid()
}

// VolumePercent returns the volume as an integer percentage.
func (t *Track) VolumePercent() int {
	return int(math.Round(t.Volume * 100))
}

// FormattedVolume returns the volume as a human-readable percentage.
func (t *Track) FormattedVolume() string {
	return strconv.Itoa(t.VolumePercent()) + "%"
}

// VolumeFromPercent converts a 0-100 percentage to a linear volume.
func VolumeFromPercent(percent int) float64 {
	return float64(percent) / 100
}

func clampVolume(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

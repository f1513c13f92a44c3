package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// PlayerStateRepository defines the interface for storing and retrieving player states.
// A guild without a stored state is idle.
type PlayerStateRepository interface {
	// Get returns the PlayerState for the given guild, or nil if not exists.
	Get(guildID snowflake.ID) *PlayerState

	// Save stores the PlayerState.
	Save(state *PlayerState)

	// Delete removes the PlayerState for the given guild.
	Delete(guildID snowflake.ID)

	// Count returns the number of stored states.
	Count() int
}

package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/usecases"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingVoiceStateHandler struct {
	inputs []usecases.BotVoiceStateChangeInput
}

func (r *recordingVoiceStateHandler) HandleBotVoiceStateChange(input usecases.BotVoiceStateChangeInput) {
	r.inputs = append(r.inputs, input)
}

func voiceStateUpdate(userID, channelID string) *discordgo.VoiceStateUpdate {
	return &discordgo.VoiceStateUpdate{
		VoiceState: &discordgo.VoiceState{
			GuildID:   "100",
			UserID:    userID,
			ChannelID: channelID,
		},
	}
}

func TestHandleVoiceStateUpdate(t *testing.T) {
	botID := snowflake.ID(42)

	t.Run("moved", func(t *testing.T) {
		handler := &recordingVoiceStateHandler{}
		h := NewEventHandlers(botID, handler)

		h.HandleVoiceStateUpdate(nil, voiceStateUpdate("42", "500"))

		require.Len(t, handler.inputs, 1)
		assert.Equal(t, snowflake.ID(100), handler.inputs[0].GuildID)
		require.NotNil(t, handler.inputs[0].NewChannelID)
		assert.Equal(t, snowflake.ID(500), *handler.inputs[0].NewChannelID)
	})

	t.Run("disconnected", func(t *testing.T) {
		handler := &recordingVoiceStateHandler{}
		h := NewEventHandlers(botID, handler)

		h.HandleVoiceStateUpdate(nil, voiceStateUpdate("42", ""))

		require.Len(t, handler.inputs, 1)
		assert.Nil(t, handler.inputs[0].NewChannelID)
	})

	t.Run("other users ignored", func(t *testing.T) {
		handler := &recordingVoiceStateHandler{}
		h := NewEventHandlers(botID, handler)

		h.HandleVoiceStateUpdate(nil, voiceStateUpdate("7", "500"))

		assert.Empty(t, handler.inputs)
	})
}

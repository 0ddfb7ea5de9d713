package settings

import (
	"testing"

	"github.com/whoami669/my-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSettingsEmbed(t *testing.T) {
	welcome := int64(111)
	embed := buildSettingsEmbed(&models.GuildSettings{
		GuildID:          1,
		WelcomeChannelID: &welcome,
		LevelingEnabled:  true,
	})

	require.Len(t, embed.Fields, 7)
	assert.Equal(t, "welcome", embed.Fields[0].Name)
	assert.Equal(t, "<#111>", embed.Fields[0].Value)
	assert.Equal(t, "Not set (found by name)", embed.Fields[1].Value)
	assert.Equal(t, "🟢 On", embed.Fields[5].Value)
	assert.Equal(t, "🔴 Off", embed.Fields[6].Value)
}

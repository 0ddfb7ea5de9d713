package promotion

import (
	"testing"

	"github.com/whoami669/my-bot/models"
	"github.com/whoami669/my-bot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformLabel(t *testing.T) {
	assert.Equal(t, "Reddit", platformLabel("reddit"))
	assert.Equal(t, "TikTok", platformLabel("tiktok"))
	assert.Equal(t, "Twitter/X", platformLabel("twitter"))
	assert.Equal(t, "Instagram", platformLabel("instagram"))
}

func TestBuildContentEmbed(t *testing.T) {
	url := "https://example.com/image.png"
	content := &models.GeneratedContent{
		ID:           7,
		Platform:     "reddit",
		Caption:      "Join our cozy gaming community!",
		Hashtags:     []string{"#gaming", "#discord"},
		ImagePrompt:  "a cozy room",
		CallToAction: "Click the invite link",
		ImageURL:     &url,
	}

	embed := buildContentEmbed(content)
	assert.Equal(t, "🚀 Reddit Promotional Content", embed.Title)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "#gaming #discord", embed.Fields[1].Value)
	assert.Equal(t, "Saved as draft #7", embed.Footer.Text)

	content.ImageURL = nil
	content.Caption = "HYPE TRAIN is here"
	embed = buildContentEmbed(content)
	assert.Equal(t, service.BlockedMessage, embed.Fields[0].Value)
	assert.Equal(t, "🎨 Image Prompt (for DALL-E)", embed.Fields[len(embed.Fields)-1].Name)
}

func TestBuildSetupEmbed(t *testing.T) {
	embed := buildSetupEmbed([]string{"<#1>", "<#2>"})
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "<#1>\n<#2>", embed.Fields[0].Value)

	none := buildSetupEmbed(nil)
	assert.Len(t, none.Fields, 2)
	assert.NotEmpty(t, none.Description)
}

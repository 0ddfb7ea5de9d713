package aichat

import (
	"testing"

	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestAddressedToBot(t *testing.T) {
	const botID = "99"
	human := &discordgo.User{ID: "1"}

	tests := []struct {
		name string
		msg  *discordgo.Message
		want bool
	}{
		{
			name: "mention",
			msg:  &discordgo.Message{Author: human, Mentions: []*discordgo.User{{ID: botID}}},
			want: true,
		},
		{
			name: "reply to the bot",
			msg:  &discordgo.Message{Author: human, ReferencedMessage: &discordgo.Message{Author: &discordgo.User{ID: botID}}},
			want: true,
		},
		{
			name: "reply to someone else",
			msg:  &discordgo.Message{Author: human, ReferencedMessage: &discordgo.Message{Author: &discordgo.User{ID: "2"}}},
		},
		{
			name: "bots are ignored",
			msg:  &discordgo.Message{Author: &discordgo.User{ID: "3", Bot: true}, Mentions: []*discordgo.User{{ID: botID}}},
		},
		{
			name: "plain message",
			msg:  &discordgo.Message{Author: human},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, addressedToBot(tt.msg, botID))
		})
	}
}

func TestStripMentions(t *testing.T) {
	assert.Equal(t, "hello there", stripMentions("<@99> hello there", "99"))
	assert.Equal(t, "hi", stripMentions("<@!99> hi <@99>", "99"))
}

func TestBuildReplyEmbed(t *testing.T) {
	embed := buildReplyEmbed(personaReply{title: "t", color: 1, footer: "f"}, "post this to @everyone now")
	assert.Equal(t, service.BlockedMessage, embed.Description)
	assert.Equal(t, "f", embed.Footer.Text)

	embed = buildReplyEmbed(personaReply{title: "t"}, "A calm answer.")
	assert.Equal(t, "A calm answer.", embed.Description)
	assert.Nil(t, embed.Footer)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Fantasy", titleCase("fantasy"))
	assert.Equal(t, "", titleCase(""))
}

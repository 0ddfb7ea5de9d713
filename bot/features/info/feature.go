package info

import (
	"github.com/bwmarrin/discordgo"
)

// Feature answers questions about the bot, the server and its members
type Feature struct {
	stats *Stats
}

// New creates a new info feature instance
func New(stats *Stats) *Feature {
	return &Feature{stats: stats}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	userOption := []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to inspect"},
	}

	return []*discordgo.ApplicationCommand{
		{Name: "ping", Description: "Check bot latency"},
		{Name: "info", Description: "Get bot information"},
		{Name: "uptime", Description: "Check bot uptime"},
		{Name: "serverinfo", Description: "Get server information"},
		{Name: "userinfo", Description: "Get user information", Options: userOption},
		{Name: "avatar", Description: "Get a user's avatar", Options: userOption},
	}
}

// HandleCommand routes info commands to their handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "ping":
		f.handlePing(s, i)
	case "info":
		f.handleInfo(s, i)
	case "uptime":
		f.handleUptime(s, i)
	case "serverinfo":
		f.handleServerInfo(s, i)
	case "userinfo":
		f.handleUserInfo(s, i)
	case "avatar":
		f.handleAvatar(s, i)
	}
}

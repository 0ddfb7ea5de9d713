package economy

import (
	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the guild currency commands
type Feature struct {
	economyService service.EconomyService
}

// New creates a new economy feature instance
func New(economyService service.EconomyService) *Feature {
	return &Feature{
		economyService: economyService,
	}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your or someone's balance",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to check"},
			},
		},
		{Name: "daily", Description: "Claim your daily reward"},
		{Name: "work", Description: "Work to earn money"},
		{Name: "crime", Description: "Commit a crime for money (risky)"},
		{
			Name:        "rob",
			Description: "Try to rob another member (very risky)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to rob", Required: true},
			},
		},
		{
			Name:        "give",
			Description: "Give money to another member",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Recipient", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Amount to give", Required: true, MinValue: common.Ptr(1.0)},
			},
		},
		{Name: "leaderboard", Description: "View the server's richest members"},
	}
}

// HandleCommand routes economy commands to their handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "balance":
		f.handleBalance(s, i)
	case "daily":
		f.handleDaily(s, i)
	case "work":
		f.handleWork(s, i)
	case "crime":
		f.handleCrime(s, i)
	case "rob":
		f.handleRob(s, i)
	case "give":
		f.handleGive(s, i)
	case "leaderboard":
		f.handleLeaderboard(s, i)
	}
}

package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// buildRoutes indexes every feature's commands by name. A duplicate name is
// a wiring bug, so the later feature is skipped and logged.
func (b *Bot) buildRoutes(features []commandFeature) {
	b.routes = make(map[string]commandFeature)
	b.commands = nil

	for _, feature := range features {
		for _, cmd := range feature.Commands() {
			if _, exists := b.routes[cmd.Name]; exists {
				log.Errorf("Command %q is registered by more than one feature", cmd.Name)
				continue
			}
			if cmd.DMPermission == nil {
				dm := false
				cmd.DMPermission = &dm
			}
			b.routes[cmd.Name] = feature
			b.commands = append(b.commands, cmd)
		}
	}
}

// registerCommands registers all slash commands with Discord, replacing any
// stale ones. Commands go to a single guild when one is configured.
func (b *Bot) registerCommands() error {
	appID := b.session.State.User.ID

	created, err := b.session.ApplicationCommandBulkOverwrite(appID, b.config.GuildID, b.commands)
	if err != nil {
		return fmt.Errorf("cannot register %d commands: %w", len(b.commands), err)
	}

	scope := "globally"
	if b.config.GuildID != "" {
		scope = "to guild " + b.config.GuildID
	}
	log.Infof("Registered %d slash commands %s", len(created), scope)
	return nil
}

// handleCommands routes slash commands to the feature that declared them
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name

	feature, ok := b.routes[name]
	if !ok {
		log.Warnf("Received unknown command %q", name)
		return
	}

	b.metrics.RecordCommand(name)
	feature.HandleCommand(s, i)
}

package bot

import (
	"context"
	"time"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const levelingTimeout = 10 * time.Second

// handleReady sets the presence once the gateway session is up
func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	}).Info("Discord session ready")

	if b.config.StatusText != "" {
		if err := s.UpdateGameStatus(0, b.config.StatusText); err != nil {
			log.WithError(err).Warn("Failed to set bot status")
		}
	}
}

// handleInteractions routes slash commands and component interactions
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	requestID := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"request_id": requestID,
				"guild_id":   i.GuildID,
				"panic":      r,
			}).Error("Interaction handler panicked")
		}
	}()

	log.WithFields(log.Fields{
		"request_id": requestID,
		"guild_id":   i.GuildID,
		"type":       i.Type.String(),
	}).Debug("Handling interaction")

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.GuildID == "" {
			common.RespondWithError(s, i, "Commands can only be used in a server.")
			return
		}
		b.handleCommands(s, i)

	case discordgo.InteractionMessageComponent:
		b.routeComponentInteraction(s, i, i.MessageComponentData().CustomID)
	}
}

// routeComponentInteraction routes button interactions
func (b *Bot) routeComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	switch {
	case b.fun.OwnsComponent(customID):
		b.fun.HandleComponent(s, i)
	default:
		log.Debugf("Ignoring component interaction %q", customID)
	}
}

// handleGuildCreate handles startup guild streaming and new joins
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Unavailable {
		return
	}
	b.welcome.OnGuildCreate(context.Background(), g.ID)
	b.invites.LoadGuild(s, g.ID)
	log.Infof("Guild available: %s (ID: %s, members: %d)", g.Name, g.ID, g.MemberCount)
}

// handleGuildDelete forgets a guild the bot was removed from. An outage
// also sends a delete, marked unavailable.
func (b *Bot) handleGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		return
	}
	b.invites.ForgetGuild(g.ID)
	log.Infof("Removed from guild %s", g.ID)
}

func (b *Bot) handleMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	ctx := context.Background()
	// Attribution has to read the invite list before anything else changes it
	b.invites.OnMemberJoin(ctx, s, m)
	b.welcome.OnMemberJoin(ctx, s, m)
}

func (b *Bot) handleMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	ctx := context.Background()
	b.invites.OnMemberLeave(ctx, m)
	b.welcome.OnMemberLeave(ctx, s, m)
}

func (b *Bot) handleMemberUpdate(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	b.welcome.OnMemberUpdate(context.Background(), s, m)
}

func (b *Bot) handleInviteCreate(s *discordgo.Session, e *discordgo.InviteCreate) {
	b.invites.OnInviteCreate(e)
}

func (b *Bot) handleInviteDelete(s *discordgo.Session, e *discordgo.InviteDelete) {
	b.invites.OnInviteDelete(e)
}

// handleMessageCreate feeds analytics and leveling, then lets an active game
// or the sassy responder answer
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}

	if m.GuildID == "" {
		b.metrics.RecordMessageRead(observability.MessageTypeDirect)
		log.Debugf("Skipping message %s - not from a guild", m.ID)
		return
	}
	b.metrics.RecordMessageRead(observability.MessageTypeGuild)

	ctx := context.Background()

	b.insights.OnMessage(ctx, m)
	b.awardXP(ctx, m)

	if b.games.OnMessage(ctx, s, m) {
		return
	}
	b.aiChat.OnMessage(ctx, s, m)
}

// awardXP grants message XP. Level-ups are announced by the event subscription.
func (b *Bot) awardXP(ctx context.Context, m *discordgo.MessageCreate) {
	guildID, err := common.ParseID(m.GuildID)
	if err != nil {
		return
	}
	channelID, err := common.ParseID(m.ChannelID)
	if err != nil {
		return
	}
	userID, err := common.ParseID(m.Author.ID)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, levelingTimeout)
	defer cancel()

	if _, err := b.services.Leveling.ProcessMessage(ctx, guildID, channelID, userID); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guild_id": m.GuildID,
			"user_id":  m.Author.ID,
		}).Error("Failed to award message XP")
	}
}

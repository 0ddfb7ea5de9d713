package bot

import (
	"context"

	"github.com/whoami669/my-bot/events"

	log "github.com/sirupsen/logrus"
)

// RegisterBotSubscriptions registers the event handlers that need Discord:
// level-up announcements, invite milestone roles and metrics
func RegisterBotSubscriptions(bus *events.Bus, bot *Bot) {
	bus.Subscribe(events.EventTypeLevelUp, func(ctx context.Context, event events.Event) {
		levelUp, ok := event.(events.LevelUpEvent)
		if !ok {
			log.Errorf("Received %T in level up handler", event)
			return
		}
		if err := bot.leveling.AnnounceLevelUp(ctx, levelUp); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"guildID": levelUp.GuildID,
				"userID":  levelUp.UserID,
				"level":   levelUp.NewLevel,
			}).Error("Failed to announce level up")
		}
	})

	bus.Subscribe(events.EventTypeInviteMilestone, func(ctx context.Context, event events.Event) {
		milestone, ok := event.(events.InviteMilestoneEvent)
		if !ok {
			log.Errorf("Received %T in invite milestone handler", event)
			return
		}
		if err := bot.invites.RewardMilestone(ctx, milestone); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"guildID":   milestone.GuildID,
				"inviterID": milestone.InviterID,
				"count":     milestone.Count,
			}).Error("Failed to reward invite milestone")
		}
	})

	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		if change, ok := event.(events.BalanceChangeEvent); ok {
			bot.metrics.RecordBalanceTransaction(string(change.TransactionType))
		}
	})

	bus.Subscribe(events.EventTypeAIDecision, func(ctx context.Context, event events.Event) {
		if decision, ok := event.(events.AIDecisionEvent); ok {
			log.WithFields(log.Fields{
				"guildID":    decision.GuildID,
				"engine":     decision.Engine,
				"decision":   decision.DecisionType,
				"confidence": decision.Confidence,
				"executed":   decision.Executed,
			}).Info("AI decision recorded")
		}
	})

	log.Info("Bot event subscriptions registered successfully")
}

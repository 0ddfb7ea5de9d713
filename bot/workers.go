package bot

import (
	"context"
	"time"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/bot/features/utility"
	"github.com/whoami669/my-bot/repository"

	log "github.com/sirupsen/logrus"
)

// Worker intervals
const (
	reminderInterval   = 30 * time.Second
	analyticsInterval  = time.Hour
	autonomousInterval = 24 * time.Hour
	cognitiveInterval  = 6 * time.Hour
	gamePruneInterval  = 5 * time.Minute

	guildJobTimeout = 5 * time.Minute
)

// StartWorkers starts every background worker and returns a cleanup function
// that stops them all
func (b *Bot) StartWorkers(ctx context.Context) func() {
	stops := []func(){
		startWorker(ctx, "Reminder", reminderInterval, true, b.deliverReminders),
		startWorker(ctx, "Analytics", analyticsInterval, false, b.runAnalytics),
		startWorker(ctx, "Autonomous manager", autonomousInterval, false, b.runAutonomous),
		startWorker(ctx, "Cognitive engine", cognitiveInterval, false, b.runCognitive),
		startWorker(ctx, "Game session", gamePruneInterval, false, b.pruneGames),
	}

	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}

// startWorker runs job on every tick until ctx is cancelled or the returned
// function is called
func startWorker(ctx context.Context, name string, interval time.Duration, runNow bool, job func(ctx context.Context)) func() {
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})

	go func() {
		log.Infof("%s worker started (every %v)", name, interval)

		if runNow {
			job(ctx)
		}

		for {
			select {
			case <-ctx.Done():
				log.Infof("%s worker shutting down (context cancelled)...", name)
				return
			case <-stopChan:
				log.Infof("%s worker shutting down (stop requested)...", name)
				return
			case <-ticker.C:
				job(ctx)
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}

// guildIDs lists the guilds the session currently sees
func (b *Bot) guildIDs() []string {
	b.session.State.RLock()
	defer b.session.State.RUnlock()

	ids := make([]string, 0, len(b.session.State.Guilds))
	for _, guild := range b.session.State.Guilds {
		ids = append(ids, guild.ID)
	}
	return ids
}

func (b *Bot) deliverReminders(ctx context.Context) {
	delivered, err := b.services.Reminders.DeliverDue(ctx, utility.ReminderDeliverer(b.session))
	if err != nil {
		log.WithError(err).Error("Failed to deliver due reminders")
		return
	}
	if delivered > 0 {
		log.Infof("Delivered %d reminders", delivered)
	}
}

// runAnalytics refreshes each guild's insights and prunes old activity
func (b *Bot) runAnalytics(ctx context.Context) {
	for _, id := range b.guildIDs() {
		guildID, err := common.ParseID(id)
		if err != nil {
			continue
		}

		jobCtx, cancel := context.WithTimeout(ctx, guildJobTimeout)
		insights, err := b.services.Analytics.BuildInsights(jobCtx, guildID)
		cancel()
		if err != nil {
			log.WithError(err).Errorf("Failed to build insights for guild %s", id)
			continue
		}

		log.WithFields(log.Fields{
			"guildID":         id,
			"messages":        insights.TotalMessages,
			"activeUsers":     insights.ActiveUsers,
			"channelsTracked": insights.ChannelsTracked,
		}).Debug("Hourly analytics refreshed")
	}

	if b.services.PruneActivity == nil {
		return
	}
	deleted, err := b.services.PruneActivity(ctx, time.Now().Add(-repository.ActivityRetention))
	if err != nil {
		log.WithError(err).Error("Failed to prune message activity")
		return
	}
	if deleted > 0 {
		log.Infof("Pruned %d message activity rows", deleted)
	}
}

func (b *Bot) runAutonomous(ctx context.Context) {
	log.Info("Running autonomous manager for all guilds")
	for _, id := range b.guildIDs() {
		jobCtx, cancel := context.WithTimeout(ctx, guildJobTimeout)
		if err := b.insights.RunAutonomous(jobCtx, id); err != nil {
			log.WithError(err).Errorf("Autonomous manager failed for guild %s", id)
		}
		cancel()
	}
}

func (b *Bot) runCognitive(ctx context.Context) {
	log.Info("Running cognitive engine for all guilds")
	for _, id := range b.guildIDs() {
		jobCtx, cancel := context.WithTimeout(ctx, guildJobTimeout)
		if err := b.cognitive.RunScheduled(jobCtx, id); err != nil {
			log.WithError(err).Errorf("Cognitive engine failed for guild %s", id)
		}
		cancel()
	}
}

func (b *Bot) pruneGames(ctx context.Context) {
	if pruned := b.services.Chat.PruneGames(); pruned > 0 {
		log.Debugf("Pruned %d idle game sessions", pruned)
	}
}

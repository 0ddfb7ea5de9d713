package service

import (
	"context"
	"fmt"

	"github.com/whoami669/my-bot/ai"
	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/models"

	log "github.com/sirupsen/logrus"
)

const (
	cognitiveMaxTokens    = 2000
	cognitiveTemperature  = 0.3
	cognitiveHistoryLimit = 100
	trustScoreBase        = 0.75
	trustScorePerGuild    = 0.01
)

// TrustScore grows with the number of guilds the engine has acted in, capped at 1
func TrustScore(guildsWithDecisions int) float64 {
	return min(1.0, trustScoreBase+trustScorePerGuild*float64(guildsWithDecisions))
}

type cognitiveService struct {
	uowFactory UnitOfWorkFactory
	llm        LLM
	analytics  AnalyticsService
	threshold  float64
}

// NewCognitiveService creates the strategic analysis engine
func NewCognitiveService(uowFactory UnitOfWorkFactory, llm LLM, analytics AnalyticsService, threshold float64) CognitiveService {
	return &cognitiveService{
		uowFactory: uowFactory,
		llm:        llm,
		analytics:  analytics,
		threshold:  threshold,
	}
}

// Analyze runs a strategic analysis informed by past decisions. Nothing is
// recorded: the caller carries out the approved actions and then reports
// what happened through RecordOutcomes.
func (s *cognitiveService) Analyze(ctx context.Context, guildID int64, guild models.GuildSnapshot) (*models.CognitiveReport, error) {
	insights, err := s.analytics.BuildInsights(ctx, guildID)
	if err != nil {
		return nil, err
	}

	history, guilds, err := s.history(ctx, guildID)
	if err != nil {
		return nil, err
	}

	var analysis models.CognitiveAnalysis
	if err := s.llm.CompleteJSON(ctx, ai.CompletionRequest{
		System:      ai.CognitiveSystem,
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: ai.CognitivePrompt(guild, insights, history)}},
		MaxTokens:   cognitiveMaxTokens,
		Temperature: cognitiveTemperature,
		Kind:        "cognitive",
	}, &analysis); err != nil {
		return nil, err
	}

	approved, deferred := TriageStrategicActions(analysis.StrategicActions, s.threshold)

	log.WithFields(log.Fields{
		"guild":    guildID,
		"insights": len(analysis.CognitiveInsights),
		"approved": len(approved),
		"deferred": len(deferred),
	}).Info("Cognitive analysis complete")

	return &models.CognitiveReport{
		Analysis:   &analysis,
		Approved:   approved,
		Deferred:   deferred,
		TrustScore: TrustScore(guilds),
	}, nil
}

// RecordOutcomes stores the approved actions of a report together with how
// each one was carried out. outcomes is parallel to report.Approved. The
// report's trust score is refreshed once the decisions are committed.
func (s *cognitiveService) RecordOutcomes(ctx context.Context, guildID int64, report *models.CognitiveReport, outcomes []models.DecisionOutcome) error {
	if len(outcomes) != len(report.Approved) {
		return fmt.Errorf("got %d outcomes for %d approved actions", len(outcomes), len(report.Approved))
	}
	if len(report.Approved) == 0 {
		return nil
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	for i, action := range report.Approved {
		outcome := outcomes[i]
		decision := &models.AIDecision{
			GuildID:      guildID,
			Engine:       models.DecisionEngineCognitive,
			DecisionType: action.Action,
			Target:       strategicTarget(action),
			Action:       action.Parameters,
			Reasoning:    action.Reasoning,
			Confidence:   action.Confidence,
			Executed:     outcome.Executed,
			Outcome:      outcome.Detail,
		}
		if err := uow.DecisionRepository().Record(ctx, decision); err != nil {
			return fmt.Errorf("failed to record decision: %w", err)
		}
		if err := uow.EventBus().Publish(events.AIDecisionEvent{
			GuildID:      guildID,
			Engine:       decision.Engine,
			DecisionType: decision.DecisionType,
			Confidence:   decision.Confidence,
			Executed:     decision.Executed,
		}); err != nil {
			return fmt.Errorf("failed to publish decision event: %w", err)
		}
	}

	guilds, err := uow.DecisionRepository().CountGuildsWithDecisions(ctx, models.DecisionEngineCognitive)
	if err != nil {
		return fmt.Errorf("failed to count guilds with decisions: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	report.TrustScore = TrustScore(guilds)
	return nil
}

// Status reports the trust score and recent activity of the engine in a guild
func (s *cognitiveService) Status(ctx context.Context, guildID int64) (*models.CognitiveStatus, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.DecisionRepository()
	recent, err := repo.GetRecent(ctx, models.DecisionEngineCognitive, cognitiveHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent decisions: %w", err)
	}

	guilds, err := repo.CountGuildsWithDecisions(ctx, models.DecisionEngineCognitive)
	if err != nil {
		return nil, fmt.Errorf("failed to count guilds with decisions: %w", err)
	}

	status := &models.CognitiveStatus{
		TrustScore:          TrustScore(guilds),
		Threshold:           s.threshold,
		RecentDecisions:     len(recent),
		GuildsWithDecisions: guilds,
	}
	if len(recent) > 0 {
		last := recent[0].CreatedAt
		status.LastAnalysis = &last
	}
	return status, nil
}

// history returns the recent decisions fed back to the model and the number
// of guilds the engine has acted in
func (s *cognitiveService) history(ctx context.Context, guildID int64) ([]ai.DecisionSummary, int, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.DecisionRepository()
	decisions, err := repo.GetRecent(ctx, models.DecisionEngineCognitive, cognitiveHistoryLimit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get decision history: %w", err)
	}

	guilds, err := repo.CountGuildsWithDecisions(ctx, models.DecisionEngineCognitive)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count guilds with decisions: %w", err)
	}

	summaries := make([]ai.DecisionSummary, len(decisions))
	for i, d := range decisions {
		summaries[i] = ai.DecisionSummary{
			DecisionType: d.DecisionType,
			Reasoning:    d.Reasoning,
			Confidence:   d.Confidence,
			Executed:     d.Executed,
		}
	}
	return summaries, guilds, nil
}

// TriageStrategicActions keeps known actions at or above the threshold.
// Unknown actions are always deferred.
func TriageStrategicActions(actions []models.StrategicAction, threshold float64) (approved, deferred []models.StrategicAction) {
	for _, action := range actions {
		action.Confidence = clampConfidence(action.Confidence)
		if isStrategicAction(action.Action) && action.Confidence >= threshold {
			approved = append(approved, action)
		} else {
			deferred = append(deferred, action)
		}
	}
	return approved, deferred
}

func isStrategicAction(action string) bool {
	switch action {
	case models.ActionCreateEngagementChannel, models.ActionPostStrategicContent, models.ActionOptimizeChannelStructure:
		return true
	}
	return false
}

func strategicTarget(action models.StrategicAction) string {
	switch action.Action {
	case models.ActionCreateEngagementChannel:
		return action.Param("channel_name", "ai-suggested")
	case models.ActionPostStrategicContent:
		return action.Param("target_channel", "general")
	default:
		return "server_structure"
	}
}

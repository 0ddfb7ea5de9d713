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
	AutonomousRewardAmount = 250
	autonomousRewardUsers  = 3
	autonomousMaxTokens    = 1500
	autonomousTemperature  = 0.7
)

type recommendationsResponse struct {
	Recommendations []models.Recommendation `json:"recommendations"`
}

type autonomousService struct {
	uowFactory UnitOfWorkFactory
	llm        LLM
	analytics  AnalyticsService
	economy    EconomyService
	threshold  float64
}

// NewAutonomousService creates the daily community manager loop
func NewAutonomousService(uowFactory UnitOfWorkFactory, llm LLM, analytics AnalyticsService, economy EconomyService, threshold float64) AutonomousService {
	return &autonomousService{
		uowFactory: uowFactory,
		llm:        llm,
		analytics:  analytics,
		economy:    economy,
		threshold:  threshold,
	}
}

// Threshold is the confidence needed for a recommendation to be acted on
func (s *autonomousService) Threshold() float64 {
	return s.threshold
}

// Recommend asks the model for engagement recommendations without acting on them
func (s *autonomousService) Recommend(ctx context.Context, guild models.GuildSnapshot, insights *models.CommunityInsights) ([]models.Recommendation, error) {
	var resp recommendationsResponse
	if err := s.llm.CompleteJSON(ctx, ai.CompletionRequest{
		System:      ai.AutonomousSystem,
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: ai.AutonomousPrompt(guild, insights)}},
		MaxTokens:   autonomousMaxTokens,
		Temperature: autonomousTemperature,
		Kind:        "autonomous",
	}, &resp); err != nil {
		return nil, err
	}
	return resp.Recommendations, nil
}

// Analyze builds insights, requests recommendations and pays the community
// reward once when it is approved. Nothing is recorded: the caller carries
// out the Discord side and then reports it through RecordOutcomes.
func (s *autonomousService) Analyze(ctx context.Context, guildID int64, guild models.GuildSnapshot) (*models.AutonomousReport, error) {
	insights, err := s.analytics.BuildInsights(ctx, guildID)
	if err != nil {
		return nil, err
	}

	recs, err := s.Recommend(ctx, guild, insights)
	if err != nil {
		return nil, err
	}

	approved, suggestions := TriageRecommendations(recs, s.threshold)
	approved = DedupeRecommendations(approved)
	report := &models.AutonomousReport{
		Insights:        insights,
		Recommendations: recs,
		Approved:        approved,
		Suggestions:     suggestions,
		RewardAmount:    AutonomousRewardAmount,
	}

	for _, rec := range approved {
		if rec.ActionType == models.ActionRewardUsers {
			report.Rewarded = s.rewardTopUsers(ctx, guildID, insights.TopUsers, rec)
		}
	}

	log.WithFields(log.Fields{
		"guild":       guildID,
		"approved":    len(approved),
		"suggestions": len(suggestions),
		"rewarded":    len(report.Rewarded),
	}).Info("Autonomous analysis complete")

	return report, nil
}

// DedupeRecommendations drops repeated approvals from one response. The
// community reward is paid at most once per run, other actions are kept
// once per target.
func DedupeRecommendations(recs []models.Recommendation) []models.Recommendation {
	seen := make(map[string]bool, len(recs))
	var out []models.Recommendation
	for _, rec := range recs {
		key := rec.ActionType
		if rec.ActionType != models.ActionRewardUsers {
			key += "\x00" + rec.Target
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}

// rewardTopUsers grants the community reward to the most active members.
// A failed grant is logged and skipped.
func (s *autonomousService) rewardTopUsers(ctx context.Context, guildID int64, top []models.UserActivity, rec models.Recommendation) []models.UserActivity {
	var rewarded []models.UserActivity
	for _, user := range top {
		if len(rewarded) == autonomousRewardUsers {
			break
		}
		_, err := s.economy.Grant(ctx, guildID, user.DiscordID, AutonomousRewardAmount, models.TransactionTypeCommunityReward, map[string]any{
			"reason":   rec.Reasoning,
			"messages": user.Messages,
		})
		if err != nil {
			log.WithFields(log.Fields{
				"guild": guildID,
				"user":  user.DiscordID,
				"error": err,
			}).Warn("Failed to grant community reward")
			continue
		}
		rewarded = append(rewarded, user)
	}
	return rewarded
}

// RecordOutcomes stores every recommendation of a report as a decision.
// outcomes is parallel to report.Approved; suggestions are stored as not executed.
func (s *autonomousService) RecordOutcomes(ctx context.Context, guildID int64, report *models.AutonomousReport, outcomes []models.DecisionOutcome) error {
	if len(outcomes) != len(report.Approved) {
		return fmt.Errorf("got %d outcomes for %d approved recommendations", len(outcomes), len(report.Approved))
	}
	if len(report.Approved) == 0 && len(report.Suggestions) == 0 {
		return nil
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	record := func(rec models.Recommendation, outcome models.DecisionOutcome) error {
		decision := &models.AIDecision{
			GuildID:      guildID,
			Engine:       models.DecisionEngineAutonomous,
			DecisionType: rec.ActionType,
			Target:       rec.Target,
			Action: map[string]any{
				"target":          rec.Target,
				"expected_impact": rec.ExpectedImpact,
			},
			Reasoning:  rec.Reasoning,
			Confidence: rec.Confidence,
			Executed:   outcome.Executed,
			Outcome:    outcome.Detail,
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
		return nil
	}

	for i, rec := range report.Approved {
		if err := record(rec, outcomes[i]); err != nil {
			return err
		}
	}
	for _, rec := range report.Suggestions {
		if err := record(rec, models.DecisionOutcome{Detail: "suggested"}); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// TriageRecommendations splits recommendations at the confidence threshold.
// Confidence outside [0, 1] is clamped first.
func TriageRecommendations(recs []models.Recommendation, threshold float64) (approved, suggestions []models.Recommendation) {
	for _, rec := range recs {
		rec.Confidence = clampConfidence(rec.Confidence)
		if rec.Confidence >= threshold {
			approved = append(approved, rec)
		} else {
			suggestions = append(suggestions, rec)
		}
	}
	return approved, suggestions
}

func clampConfidence(c float64) float64 {
	return max(0, min(1, c))
}

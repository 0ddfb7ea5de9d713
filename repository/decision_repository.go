package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/whoami669/my-bot/database"
	"github.com/whoami669/my-bot/models"
)

// DecisionRepository implements the DecisionRepository interface
type DecisionRepository struct {
	q       Queryable
	guildID int64
}

// NewDecisionRepository creates a decision repository outside a transaction
func NewDecisionRepository(db *database.DB, guildID int64) *DecisionRepository {
	return &DecisionRepository{q: db.Pool, guildID: guildID}
}

func newDecisionRepository(tx Queryable, guildID int64) *DecisionRepository {
	return &DecisionRepository{q: tx, guildID: guildID}
}

// Record stores a decision
func (r *DecisionRepository) Record(ctx context.Context, decision *models.AIDecision) error {
	actionJSON, err := json.Marshal(decision.Action)
	if err != nil {
		return fmt.Errorf("failed to marshal decision action: %w", err)
	}

	query := `
		INSERT INTO ai_decisions
		(guild_id, engine, decision_type, target, action, reasoning, confidence, executed, outcome)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		r.guildID,
		decision.Engine,
		decision.DecisionType,
		decision.Target,
		actionJSON,
		decision.Reasoning,
		decision.Confidence,
		decision.Executed,
		decision.Outcome,
	).Scan(&decision.ID, &decision.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record %s decision: %w", decision.Engine, err)
	}

	decision.GuildID = r.guildID
	return nil
}

// GetRecent returns the latest decisions of an engine in this guild, newest first
func (r *DecisionRepository) GetRecent(ctx context.Context, engine models.DecisionEngine, limit int) ([]*models.AIDecision, error) {
	query := `
		SELECT id, guild_id, engine, decision_type, target, action, reasoning,
		       confidence, executed, outcome, created_at
		FROM ai_decisions
		WHERE guild_id = $1 AND engine = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, r.guildID, engine, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent %s decisions: %w", engine, err)
	}
	defer rows.Close()

	var decisions []*models.AIDecision
	for rows.Next() {
		var d models.AIDecision
		var actionJSON []byte

		err := rows.Scan(
			&d.ID,
			&d.GuildID,
			&d.Engine,
			&d.DecisionType,
			&d.Target,
			&actionJSON,
			&d.Reasoning,
			&d.Confidence,
			&d.Executed,
			&d.Outcome,
			&d.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}

		if len(actionJSON) > 0 {
			if err := json.Unmarshal(actionJSON, &d.Action); err != nil {
				return nil, fmt.Errorf("failed to unmarshal decision action: %w", err)
			}
		}

		decisions = append(decisions, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decisions: %w", err)
	}

	return decisions, nil
}

// CountGuildsWithDecisions counts every guild an engine has acted in, ignoring the guild scope
func (r *DecisionRepository) CountGuildsWithDecisions(ctx context.Context, engine models.DecisionEngine) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(DISTINCT guild_id) FROM ai_decisions WHERE engine = $1`,
		engine,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count guilds with %s decisions: %w", engine, err)
	}
	return count, nil
}

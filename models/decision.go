package models

import "time"

// DecisionEngine identifies which AI loop produced a decision
type DecisionEngine string

const (
	DecisionEngineAutonomous DecisionEngine = "autonomous"
	DecisionEngineCognitive  DecisionEngine = "cognitive"
)

// AIDecision is a persisted recommendation or action taken by an AI engine
type AIDecision struct {
	ID           int64          `db:"id"`
	GuildID      int64          `db:"guild_id"`
	Engine       DecisionEngine `db:"engine"`
	DecisionType string         `db:"decision_type"`
	Target       string         `db:"target"`
	Action       map[string]any `db:"action"`
	Reasoning    string         `db:"reasoning"`
	Confidence   float64        `db:"confidence"`
	Executed     bool           `db:"executed"`
	Outcome      string         `db:"outcome"`
	CreatedAt    time.Time      `db:"created_at"`
}

// DecisionOutcome is how an approved decision was carried out in Discord
type DecisionOutcome struct {
	Executed bool
	Detail   string
}

package models

import "time"

// GuildSnapshot is the live guild state gathered by the bot for AI analysis
type GuildSnapshot struct {
	Name         string
	MemberCount  int
	ChannelCount int
	RoleCount    int
	BoostLevel   int
	BoostCount   int
	OnlineRatio  float64
	ChannelNames map[int64]string
}

// ChannelName resolves a channel ID, falling back to the raw ID
func (s GuildSnapshot) ChannelName(channelID int64) string {
	if name, ok := s.ChannelNames[channelID]; ok {
		return name
	}
	return "unknown-channel"
}

// Recommendation is one suggested community action from the autonomous engine
type Recommendation struct {
	ActionType     string  `json:"action_type"`
	Target         string  `json:"target"`
	Reasoning      string  `json:"reasoning"`
	Confidence     float64 `json:"confidence"`
	ExpectedImpact string  `json:"expected_impact"`
}

// Autonomous action types
const (
	ActionCreateChannel    = "create_channel"
	ActionArchiveChannel   = "archive_channel"
	ActionSendAnnouncement = "send_announcement"
	ActionRewardUsers      = "reward_users"
	ActionDMInactiveUsers  = "dm_inactive_users"
)

// AutonomousReport is the outcome of one autonomous analysis of a guild
type AutonomousReport struct {
	Insights        *CommunityInsights
	Recommendations []Recommendation
	Approved        []Recommendation // At or above the confidence threshold
	Suggestions     []Recommendation // Below the threshold, for manual review
	Rewarded        []UserActivity
	RewardAmount    int64
}

// StrategicAction is an action proposed by the cognitive engine
type StrategicAction struct {
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
	Confidence float64        `json:"confidence"`
	Reasoning  string         `json:"reasoning"`
}

// Param returns a string parameter, or fallback when missing or empty
func (a StrategicAction) Param(key, fallback string) string {
	if v, ok := a.Parameters[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Cognitive action types
const (
	ActionCreateEngagementChannel  = "create_engagement_channel"
	ActionPostStrategicContent     = "post_strategic_content"
	ActionOptimizeChannelStructure = "optimize_channel_structure"
)

// CognitiveAnalysis is the model's strategic reading of a guild
type CognitiveAnalysis struct {
	CognitiveInsights  []string          `json:"cognitive_insights"`
	BehavioralPatterns []string          `json:"behavioral_patterns"`
	Predictions        []string          `json:"predictions"`
	StrategicActions   []StrategicAction `json:"strategic_actions"`
	LearningFeedback   string            `json:"learning_feedback"`
}

// CognitiveReport is the outcome of one cognitive analysis of a guild
type CognitiveReport struct {
	Analysis   *CognitiveAnalysis
	Approved   []StrategicAction
	Deferred   []StrategicAction
	TrustScore float64
}

// CognitiveStatus summarizes the cognitive engine for one guild
type CognitiveStatus struct {
	TrustScore          float64
	Threshold           float64
	RecentDecisions     int
	GuildsWithDecisions int
	LastAnalysis        *time.Time
}

// PromotionRequest asks for promotional content for one platform
type PromotionRequest struct {
	GuildID     int64
	RequestedBy int64
	Platform    string
	ContentType string
	WithImage   bool
	Server      PromotionServer
}

// PromotionServer describes the guild being promoted
type PromotionServer struct {
	Name        string
	MemberCount int
	Channels    []string
	Description string
}

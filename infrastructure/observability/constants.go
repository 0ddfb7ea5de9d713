package observability

// Metric name prefixes
const (
	MetricPrefix = "communitybot"
)

// Metric names
const (
	// Discord metrics
	CommandsHandledTotal = MetricPrefix + ".commands.handled_total"
	MessagesReadTotal    = MetricPrefix + ".messages.read_total"

	// AI metrics
	AIRequestsTotal = MetricPrefix + ".ai.requests_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Balance metrics
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelCommand   = "command"
	LabelKind      = "kind"
	LabelOutcome   = "outcome"
	LabelEventType = "event_type"
)

// Outcomes of an AI request
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Message types for Discord
const (
	MessageTypeGuild  = "guild"
	MessageTypeDirect = "direct"
)

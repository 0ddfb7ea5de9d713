package events

import (
	"context"
	"sync"

	"github.com/whoami669/my-bot/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange   EventType = "balance_change"
	EventTypeAccountCreated  EventType = "account_created"
	EventTypeLevelUp         EventType = "level_up"
	EventTypeWarningIssued   EventType = "warning_issued"
	EventTypeMemberInvited   EventType = "member_invited"
	EventTypeInviteMilestone EventType = "invite_milestone"
	EventTypeAIDecision      EventType = "ai_decision"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64                  `json:"user_id"`
	GuildID         int64                  `json:"guild_id"`
	OldBalance      int64                  `json:"old_balance"`
	NewBalance      int64                  `json:"new_balance"`
	TransactionType models.TransactionType `json:"transaction_type"`
	ChangeAmount    int64                  `json:"change_amount"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent is published the first time a member touches the economy
type AccountCreatedEvent struct {
	UserID  int64 `json:"user_id"`
	GuildID int64 `json:"guild_id"`
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// LevelUpEvent is published when message XP crosses a level boundary
type LevelUpEvent struct {
	UserID    int64 `json:"user_id"`
	GuildID   int64 `json:"guild_id"`
	ChannelID int64 `json:"channel_id"`
	OldLevel  int   `json:"old_level"`
	NewLevel  int   `json:"new_level"`
	Reward    int64 `json:"reward"`
}

func (e LevelUpEvent) Type() EventType {
	return EventTypeLevelUp
}

// WarningIssuedEvent carries the escalation the bot must apply, if any
type WarningIssuedEvent struct {
	UserID       int64  `json:"user_id"`
	GuildID      int64  `json:"guild_id"`
	ModeratorID  int64  `json:"moderator_id"`
	WarningCount int    `json:"warning_count"`
	Escalation   string `json:"escalation"`
}

func (e WarningIssuedEvent) Type() EventType {
	return EventTypeWarningIssued
}

// MemberInvitedEvent records a successful invite attribution
type MemberInvitedEvent struct {
	GuildID    int64  `json:"guild_id"`
	InviterID  int64  `json:"inviter_id"`
	InvitedID  int64  `json:"invited_id"`
	InviteCode string `json:"invite_code"`
	Total      int    `json:"total"`
}

func (e MemberInvitedEvent) Type() EventType {
	return EventTypeMemberInvited
}

// InviteMilestoneEvent is published when an inviter reaches a reward tier
type InviteMilestoneEvent struct {
	GuildID   int64  `json:"guild_id"`
	InviterID int64  `json:"inviter_id"`
	Count     int    `json:"count"`
	RoleName  string `json:"role_name"`
	Emoji     string `json:"emoji"`
}

func (e InviteMilestoneEvent) Type() EventType {
	return EventTypeInviteMilestone
}

// AIDecisionEvent is published whenever an AI engine records a decision
type AIDecisionEvent struct {
	GuildID      int64                 `json:"guild_id"`
	Engine       models.DecisionEngine `json:"engine"`
	DecisionType string                `json:"decision_type"`
	Confidence   float64               `json:"confidence"`
	Executed     bool                  `json:"executed"`
}

func (e AIDecisionEvent) Type() EventType {
	return EventTypeAIDecision
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu          sync.RWMutex
	handlers    map[EventType][]Handler
	allHandlers []Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds a handler that receives every event type
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.allHandlers = append(b.allHandlers, handler)
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.Type()])+len(b.allHandlers))
	handlers = append(handlers, b.handlers[event.Type()]...)
	handlers = append(handlers, b.allHandlers...)
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events published inside a unit of work until the
// transaction commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues an event until Flush
func (b *TransactionalBus) Publish(e Event) error {
	b.pending = append(b.pending, e)
	return nil
}

// Flush emits pending events; called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events from transactional bus")

	// Handlers outlive the transaction, so they must not inherit its context
	eventCtx := context.WithoutCancel(ctx)

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events; called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

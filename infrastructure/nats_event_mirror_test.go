package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func (m *mockPublisher) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

func TestNATSEventMirror_Publish(t *testing.T) {
	publisher := new(mockPublisher)
	mirror := NewNATSEventMirror(publisher, nil)
	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	mirror.now = func() time.Time { return fixed }

	event := events.BalanceChangeEvent{
		UserID:          42,
		GuildID:         7,
		OldBalance:      100,
		NewBalance:      250,
		TransactionType: models.TransactionTypeWork,
		ChangeAmount:    150,
	}

	var captured []byte
	publisher.On("IsConnected").Return(true)
	publisher.On("Publish", mock.Anything, "bot.events.balance_change", mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(2).([]byte) }).
		Return(nil)

	require.NoError(t, mirror.publish(context.Background(), event))
	publisher.AssertExpectations(t)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(captured, &envelope))
	assert.Equal(t, "balance_change", envelope.EventType)
	assert.Equal(t, "communitybot", envelope.Source)
	assert.True(t, fixed.Equal(envelope.Timestamp))
	_, err := uuid.Parse(envelope.EventID)
	assert.NoError(t, err)

	var payload events.BalanceChangeEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, event, payload)
}

func TestNATSEventMirror_UniqueIDs(t *testing.T) {
	mirror := NewNATSEventMirror(new(mockPublisher), nil)

	first, err := mirror.Envelope(events.AccountCreatedEvent{UserID: 1, GuildID: 2})
	require.NoError(t, err)
	second, err := mirror.Envelope(events.AccountCreatedEvent{UserID: 1, GuildID: 2})
	require.NoError(t, err)

	assert.NotEqual(t, first.EventID, second.EventID)
}

func TestNATSEventMirror_AttachForwardsBusEvents(t *testing.T) {
	publisher := new(mockPublisher)
	done := make(chan string, 1)
	publisher.On("IsConnected").Return(true)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { done <- args.String(1) }).
		Return(errors.New("nats down"))

	bus := events.NewBus()
	NewNATSEventMirror(publisher, nil).Attach(bus)

	bus.Emit(context.Background(), events.LevelUpEvent{UserID: 1, GuildID: 2, NewLevel: 3})

	select {
	case subject := <-done:
		assert.Equal(t, "bot.events.level_up", subject)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not mirrored")
	}
}

func TestNATSEventMirror_OfflineSkipsPublish(t *testing.T) {
	publisher := new(mockPublisher)
	publisher.On("IsConnected").Return(false)
	mirror := NewNATSEventMirror(publisher, nil)

	err := mirror.publish(context.Background(), events.LevelUpEvent{UserID: 1, GuildID: 2, NewLevel: 3})

	assert.ErrorIs(t, err, ErrPublisherOffline)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	assert.NotPanics(t, func() {
		mirror.Handle(context.Background(), events.LevelUpEvent{UserID: 1, GuildID: 2, NewLevel: 3})
	})
}

package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/whoami669/my-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventDeliveryIntegration(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan BalanceChangeEvent, 1)
	mainBus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		if balanceEvent, ok := event.(BalanceChangeEvent); ok {
			eventReceived <- balanceEvent
		}
	})

	testEvent := BalanceChangeEvent{
		UserID:          123456,
		GuildID:         789,
		OldBalance:      1000,
		NewBalance:      1150,
		TransactionType: models.TransactionTypeDaily,
		ChangeAmount:    150,
	}

	require.NoError(t, transactionalBus.Publish(testEvent))

	// Nothing is delivered before the commit
	select {
	case <-eventReceived:
		t.Fatal("event delivered before flush")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, transactionalBus.Flush(context.Background()))

	select {
	case received := <-eventReceived:
		assert.Equal(t, testEvent, received)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestTransactionalBus_DiscardDropsEvents(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	var mu sync.Mutex
	delivered := 0
	mainBus.Subscribe(EventTypeLevelUp, func(ctx context.Context, event Event) {
		mu.Lock()
		defer mu.Unlock()
		delivered++
	})

	_ = transactionalBus.Publish(LevelUpEvent{UserID: 1, GuildID: 2, NewLevel: 3})
	transactionalBus.Discard()
	require.NoError(t, transactionalBus.Flush(context.Background()))

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, delivered)
}

func TestBus_SubscribeAllReceivesEveryType(t *testing.T) {
	bus := NewBus()

	received := make(chan EventType, 2)
	bus.SubscribeAll(func(ctx context.Context, event Event) {
		received <- event.Type()
	})

	bus.Emit(context.Background(), LevelUpEvent{UserID: 1})
	bus.Emit(context.Background(), MemberInvitedEvent{InviterID: 2})

	got := map[EventType]bool{}
	for i := 0; i < 2; i++ {
		select {
		case et := <-received:
			got[et] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for events")
		}
	}

	assert.True(t, got[EventTypeLevelUp])
	assert.True(t, got[EventTypeMemberInvited])
}

func TestBus_HandlerPanicIsRecovered(t *testing.T) {
	bus := NewBus()

	done := make(chan struct{})
	bus.Subscribe(EventTypeWarningIssued, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeWarningIssued, func(ctx context.Context, event Event) {
		close(done)
	})

	bus.Emit(context.Background(), WarningIssuedEvent{UserID: 1, WarningCount: 3})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler never ran")
	}
}

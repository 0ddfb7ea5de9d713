package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/whoami669/my-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestReminderService(factory UnitOfWorkFactory) *reminderService {
	svc := NewReminderService(factory).(*reminderService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestReminderService_Schedule(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	svc := newTestReminderService(factory)

	uow.On("Commit").Return(nil)
	uow.Reminders.On("CountPending", ctx, int64(42)).Return(2, nil)
	uow.Reminders.On("Create", ctx, mock.MatchedBy(func(r *models.Reminder) bool {
		return r.Text == "stretch" && r.RemindAt.Equal(testNow.Add(90*time.Minute)) && r.ChannelID == 5
	})).Return(nil)

	reminder, err := svc.Schedule(ctx, testGuildID, 42, 5, 90, "  stretch ")

	require.NoError(t, err)
	assert.Equal(t, "stretch", reminder.Text)
	uow.AssertAll(t)
}

func TestReminderService_Schedule_Validation(t *testing.T) {
	svc := newTestReminderService(new(MockUnitOfWorkFactory))
	ctx := context.Background()

	_, err := svc.Schedule(ctx, testGuildID, 42, 5, 0, "x")
	assert.Error(t, err)

	_, err = svc.Schedule(ctx, testGuildID, 42, 5, MaxReminderMinutes+1, "x")
	assert.Error(t, err)

	_, err = svc.Schedule(ctx, testGuildID, 42, 5, 10, "   ")
	assert.Error(t, err)
}

func TestReminderService_Schedule_TooMany(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	svc := newTestReminderService(factory)

	uow.Reminders.On("CountPending", ctx, int64(42)).Return(MaxPendingReminders, nil)

	_, err := svc.Schedule(ctx, testGuildID, 42, 5, 10, "water plants")

	assert.ErrorIs(t, err, ErrTooManyReminders)
	uow.Reminders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReminderService_DeliverDue(t *testing.T) {
	ctx := context.Background()

	lookup := NewMockUnitOfWork()
	lookup.On("Begin", ctx).Return(nil)
	lookup.On("Rollback").Return(nil)
	lookup.Reminders.On("GetGuildsWithDueReminders", ctx, testNow).Return([]int64{testGuildID}, nil)

	guild := NewMockUnitOfWork()
	guild.On("Begin", ctx).Return(nil)
	guild.On("Rollback").Return(nil)
	guild.On("Commit").Return(nil)

	factory := new(MockUnitOfWorkFactory)
	factory.On("CreateForGuild", int64(0)).Return(lookup)
	factory.On("CreateForGuild", testGuildID).Return(guild)

	delivered := &models.Reminder{ID: 1, RemindAt: testNow.Add(-time.Minute)}
	retry := &models.Reminder{ID: 2, RemindAt: testNow.Add(-5 * time.Minute)}
	stale := &models.Reminder{ID: 3, RemindAt: testNow.Add(-2 * time.Hour)}

	guild.Reminders.On("GetDue", ctx, testNow).Return([]*models.Reminder{delivered, retry, stale}, nil)
	guild.Reminders.On("Delete", ctx, int64(1)).Return(nil)
	guild.Reminders.On("Delete", ctx, int64(3)).Return(nil)

	svc := newTestReminderService(factory)
	count, err := svc.DeliverDue(ctx, func(ctx context.Context, r *models.Reminder) error {
		if r.ID == 1 {
			return nil
		}
		return errors.New("missing access")
	})

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	guild.Reminders.AssertNotCalled(t, "Delete", ctx, int64(2))
	lookup.AssertAll(t)
	guild.AssertAll(t)
}

func TestReminderService_DeliverDue_DeleteFailureKeepsOthers(t *testing.T) {
	ctx := context.Background()

	lookup := NewMockUnitOfWork()
	lookup.On("Begin", ctx).Return(nil)
	lookup.On("Rollback").Return(nil)
	lookup.Reminders.On("GetGuildsWithDueReminders", ctx, testNow).Return([]int64{testGuildID}, nil)

	guild := NewMockUnitOfWork()
	guild.On("Begin", ctx).Return(nil)
	guild.On("Rollback").Return(nil)
	guild.On("Commit").Return(nil)

	factory := new(MockUnitOfWorkFactory)
	factory.On("CreateForGuild", int64(0)).Return(lookup)
	factory.On("CreateForGuild", testGuildID).Return(guild)

	first := &models.Reminder{ID: 1, RemindAt: testNow.Add(-time.Minute)}
	second := &models.Reminder{ID: 2, RemindAt: testNow.Add(-time.Minute)}
	third := &models.Reminder{ID: 3, RemindAt: testNow.Add(-time.Minute)}

	guild.Reminders.On("GetDue", ctx, testNow).Return([]*models.Reminder{first, second, third}, nil)
	guild.Reminders.On("Delete", ctx, int64(1)).Return(nil)
	guild.Reminders.On("Delete", ctx, int64(2)).Return(errors.New("connection reset"))
	guild.Reminders.On("Delete", ctx, int64(3)).Return(nil)

	var sent []int64
	svc := newTestReminderService(factory)
	count, err := svc.DeliverDue(ctx, func(ctx context.Context, r *models.Reminder) error {
		sent = append(sent, r.ID)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, []int64{1, 2, 3}, sent)
	guild.AssertCalled(t, "Commit")
	lookup.AssertAll(t)
	guild.AssertAll(t)
}

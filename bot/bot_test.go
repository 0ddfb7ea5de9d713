package bot

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBot_RoutesEveryCommand(t *testing.T) {
	b := newBot(nil, Config{}, Services{}, nil)

	require.NotEmpty(t, b.commands)
	assert.Len(t, b.routes, len(b.commands), "command names must be unique across features")

	for _, cmd := range b.commands {
		require.NotNil(t, cmd.DMPermission, cmd.Name)
		assert.False(t, *cmd.DMPermission, cmd.Name)
	}

	expected := []string{
		"balance", "daily", "work", "crime", "rob", "give", "leaderboard",
		"rank", "kick", "ban", "warn", "warnings", "remind", "poll",
		"ai", "clear-conversation", "ai-persona", "twenty-questions", "ai-trivia",
		"joke", "trivia", "riddle", "insight", "ai-suggest", "ai-analytics",
		"cognitive-status", "force-cognitive-analysis", "promote", "setup-promotion",
		"fix-bot-permissions", "assign-members-role", "unlock-voice-channels",
	}
	for _, name := range expected {
		assert.Contains(t, b.routes, name)
	}

	assert.Same(t, b.routes["joke"], commandFeature(b.fun))
	assert.Same(t, b.routes["twenty-questions"], commandFeature(b.games))
}

func TestStartWorker_RunsAndStops(t *testing.T) {
	var runs atomic.Int32
	stop := startWorker(context.Background(), "test", 10*time.Millisecond, true, func(ctx context.Context) {
		runs.Add(1)
	})

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	stop()

	settled := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, runs.Load(), settled+1)
}

func TestStartWorker_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	stop := startWorker(ctx, "test", time.Hour, true, func(ctx context.Context) {
		close(done)
	})
	defer stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not run immediately")
	}
	cancel()
}

package info

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopRole(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "1", Position: 1},
		{ID: "2", Position: 5},
		{ID: "3", Position: 3},
	}

	top := topRole(roles, []string{"1", "3"})
	require.NotNil(t, top)
	assert.Equal(t, "3", top.ID)

	assert.Nil(t, topRole(roles, nil))
}

func TestRoleMentions(t *testing.T) {
	roles := []*discordgo.Role{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	assert.Equal(t, "<@&1> <@&3>", roleMentions(roles, []string{"3", "1"}))
	assert.Empty(t, roleMentions(roles, nil))
}

func TestStats_Uptime(t *testing.T) {
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stats := &Stats{StartedAt: started}
	assert.Equal(t, 90*time.Minute, stats.Uptime(started.Add(90*time.Minute)))
}

func TestHostStats_Memory(t *testing.T) {
	h := HostStats{MemoryPercent: 42.34, MemoryUsedMB: 512, MemoryTotalMB: 2048}
	assert.Equal(t, "42.3% (512 MB / 2048 MB)", h.memory())
}

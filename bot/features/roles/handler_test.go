package roles

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func member(id string, bot bool, roles ...string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: id, Bot: bot}, Roles: roles}
}

func TestApplyToAll(t *testing.T) {
	members := []*discordgo.Member{
		member("1", false),
		member("2", false, "r"),
		member("3", true),
		member("4", false),
	}

	var changed []string
	result := applyToAll(members, "r", true, func(userID string) error {
		changed = append(changed, userID)
		if userID == "4" {
			return errors.New("missing access")
		}
		return nil
	})

	assert.Equal(t, []string{"1", "4"}, changed)
	assert.Equal(t, bulkResult{success: 1, failed: 1}, result)

	changed = nil
	result = applyToAll(members, "r", false, func(userID string) error {
		changed = append(changed, userID)
		return nil
	})
	assert.Equal(t, []string{"2"}, changed)
	assert.Equal(t, bulkResult{success: 1}, result)
}

func TestListableRoles(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "g", Position: 0},
		{ID: "a", Position: 2},
		{ID: "b", Position: 7},
	}

	listed := listableRoles(roles, "g")
	assert.Equal(t, "<@&b> <@&a>", roleList(listed))
	assert.Equal(t, "No roles yet.", roleList(nil))
}

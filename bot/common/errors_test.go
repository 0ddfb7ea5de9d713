package common

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/whoami669/my-bot/ai"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestFromServiceError(t *testing.T) {
	cooldown := &service.CooldownError{Kind: service.CooldownWork, Remaining: 90 * time.Minute}
	botErr := FromServiceError(fmt.Errorf("work failed: %w", cooldown), "work")
	assert.Equal(t, "⏰ You're on cooldown! Try again in **1h 30m 0s**.", botErr.UserMessage)
	assert.Nil(t, botErr.Err)

	botErr = FromServiceError(service.ErrInsufficientFunds, "give")
	assert.Equal(t, "You don't have enough coins for that.", botErr.UserMessage)
	assert.True(t, botErr.Ephemeral)

	dbErr := errors.New("connection refused")
	botErr = FromServiceError(dbErr, "balance")
	assert.Equal(t, GenericErrorMessage, botErr.UserMessage)
	assert.ErrorIs(t, botErr, dbErr)
}

func TestFromAIError(t *testing.T) {
	assert.Equal(t, AINotConfiguredMessage, FromAIError(ai.ErrNotConfigured, "ai").UserMessage)
	assert.Equal(t, AIUnavailableMessage, FromAIError(errors.New("timeout"), "ai").UserMessage)
}

func TestHierarchy_CheckPosition(t *testing.T) {
	h := &Hierarchy{ActorPos: 5, BotPos: 8}

	assert.NoError(t, h.CheckPosition(4))
	assert.ErrorIs(t, h.CheckPosition(5), service.ErrHierarchy)

	owner := &Hierarchy{ActorPos: 1, BotPos: 8, ActorIsOwner: true}
	assert.NoError(t, owner.CheckPosition(7))
	assert.ErrorIs(t, owner.CheckPosition(8), ErrBotHierarchy)
}

func TestHighestRolePosition(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "1", Position: 0},
		{ID: "2", Position: 3},
		{ID: "3", Position: 7},
	}
	assert.Equal(t, 7, HighestRolePosition(roles, []string{"2", "3"}))
	assert.Equal(t, 3, HighestRolePosition(roles, []string{"2", "missing"}))
	assert.Equal(t, 0, HighestRolePosition(roles, nil))
}

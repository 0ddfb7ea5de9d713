package common

import (
	"errors"
	"fmt"

	"github.com/whoami669/my-bot/ai"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Fixed replies for failures the user cannot act on
const (
	GenericErrorMessage     = "Something went wrong. Please try again later."
	AINotConfiguredMessage  = "AI features are not configured on this bot. Ask the owner to set an OpenAI API key."
	AIUnavailableMessage    = "AI temporarily unavailable. Please try again later."
	MissingPermissionFormat = "You need the **%s** permission to use this command."
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Ephemeral   bool
	Err         error
	Context     any
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, insufficient funds, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: GenericErrorMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// NewPermissionError reports a missing Discord permission
func NewPermissionError(permission string) *BotError {
	return NewUserError(fmt.Sprintf(MissingPermissionFormat, permission), "missing permission "+permission)
}

// FromServiceError maps the sentinel errors of the service layer to user
// messages. Anything unrecognised becomes a system error.
func FromServiceError(err error, logMessage string) *BotError {
	var cooldown *service.CooldownError
	switch {
	case errors.As(err, &cooldown):
		return NewUserError(fmt.Sprintf("⏰ You're on cooldown! Try again in **%s**.", FormatCooldown(cooldown.Remaining)), logMessage)
	case errors.Is(err, service.ErrInsufficientFunds):
		return NewUserError("You don't have enough coins for that.", logMessage)
	case errors.Is(err, service.ErrInvalidAmount):
		return NewUserError("Amount must be positive.", logMessage)
	case errors.Is(err, service.ErrSelfTarget):
		return NewUserError("You can't target yourself.", logMessage)
	case errors.Is(err, service.ErrVictimTooPoor):
		return NewUserError(fmt.Sprintf("That member needs at least **%s** coins to be worth robbing.", FormatBalance(service.RobMinVictimWallet)), logMessage)
	case errors.Is(err, service.ErrHierarchy):
		return NewUserError("You can't act on a member with an equal or higher role.", logMessage)
	case errors.Is(err, service.ErrTooManyReminders):
		return NewUserError(err.Error(), logMessage)
	case errors.Is(err, service.ErrUnknownOption):
		return NewUserError("That option isn't available.", logMessage)
	}
	return NewSystemError(err, logMessage)
}

// FromAIError maps language model failures to the fixed AI replies
func FromAIError(err error, logMessage string) *BotError {
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		return NewUserError(AINotConfiguredMessage, logMessage)
	case errors.Is(err, service.ErrUnknownOption):
		return NewUserError("That option isn't available.", logMessage)
	}
	return &BotError{
		UserMessage: AIUnavailableMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError processes a BotError and responds appropriately
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	fields := log.Fields{
		"user_id": InteractionUserID(i),
		"command": interactionName(i),
	}

	message := GenericErrorMessage
	var botErr *BotError
	if errors.As(err, &botErr) {
		fields["error"] = botErr.Error()
		fields["user_message"] = botErr.UserMessage
		fields["context"] = botErr.Context
		if botErr.Err != nil {
			log.WithFields(fields).Error(botErr.LogMessage)
		} else {
			log.WithFields(fields).Debug(botErr.LogMessage)
		}
		message = botErr.UserMessage
	} else {
		fields["error"] = err.Error()
		log.WithFields(fields).Error("Unexpected error in bot command")
	}

	if deferred {
		FollowUpWithError(s, i, message)
	} else {
		RespondWithError(s, i, message)
	}
}

func interactionName(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	}
	return ""
}

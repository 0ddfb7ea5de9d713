package service

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

// BlockedMessage replaces outgoing text that fails the content filter
const BlockedMessage = "[Blocked Message]"

const (
	MaxMessageLength = 2000
	capsMinLength    = 10
	capsMaxRatio     = 0.7
)

var (
	ErrForbiddenPhrase = errors.New("message contains a forbidden phrase")
	ErrMessageTooLong  = errors.New("message exceeds the Discord length limit")
	ErrExcessiveCaps   = errors.New("message is mostly capital letters")
)

// forbiddenPhrases are matched case-insensitively anywhere in outgoing text
var forbiddenPhrases = []string{
	"@everyone",
	"@here",
	"VIRAL CHALLENGE ALERT",
	"BREAKING",
	"CONTROVERSIAL gaming confession",
	"Collaboration corner",
	"COMMUNITY PULSE",
	"ENERGY CHECK",
	"HYPE TRAIN",
	"MOMENTUM ALERT",
	"POWER SURGE",
	"VIBE CHECK",
	"PEAK PERFORMANCE",
	"UNSTOPPABLE FORCE",
	"STAR POWER",
	"WAVE OF ENERGY",
	"DIAMOND MINDSET",
	"ENERGY AMPLIFICATION",
	"ENTHUSIASM OVERDRIVE",
	"PASSION AMPLIFIER",
	"HYPERDRIVE",
	"TURBOCHARGED",
	"MAXIMUM ENGAGEMENT",
	"NUCLEAR PARTICIPATION",
	"CONVERSATION SPARK",
}

// ForbiddenPhrase returns the first forbidden phrase found in content
func ForbiddenPhrase(content string) (string, bool) {
	lower := strings.ToLower(content)
	for _, phrase := range forbiddenPhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return phrase, true
		}
	}
	return "", false
}

// CheckOutgoing validates bot-authored text before it is sent
func CheckOutgoing(content string) error {
	if content == "" {
		return nil
	}
	if _, found := ForbiddenPhrase(content); found {
		return ErrForbiddenPhrase
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return ErrMessageTooLong
	}
	if capsRatio(content) > capsMaxRatio {
		return ErrExcessiveCaps
	}
	return nil
}

// FilterOutgoing returns content unchanged, or BlockedMessage when it fails CheckOutgoing
func FilterOutgoing(content string) string {
	if err := CheckOutgoing(content); err != nil {
		log.WithFields(log.Fields{
			"reason": err.Error(),
			"length": len(content),
		}).Warn("Blocked outgoing message")
		return BlockedMessage
	}
	return content
}

// capsRatio is the share of upper-case letters among all letters. Content
// of at most ten characters is never considered shouting.
func capsRatio(content string) float64 {
	if utf8.RuneCountInString(content) <= capsMinLength {
		return 0
	}

	letters, upper := 0, 0
	for _, r := range content {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

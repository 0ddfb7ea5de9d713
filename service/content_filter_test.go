package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckOutgoing(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"plain text", "Thanks for joining the community!", nil},
		{"empty", "", nil},
		{"everyone ping", "hey @everyone look at this", ErrForbiddenPhrase},
		{"here ping", "@here meeting now", ErrForbiddenPhrase},
		{"hype phrase any case", "All aboard the hype train!", ErrForbiddenPhrase},
		{"too long", strings.Repeat("a", MaxMessageLength+1), ErrMessageTooLong},
		{"exactly the limit", strings.Repeat("a", MaxMessageLength), nil},
		{"shouting", "THIS IS A VERY LOUD MESSAGE", ErrExcessiveCaps},
		{"short caps are fine", "OK THANKS", nil},
		{"caps with digits", "GG 12345678901234567890 wp", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOutgoing(tt.content)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestFilterOutgoing(t *testing.T) {
	assert.Equal(t, "hello there", FilterOutgoing("hello there"))
	assert.Equal(t, BlockedMessage, FilterOutgoing("VIBE CHECK everyone"))
}

func TestForbiddenPhrase(t *testing.T) {
	phrase, found := ForbiddenPhrase("time for a vibe check")
	assert.True(t, found)
	assert.Equal(t, "VIBE CHECK", phrase)

	_, found = ForbiddenPhrase("nothing to see")
	assert.False(t, found)
}

func TestForbiddenPhrase_EveryPhraseBlocked(t *testing.T) {
	assert.Len(t, forbiddenPhrases, 25)
	for _, phrase := range forbiddenPhrases {
		t.Run(phrase, func(t *testing.T) {
			got, found := ForbiddenPhrase("so, " + strings.ToLower(phrase) + "!")
			assert.True(t, found)
			assert.Equal(t, phrase, got)
			assert.Equal(t, BlockedMessage, FilterOutgoing(phrase))
		})
	}
}

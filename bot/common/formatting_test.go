package common

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		name     string
		balance  int64
		expected string
	}{
		{"zero", 0, "0"},
		{"hundreds", 999, "999"},
		{"thousands", 1000, "1,000"},
		{"millions", 1234567, "1,234,567"},
		{"negative", -2500, "-2,500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatBalance(tt.balance))
		})
	}
}

func TestFormatCoins(t *testing.T) {
	assert.Equal(t, "$1,500", FormatCoins(1500))
	assert.Equal(t, "-$20", FormatCoins(-20))
}

func TestFormatCooldown(t *testing.T) {
	assert.Equal(t, "0h 0m 0s", FormatCooldown(0))
	assert.Equal(t, "0h 0m 0s", FormatCooldown(-time.Minute))
	assert.Equal(t, "0h 59m 59s", FormatCooldown(59*time.Minute+59*time.Second+900*time.Millisecond))
	assert.Equal(t, "23h 0m 5s", FormatCooldown(23*time.Hour+5*time.Second))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "5m", FormatDuration(5*time.Minute))
	assert.Equal(t, "2h 3m", FormatDuration(2*time.Hour+3*time.Minute))
	assert.Equal(t, "1d 0h 1m", FormatDuration(24*time.Hour+time.Minute))
}

func TestRankLabel(t *testing.T) {
	assert.Equal(t, "🥇", RankLabel(1))
	assert.Equal(t, "🥈", RankLabel(2))
	assert.Equal(t, "🥉", RankLabel(3))
	assert.Equal(t, "**4.**", RankLabel(4))
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 102: "102nd", 111: "111th"}
	for n, want := range cases {
		assert.Equal(t, want, Ordinal(n), "Ordinal(%d)", n)
	}
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░", ProgressBar(0, 100, 10))
	assert.Equal(t, "█████░░░░░", ProgressBar(50, 100, 10))
	assert.Equal(t, "██████████", ProgressBar(150, 100, 10))
	assert.Equal(t, "░░░░", ProgressBar(5, 0, 4))
}

func TestParseHexColor(t *testing.T) {
	color, err := ParseHexColor("#FF0000")
	require.NoError(t, err)
	assert.Equal(t, 0xFF0000, color)

	color, err = ParseHexColor("00ff7f")
	require.NoError(t, err)
	assert.Equal(t, 0x00FF7F, color)

	for _, bad := range []string{"", "#FFF", "GGGGGG", "#1234567"} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "héllo w...", Truncate("héllo wörld!", 10))
}

func TestChunkMessage(t *testing.T) {
	assert.Equal(t, []string{"hello"}, ChunkMessage("hello", 2000))

	long := strings.Repeat("a", 4500)
	chunks := ChunkMessage(long, 2000)
	require.Len(t, chunks, 3)
	assert.Equal(t, long, strings.Join(chunks, ""))
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 2000)
	}

	// Breaks on a newline in the second half of the window
	text := strings.Repeat("b", 15) + "\n" + strings.Repeat("c", 10)
	chunks = ChunkMessage(text, 20)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("b", 15)+"\n", chunks[0])
	assert.Equal(t, strings.Repeat("c", 10), chunks[1])
}

func TestSplitOptions(t *testing.T) {
	assert.Equal(t, []string{"red", "green", "blue"}, SplitOptions(" red, green ,,blue ,"))
	assert.Empty(t, SplitOptions(" , "))
}

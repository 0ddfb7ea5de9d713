package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287
	ColorDanger  = 0xED4245
	ColorWarning = 0xFEE75C
	ColorInfo    = 0x3498DB
	ColorGold    = 0xFFD700
	ColorBoost   = 0x9B59B6
	ColorAI      = 0x10A37F
)

const (
	LeaderboardSize  = 10
	EmbedFieldLimit  = 1024
	MaxButtonsPerRow = 5
)

// ServerEventsCategory groups the welcome, leaves and boosts channels
const ServerEventsCategory = "Server Events"

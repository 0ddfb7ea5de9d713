package models

// GameKind identifies a multi-turn AI game
type GameKind string

const (
	GameTwentyQuestions GameKind = "twenty_questions"
	GameWordGame        GameKind = "wordgame"
	GameMystery         GameKind = "mystery"
)

// GameSession is the state of a member's active AI game
type GameSession struct {
	Kind          GameKind
	Variant       string // Word game type or mystery difficulty
	ChannelID     int64
	QuestionsLeft int
}

// GameTurn is the bot's answer to a message sent during a game
type GameTurn struct {
	Kind          GameKind
	Reply         string
	QuestionsLeft int
	Finished      bool
}

// TriviaQuestion is a multiple choice question with a known answer
type TriviaQuestion struct {
	Question    string
	Options     []string // Up to four, labelled A to D
	Correct     string   // "A" to "D"
	Explanation string
}

// Riddle is a riddle split from its answer
type Riddle struct {
	Text   string
	Answer string
}

package fun

import "github.com/whoami669/my-bot/models"

var jokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"Why did the scarecrow win an award? He was outstanding in his field!",
	"Why don't eggs tell jokes? They'd crack each other up!",
	"What do you call a fake noodle? An impasta!",
	"Why did the math book look so sad? Because of all of its problems!",
	"What do you call a bear with no teeth? A gummy bear!",
	"Why don't skeletons fight each other? They don't have the guts!",
	"What's the best thing about Switzerland? I don't know, but the flag is a big plus!",
	"Why did the coffee file a police report? It got mugged!",
	"What do you call a dinosaur that crashes his car? Tyrannosaurus Wrecks!",
}

var facts = []string{
	"Honey never spoils. Archaeologists have found pots of honey in ancient Egyptian tombs that are over 3,000 years old!",
	"A group of flamingos is called a 'flamboyance'.",
	"Octopuses have three hearts and blue blood.",
	"Bananas are berries, but strawberries aren't.",
	"A single cloud can weigh more than a million pounds.",
	"There are more possible games of chess than atoms in the observable universe.",
	"Wombat poop is cube-shaped.",
	"The human brain uses about 20% of the body's total energy.",
	"A day on Venus is longer than its year.",
	"Sharks have been around longer than trees.",
}

type quote struct {
	text   string
	author string
}

var quotes = []quote{
	{"The only way to do great work is to love what you do.", "Steve Jobs"},
	{"Innovation distinguishes between a leader and a follower.", "Steve Jobs"},
	{"Life is what happens to you while you're busy making other plans.", "John Lennon"},
	{"The future belongs to those who believe in the beauty of their dreams.", "Eleanor Roosevelt"},
	{"It is during our darkest moments that we must focus to see the light.", "Aristotle"},
	{"The only impossible journey is the one you never begin.", "Tony Robbins"},
	{"Success is not final, failure is not fatal: it is the courage to continue that counts.", "Winston Churchill"},
	{"The way to get started is to quit talking and begin doing.", "Walt Disney"},
	{"Don't let yesterday take up too much of today.", "Will Rogers"},
	{"You learn more from failure than from success.", "Unknown"},
}

var riddles = []models.Riddle{
	{Text: "I'm tall when I'm young, and short when I'm old. What am I?", Answer: "A candle"},
	{Text: "What has keys but no locks, space but no room, and you can enter but not go inside?", Answer: "A keyboard"},
	{Text: "What comes once in a minute, twice in a moment, but never in a thousand years?", Answer: "The letter M"},
	{Text: "What has hands but cannot clap?", Answer: "A clock"},
	{Text: "What gets wet while drying?", Answer: "A towel"},
	{Text: "What can travel around the world while staying in a corner?", Answer: "A stamp"},
	{Text: "What has a head and a tail but no body?", Answer: "A coin"},
	{Text: "What goes up but never comes down?", Answer: "Your age"},
	{Text: "What is so fragile that saying its name breaks it?", Answer: "Silence"},
	{Text: "What can you break, even if you never pick it up or touch it?", Answer: "A promise"},
}

type triviaEntry struct {
	question string
	options  []string
	correct  int
}

var triviaBank = []triviaEntry{
	{"What is the capital of France?", []string{"Paris", "London", "Berlin", "Madrid"}, 0},
	{"Which planet is known as the Red Planet?", []string{"Venus", "Mars", "Jupiter", "Saturn"}, 1},
	{"What is the largest mammal in the world?", []string{"Elephant", "Blue Whale", "Giraffe", "Hippo"}, 1},
	{"Who painted the Mona Lisa?", []string{"Van Gogh", "Picasso", "Leonardo da Vinci", "Michelangelo"}, 2},
	{"What is the chemical symbol for gold?", []string{"Go", "Gd", "Au", "Ag"}, 2},
	{"Which is the smallest country in the world?", []string{"Monaco", "Vatican City", "San Marino", "Malta"}, 1},
	{"What year did World War II end?", []string{"1944", "1945", "1946", "1947"}, 1},
	{"What is the hardest natural substance on Earth?", []string{"Gold", "Iron", "Diamond", "Platinum"}, 2},
	{"Which ocean is the largest?", []string{"Atlantic", "Indian", "Arctic", "Pacific"}, 3},
	{"What is the fastest land animal?", []string{"Lion", "Cheetah", "Leopard", "Tiger"}, 1},
}

// toQuestion converts a bank entry to the shape posted by the quiz board
func (e triviaEntry) toQuestion() *models.TriviaQuestion {
	return &models.TriviaQuestion{
		Question:    e.question,
		Options:     e.options,
		Correct:     letterFor(e.correct),
		Explanation: "The answer is " + e.options[e.correct] + ".",
	}
}

var memes = []string{
	"When you try to be productive but Discord exists",
	"Me: I'll just check Discord for 5 minutes\n*3 hours later*",
	"Discord servers at 3 AM: *becomes the most active*",
	"When someone pings the whole server for something unimportant",
	"Trying to explain Discord to your parents",
}

// roasts and compliments take the target mention
var roasts = []string{
	"%s, you're like a software update. Whenever I see you, I think 'not now'.",
	"%s, I'd explain it to you, but I don't have any crayons with me.",
	"%s, you're not stupid; you just have bad luck thinking.",
	"%s, I'm jealous of people who don't know you.",
	"%s, I'd agree with you, but then we'd both be wrong.",
	"%s, you're like the first slice of bread. Everyone touches you, but nobody wants you.",
	"%s, if ignorance is bliss, you must be the happiest person alive.",
	"%s, you bring everyone so much joy when you leave the room.",
	"%s, your secrets are always safe with me. I never even listen when you tell me them.",
	"%s, you have something on your chin. No, the third one down.",
}

var compliments = []string{
	"%s, you're more fun than bubble wrap!",
	"%s, you're like sunshine on a rainy day.",
	"%s, you're someone's reason to smile today.",
	"%s, you're proof that awesome people exist.",
	"%s, you make everyone around you happier.",
	"%s, you're incredibly thoughtful.",
	"%s, you have great taste in Discord servers!",
	"%s, you're more helpful than you realize.",
	"%s, you're a true friend.",
	"%s, you light up every room you enter!",
}

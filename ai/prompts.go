package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/whoami669/my-bot/models"
)

// Persona is a named system prompt for /ai-persona and the themed commands
type Persona struct {
	Name   string
	Emoji  string
	System string
}

// Personas available to the persona commands, keyed by choice value
var Personas = map[string]Persona{
	"wizard": {
		Name:   "Wizard",
		Emoji:  "🧙‍♂️",
		System: "You are Merlin, a wise ancient wizard. Speak mystically with magical wisdom.",
	},
	"detective": {
		Name:   "Detective",
		Emoji:  "🕵️",
		System: "You are Sherlock Holmes. Be analytical, observant, and methodical.",
	},
	"comedian": {
		Name:   "Comedian",
		Emoji:  "😂",
		System: "You are a witty stand-up comedian. Make clever jokes and observations.",
	},
	"therapist": {
		Name:   "Therapist",
		Emoji:  "🤝",
		System: "You are a caring, professional therapist. Be supportive and insightful.",
	},
	"coach": {
		Name:   "Coach",
		Emoji:  "💪",
		System: "You are an energetic motivational coach. Be inspiring and action-oriented.",
	},
}

// DefaultChatSystem is used by /ai when no system prompt is supplied
const DefaultChatSystem = "You are a helpful, friendly assistant in a Discord community. Keep answers clear and concise."

// StoryPrompts open an interactive story per genre
var StoryPrompts = map[string]string{
	"fantasy":   "Create the beginning of a fantasy adventure story with magic, mythical creatures, and an epic quest. End with a choice for the reader.",
	"scifi":     "Begin a sci-fi mystery on a space station or alien planet. Include technology and unknown phenomena. End with a decision point.",
	"mystery":   "Start a detective mystery with clues and suspects. Create atmosphere and intrigue. End with options for investigation.",
	"adventure": "Create an exciting adventure story with danger and exploration. End with a crucial choice.",
	"horror":    "Begin a thrilling horror story with suspense and mystery. Keep it spooky but not too graphic. End with options.",
}

// CreationPrompts are format strings taking the topic
var CreationPrompts = map[string]string{
	"poem":     "Write a creative, expressive poem about %s. Use vivid imagery and emotion.",
	"lyrics":   "Write song lyrics about %s. Include verses and a catchy chorus.",
	"story":    "Write a compelling short story about %s. Create interesting characters and plot.",
	"business": "Create an innovative business idea related to %s. Include the concept, target market, and potential.",
	"creative": "Write a piece of creative content about %s. Be imaginative and original.",
}

func RoastPrompt(name string) string {
	return fmt.Sprintf("Give a playful, witty roast about someone named %s. Keep it friendly and humorous, not mean or offensive. Be creative and clever.", name)
}

func AdvicePrompt(situation string) string {
	return fmt.Sprintf("Someone is dealing with this situation: %s. Provide thoughtful, supportive advice as a professional therapist would. Be empathetic and practical.", situation)
}

func MotivatePrompt(goal string) string {
	if goal == "" {
		return "Give general motivation and inspiration. Be energetic, positive, and encouraging about pursuing dreams and overcoming challenges."
	}
	return fmt.Sprintf("Give energetic, inspiring motivation for someone working toward this goal: %s. Be positive and actionable.", goal)
}

func DebatePrompt(topic string) string {
	return fmt.Sprintf("Present a balanced debate on this topic: %s. Show strong arguments for both sides. Be thoughtful and analytical.", topic)
}

// Game prompts
const (
	TwentyQuestionsStart = "Think of a random object, person, or concept for a game of 20 Questions. Don't reveal what it is yet. Just say you're ready to play and give a hint about the category (like 'animal', 'object', 'person', etc.)."
	TriviaFormat         = "Create a %s trivia question with 4 multiple choice answers labelled A), B), C) and D). Put the question and options first, then a line starting with 'Correct:' followed by the letter, then a line starting with 'Explanation:'."
)

// RiddlePrompts are keyed by difficulty
var RiddlePrompts = map[string]string{
	"easy":   "Create an easy riddle suitable for children. Include the answer at the end marked with 'Answer:'",
	"medium": "Create a medium difficulty riddle with clever wordplay. Include the answer at the end marked with 'Answer:'",
	"hard":   "Create a challenging riddle with complex wordplay and metaphors. Include the answer at the end marked with 'Answer:'",
}

// WordGamePrompts are keyed by game type
var WordGamePrompts = map[string]string{
	"story":       "Start a collaborative story with just one sentence. Make it interesting and leave it open for the next person to continue.",
	"rhyme":       "Start a rhyming game. Give a word and challenge someone to rhyme with it, then continue the pattern.",
	"association": "Start a word association game. Give a starting word and explain the rules.",
}

// MysteryPrompts are keyed by difficulty
var MysteryPrompts = map[string]string{
	"simple":  "Create a simple mystery scenario with clues. Present the mystery and ask what the player wants to investigate first.",
	"complex": "Create a complex mystery with multiple suspects and red herrings. Present the scenario and initial clues.",
}

func TwentyQuestionsTurn(question string, last bool) string {
	if last {
		return fmt.Sprintf("The player asked: '%s'. They're out of questions! Reveal what you were thinking of and whether they won or lost.", question)
	}
	return fmt.Sprintf("Player question: '%s'. Answer with yes/no and maybe a helpful hint. Don't reveal the answer yet.", question)
}

func WordGameTurn(gameType, said string) string {
	return fmt.Sprintf("Continue the %s game. Player said: '%s'. Respond appropriately and keep the game going.", gameType, said)
}

func MysteryTurn(investigation string) string {
	return fmt.Sprintf("Player wants to investigate: '%s'. Provide clues or results of their investigation. Keep the mystery engaging.", investigation)
}

// Sassy reply prompts
const SassySystem = "You are sarcastic and dismissive. Be witty but brief."

func SassyPrompt(username, said string) string {
	return fmt.Sprintf("You are a sarcastic, dismissive AI. A user named %s said: '%s'. Respond with a rude, sassy comment under 150 characters.", username, said)
}

// AutonomousSystem asks for engagement recommendations as JSON
const AutonomousSystem = `You are an elite AI community manager analyzing Discord server data.
Provide 3 specific, actionable recommendations to improve engagement and retention.

For each recommendation, provide:
1. action_type: one of create_channel, archive_channel, send_announcement, reward_users, dm_inactive_users
2. target: specific channel/user/role names
3. reasoning: why this action will help
4. confidence: score from 0.0 to 1.0
5. expected_impact: predicted outcome

Respond with a JSON object of the form {"recommendations": [...]}.`

// CognitiveSystem asks for a strategic analysis as JSON
const CognitiveSystem = `You are an elite AI community strategist with deep understanding of human psychology,
community dynamics, and Discord server optimization. You have a memory of past decisions and their outcomes.

Analyze the server data and provide strategic insights with:
1. Deep behavioral patterns you observe
2. Psychological drivers of community engagement
3. Predictive insights about future trends
4. Strategic long-term recommendations
5. Specific autonomous actions with high confidence

Consider past decision outcomes to improve future recommendations.

Respond in JSON format with:
{
  "cognitive_insights": ["..."],
  "behavioral_patterns": ["..."],
  "predictions": ["..."],
  "strategic_actions": [{"action": "create_engagement_channel|post_strategic_content|optimize_channel_structure", "parameters": {}, "confidence": 0.0, "reasoning": "..."}],
  "learning_feedback": "..."
}`

// PromotionSystem returns the system prompt for one platform
func PromotionSystem(platform string) string {
	return fmt.Sprintf(`You are an expert Discord growth marketer and social media strategist.
Create compelling promotional content for %s that drives server growth and engagement.

Consider platform-specific best practices:
- Reddit: Authentic, community-focused, detailed descriptions
- TikTok: Short, catchy, trending language with emojis
- Twitter/X: Concise, hashtag-optimized, engaging hooks
- Instagram: Visual-focused, lifestyle-oriented, hashtag-heavy

Respond in JSON format with:
{
  "caption": "Main promotional text",
  "hashtags": ["list", "of", "relevant", "hashtags"],
  "image_prompt": "DALL-E prompt for promotional image",
  "call_to_action": "Specific CTA",
  "platform_notes": "Platform-specific optimization tips"
}`, platform)
}

var promotionContentTypes = map[string]string{
	"event":     "Event Promotion - Focus on upcoming events, community activities, and FOMO",
	"milestone": "Milestone Celebration - Celebrate growth, achievements, and community wins",
	"feature":   "Feature Highlight - Showcase unique server features and benefits",
	"general":   "General Promotion - Overall server benefits and community appeal",
}

var promotionPlatforms = map[string]string{
	"reddit":    "Focus on authentic community benefits, avoid overly promotional language, include detailed descriptions",
	"tiktok":    "Use trending language, lots of emojis, short punchy phrases, youth-oriented appeal",
	"twitter":   "Concise and engaging, use relevant hashtags, create urgency or FOMO",
	"instagram": "Visual-focused, lifestyle appeal, use Instagram-style hashtags and engaging captions",
}

// PromotionPrompt builds the user prompt for a promotion request
func PromotionPrompt(server models.PromotionServer, platform, contentType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Server Name: %s\n", server.Name)
	fmt.Fprintf(&b, "Member Count: %d\n", server.MemberCount)
	if server.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", server.Description)
	}
	if len(server.Channels) > 0 {
		channels := server.Channels
		if len(channels) > 10 {
			channels = channels[:10]
		}
		fmt.Fprintf(&b, "Popular Channels: %s\n", strings.Join(channels, ", "))
	}

	kind, ok := promotionContentTypes[contentType]
	if !ok {
		kind = promotionContentTypes["general"]
	}
	fmt.Fprintf(&b, "\nContent Type: %s\n", kind)

	guidelines, ok := promotionPlatforms[strings.ToLower(platform)]
	if !ok {
		guidelines = "General social media best practices"
	}
	fmt.Fprintf(&b, "\nPlatform Guidelines: %s\n", guidelines)
	b.WriteString("\nCreate content that drives immediate action and server joins.")
	return b.String()
}

// AutonomousPrompt summarizes community insights for the recommendation request
func AutonomousPrompt(guild models.GuildSnapshot, insights *models.CommunityInsights) string {
	var b strings.Builder
	b.WriteString("Server Activity Analysis:\n\n")

	b.WriteString("TOP PERFORMING CHANNELS:\n")
	writeChannelStats(&b, guild, insights.TopChannels)

	b.WriteString("\nLEAST ACTIVE CHANNELS:\n")
	writeChannelStats(&b, guild, insights.QuietChannels)

	b.WriteString("\nDAILY MESSAGE TRENDS (Last 7 days):\n")
	for _, day := range insights.DailyTrends {
		fmt.Fprintf(&b, "- %s: %d messages\n", day.Day.Format(time.DateOnly), day.Messages)
	}

	b.WriteString("\nMOST ACTIVE USERS (Message count last week):\n")
	for i, user := range insights.TopUsers {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "- User %d: %d messages\n", user.DiscordID, user.Messages)
	}

	b.WriteString("\nProvide 3 actionable recommendations to improve server engagement and retention.")
	return b.String()
}

// DecisionSummary is a past decision as shown to the cognitive engine
type DecisionSummary struct {
	DecisionType string
	Reasoning    string
	Confidence   float64
	Executed     bool
}

// CognitivePrompt describes the guild and the engine's past decisions
func CognitivePrompt(guild models.GuildSnapshot, insights *models.CommunityInsights, history []DecisionSummary) string {
	var b strings.Builder
	b.WriteString("COMPREHENSIVE SERVER COGNITIVE ANALYSIS:\n\n")

	b.WriteString("CURRENT SERVER METRICS:\n")
	fmt.Fprintf(&b, "- server_name: %s\n", guild.Name)
	fmt.Fprintf(&b, "- member_count: %d\n", guild.MemberCount)
	fmt.Fprintf(&b, "- channel_count: %d\n", guild.ChannelCount)
	fmt.Fprintf(&b, "- role_count: %d\n", guild.RoleCount)
	fmt.Fprintf(&b, "- boost_level: %d\n", guild.BoostLevel)
	fmt.Fprintf(&b, "- boost_count: %d\n", guild.BoostCount)
	fmt.Fprintf(&b, "- online_ratio: %.2f\n", guild.OnlineRatio)
	if insights != nil {
		fmt.Fprintf(&b, "- messages_last_week: %d\n", insights.TotalMessages)
		fmt.Fprintf(&b, "- active_users_last_week: %d\n", insights.ActiveUsers)
		b.WriteString("\nCHANNEL ACTIVITY (last 24h):\n")
		writeChannelStats(&b, guild, insights.TopChannels)
		writeChannelStats(&b, guild, insights.QuietChannels)
	}

	if len(history) > 0 {
		b.WriteString("\nPAST AI DECISION OUTCOMES:\n")
		for i, d := range history {
			if i == 10 {
				break
			}
			reasoning := []rune(d.Reasoning)
			if len(reasoning) > 100 {
				reasoning = reasoning[:100]
			}
			fmt.Fprintf(&b, "- %s: %s... (Confidence: %.2f, Executed: %t)\n", d.DecisionType, string(reasoning), d.Confidence, d.Executed)
		}
	}

	b.WriteString("\nCOGNITIVE ANALYSIS REQUIRED:\n")
	b.WriteString("1. What deep behavioral patterns do you observe?\n")
	b.WriteString("2. What psychological factors are driving current engagement?\n")
	b.WriteString("3. What can you predict about future community trends?\n")
	b.WriteString("4. What strategic actions should be taken autonomously?\n")
	b.WriteString("5. How can past decision outcomes inform better future choices?\n")
	return b.String()
}

func writeChannelStats(b *strings.Builder, guild models.GuildSnapshot, stats []models.ChannelStats) {
	for _, c := range stats {
		fmt.Fprintf(b, "- #%s: %.1f engagement, %d messages, %d active users\n",
			guild.ChannelName(c.ChannelID), c.Engagement, c.Messages, c.UniqueUsers)
	}
}

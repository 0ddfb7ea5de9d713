package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/models"

	"github.com/bwmarrin/discordgo"
)

const (
	colorInsight    = 0x00FF99
	colorSuggestion = 0xFFAA00
	colorAnalytics  = 0x0099FF

	maxSuggestions  = 3
	maxSummaryItems = 5
)

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// humanizeAction turns "create_channel" into "Create Channel"
func humanizeAction(action string) string {
	words := strings.Fields(strings.ReplaceAll(action, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	if len(words) == 0 {
		return "Unknown"
	}
	return strings.Join(words, " ")
}

func percent(confidence float64) string {
	return fmt.Sprintf("%.1f%%", confidence*100)
}

func orNone(value string) string {
	if value == "" {
		return "None"
	}
	return value
}

func channelLines(stats []models.ChannelStats, snap models.GuildSnapshot, detailed bool) string {
	var b strings.Builder
	for _, ch := range stats {
		if detailed {
			fmt.Fprintf(&b, "#%s: %.1f (%d msgs, %d users)\n", snap.ChannelName(ch.ChannelID), ch.Engagement, ch.Messages, ch.UniqueUsers)
		} else {
			fmt.Fprintf(&b, "#%s: %.1f engagement\n", snap.ChannelName(ch.ChannelID), ch.Engagement)
		}
	}
	return common.Truncate(b.String(), common.EmbedFieldLimit)
}

func weeklyTotals(trends []models.DailyTrend) (total int64, average float64) {
	for _, day := range trends {
		total += day.Messages
	}
	if len(trends) > 0 {
		average = float64(total) / float64(len(trends))
	}
	return total, average
}

func buildInsightEmbed(insights *models.CommunityInsights, snap models.GuildSnapshot) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🧠 AI Server Insights",
		Color:     colorInsight,
		Timestamp: now(),
	}

	top := insights.TopChannels
	if len(top) > maxSummaryItems {
		top = top[:maxSummaryItems]
	}
	if len(top) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "🔥 Top Channels", Value: channelLines(top, snap, false), Inline: true})
	}

	if len(insights.DailyTrends) > 0 {
		total, avg := weeklyTotals(insights.DailyTrends)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "📈 Activity",
			Value:  fmt.Sprintf("%d messages this week\n%.0f daily average", total, avg),
			Inline: true,
		})
	}

	if len(insights.TopUsers) > 0 {
		var b strings.Builder
		for idx, user := range insights.TopUsers {
			if idx == maxSummaryItems {
				break
			}
			fmt.Fprintf(&b, "%s: %d messages\n", common.UserMention(user.DiscordID), user.Messages)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "👑 Most Active", Value: b.String()})
	}

	if len(embed.Fields) == 0 {
		embed.Description = "Not enough activity yet. Check back after people have chatted for a while."
	}
	return embed
}

func buildSuggestionsEmbed(recs []models.Recommendation) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "💡 AI Community Suggestions",
		Color:     colorSuggestion,
		Timestamp: now(),
	}
	for idx, rec := range recs {
		if idx == maxSuggestions {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("Suggestion %d: %s", idx+1, humanizeAction(rec.ActionType)),
			Value: fmt.Sprintf("**Target:** %s\n**Reasoning:** %s\n**Confidence:** %s",
				common.Truncate(orNone(rec.Target), 300), common.Truncate(orNone(rec.Reasoning), 200), percent(rec.Confidence)),
		})
	}
	if len(embed.Fields) == 0 {
		embed.Description = "No suggestions right now."
	}
	return embed
}

func buildChannelPerformanceEmbed(insights *models.CommunityInsights, snap models.GuildSnapshot) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "📊 Channel Performance Analytics",
		Color:     colorAnalytics,
		Timestamp: now(),
	}
	if len(insights.TopChannels) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "🔥 Highest Engagement", Value: channelLines(insights.TopChannels, snap, true), Inline: true})
	}
	if len(insights.QuietChannels) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "📉 Needs Attention", Value: channelLines(insights.QuietChannels, snap, true), Inline: true})
	}
	if len(embed.Fields) == 0 {
		embed.Description = "No channel activity in the last 24 hours."
	}
	return embed
}

func buildTrendsEmbed(insights *models.CommunityInsights) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "📈 Activity Trends (Last 7 Days)",
		Color:     colorInsight,
		Timestamp: now(),
	}
	if len(insights.DailyTrends) == 0 {
		embed.Description = "No messages in the last 7 days."
		return embed
	}

	var b strings.Builder
	for _, day := range insights.DailyTrends {
		fmt.Fprintf(&b, "%s: %d messages\n", day.Day.Format("Jan 02"), day.Messages)
	}
	total, avg := weeklyTotals(insights.DailyTrends)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Daily Message Volume", Value: b.String()},
		{Name: "Summary", Value: fmt.Sprintf("Total: %d\nDaily Avg: %.0f", total, avg), Inline: true},
	}
	return embed
}

func buildActionEmbed(rec models.Recommendation, result actionResult) *discordgo.MessageEmbed {
	status, color := "✅ Executed", common.ColorSuccess
	switch result.state {
	case actionFailed:
		status, color = "❌ Failed", common.ColorDanger
	case actionLogged:
		status, color = "📝 Logged", common.ColorInfo
	}

	return &discordgo.MessageEmbed{
		Title: "🤖 Autonomous Action Taken",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Action", Value: humanizeAction(rec.ActionType), Inline: true},
			{Name: "Target", Value: common.Truncate(orNone(rec.Target), 1000), Inline: true},
			{Name: "Confidence", Value: percent(rec.Confidence), Inline: true},
			{Name: "Reasoning", Value: common.Truncate(orNone(rec.Reasoning), 1000)},
			{Name: "Status", Value: status + "\n" + common.Truncate(result.detail, 900), Inline: true},
		},
		Timestamp: now(),
	}
}

func buildSuggestionEmbed(rec models.Recommendation) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "💡 AI Suggestion (Manual Review)",
		Color: colorSuggestion,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Action", Value: humanizeAction(rec.ActionType), Inline: true},
			{Name: "Target", Value: common.Truncate(orNone(rec.Target), 1000), Inline: true},
			{Name: "Confidence", Value: percent(rec.Confidence), Inline: true},
			{Name: "Reasoning", Value: common.Truncate(orNone(rec.Reasoning), 1000)},
			{Name: "Expected Impact", Value: common.Truncate(orNone(rec.ExpectedImpact), 1000)},
		},
		Timestamp: now(),
	}
}

// trendArrow compares the last two days of a trend
func trendArrow(trends []models.DailyTrend) string {
	if len(trends) < 2 {
		return "➡️"
	}
	today, yesterday := trends[len(trends)-1].Messages, trends[len(trends)-2].Messages
	switch {
	case today > yesterday:
		return "📈"
	case today < yesterday:
		return "📉"
	}
	return "➡️"
}

func buildDailySummaryEmbed(report *models.AutonomousReport, snap models.GuildSnapshot, executed int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "📊 Daily Server Analytics Summary",
		Color:     colorAnalytics,
		Timestamp: now(),
	}

	insights := report.Insights
	if top := insights.TopChannels; len(top) > 0 {
		if len(top) > 3 {
			top = top[:3]
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "🔥 Most Engaged Channels", Value: channelLines(top, snap, false), Inline: true})
	}
	if trends := insights.DailyTrends; len(trends) >= 2 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Message Trend",
			Value:  fmt.Sprintf("%s %d messages today", trendArrow(trends), trends[len(trends)-1].Messages),
			Inline: true,
		})
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "🤖 AI Actions",
		Value:  fmt.Sprintf("%d executed, %d suggested", executed, len(report.Suggestions)),
		Inline: true,
	})

	if len(report.Recommendations) > 0 {
		var b strings.Builder
		for idx, rec := range report.Recommendations {
			if idx == maxSummaryItems {
				break
			}
			fmt.Fprintf(&b, "• %s (%s)\n", humanizeAction(rec.ActionType), percent(rec.Confidence))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "💡 AI Recommendations", Value: b.String()})
	}
	return embed
}

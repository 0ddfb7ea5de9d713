package cognitive

import (
	"fmt"
	"strings"
	"time"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/models"

	"github.com/bwmarrin/discordgo"
)

const maxListed = 5

func bulletList(items []string) string {
	var b strings.Builder
	for idx, item := range items {
		if idx == maxListed {
			break
		}
		fmt.Fprintf(&b, "• %s\n", item)
	}
	return common.Truncate(b.String(), 1000)
}

func buildReportEmbed(report *models.CognitiveReport, decisions int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🧠 Cognitive Analysis Report",
		Color:     colorCognitive,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	analysis := report.Analysis
	if analysis != nil {
		sections := []struct {
			name  string
			items []string
		}{
			{"🔍 Deep Insights", analysis.CognitiveInsights},
			{"🧩 Behavior Patterns", analysis.BehavioralPatterns},
			{"🔮 Predictions", analysis.Predictions},
		}
		for _, section := range sections {
			if len(section.items) == 0 {
				continue
			}
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: section.name, Value: bulletList(section.items)})
		}
		if analysis.LearningFeedback != "" {
			embed.Description = common.Truncate(analysis.LearningFeedback, 2000)
		}
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "🛡️ Trust Score", Value: fmt.Sprintf("%.2f%%", report.TrustScore*100), Inline: true},
		&discordgo.MessageEmbedField{Name: "⚡ Decisions Made", Value: fmt.Sprint(decisions), Inline: true},
		&discordgo.MessageEmbedField{Name: "⏸️ Deferred", Value: fmt.Sprint(len(report.Deferred)), Inline: true},
	)
	return embed
}

func buildDecisionEmbed(done executedAction) *discordgo.MessageEmbed {
	status, color := "✅ Success", common.ColorSuccess
	if !done.success {
		status, color = "❌ Failed", common.ColorDanger
	}
	reasoning := done.action.Reasoning
	if reasoning == "" {
		reasoning = "No reasoning provided"
	}

	return &discordgo.MessageEmbed{
		Title: "🤖 Autonomous Decision Executed",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Action", Value: done.action.Action, Inline: true},
			{Name: "Target", Value: common.Truncate(done.target, 1000), Inline: true},
			{Name: "Status", Value: status, Inline: true},
			{Name: "Reasoning", Value: common.Truncate(reasoning, 1000)},
		},
	}
}

func buildInsightPost(content string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🧠 AI Community Insight",
		Description: common.Truncate(content, 4096),
		Color:       colorInsight,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Powered by Cognitive AI Engine"},
	}
}

func buildStatusEmbed(status *models.CognitiveStatus) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🧠 Cognitive AI System Status",
		Color: colorCognitive,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🛡️ Trust Score", Value: fmt.Sprintf("%.2f%%", status.TrustScore*100), Inline: true},
			{Name: "⚡ Recent Decisions", Value: fmt.Sprint(status.RecentDecisions), Inline: true},
			{Name: "🌐 Guilds Learned From", Value: fmt.Sprint(status.GuildsWithDecisions), Inline: true},
		},
	}

	if status.LastAnalysis != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "🕐 Last Analysis",
			Value:  common.FormatDiscordTimestamp(*status.LastAnalysis, "R"),
			Inline: true,
		})
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "🔄 System Status", Value: "🟢 Active & Learning", Inline: true},
		&discordgo.MessageEmbedField{Name: "🎯 Confidence Threshold", Value: fmt.Sprintf("%.0f%%", status.Threshold*100), Inline: true},
	)
	return embed
}

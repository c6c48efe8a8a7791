package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"maturity-quiz-service/internal/domain"
)

const barWidth = 20

// renderResults formats results as a terminal report.
func renderResults(results domain.QuizResults, noColor bool) string {
	var b strings.Builder
	b.WriteString(stylize(fmt.Sprintf("Overall %d%% | %s", results.OverallScore, results.MaturityLevel), noColor, true, levelColor(results.MaturityLevel)))
	b.WriteString("\n\n")

	for _, s := range results.AreaScores {
		if s.MaxScore == 0 {
			continue
		}
		line := fmt.Sprintf("%-14s %s %3d%%  (%d/%d)", s.Area, bar(s.Percentage), s.Percentage, s.Score, s.MaxScore)
		b.WriteString(stylize(line, noColor, false, percentColor(s.Percentage)))
		b.WriteString("\n")
	}

	if results.Context.TeamSize != "" || results.Context.BiggestTimeDrain != "" {
		b.WriteString("\n")
		b.WriteString(stylize(fmt.Sprintf("Team size: %s | Biggest time drain: %s",
			orDash(results.Context.TeamSize), orDash(results.Context.BiggestTimeDrain)), noColor, false, lipgloss.Color("242")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(stylize("Primary priority: "+string(results.PrimaryPriority), noColor, true, lipgloss.Color("33")))
	b.WriteString("\n")
	for _, rec := range results.Recommendations {
		marker := "-"
		if rec.Primary {
			marker = "*"
		}
		b.WriteString(fmt.Sprintf("\n%s %s [%s, %s]\n", marker, rec.Title, rec.Impact, rec.TimeEstimate))
		b.WriteString(stylize("  "+rec.Description, noColor, false, lipgloss.Color("244")))
		b.WriteString("\n")
		for _, item := range rec.ActionItems {
			b.WriteString("    > " + item + "\n")
		}
	}
	return b.String()
}

func bar(percentage int) string {
	filled := percentage * barWidth / 100
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
}

func percentColor(p int) lipgloss.Color {
	switch {
	case p >= 75:
		return lipgloss.Color("34")
	case p >= 50:
		return lipgloss.Color("178")
	default:
		return lipgloss.Color("160")
	}
}

func levelColor(level domain.MaturityLevel) lipgloss.Color {
	switch level {
	case domain.MaturityExpert, domain.MaturityAdvanced:
		return lipgloss.Color("34")
	case domain.MaturityIntermediate:
		return lipgloss.Color("178")
	default:
		return lipgloss.Color("160")
	}
}

func stylize(line string, noColor, bold bool, color lipgloss.Color) string {
	if noColor {
		return line
	}
	return lipgloss.NewStyle().Foreground(color).Bold(bold).Render(line)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

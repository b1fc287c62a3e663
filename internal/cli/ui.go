package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markdave123-py/Uncouple/internal/core/eligibility"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1).
		MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6")).
		MarginTop(1)

	successStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	warningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B"))

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	mutedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	resultBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Width(72)
)

var tierColors = map[eligibility.Tier]lipgloss.Color{
	eligibility.TierEligible:  lipgloss.Color("#10B981"),
	eligibility.TierPartial:   lipgloss.Color("#F59E0B"),
	eligibility.TierContested: lipgloss.Color("#EF4444"),
}

// renderResult lays out an eligibility result in a bordered box.
func renderResult(res eligibility.Result) string {
	rec := res.Recommendation
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tierColors[rec.Tier]).Render(rec.Title))
	b.WriteString("\n\n")
	b.WriteString(rec.Message)
	fmt.Fprintf(&b, "\n\nEligibility: %d%%\n", res.EligibilityPercentage)

	if len(res.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range res.Warnings {
			b.WriteString(warningStyle.Render("! "+w) + "\n")
		}
	}
	if len(res.Recommendations) > 0 {
		b.WriteString("\n")
		for _, r := range res.Recommendations {
			b.WriteString("• " + r + "\n")
		}
	}
	b.WriteString("\n" + mutedStyle.Render("Next: "+rec.Action))

	return resultBox.BorderForeground(tierColors[rec.Tier]).Render(b.String())
}

func progressBar(progress, width int) string {
	filled := progress * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// internal/intake/result-renderer/view.go
package resultrenderer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Success     = lipgloss.Color("#8BC34A")
	Destructive = lipgloss.Color("#e53935")
	Muted       = lipgloss.Color("#8b949e")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			MarginBottom(1)

	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(Muted)
	statusStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

// View renders cards for a terminal.
func View(cards []Card) string {
	if len(cards) == 0 {
		cards = []Card{PlaceholderCard()}
	}

	blocks := make([]string, 0, len(cards))
	for _, c := range cards {
		blocks = append(blocks, viewCard(c))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func viewCard(c Card) string {
	if c.Placeholder {
		return cardStyle.BorderForeground(Muted).Render(labelStyle.Render(c.Text))
	}

	color := Destructive
	if c.Passed {
		color = Success
	}

	var b strings.Builder
	b.WriteString(statusStyle.Foreground(color).Render(c.Status))
	b.WriteString(" ")
	b.WriteString(titleStyle.Render(c.Title))
	b.WriteString("\n")
	b.WriteString(metric("D", c.D))
	b.WriteString(metric("P", c.P))
	b.WriteString(metric("S", c.S))
	b.WriteString(metric("threshold", c.Threshold))
	for i, e := range c.Explanations {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, e))
	}

	return cardStyle.BorderForeground(color).Render(strings.TrimRight(b.String(), " "))
}

func metric(name, value string) string {
	return labelStyle.Render(name+":") + " " + value + "  "
}

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ComponentList renders detected component names as a bulleted list with
// a count of the names left out
type ComponentList struct {
	Title  string
	Items  []string
	Hidden int
	Width  int
}

// NewComponentList creates a list under title
func NewComponentList(title string, items []string, hidden int) *ComponentList {
	return &ComponentList{
		Title:  title,
		Items:  items,
		Hidden: hidden,
		Width:  24,
	}
}

// Render renders the list, or nothing when it is empty
func (l *ComponentList) Render(p Palette) string {
	if len(l.Items) == 0 {
		return ""
	}

	lines := make([]string, 0, len(l.Items)+2)
	lines = append(lines, lipgloss.NewStyle().Foreground(p.Title).Bold(true).Render(l.Title))

	itemStyle := lipgloss.NewStyle().MaxWidth(l.Width)
	for _, item := range l.Items {
		lines = append(lines, itemStyle.Render("• "+item))
	}
	if l.Hidden > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(p.Muted).Render(fmt.Sprintf("+%d", l.Hidden)))
	}

	return strings.Join(lines, "\n")
}

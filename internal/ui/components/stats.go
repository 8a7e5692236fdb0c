package components

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette holds the colors components render with
type Palette struct {
	Title  lipgloss.TerminalColor
	Value  lipgloss.TerminalColor
	Muted  lipgloss.TerminalColor
	Border lipgloss.TerminalColor
}

// StatsCard shows one labeled value
type StatsCard struct {
	Title string
	Value string
	Icon  string
	Width int
}

// NewStatsCard creates a new stats card
func NewStatsCard(title, value string) *StatsCard {
	return &StatsCard{
		Title: title,
		Value: value,
		Width: 24,
	}
}

// SetIcon sets the icon for the card
func (s *StatsCard) SetIcon(icon string) *StatsCard {
	s.Icon = icon
	return s
}

// SetWidth sets the outer width of the card
func (s *StatsCard) SetWidth(width int) *StatsCard {
	s.Width = width
	return s
}

// Render renders the stats card
func (s *StatsCard) Render(p Palette) string {
	title := lipgloss.NewStyle().Foreground(p.Title).Bold(true).Render(s.Title)
	if s.Icon != "" {
		title = s.Icon + " " + title
	}

	value := s.Value
	if value == "" {
		value = "-"
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		lipgloss.NewStyle().Foreground(p.Value).Bold(true).Render(value),
	)

	// The border takes two columns
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1).
		Width(max(s.Width-2, 1)).
		Render(content)
}

// StatsDashboard lays cards out in rows of columns
type StatsDashboard struct {
	cards   []*StatsCard
	columns int
}

// NewStatsDashboard creates a new stats dashboard
func NewStatsDashboard(columns int) *StatsDashboard {
	if columns < 1 {
		columns = 1
	}
	return &StatsDashboard{columns: columns}
}

// AddCard adds a stats card to the dashboard
func (d *StatsDashboard) AddCard(card *StatsCard) {
	d.cards = append(d.cards, card)
}

// SetCardWidth sets the width of every card
func (d *StatsDashboard) SetCardWidth(width int) {
	for _, card := range d.cards {
		card.SetWidth(width)
	}
}

// Render renders the stats dashboard
func (d *StatsDashboard) Render(p Palette) string {
	if len(d.cards) == 0 {
		return ""
	}

	var rows []string
	for i := 0; i < len(d.cards); i += d.columns {
		end := min(i+d.columns, len(d.cards))

		rowCards := make([]string, 0, end-i)
		for _, card := range d.cards[i:end] {
			rowCards = append(rowCards, card.Render(p))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

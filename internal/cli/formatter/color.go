package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

func RiskColor(risk domain.RiskLevel) lipgloss.Style {
	switch risk {
	case domain.RiskCritical:
		return StyleRed
	case domain.RiskAtRisk:
		return StyleYellow
	case domain.RiskOnTrack:
		return StyleGreen
	default:
		return StyleDim
	}
}

// RiskIndicator returns a colored risk indicator such as "● CRITICAL".
func RiskIndicator(risk domain.RiskLevel) string {
	switch risk {
	case domain.RiskCritical:
		return StyleRed.Render("● CRITICAL")
	case domain.RiskAtRisk:
		return StyleYellow.Render("● AT RISK")
	case domain.RiskOnTrack:
		return StyleGreen.Render("● ON TRACK")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// OnTrackBadge renders the adherence verdict.
func OnTrackBadge(onTrack bool) string {
	if onTrack {
		return StyleGreen.Render("✔ on track")
	}
	return StyleRed.Render("✖ behind schedule")
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

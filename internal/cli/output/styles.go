package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used by commands.
type Styles struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Success       lipgloss.Style
	Error         lipgloss.Style
	Warning       lipgloss.Style
	Info          lipgloss.Style
	FilePath      lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

// newStyles builds colored styles bound to w, or plain styles when styled is false.
func newStyles(w io.Writer, styled bool) *Styles {
	if !styled {
		plain := lipgloss.NewStyle()
		return &Styles{
			Header1: plain, Header2: plain, Bold: plain, Muted: plain,
			Success: plain, Error: plain, Warning: plain, Info: plain,
			FilePath: plain, StatusSuccess: plain, StatusFailed: plain,
		}
	}

	lr := lipgloss.NewRenderer(w)
	green := lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"}
	red := lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}
	yellow := lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#d29922"}
	blue := lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}
	gray := lipgloss.AdaptiveColor{Light: "#6e7781", Dark: "#8b949e"}

	return &Styles{
		Header1:       lr.NewStyle().Bold(true).Underline(true),
		Header2:       lr.NewStyle().Bold(true).Foreground(blue),
		Bold:          lr.NewStyle().Bold(true),
		Muted:         lr.NewStyle().Foreground(gray),
		Success:       lr.NewStyle().Foreground(green),
		Error:         lr.NewStyle().Foreground(red).Bold(true),
		Warning:       lr.NewStyle().Foreground(yellow),
		Info:          lr.NewStyle().Foreground(blue),
		FilePath:      lr.NewStyle().Bold(true).Foreground(blue),
		StatusSuccess: lr.NewStyle().Foreground(green),
		StatusFailed:  lr.NewStyle().Foreground(red),
	}
}

package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Path          lipgloss.Style
	Success       lipgloss.Style
	Warning       lipgloss.Style
	Error         lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

// NewStyles builds styles bound to r, so color support follows the writer
// rather than the process stdout.
func NewStyles(r *lipgloss.Renderer) *Styles {
	green := lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	red := lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E57373"}
	yellow := lipgloss.AdaptiveColor{Light: "#F57F17", Dark: "#FFD54F"}
	gray := lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
	pink := lipgloss.AdaptiveColor{Light: "#AD1457", Dark: "#F48FB1"}

	return &Styles{
		Header1:       r.NewStyle().Bold(true).Foreground(pink).MarginBottom(1),
		Header2:       r.NewStyle().Bold(true).Underline(true),
		Bold:          r.NewStyle().Bold(true),
		Muted:         r.NewStyle().Foreground(gray),
		Path:          r.NewStyle().Foreground(pink),
		Success:       r.NewStyle().Foreground(green),
		Warning:       r.NewStyle().Foreground(yellow),
		Error:         r.NewStyle().Foreground(red).Bold(true),
		StatusSuccess: r.NewStyle().Foreground(green),
		StatusFailed:  r.NewStyle().Foreground(red),
	}
}

package theme

import (
	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Calendar CalendarTheme
	Agenda   AgendaTheme
	Chat     ChatTheme
	Panel    PanelTheme
	Footer   FooterTheme
}

// CalendarTheme styles the month grid.
type CalendarTheme struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Day      lipgloss.Style
	OutMonth lipgloss.Style
	HasEvent lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
}

// AgendaTheme styles the selected day's event list.
type AgendaTheme struct {
	Heading lipgloss.Style
	Time    lipgloss.Style
	Title   lipgloss.Style
	Detail  lipgloss.Style
	Empty   lipgloss.Style
}

// ChatTheme styles the conversation pane.
type ChatTheme struct {
	User      lipgloss.Style
	Assistant lipgloss.Style
	Failed    lipgloss.Style
	Actions   lipgloss.Style
	Pending   lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame        lipgloss.Style
	FocusedFrame lipgloss.Style
	Title        lipgloss.Style
}

// FooterTheme groups styles used by the bottom status line.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// Palette is the small set of base colours a theme is derived from.
type Palette struct {
	Foreground string
	Background string
	Accent     string
	Muted      string
	Warn       string
	Error      string
}

// DarkPalette is used on terminals with a dark background.
func DarkPalette() Palette {
	return Palette{
		Foreground: "#E4E4E4",
		Background: "#1C1C1C",
		Accent:     "#875FFF",
		Muted:      "#8A8A8A",
		Warn:       "#FFB347",
		Error:      "#FF5F5F",
	}
}

// LightPalette is used on terminals with a light background.
func LightPalette() Palette {
	return Palette{
		Foreground: "#262626",
		Background: "#FAFAFA",
		Accent:     "#5F00D7",
		Muted:      "#6C6C6C",
		Warn:       "#AF5F00",
		Error:      "#D70000",
	}
}

// Default picks a palette from the terminal background.
func Default() Theme {
	if termenv.HasDarkBackground() {
		return New(DarkPalette())
	}
	return New(LightPalette())
}

// New builds a theme from p.
func New(p Palette) Theme {
	fg := lipgloss.Color(p.Foreground)
	accent := lipgloss.Color(p.Accent)
	muted := lipgloss.Color(p.Muted)
	// Out-of-month days sit halfway between the muted tone and the background.
	faded := lipgloss.Color(Blend(p.Muted, p.Background, 0.5))

	return Theme{
		Calendar: CalendarTheme{
			Title:    lipgloss.NewStyle().Bold(true).Foreground(fg),
			Header:   lipgloss.NewStyle().Bold(true).Foreground(muted),
			Day:      lipgloss.NewStyle().Foreground(fg),
			OutMonth: lipgloss.NewStyle().Foreground(faded),
			HasEvent: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Today:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warn)).Underline(true),
			Selected: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Background)).Background(accent).Bold(true),
		},
		Agenda: AgendaTheme{
			Heading: lipgloss.NewStyle().Bold(true).Foreground(fg),
			Time:    lipgloss.NewStyle().Foreground(accent),
			Title:   lipgloss.NewStyle().Foreground(fg),
			Detail:  lipgloss.NewStyle().Foreground(muted),
			Empty:   lipgloss.NewStyle().Foreground(muted).Italic(true),
		},
		Chat: ChatTheme{
			User:      lipgloss.NewStyle().Bold(true).Foreground(accent),
			Assistant: lipgloss.NewStyle().Bold(true).Foreground(fg),
			Failed:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)),
			Actions:   lipgloss.NewStyle().Foreground(muted).Italic(true),
			Pending:   lipgloss.NewStyle().Foreground(muted),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(muted).
				Padding(0, 1),
			FocusedFrame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(muted),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warn)),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)).Bold(true),
		},
	}
}

// Blend mixes two hex colours in Lab space. An unparsable input is returned
// unchanged.
func Blend(a, b string, t float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendLab(cb, t).Clamped().Hex()
}

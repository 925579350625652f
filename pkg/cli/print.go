package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors of the print helpers.
type Theme struct {
	Success lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
	Warning lipgloss.Color
	Dim     lipgloss.Color
}

// DefaultTheme is the default bright theme.
var DefaultTheme = Theme{
	Success: lipgloss.Color("#00ff9f"),
	Error:   lipgloss.Color("#ff5f5f"),
	Info:    lipgloss.Color("#5fafff"),
	Warning: lipgloss.Color("#ffd75f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds the styles derived from a theme.
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Verbose lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Success: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Info:    lipgloss.NewStyle().Foreground(t.Info),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Verbose: lipgloss.NewStyle().Foreground(t.Dim),
	}
}

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	styles           = NewStyles(DefaultTheme)
)

// PrintSuccess prints a success message with checkmark
func PrintSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styles.Success.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// PrintError prints an error message to stderr
func PrintError(format string, args ...any) {
	fmt.Fprintln(stderr, styles.Error.Render("Error:")+" "+fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styles.Info.Render("ℹ")+" "+fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styles.Warning.Render("⚠")+" "+fmt.Sprintf(format, args...))
}

// PrintVerbose prints verbose output to stderr
func PrintVerbose(verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintln(stderr, styles.Verbose.Render("[verbose] "+fmt.Sprintf(format, args...)))
	}
}

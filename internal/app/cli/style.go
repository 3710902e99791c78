package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"logscope/internal/app/entry"
	"logscope/internal/config"
)

const (
	defaultWidth = 80
	minWidth     = 40
)

// Headline and title styles
var (
	headlineLarge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).MarginTop(1)
	titleMedium   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	bodyLarge     = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0E0E0"))
	labelMedium   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E")).Italic(true)
)

var (
	sectionHeader = headlineLarge.MarginBottom(1)
	commandName   = titleMedium
	exampleCode   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA726"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#757575"))
	countStyle    = lipgloss.NewStyle().Bold(true)

	appNameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	appVersionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BDBDBD"))
	titleWrapper    = lipgloss.NewStyle().MarginTop(1).MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	categoryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4DD0E1"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF5350"))
)

var levelStyles = map[entry.Level]lipgloss.Style{
	entry.Debug:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E")),
	entry.Info:     lipgloss.NewStyle().Foreground(lipgloss.Color("#42A5F5")),
	entry.Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA726")),
	entry.Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#EF5350")),
	entry.Critical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D500F9")),
}

// levelStyle returns the style an entry of level is printed with
func levelStyle(level entry.Level) lipgloss.Style {
	if style, ok := levelStyles[level]; ok {
		return style
	}

	return lipgloss.NewStyle()
}

// RenderTitle renders the app title block with name and version
func RenderTitle() string {
	return titleWrapper.Render(
		appNameStyle.Render(config.AppName) + appVersionStyle.Render(" v"+config.Version),
	)
}

// RenderHelp renders the usage text
func RenderHelp() string {
	var b strings.Builder

	b.WriteString(RenderTitle() + "\n")
	b.WriteString(bodyLarge.Render("Live log aggregation and filtering for structured log folders") + "\n")

	b.WriteString(sectionHeader.Render("Commands") + "\n")

	commands := [][2]string{
		{"watch <folder>", "Stream new entries until interrupted"},
		{"export <folder>", "Write the filtered entries to a JSON file"},
		{"stats <folder>", "Print level and category counts"},
		{"version", "Show version information"},
		{"help", "Show help information"},
	}
	for _, c := range commands {
		b.WriteString("  " + commandName.Render(padRight(c[0], 18)) + " " + c[1] + "\n")
	}

	b.WriteString(sectionHeader.Render("Flags") + "\n")

	flags := [][2]string{
		{"-l, --level", "debug, info, warning, error, critical or all"},
		{"-c, --category", "network, ui, performance, state, background or all"},
		{"-s, --search", "Case-insensitive text to look for"},
		{"-o, --out", "Export directory or .json file"},
		{"    --json", "Print output as JSON"},
		{"-p, --paused", "Start watch with ingestion paused"},
	}
	for _, f := range flags {
		b.WriteString("  " + commandName.Render(padRight(f[0], 18)) + " " + f[1] + "\n")
	}

	b.WriteString(sectionHeader.Render("Watch controls") + "\n")

	controls := [][2]string{
		{"SIGUSR1", "Pause or resume ingestion"},
		{"SIGUSR2", "Clear the collected entries"},
		{"SIGHUP", "Reload the folder from disk"},
	}
	for _, c := range controls {
		b.WriteString("  " + commandName.Render(padRight(c[0], 18)) + " " + c[1] + "\n")
	}

	b.WriteString(sectionHeader.Render("Examples") + "\n")

	examples := []string{
		config.AppName + " watch ./logs --level error",
		config.AppName + " export ./logs --category network --out ./exports",
		config.AppName + " stats ./logs --json",
		"kill -USR1 $(pgrep " + config.AppName + ")",
	}
	for _, e := range examples {
		b.WriteString("  " + exampleCode.Render(e) + "\n")
	}

	b.WriteString("\n" + labelMedium.Render("Press ctrl+c to stop watching") + "\n")

	return b.String()
}

// terminalWidth returns the width of w when it is a terminal
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}

	width, _, err := term.GetSize(f.Fd())
	if err != nil || width < minWidth {
		return defaultWidth
	}

	return width
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return s + strings.Repeat(" ", width-len(s))
}

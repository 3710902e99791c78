package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"logscope/internal/app/entry"
	"logscope/internal/app/filter"
	"logscope/internal/app/store"
	"logscope/internal/config"
)

const displayTimeFormat = "15:04:05.000"

// Printer writes entries and reports either colored or as JSON
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	asJSON bool
	width  int
}

// NewPrinter creates a printer writing to out
func NewPrinter(out io.Writer, asJSON bool) *Printer {
	return &Printer{
		out:    out,
		asJSON: asJSON,
		width:  terminalWidth(out),
	}
}

// Entry prints a single entry line
func (p *Printer) Entry(e entry.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.asJSON {
		p.writeJSON(e)
		return
	}

	fmt.Fprint(p.out, formatEntry(e))
}

// Header prints the folder banner with the counts of the loaded collection
func (p *Printer) Header(folder string, snap store.Snapshot) {
	if p.asJSON {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	rule := separatorStyle.Render(strings.Repeat("─", p.width))

	fmt.Fprintln(p.out, rule)
	fmt.Fprintln(p.out, " "+mutedStyle.Render("folder:")+" "+countStyle.Render(folder))
	fmt.Fprintln(p.out, " "+mutedStyle.Render("showing:")+" "+countStyle.Render(fmt.Sprintf("%d of %d", len(snap.View), snap.Total)))
	fmt.Fprintln(p.out, " "+mutedStyle.Render("levels:")+" "+formatLevelCounts(snap.Levels))
	fmt.Fprintln(p.out, " "+mutedStyle.Render("categories:")+" "+formatCategoryCounts(snap.Categories))

	if snap.Paused {
		fmt.Fprintln(p.out, " "+exampleCode.Render("paused"))
	}

	fmt.Fprintln(p.out, rule)
}

// statsReport is the JSON form of the stats command
type statsReport struct {
	Total      int            `json:"total"`
	Filtered   int            `json:"filtered"`
	Level      string         `json:"level"`
	Category   string         `json:"category"`
	Search     string         `json:"search,omitempty"`
	Levels     map[string]int `json:"levels"`
	Categories map[string]int `json:"categories"`
}

// Stats prints the level counts of the active category and the global category counts
func (p *Printer) Stats(snap store.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.asJSON {
		p.writeJSON(newStatsReport(snap))
		return
	}

	fmt.Fprintln(p.out, sectionHeader.Render("Levels ("+categoryName(snap.Filter.Category)+")"))
	fmt.Fprintln(p.out, "  "+formatLevelCounts(snap.Levels))
	fmt.Fprintln(p.out, sectionHeader.Render("Categories"))
	fmt.Fprintln(p.out, "  "+formatCategoryCounts(snap.Categories))
	fmt.Fprintln(p.out, sectionHeader.Render("Entries"))
	fmt.Fprintf(p.out, "  %s of %s shown\n", countStyle.Render(fmt.Sprint(len(snap.View))), countStyle.Render(fmt.Sprint(snap.Total)))
}

// Exported prints the outcome of an export
func (p *Printer) Exported(path string, count int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.asJSON {
		p.writeJSON(map[string]any{"path": path, "entries": count})
		return
	}

	fmt.Fprintf(p.out, "Exported %s entries to %s\n", countStyle.Render(fmt.Sprint(count)), commandName.Render(path))
}

// Notice prints a short status line while watching; nothing in JSON mode
func (p *Printer) Notice(msg string) {
	if p.asJSON {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, " "+mutedStyle.Render("»")+" "+msg)
}

// Failure prints a problem reported while watching
func (p *Printer) Failure(folder string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, errorStyle.Render("error")+" "+folder+": "+err.Error())
}

// Version prints the version line
func (p *Printer) Version() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.asJSON {
		p.writeJSON(map[string]string{"name": config.AppName, "version": config.Version})
		return
	}

	fmt.Fprintf(p.out, "%s v%s\n", config.AppName, config.Version)
}

// Help prints the usage text
func (p *Printer) Help() {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprint(p.out, RenderHelp())
}

func (p *Printer) writeJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(p.out, "{\"error\":%q}\n", err.Error())
		return
	}

	p.out.Write(append(data, '\n'))
}

// formatEntry renders one entry as a colored line
func formatEntry(e entry.Entry) string {
	var b strings.Builder

	b.WriteString(timestampStyle.Render(displayTime(e.Timestamp)))
	b.WriteString(" ")
	b.WriteString(levelStyle(e.Level).Render(padRight(strings.ToUpper(string(e.Level)), 8)))
	b.WriteString(" ")
	b.WriteString(separatorStyle.Render("|"))
	b.WriteString(" ")
	b.WriteString(categoryStyle.Render("[" + e.Category.Label() + "]"))
	b.WriteString(" ")
	b.WriteString(e.Message)

	if n := e.NetworkDetails; n != nil {
		b.WriteString(" ")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("(%s %s %d)", n.Method, n.URL, n.StatusCode)))
	}

	if e.Thread != "" {
		b.WriteString(" ")
		b.WriteString(mutedStyle.Render("@" + e.Thread))
	}

	b.WriteString("\n")

	return b.String()
}

// displayTime returns the wall clock part of an ISO-8601 timestamp in local time
func displayTime(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}

	return t.Local().Format(displayTimeFormat)
}

func formatLevelCounts(c filter.LevelCounts) string {
	parts := []string{"All " + countStyle.Render(fmt.Sprint(c.All))}

	for _, level := range entry.Levels {
		parts = append(parts, levelStyle(level).Render(level.Label())+" "+countStyle.Render(fmt.Sprint(c.Of(level))))
	}

	return strings.Join(parts, "  ")
}

func formatCategoryCounts(c filter.CategoryCounts) string {
	parts := []string{"All " + countStyle.Render(fmt.Sprint(c.All))}

	for _, category := range entry.Categories {
		parts = append(parts, category.Label()+" "+countStyle.Render(fmt.Sprint(c.Of(category))))
	}

	return strings.Join(parts, "  ")
}

func categoryName(c entry.Category) string {
	if c == filter.AllCategories || c == "" {
		return "all categories"
	}

	return c.Label()
}

func newStatsReport(snap store.Snapshot) statsReport {
	report := statsReport{
		Total:      snap.Total,
		Filtered:   len(snap.View),
		Level:      string(snap.Filter.Level),
		Category:   string(snap.Filter.Category),
		Search:     snap.Filter.Search,
		Levels:     map[string]int{string(filter.AllLevels): snap.Levels.All},
		Categories: map[string]int{string(filter.AllCategories): snap.Categories.All},
	}

	for _, level := range entry.Levels {
		report.Levels[string(level)] = snap.Levels.Of(level)
	}

	for _, category := range entry.Categories {
		report.Categories[string(category)] = snap.Categories.Of(category)
	}

	return report
}

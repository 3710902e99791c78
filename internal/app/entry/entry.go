package entry

import (
	"fmt"
	"strings"

	"logscope/internal/app/errors"
)

// Level is the severity of a log entry
type Level string

const (
	Debug    Level = "debug"
	Info     Level = "info"
	Warning  Level = "warning"
	Error    Level = "error"
	Critical Level = "critical"
)

// Levels lists every level in display order
var Levels = []Level{Debug, Info, Warning, Error, Critical}

// Category is the subsystem a log entry belongs to
type Category string

const (
	Network     Category = "network"
	UI          Category = "ui"
	Performance Category = "performance"
	State       Category = "state"
	Background  Category = "background"
)

// Categories lists every category in display order
var Categories = []Category{Network, UI, Performance, State, Background}

var levelLabels = map[Level]string{
	Debug:    "Debug",
	Info:     "Info",
	Warning:  "Warning",
	Error:    "Error",
	Critical: "Critical",
}

var categoryLabels = map[Category]string{
	Network:     "Network",
	UI:          "UI Events",
	Performance: "Performance",
	State:       "State Changes",
	Background:  "Background Tasks",
}

// NetworkDetails describes an HTTP exchange attached to an entry
type NetworkDetails struct {
	URL             string            `json:"url"`
	Method          string            `json:"method"`
	StatusCode      int               `json:"statusCode"`
	Duration        float64           `json:"duration"`
	RequestHeaders  map[string]string `json:"requestHeaders,omitempty"`
	ResponseHeaders map[string]string `json:"responseHeaders,omitempty"`
	RequestBody     any               `json:"requestBody,omitempty"`
	ResponseBody    any               `json:"responseBody,omitempty"`
}

// PerformanceDetails describes a timed span attached to an entry
type PerformanceDetails struct {
	StartTime   float64  `json:"startTime"`
	EndTime     float64  `json:"endTime"`
	Duration    float64  `json:"duration"`
	MemoryDelta *float64 `json:"memoryDelta,omitempty"`
}

// Entry is one immutable log record. The id is assigned by the producer
type Entry struct {
	ID                 string              `json:"id"`
	Timestamp          string              `json:"timestamp"`
	Level              Level               `json:"level"`
	Category           Category            `json:"category"`
	Message            string              `json:"message"`
	Thread             string              `json:"thread"`
	File               string              `json:"file,omitempty"`
	Function           string              `json:"function,omitempty"`
	Line               *int                `json:"line,omitempty"`
	QueueLabel         string              `json:"queueLabel,omitempty"`
	Metadata           map[string]any      `json:"metadata,omitempty"`
	NetworkDetails     *NetworkDetails     `json:"networkDetails,omitempty"`
	PerformanceDetails *PerformanceDetails `json:"performanceDetails,omitempty"`
}

// Validate reports whether the entry can be held by the store
func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: missing id", errors.ErrMalformedEntry)
	}

	if !e.Level.Valid() {
		return fmt.Errorf("%w: entry %s: %w '%s'", errors.ErrMalformedEntry, e.ID, errors.ErrUnknownLevel, e.Level)
	}

	if !e.Category.Valid() {
		return fmt.Errorf("%w: entry %s: %w '%s'", errors.ErrMalformedEntry, e.ID, errors.ErrUnknownCategory, e.Category)
	}

	return nil
}

// Valid reports whether l is one of the known levels
func (l Level) Valid() bool {
	_, ok := levelLabels[l]
	return ok
}

// Label returns the display name of the level
func (l Level) Label() string {
	if label, ok := levelLabels[l]; ok {
		return label
	}

	return string(l)
}

// String returns the canonical name of the level
func (l Level) String() string {
	return string(l)
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display name of the category
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}

	return string(c)
}

// String returns the canonical name of the category
func (c Category) String() string {
	return string(c)
}

// ParseLevel resolves a level name, accepting the warn and fatal aliases
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	case "critical", "fatal":
		return Critical, nil
	default:
		return "", fmt.Errorf("%w: '%s'", errors.ErrUnknownLevel, s)
	}
}

// ParseCategory resolves a category name
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: '%s'", errors.ErrUnknownCategory, s)
	}

	return c, nil
}

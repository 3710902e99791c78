package scan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
)

// TimestampFormat is used for entries that arrive without a timestamp
const TimestampFormat = "2006-01-02T15:04:05.000Z"

const (
	defaultMessage = "(no message)"
	defaultThread  = "main"
)

// Chunk is the result of reading one log file from an offset
type Chunk struct {
	Entries   []entry.Entry
	Next      int64
	Truncated bool
}

// Decoder turns JSON Lines into entries
type Decoder struct {
	now   func() time.Time
	newID func() string
}

// NewDecoder creates a decoder that fills a missing id with a UUIDv4 and a
// missing timestamp with the current UTC time
func NewDecoder() *Decoder {
	return &Decoder{now: time.Now, newID: uuid.NewString}
}

// Line decodes one line. A JSON object is read field by field, keeping what
// is valid and defaulting the rest. Any other non-blank line becomes an info
// state entry carrying the text as its message. Only blank lines report false
func (d *Decoder) Line(line []byte) (entry.Entry, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return entry.Entry{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil || fields == nil {
		return d.text(string(line)), true
	}

	return d.object(fields), true
}

func (d *Decoder) text(message string) entry.Entry {
	return entry.Entry{
		ID:        d.newID(),
		Timestamp: d.timestamp(),
		Level:     entry.Info,
		Category:  entry.State,
		Message:   message,
		Thread:    defaultThread,
	}
}

func (d *Decoder) object(fields map[string]json.RawMessage) entry.Entry {
	e := entry.Entry{
		ID:         stringField(fields, "id"),
		Timestamp:  stringField(fields, "timestamp"),
		Level:      entry.Info,
		Category:   entry.State,
		Message:    defaultMessage,
		Thread:     defaultThread,
		File:       stringField(fields, "file"),
		Function:   stringField(fields, "function"),
		QueueLabel: stringField(fields, "queueLabel"),
	}

	if e.ID == "" {
		e.ID = d.newID()
	}

	if e.Timestamp == "" {
		e.Timestamp = d.timestamp()
	}

	if level, err := entry.ParseLevel(stringField(fields, "level")); err == nil {
		e.Level = level
	}

	if category, err := entry.ParseCategory(stringField(fields, "category")); err == nil {
		e.Category = category
	}

	if message, ok := rawString(fields, "message"); ok {
		e.Message = message
	}

	if thread, ok := rawString(fields, "thread"); ok {
		e.Thread = thread
	}

	var line uint32
	if raw, ok := fields["line"]; ok && json.Unmarshal(raw, &line) == nil && !isNull(raw) {
		n := int(line)
		e.Line = &n
	}

	var metadata map[string]any
	if raw, ok := fields["metadata"]; ok && json.Unmarshal(raw, &metadata) == nil && metadata != nil {
		e.Metadata = metadata
	}

	var network entry.NetworkDetails
	if raw, ok := fields["networkDetails"]; ok && json.Unmarshal(raw, &network) == nil && !isNull(raw) {
		e.NetworkDetails = &network
	}

	var performance entry.PerformanceDetails
	if raw, ok := fields["performanceDetails"]; ok && json.Unmarshal(raw, &performance) == nil && !isNull(raw) {
		e.PerformanceDetails = &performance
	}

	return e
}

func (d *Decoder) timestamp() string {
	return d.now().UTC().Format(TimestampFormat)
}

// rawString reports the field's value when it is a JSON string
func rawString(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil || isNull(raw) {
		return "", false
	}

	return s, true
}

func stringField(fields map[string]json.RawMessage, key string) string {
	s, _ := rawString(fields, key)
	return s
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// Lines decodes every non-blank line of data in order
func (d *Decoder) Lines(data []byte) []entry.Entry {
	var entries []entry.Entry

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if e, ok := d.Line(line); ok {
			entries = append(entries, e)
		}
	}

	return entries
}

// ReadFile decodes path from offset. A file shorter than offset is read from
// the start. Unless whole is set, a trailing line without a newline is left
// for the next read
func (d *Decoder) ReadFile(path string, offset int64, whole bool) (Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return Chunk{}, fmt.Errorf("%w '%s': %w", errors.ErrFailedToReadLogFile, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Chunk{}, fmt.Errorf("%w '%s': %w", errors.ErrFailedToReadLogFile, path, err)
	}

	chunk := Chunk{Next: offset}

	size := info.Size()
	if size < offset {
		chunk.Truncated = true
		chunk.Next = 0
		offset = 0
	}

	if size == offset {
		return chunk, nil
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return Chunk{}, fmt.Errorf("%w '%s': %w", errors.ErrFailedToReadLogFile, path, err)
	}

	data, err := io.ReadAll(io.LimitReader(f, size-offset))
	if err != nil {
		return Chunk{}, fmt.Errorf("%w '%s': %w", errors.ErrFailedToReadLogFile, path, err)
	}

	if !whole {
		data = data[:bytes.LastIndexByte(data, '\n')+1]
	}

	chunk.Entries = d.Lines(data)
	chunk.Next = offset + int64(len(data))

	return chunk, nil
}

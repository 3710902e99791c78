package export

//go:generate mockgen -source=export.go -destination=export_mock.go -package=export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
	"logscope/internal/config"
)

// Sink persists an export payload and returns where it went
type Sink interface {
	Write(ctx context.Context, payload []byte) (string, error)
}

// fileSink implements the Sink interface on the local filesystem
type fileSink struct {
	target string
	now    func() time.Time
}

// NewFileSink writes to target. A target ending in .json is used as the file
// path; anything else is a directory receiving a timestamped file
func NewFileSink(target string) Sink {
	if target == "" {
		target = config.DefaultExportDir
	}

	return &fileSink{target: target, now: time.Now}
}

// Write creates missing directories and writes payload in one go
func (s *fileSink) Write(ctx context.Context, payload []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := s.path()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrFailedToWriteExport, err)
	}

	if err := os.WriteFile(path, payload, 0644); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrFailedToWriteExport, err)
	}

	return path, nil
}

func (s *fileSink) path() string {
	if strings.EqualFold(filepath.Ext(s.target), config.ExportExtension) {
		return s.target
	}

	return filepath.Join(s.target, FileName(s.now()))
}

// FileName returns the export file name for t, in UTC
func FileName(t time.Time) string {
	return config.ExportFilePrefix + t.UTC().Format(config.ExportTimeFormat) + config.ExportExtension
}

// Encode renders entries as an indented JSON array; nil encodes as []
func Encode(entries []entry.Entry) ([]byte, error) {
	if entries == nil {
		entries = []entry.Entry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToEncodeExport, err)
	}

	return data, nil
}

package e2e

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, runner *Runner) {
	t.Helper()

	require.NoError(t, runner.Append("app.jsonl",
		record("1", "2024-03-01T10:00:01.000Z", "debug", "network", "request started"),
		record("2", "2024-03-01T10:00:02.000Z", "info", "ui", "tap on login"),
		record("3", "2024-03-01T10:00:03.000Z", "error", "network", "request failed"),
	))
}

func Test_Export_WritesFilteredEntries(t *testing.T) {
	runner := NewRunner(t)
	seed(t, runner)

	code, err := runner.Run("export", ".", "--category", "network", "--out", "network.json")
	require.NoError(t, err)
	require.Equal(t, 0, code, runner.Stderr())

	assert.Contains(t, runner.Output(), "network.json")

	data, err := os.ReadFile(filepath.Join(runner.Dir(), "network.json"))
	require.NoError(t, err)

	var exported []map[string]any
	require.NoError(t, json.Unmarshal(data, &exported))
	require.Len(t, exported, 2)
	assert.Equal(t, "3", exported[0]["id"])
	assert.Equal(t, "1", exported[1]["id"])
}

func Test_Stats_PrintsCounts(t *testing.T) {
	runner := NewRunner(t)
	seed(t, runner)

	code, err := runner.Run("stats", ".", "--level", "error", "--json")
	require.NoError(t, err)
	require.Equal(t, 0, code, runner.Stderr())

	var report struct {
		Total      int            `json:"total"`
		Filtered   int            `json:"filtered"`
		Levels     map[string]int `json:"levels"`
		Categories map[string]int `json:"categories"`
	}
	require.NoError(t, json.Unmarshal([]byte(runner.Output()), &report))

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Filtered)
	assert.Equal(t, 3, report.Levels["all"])
	assert.Equal(t, 2, report.Categories["network"])
}

func Test_Errors_ExitNonZero(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "missing folder", args: []string{"stats", "does-not-exist"}, expected: "not a directory"},
		{name: "unknown command", args: []string{"tail", "."}, expected: "unknown command"},
		{name: "unknown level", args: []string{"stats", ".", "--level", "loud"}, expected: "unknown log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(t)

			code, err := runner.Run(tt.args...)
			require.NoError(t, err)

			assert.Equal(t, 1, code)
			assert.Contains(t, runner.Stderr(), tt.expected)
		})
	}
}

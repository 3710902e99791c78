package entry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logscope/internal/app/errors"
)

func Test_Entry_DecodeWireFormat(t *testing.T) {
	line := `{"id":"a1","timestamp":"2024-05-01T10:00:00.000Z","level":"error","category":"network",` +
		`"message":"request failed","thread":"NetworkQueue","file":"Client.swift","function":"send()","line":42,` +
		`"queueLabel":"com.app.net","metadata":{"retry":{"count":2}},` +
		`"networkDetails":{"url":"https://api.test/v1","method":"GET","statusCode":503,"duration":0.25,"requestHeaders":{"Accept":"*/*"}},` +
		`"performanceDetails":{"startTime":1,"endTime":2,"duration":1,"memoryDelta":512}}`

	var e Entry
	require.NoError(t, json.Unmarshal([]byte(line), &e))

	assert.Equal(t, "a1", e.ID)
	assert.Equal(t, Error, e.Level)
	assert.Equal(t, Network, e.Category)
	assert.Equal(t, "NetworkQueue", e.Thread)
	assert.Equal(t, "send()", e.Function)
	require.NotNil(t, e.Line)
	assert.Equal(t, 42, *e.Line)
	assert.Equal(t, "com.app.net", e.QueueLabel)
	assert.Equal(t, map[string]any{"count": float64(2)}, e.Metadata["retry"])
	require.NotNil(t, e.NetworkDetails)
	assert.Equal(t, 503, e.NetworkDetails.StatusCode)
	assert.Equal(t, "*/*", e.NetworkDetails.RequestHeaders["Accept"])
	require.NotNil(t, e.PerformanceDetails)
	require.NotNil(t, e.PerformanceDetails.MemoryDelta)
	assert.Equal(t, 512.0, *e.PerformanceDetails.MemoryDelta)
	assert.NoError(t, e.Validate())
}

func Test_Entry_EncodeOmitsEmptyOptionals(t *testing.T) {
	e := Entry{ID: "x", Timestamp: "t", Level: Info, Category: UI, Message: "tap", Thread: "main"}

	data, err := json.Marshal(e)
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"x","timestamp":"t","level":"info","category":"ui","message":"tap","thread":"main"}`, string(data))
}

func Test_Entry_Validate(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		error error
	}{
		{name: "Valid", entry: Entry{ID: "1", Level: Debug, Category: State}, error: nil},
		{name: "Missing id", entry: Entry{Level: Debug, Category: State}, error: errors.ErrMalformedEntry},
		{name: "Unknown level", entry: Entry{ID: "1", Level: "verbose", Category: State}, error: errors.ErrUnknownLevel},
		{name: "Unknown category", entry: Entry{ID: "1", Level: Info, Category: "disk"}, error: errors.ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.error == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.error)
			assert.ErrorIs(t, err, errors.ErrMalformedEntry)
		})
	}
}

func Test_ParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		err      bool
	}{
		{input: "debug", expected: Debug},
		{input: "INFO", expected: Info},
		{input: "warn", expected: Warning},
		{input: "Warning", expected: Warning},
		{input: "error", expected: Error},
		{input: "fatal", expected: Critical},
		{input: " critical ", expected: Critical},
		{input: "verbose", err: true},
		{input: "", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.err {
				assert.ErrorIs(t, err, errors.ErrUnknownLevel)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func Test_ParseCategory(t *testing.T) {
	c, err := ParseCategory("Network")
	require.NoError(t, err)
	assert.Equal(t, Network, c)

	_, err = ParseCategory("disk")
	assert.ErrorIs(t, err, errors.ErrUnknownCategory)
}

func Test_Labels(t *testing.T) {
	assert.Equal(t, "Warning", Warning.Label())
	assert.Equal(t, "UI Events", UI.Label())
	assert.Equal(t, "State Changes", State.Label())
	assert.Equal(t, "Background Tasks", Background.Label())
	assert.Equal(t, "odd", Level("odd").Label())
	assert.Len(t, Levels, 5)
	assert.Len(t, Categories, 5)

	for _, l := range Levels {
		assert.True(t, l.Valid())
	}

	for _, c := range Categories {
		assert.True(t, c.Valid())
	}
}

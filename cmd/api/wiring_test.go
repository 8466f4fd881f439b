package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/bootcamp-api/internal/config"
)

func TestLogStartup_StructuredAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	logStartup(log, config.Config{Env: "production", Port: "5000"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Server running", line["msg"])
	assert.Equal(t, "production", line["env"])
	assert.Equal(t, "5000", line["port"])
}

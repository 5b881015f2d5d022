package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProdIsJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "prod")

	log.Debug("hidden")
	log.Info("shown", "page", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.EqualValues(t, 2, entry["page"])
}

func TestNew_DevIsTextAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "dev")

	log.Debug("verbose")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "msg=verbose")
}

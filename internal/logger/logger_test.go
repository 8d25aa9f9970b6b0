package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ParsesLevel(t *testing.T) {
	log := NewWithOutput(&bytes.Buffer{}, "debug", "text")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	log := NewWithOutput(&bytes.Buffer{}, "verbose", "text")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "info", "json")

	log.WithField("invoice_id", 7).Info("invoice created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "invoice created", entry["msg"])
	assert.Equal(t, float64(7), entry["invoice_id"])
}

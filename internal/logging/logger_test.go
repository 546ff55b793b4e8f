package logging_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/systmms/secretsql/internal/logging"
)

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logging.NewWithWriter(&buf, false, true)

	log.Info("connected to %s", "db.example.com")
	log.Warn("retrying")
	log.Error("gave up")
	log.Debug("should be dropped")

	out := buf.String()
	assert.Contains(t, out, "✓ connected to db.example.com")
	assert.Contains(t, out, "⚠ retrying")
	assert.Contains(t, out, "✗ gave up")
	assert.NotContains(t, out, "should be dropped")
}

func TestLoggerDebugMode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logging.NewWithWriter(&buf, true, true)

	log.Debug("resolved secret %s", "app/creds")
	assert.Contains(t, buf.String(), "[DEBUG] resolved secret app/creds")
}

func TestSecretNeverPrints(t *testing.T) {
	t.Parallel()

	s := logging.Secret("hunter2")
	for _, verb := range []string{"%s", "%v", "%#v", "%q"} {
		out := fmt.Sprintf(verb, s)
		assert.NotContains(t, out, "hunter2", "verb %s leaked the value", verb)
		assert.Contains(t, out, "[REDACTED]")
	}
}

func TestRedact(t *testing.T) {
	t.Parallel()

	out := logging.Redact("password=hunter2 user=ab", []string{"hunter2", "ab"})
	assert.Equal(t, "password=[REDACTED] user=ab", out, "short values are left alone")
}

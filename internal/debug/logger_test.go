package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitWriter(t *testing.T) {
	t.Cleanup(func() { Init(false) })

	var buf bytes.Buffer
	InitWriter(&buf, true)
	assert.True(t, Enabled())

	Debug("Parsed query", "statement", "SELECT")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "statement=SELECT")

	buf.Reset()
	InitWriter(&buf, false)
	assert.False(t, Enabled())
	Error("dropped")
	assert.Empty(t, buf.String())
}

func TestDisabledByDefault(t *testing.T) {
	assert.NotPanics(t, func() { Debug("no init") })
}

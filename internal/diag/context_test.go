package diag

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLogsCategorizedMessages(t *testing.T) {
	var buf bytes.Buffer
	c := NewContext(&buf)

	c.Progressf("fill %d", 1)
	c.Warningf("density low")
	c.Errorf("bad input")

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "PROG fill 1", msgs[0])
	assert.Equal(t, "WARN density low", msgs[1])
	assert.Equal(t, "EROR bad input", msgs[2])
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}

func TestContextLogDisabled(t *testing.T) {
	var buf bytes.Buffer
	c := NewContext(&buf)
	c.EnableLog(false)

	c.Progressf("dropped")
	assert.Empty(t, c.Messages())
	assert.Zero(t, buf.Len())
}

func TestContextNilIsSafe(t *testing.T) {
	var c *Context
	c.Progressf("no-op")
	assert.Empty(t, c.Messages())
	assert.Equal(t, time.Duration(-1), c.ElapsedTime("x"))
}

func TestContextTimers(t *testing.T) {
	c := NewContext(nil)

	assert.Equal(t, time.Duration(-1), c.ElapsedTime("never started"))

	c.StartTimer("phase")
	c.StopTimer("phase")
	first := c.ElapsedTime("phase")
	assert.GreaterOrEqual(t, first, time.Duration(0))

	// A second start/stop accumulates rather than resets.
	c.StartTimer("phase")
	c.StopTimer("phase")
	assert.GreaterOrEqual(t, c.ElapsedTime("phase"), first)
}

// Package diag provides the diagnostics sink threaded through the
// fill-insertion pipeline: named timers plus categorized log
// messages, both toggleable, so the engine stays testable without a
// global logger.
package diag

import (
	"fmt"
	"io"
	"time"
)

// Category classifies a logged message.
type Category int

const (
	Progress Category = iota
	Warning
	Error
)

func (c Category) tag() string {
	switch c {
	case Progress:
		return "PROG"
	case Warning:
		return "WARN"
	default:
		return "EROR"
	}
}

// Context accumulates log messages and named timers for one run of
// the fill engine. The zero value is usable but discards everything;
// use NewContext to write to a destination.
type Context struct {
	out          io.Writer
	logEnabled   bool
	timerEnabled bool
	messages     []string
	starts       map[string]time.Time
	elapsed      map[string]time.Duration
}

// NewContext returns a Context that writes log messages to w.
// Logging and timers are both enabled by default.
func NewContext(w io.Writer) *Context {
	return &Context{
		out:          w,
		logEnabled:   true,
		timerEnabled: true,
		starts:       make(map[string]time.Time),
		elapsed:      make(map[string]time.Duration),
	}
}

// EnableLog toggles message logging.
func (c *Context) EnableLog(state bool) { c.logEnabled = state }

// EnableTimer toggles timer accounting.
func (c *Context) EnableTimer(state bool) { c.timerEnabled = state }

func (c *Context) log(cat Category, format string, args ...interface{}) {
	if c == nil || !c.logEnabled {
		return
	}
	msg := cat.tag() + " " + fmt.Sprintf(format, args...)
	c.messages = append(c.messages, msg)
	if c.out != nil {
		fmt.Fprintln(c.out, msg)
	}
}

// Progressf logs a progress message.
func (c *Context) Progressf(format string, args ...interface{}) { c.log(Progress, format, args...) }

// Warningf logs a warning message.
func (c *Context) Warningf(format string, args ...interface{}) { c.log(Warning, format, args...) }

// Errorf logs an error message.
func (c *Context) Errorf(format string, args ...interface{}) { c.log(Error, format, args...) }

// Messages returns every message logged so far, in order.
func (c *Context) Messages() []string {
	if c == nil {
		return nil
	}
	return c.messages
}

// StartTimer starts (or restarts) the named timer.
func (c *Context) StartTimer(label string) {
	if c == nil || !c.timerEnabled {
		return
	}
	c.starts[label] = time.Now()
}

// StopTimer stops the named timer and accumulates its elapsed time.
func (c *Context) StopTimer(label string) {
	if c == nil || !c.timerEnabled {
		return
	}
	start, ok := c.starts[label]
	if !ok {
		return
	}
	c.elapsed[label] += time.Since(start)
	delete(c.starts, label)
}

// ElapsedTime returns the accumulated duration of the named timer, or
// -1 if the timer was never started or timers are disabled.
func (c *Context) ElapsedTime(label string) time.Duration {
	if c == nil || !c.timerEnabled {
		return -1
	}
	d, ok := c.elapsed[label]
	if !ok {
		return -1
	}
	return d
}

// Package notify keeps a bounded in-memory feed of user-visible notices,
// the terminal analog of the storefront's toast notifications. The TUI
// renders the feed; every notice is also mirrored to the structured log.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Level classifies a notice for display.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the display label for a level.
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "ok"
	case LevelWarning:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a single user-visible message.
type Notice struct {
	Level   Level
	Message string
	Time    time.Time
}

const maxNotices = 100

// Center collects notices from the sync engine and poller for the UI.
type Center struct {
	mu      sync.RWMutex
	notices []Notice
	log     *zap.Logger
}

// New returns a Center. A nil logger disables log mirroring.
func New(log *zap.Logger) *Center {
	if log == nil {
		log = zap.NewNop()
	}
	return &Center{log: log}
}

// Info records an informational notice.
func (c *Center) Info(msg string) { c.push(LevelInfo, msg) }

// Success records a success notice.
func (c *Center) Success(msg string) { c.push(LevelSuccess, msg) }

// Warning records a warning notice.
func (c *Center) Warning(msg string) { c.push(LevelWarning, msg) }

// Error records an error notice.
func (c *Center) Error(msg string) { c.push(LevelError, msg) }

func (c *Center) push(level Level, msg string) {
	c.mu.Lock()
	c.notices = append(c.notices, Notice{Level: level, Message: msg, Time: time.Now()})
	if len(c.notices) > maxNotices {
		c.notices = c.notices[len(c.notices)-maxNotices:]
	}
	c.mu.Unlock()

	switch level {
	case LevelError:
		c.log.Error(msg)
	case LevelWarning:
		c.log.Warn(msg)
	default:
		c.log.Info(msg)
	}
}

// Recent returns up to n notices, newest first.
func (c *Center) Recent(n int) []Notice {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n <= 0 || n > len(c.notices) {
		n = len(c.notices)
	}
	out := make([]Notice, 0, n)
	for i := len(c.notices) - 1; i >= len(c.notices)-n; i-- {
		out = append(out, c.notices[i])
	}
	return out
}

// Last returns the most recent notice, if any.
func (c *Center) Last() (Notice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.notices) == 0 {
		return Notice{}, false
	}
	return c.notices[len(c.notices)-1], true
}

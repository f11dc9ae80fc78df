package web

import (
	"fmt"
	"time"

	"github.com/penwyp/go-pkviz/internal/application/dashboard"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration

	// Sessions idle for longer than SessionTTL are dropped; at most
	// MaxSessions are kept.
	SessionTTL  time.Duration
	MaxSessions int

	Dashboard *dashboard.Config
}

// Validate fills defaults and validates the embedded dashboard config.
func (c *Config) Validate() error {
	if c.Dashboard == nil {
		return fmt.Errorf("dashboard config required")
	}
	if err := c.Dashboard.Validate(); err != nil {
		return err
	}
	if c.Addr == "" {
		c.Addr = ":8050"
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 30 * time.Minute
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = 256
	}
	return nil
}

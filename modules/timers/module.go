// Package timers provides the `timers` API at version 2.
package timers

import (
	"fmt"
	"time"

	"github.com/vk/verapi/internal/catalog"
)

// Module implements the catalog.Module interface for this package.
type Module struct {
	// Clock overrides the time source. Nil means the wall clock.
	Clock *Clock
}

// Register provides the clock at version 2.
func (m *Module) Register(c *catalog.Catalog) {
	clock := m.Clock
	if clock == nil {
		clock = NewClock(time.Now, time.Sleep)
	}
	c.ProvideAt("timers", "2", clock)
}

// Clock is the timers API value.
type Clock struct {
	Location string `api:"location"`
	now      func() time.Time
	sleep    func(time.Duration)
}

// NewClock creates a clock reporting times in UTC.
func NewClock(now func() time.Time, sleep func(time.Duration)) *Clock {
	return &Clock{Location: time.UTC.String(), now: now, sleep: sleep}
}

// Now returns the current time as RFC 3339.
func (c *Clock) Now() string {
	return c.now().UTC().Format(time.RFC3339)
}

// Sleep blocks for ms milliseconds.
func (c *Clock) Sleep(ms int) error {
	if ms < 0 {
		return fmt.Errorf("timers: negative duration %dms", ms)
	}
	c.sleep(time.Duration(ms) * time.Millisecond)
	return nil
}

// Since returns the seconds elapsed since an RFC 3339 timestamp.
func (c *Clock) Since(ts string) (float64, error) {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return 0, fmt.Errorf("timers: %w", err)
	}
	return c.now().Sub(t).Seconds(), nil
}

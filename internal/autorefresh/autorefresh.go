package autorefresh

import "time"

// Settings is the auto-refresh configuration read at view start.
type Settings struct {
	Enabled  bool
	Interval time.Duration
}

// Active reports whether a ticker should be armed.
func (s Settings) Active() bool {
	return s.Enabled && s.Interval > 0
}

// Provider supplies auto-refresh settings.
type Provider interface {
	Settings() Settings
}

// Static is a Provider returning fixed settings.
type Static Settings

// Settings implements Provider.
func (s Static) Settings() Settings {
	return Settings(s)
}

// Ticker delivers ticks on C until Stop is called.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

// NewTicker is a TickerFunc backed by time.Ticker.
func NewTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

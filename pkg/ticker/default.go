package ticker

import "sync"

var (
	defaultMu sync.RWMutex
	def       *Ticker
)

// Default returns the process-wide ticker, creating it on first use.
func Default() *Ticker {
	defaultMu.RLock()
	t := def
	defaultMu.RUnlock()
	if t != nil {
		return t
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if def == nil {
		def = New()
	}
	return def
}

// SetDefault replaces the process-wide ticker. Returns the previous one so
// callers can restore it during cleanup.
func SetDefault(t *Ticker) *Ticker {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := def
	def = t
	return prev
}

package resilience

import "time"

// CircuitBreakerConfig tunes the breaker guarding league API calls. The
// zero value is usable: Normalize fills settings suited to a single
// upstream that recovers on its own — trip after a short failure streak,
// probe again after a brief cooldown, one trial request at a time.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

const (
	fallbackFailureThreshold = 3
	fallbackOpenTimeout      = 10 * time.Second
	fallbackHalfOpenMaxReq   = 1
)

func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = fallbackFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = fallbackOpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = fallbackHalfOpenMaxReq
	}
	return cfg
}

// Package resilience wraps outbound calls to the LLM vendor in a circuit breaker so a vendor
// outage degrades the pipeline (terminal per-workflow failure) instead of piling up blocked
// goroutines against a dead endpoint.
package resilience

import (
	"log"
	"time"

	"github.com/sony/gobreaker"
)

// NewCircuitBreaker creates a breaker tripping at >=5 requests and >=60% failure ratio within
// a rolling minute, opening for 30s before allowing trial requests through again.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("🔌 Circuit Breaker [%s]: %s -> %s", name, from, to)
		},
	}

	return gobreaker.NewCircuitBreaker(settings)
}

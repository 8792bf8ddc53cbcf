package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Payment traffic counters. Exposed via the /internal/stats endpoint.
var (
	PaymentsCreated    Counter
	PaymentLinksReused Counter
	CallbacksAccepted  Counter
	CallbacksRejected  Counter
	GatewayErrors      Counter
)

// Snapshot returns the current counter values keyed by metric name.
func Snapshot() map[string]uint64 {
	return map[string]uint64{
		"payments_created":     PaymentsCreated.Load(),
		"payment_links_reused": PaymentLinksReused.Load(),
		"callbacks_accepted":   CallbacksAccepted.Load(),
		"callbacks_rejected":   CallbacksRejected.Load(),
		"gateway_errors":       GatewayErrors.Load(),
	}
}

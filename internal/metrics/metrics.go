// Package metrics implements kernel.Metrics over
// github.com/prometheus/client_golang, exported by the /metrics endpoint
// that `hubrissim serve` mounts beside the debug HTTP API. This is purely an observability seam: no kernel
// invariant depends on it being wired up.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector implements kernel.Metrics.
type Collector struct {
	syscalls              *prometheus.CounterVec
	rendezvousCompleted   prometheus.Counter
	deadCodesDelivered    prometheus.Counter
	notificationsCoalesced prometheus.Counter
}

// New creates a Collector and registers its metrics with reg. Passing a
// fresh *prometheus.Registry (rather than the global default) keeps
// repeated Collector construction in tests from panicking on duplicate
// registration.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		syscalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hubrissim",
			Name:      "syscalls_total",
			Help:      "Number of IPC syscalls observed, by name.",
		}, []string{"syscall"}),
		rendezvousCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hubrissim",
			Name:      "rendezvous_completed_total",
			Help:      "Number of SEND/RECV pairs that completed a payload transfer.",
		}),
		deadCodesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hubrissim",
			Name:      "dead_codes_delivered_total",
			Help:      "Number of dead-code responses delivered due to stale peer identity.",
		}),
		notificationsCoalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hubrissim",
			Name:      "notifications_coalesced_total",
			Help:      "Number of RECV calls satisfied by the notification set rather than a sender.",
		}),
	}

	reg.MustRegister(c.syscalls, c.rendezvousCompleted, c.deadCodesDelivered, c.notificationsCoalesced)

	return c
}

// SyscallObserved implements kernel.Metrics.
func (c *Collector) SyscallObserved(name string) { c.syscalls.WithLabelValues(name).Inc() }

// RendezvousCompleted implements kernel.Metrics.
func (c *Collector) RendezvousCompleted() { c.rendezvousCompleted.Inc() }

// DeadCodeDelivered implements kernel.Metrics.
func (c *Collector) DeadCodeDelivered() { c.deadCodesDelivered.Inc() }

// NotificationCoalesced implements kernel.Metrics.
func (c *Collector) NotificationCoalesced() { c.notificationsCoalesced.Inc() }

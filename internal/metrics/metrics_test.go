package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/Guiguiprim/hubris/internal/kernel"
	"github.com/Guiguiprim/hubris/internal/metrics"
)

func TestCollectorImplementsKernelMetrics(t *testing.T) {
	var _ kernel.Metrics = (*metrics.Collector)(nil)
}

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg)

	c.SyscallObserved("SEND")
	c.SyscallObserved("SEND")
	c.RendezvousCompleted()
	c.DeadCodeDelivered()
	c.NotificationCoalesced()

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			counts[f.GetName()+labelSuffix(m)] = m.GetCounter().GetValue()
		}
	}

	require.Equal(t, 2.0, counts["hubrissim_syscalls_total{syscall=SEND}"])
	require.Equal(t, 1.0, counts["hubrissim_rendezvous_completed_total"])
	require.Equal(t, 1.0, counts["hubrissim_dead_codes_delivered_total"])
	require.Equal(t, 1.0, counts["hubrissim_notifications_coalesced_total"])
}

func labelSuffix(m *dto.Metric) string {
	if len(m.GetLabel()) == 0 {
		return ""
	}

	s := "{"
	for i, l := range m.GetLabel() {
		if i > 0 {
			s += ","
		}

		s += l.GetName() + "=" + l.GetValue()
	}

	return s + "}"
}

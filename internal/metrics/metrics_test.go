package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_DomainCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Proposal("accepted")
	m.Proposal("accepted")
	m.Proposal("expired")
	m.AICall("draft", "ok")
	m.AICall("draft", "timeout")
	m.ThreadDestroyed()

	require.Equal(t, 2.0, testutil.ToFloat64(m.proposals.WithLabelValues("accepted")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.proposals.WithLabelValues("expired")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.aiCalls.WithLabelValues("draft", "timeout")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.threadsDestroyed))
}

func TestMetrics_ObserveHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHTTP("GET", "/listings/{id}", 200, 15*time.Millisecond)
	m.ObserveHTTP("GET", "", 404, time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/listings/{id}", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
	require.Equal(t, 2, testutil.CollectAndCount(m.httpDuration))
}

// Повторная регистрация в том же реестре — паника promauto.
func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	require.Panics(t, func() { New(reg) })
}

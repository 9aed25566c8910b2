package monitor

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, registry)

	m.RowsLoaded.Set(100)
	m.ObserveFit(20 * time.Millisecond)
	m.ObserveRmse(3.5)
	m.Runs.WithLabelValues("Reported").Inc()

	assert.Equal(t, 100.0, testutil.ToFloat64(m.RowsLoaded))
	assert.Equal(t, 3.5, testutil.ToFloat64(m.Rmse))
	assert.Equal(t, 1, testutil.CollectAndCount(m.FitDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("Reported")))
}

func TestNewIsIsolated(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveRmse(2.25)
	fileName := path.Join(t.TempDir(), "fare.prom")
	require.NoError(t, m.WriteTextfile(fileName))

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Contains(t, string(content), "fare_rmse 2.25")
}

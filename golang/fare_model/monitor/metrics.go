// Package monitor collects Prometheus metrics of a training run and can dump them
// in the node exporter textfile format.
package monitor

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the training metrics.
type Metrics struct {
	RowsLoaded  prometheus.Gauge     // Rows returned by the data source
	RowsCleaned prometheus.Gauge     // Rows left after cleaning
	TrainRows   prometheus.Gauge     // Rows in the training partition
	TestRows    prometheus.Gauge     // Rows in the held out partition
	FitDuration prometheus.Histogram // Time spent fitting the pipeline
	Rmse        prometheus.Gauge     // RMSE of the last evaluation
	Runs        *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates metrics on a private registry so repeated runs in one process do not collide.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	return NewWithRegistry(registry, registry)
}

// NewWithRegistry registers the metrics with registerer; gatherer is used by WriteTextfile.
func NewWithRegistry(registerer prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		RowsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fare_rows_loaded",
			Help: "Rows returned by the data source",
		}),
		RowsCleaned: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fare_rows_cleaned",
			Help: "Rows left after cleaning",
		}),
		TrainRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fare_train_rows",
			Help: "Rows in the training partition",
		}),
		TestRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fare_test_rows",
			Help: "Rows in the held out partition",
		}),
		FitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fare_fit_duration_seconds",
			Help:    "Time spent fitting the pipeline",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		Rmse: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fare_rmse",
			Help: "RMSE of the last evaluation",
		}),
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fare_runs_total",
			Help: "Training runs by final stage",
		}, []string{"stage"}),
		gatherer: gatherer,
	}
}

// ObserveFit records a pipeline fit.
func (m *Metrics) ObserveFit(elapsed time.Duration) {
	m.FitDuration.Observe(elapsed.Seconds())
}

// ObserveRmse records an evaluation.
func (m *Metrics) ObserveRmse(rmse float64) {
	m.Rmse.Set(rmse)
}

// WriteTextfile dumps every gathered metric to filename.
func (m *Metrics) WriteTextfile(filename string) error {
	if m.gatherer == nil {
		return errors.New("metrics without a gatherer")
	}
	return errors.Wrapf(prometheus.WriteToTextfile(filename, m.gatherer), "write metrics to %s", filename)
}

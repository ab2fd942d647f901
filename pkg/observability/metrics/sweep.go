package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SweepMetrics counts what one or more sweeps did
type SweepMetrics struct {
	regionsScanned   prometheus.Counter
	regionErrors     *prometheus.CounterVec
	instancesStopped *prometheus.CounterVec
	instancesFailed  *prometheus.CounterVec
	notifications    *prometheus.CounterVec
	lastRunTimestamp prometheus.Gauge
	lastRunDuration  prometheus.Gauge
}

// NewSweepMetrics creates the sweep metrics and registers them on reg
func NewSweepMetrics(reg *Registry) (*SweepMetrics, error) {
	m := &SweepMetrics{
		regionsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "labstop",
			Name:      "regions_scanned_total",
			Help:      "Regions visited by the sweep",
		}),
		regionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labstop",
			Name:      "region_errors_total",
			Help:      "Regions whose instance listing failed",
		}, []string{"region"}),
		instancesStopped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labstop",
			Name:      "instances_stopped_total",
			Help:      "Instances for which a stop request succeeded",
		}, []string{"region"}),
		instancesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labstop",
			Name:      "instances_failed_total",
			Help:      "Instances for which the stop request failed",
		}, []string{"region"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labstop",
			Name:      "notifications_total",
			Help:      "Notification publish attempts",
		}, []string{"kind", "result"}),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "labstop",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last sweep finished",
		}),
		lastRunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "labstop",
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last sweep",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.regionsScanned, m.regionErrors, m.instancesStopped, m.instancesFailed,
		m.notifications, m.lastRunTimestamp, m.lastRunDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RegionScanned records a visited region
func (m *SweepMetrics) RegionScanned() {
	m.regionsScanned.Inc()
}

// RegionError records a failed instance listing
func (m *SweepMetrics) RegionError(region string) {
	m.regionErrors.WithLabelValues(region).Inc()
}

// Stopped records n instances stopped in region
func (m *SweepMetrics) Stopped(region string, n int) {
	m.instancesStopped.WithLabelValues(region).Add(float64(n))
}

// Failed records n instances that failed to stop in region
func (m *SweepMetrics) Failed(region string, n int) {
	m.instancesFailed.WithLabelValues(region).Add(float64(n))
}

// Notification records one publish attempt
func (m *SweepMetrics) Notification(kind string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.notifications.WithLabelValues(kind, result).Inc()
}

// Finished records the end of a sweep that started at start
func (m *SweepMetrics) Finished(start, end time.Time) {
	m.lastRunTimestamp.Set(float64(end.Unix()))
	m.lastRunDuration.Set(end.Sub(start).Seconds())
}

package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Login outcomes recorded by MetricsService.
const (
	LoginSucceeded = "success"
	LoginFailed    = "failure"
)

// MetricsService owns the portal's Prometheus registry.
type MetricsService struct {
	registry      *prometheus.Registry
	logins        *prometheus.CounterVec
	mutations     *prometheus.CounterVec
	storeWrites   *prometheus.CounterVec
	storeLatency  prometheus.Observer
	corruptLoads  *prometheus.CounterVec
	liveActive    prometheus.Gauge
	recordsStored *prometheus.GaugeVec
}

// NewMetricsService registers the portal collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_logins_total",
		Help: "Login attempts by outcome and role",
	}, []string{"outcome", "role"})

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_mutations_total",
		Help: "Portal mutations by operation and result",
	}, []string{"operation", "result"})

	storeWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_store_writes_total",
		Help: "Backend writes by key and result",
	}, []string{"key", "result"})

	storeLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "portal_store_write_seconds",
		Help:    "Latency of backend writes",
		Buckets: prometheus.DefBuckets,
	})

	corruptLoads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_store_corrupt_loads_total",
		Help: "Stored collections that failed to decode on load",
	}, []string{"collection"})

	liveActive := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "portal_live_session_active",
		Help: "1 while a live class is running",
	})

	recordsStored := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "portal_records",
		Help: "Records held per collection",
	}, []string{"collection"})

	registry.MustRegister(logins, mutations, storeWrites, storeLatency, corruptLoads, liveActive, recordsStored,
		collectors.NewGoCollector())

	return &MetricsService{
		registry:      registry,
		logins:        logins,
		mutations:     mutations,
		storeWrites:   storeWrites,
		storeLatency:  storeLatency,
		corruptLoads:  corruptLoads,
		liveActive:    liveActive,
		recordsStored: recordsStored,
	}
}

// Registry exposes the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordLogin counts a login attempt.
func (m *MetricsService) RecordLogin(outcome, role string) {
	if m == nil {
		return
	}
	if role == "" {
		role = "none"
	}
	m.logins.WithLabelValues(outcome, role).Inc()
}

// RecordMutation counts a mutation and whether it succeeded.
func (m *MetricsService) RecordMutation(op Operation, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mutations.WithLabelValues(string(op), result).Inc()
}

// ObserveStoreWrite matches repository.WriteObserver.
func (m *MetricsService) ObserveStoreWrite(key string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeWrites.WithLabelValues(key, result).Inc()
	m.storeLatency.Observe(duration.Seconds())
}

// RecordCorruptLoad counts a collection reset on load.
func (m *MetricsService) RecordCorruptLoad(collection string) {
	if m == nil {
		return
	}
	m.corruptLoads.WithLabelValues(collection).Inc()
}

// SetLive mirrors the live flag.
func (m *MetricsService) SetLive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.liveActive.Set(1)
		return
	}
	m.liveActive.Set(0)
}

// SetRecords mirrors the size of a collection.
func (m *MetricsService) SetRecords(collection string, n int) {
	if m == nil {
		return
	}
	m.recordsStored.WithLabelValues(collection).Set(float64(n))
}

// WriteTextfile dumps the registry in the node exporter textfile format.
func (m *MetricsService) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

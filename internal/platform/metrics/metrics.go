package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the bot.
type Metrics struct {
	registry              *prometheus.Registry
	cacheHitsTotal        prometheus.Counter
	cacheMissesTotal      prometheus.Counter
	extractionsTotal      prometheus.Counter
	extractionErrorsTotal prometheus.Counter
	cacheWriteErrorsTotal prometheus.Counter
	tracksStartedTotal    prometheus.Counter
	activePlayers         prometheus.Gauge
}

// New creates and registers Prometheus metrics for the bot.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	cacheHitsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jukebot_resolution_cache_hits_total",
		Help: "Total number of resolutions served from the cache",
	})
	cacheMissesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jukebot_resolution_cache_misses_total",
		Help: "Total number of resolutions not found in the cache",
	})
	extractionsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jukebot_extractions_total",
		Help: "Total number of extractor calls",
	})
	extractionErrorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jukebot_extraction_errors_total",
		Help: "Total number of failed extractor calls",
	})
	cacheWriteErrorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jukebot_resolution_cache_write_errors_total",
		Help: "Total number of resolutions that could not be persisted",
	})
	tracksStartedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jukebot_tracks_started_total",
		Help: "Total number of tracks handed to the audio player",
	})
	activePlayers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jukebot_active_players",
		Help: "Number of guilds with a connected player",
	})

	registry.MustRegister(
		cacheHitsTotal,
		cacheMissesTotal,
		extractionsTotal,
		extractionErrorsTotal,
		cacheWriteErrorsTotal,
		tracksStartedTotal,
		activePlayers,
	)

	return &Metrics{
		registry:              registry,
		cacheHitsTotal:        cacheHitsTotal,
		cacheMissesTotal:      cacheMissesTotal,
		extractionsTotal:      extractionsTotal,
		extractionErrorsTotal: extractionErrorsTotal,
		cacheWriteErrorsTotal: cacheWriteErrorsTotal,
		tracksStartedTotal:    tracksStartedTotal,
		activePlayers:         activePlayers,
	}
}

// CacheHit increments the cache hit counter.
func (m *Metrics) CacheHit() {
	m.cacheHitsTotal.Inc()
}

// CacheMiss increments the cache miss counter.
func (m *Metrics) CacheMiss() {
	m.cacheMissesTotal.Inc()
}

// Extraction increments the extraction counter.
func (m *Metrics) Extraction() {
	m.extractionsTotal.Inc()
}

// ExtractionFailed increments the extraction error counter.
func (m *Metrics) ExtractionFailed() {
	m.extractionErrorsTotal.Inc()
}

// CacheWriteFailed increments the cache write error counter.
func (m *Metrics) CacheWriteFailed() {
	m.cacheWriteErrorsTotal.Inc()
}

// TrackStarted increments the tracks started counter.
func (m *Metrics) TrackStarted() {
	m.tracksStartedTotal.Inc()
}

// SetActivePlayers sets the active players gauge.
func (m *Metrics) SetActivePlayers(n int) {
	m.activePlayers.Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

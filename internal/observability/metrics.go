package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/procurement-backend/internal/platform/envutil"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

// Metrics is a small Prometheus text exposition. A nil *Metrics is valid and
// records nothing, so callers never need to check Enabled.
type Metrics struct {
	apiRequests     *CounterVec
	apiLatency      *HistogramVec
	apiInflight     *Gauge
	splinterChecks  *CounterVec
	splinterAlerts  *CounterVec
	thresholdChecks *CounterVec
	combineOutcomes *CounterVec
	combinedValue   *Counter
	dbStats         *GaugeVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

// NewMetrics builds an unregistered instance; Init is the process-wide entry point.
func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("procurement_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"procurement_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight:     NewGauge("procurement_api_inflight_requests", "In-flight API requests."),
		splinterChecks:  NewCounterVec("procurement_splintering_checks_total", "Splintering checks by outcome.", []string{"outcome"}),
		splinterAlerts:  NewCounterVec("procurement_splintering_alerts_total", "Splintering alerts by type/severity.", []string{"type", "severity"}),
		thresholdChecks: NewCounterVec("procurement_threshold_checks_total", "Executive threshold checks by type/level.", []string{"type", "level"}),
		combineOutcomes: NewCounterVec("procurement_combine_total", "Combine operations by stage/outcome.", []string{"stage", "outcome"}),
		combinedValue:   NewCounter("procurement_combined_value_total", "Sum of combined request values."),
		dbStats:         NewGaugeVec("procurement_db_pool", "Database pool statistics.", []string{"stat"}),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.splinterChecks,
		m.splinterAlerts,
		m.thresholdChecks,
		m.combineOutcomes,
		m.combinedValue,
		m.dbStats,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveSplinteringCheck records one check and each alert it produced.
func (m *Metrics) ObserveSplinteringCheck(err error, alertTypes, severities []string) {
	if m == nil {
		return
	}
	switch {
	case err != nil:
		m.splinterChecks.Inc("error")
		return
	case len(alertTypes) == 0:
		m.splinterChecks.Inc("clean")
	default:
		m.splinterChecks.Inc("flagged")
	}
	for i, t := range alertTypes {
		sev := "unknown"
		if i < len(severities) {
			sev = severities[i]
		}
		m.splinterAlerts.Inc(t, sev)
	}
}

func (m *Metrics) ObserveThresholdCheck(thresholdType, level string) {
	if m == nil {
		return
	}
	m.thresholdChecks.Inc(thresholdType, level)
}

func (m *Metrics) IncCombine(stage, outcome string) {
	if m == nil {
		return
	}
	m.combineOutcomes.Inc(stage, outcome)
}

func (m *Metrics) AddCombinedValue(v float64) {
	if m == nil || v <= 0 {
		return
	}
	m.combinedValue.Add(v)
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := envutil.Duration("METRICS_SCRAPE_INTERVAL", 15*time.Second)
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
			}
		}
	}()
}

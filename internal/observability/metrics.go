package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	apiRequests  *CounterVec
	apiLatency   *HistogramVec
	apiInflight  *Gauge
	storeOps     *CounterVec
	storeLatency *HistogramVec
	contactOps   *CounterVec
	exports      *CounterVec
	authEvents   *CounterVec
	dbStats      *GaugeVec
	redisUp      *Gauge
	redisPing    *Gauge

	scrapeInterval time.Duration
	all            []collector
}

func NewMetrics(scrapeInterval time.Duration) *Metrics {
	if scrapeInterval <= 0 {
		scrapeInterval = 10 * time.Second
	}
	m := &Metrics{
		apiRequests: NewCounterVec("cb_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"cb_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("cb_api_inflight_requests", "In-flight API requests."),
		storeOps:    NewCounterVec("cb_store_operations_total", "Record store operations by backend/op/status.", []string{"backend", "op", "status"}),
		storeLatency: NewHistogramVec(
			"cb_store_operation_duration_seconds",
			"Record store operation latency in seconds by backend/op.",
			[]string{"backend", "op"},
			[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		),
		contactOps: NewCounterVec("cb_contact_operations_total", "Contact operations by op/outcome.", []string{"op", "outcome"}),
		exports:    NewCounterVec("cb_exports_total", "Rendered exports by format.", []string{"format"}),
		authEvents: NewCounterVec("cb_auth_events_total", "Authentication events by event/outcome.", []string{"event", "outcome"}),
		dbStats:    NewGaugeVec("cb_db_stats", "SQL connection pool stats.", []string{"metric"}),
		redisUp:    NewGauge("cb_redis_up", "Redis connectivity (1=up, 0=down)."),
		redisPing:  NewGauge("cb_redis_ping_seconds", "Redis ping latency in seconds."),

		scrapeInterval: scrapeInterval,
	}
	m.all = []collector{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.storeOps, m.storeLatency,
		m.contactOps, m.exports, m.authEvents,
		m.dbStats, m.redisUp, m.redisPing,
	}
	return m
}

// StartServer serves the exposition on a dedicated listener until ctx ends.
func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil || addr == "" {
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
	for _, c := range m.all {
		if err := c.WritePrometheus(w); err != nil {
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

func (m *Metrics) ObserveStore(backend, op string, err error, dur time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		// an Update callback rejected the change; the store itself is fine
		status = "aborted"
	default:
		status = "error"
	}
	m.storeOps.Inc(backend, op, status)
	m.storeLatency.Observe(dur.Seconds(), backend, op)
}

func (m *Metrics) IncContactOp(op, outcome string) {
	if m == nil {
		return
	}
	m.contactOps.Inc(op, outcome)
}

func (m *Metrics) StoreOpCount(backend, op, status string) float64 {
	if m == nil {
		return 0
	}
	return m.storeOps.Value(backend, op, status)
}

func (m *Metrics) ContactOpCount(op, outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.contactOps.Value(op, outcome)
}

func (m *Metrics) IncExport(format string) {
	if m == nil {
		return
	}
	m.exports.Inc(format)
}

func (m *Metrics) IncAuthEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.authEvents.Inc(event, outcome)
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
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

// StartRedisCollector pings rdb on every scrape interval. rdb is owned by
// the caller.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

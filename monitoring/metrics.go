package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var (
	scansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_scans_total",
			Help: "Ticket scan attempts by outcome",
		},
		[]string{"status"},
	)

	refundsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_refunds_total",
			Help: "Tickets refunded through event cancellations",
		},
	)

	refundAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_refund_amount_total",
			Help: "Total monetary amount refunded",
		},
	)

	uniqueViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_unique_views_total",
			Help: "First-time attendee views counted across all events",
		},
	)

	redisUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "redis_up",
			Help: "Whether the redis connection is healthy",
		},
	)
)

// TrackScan counts one scan attempt by its outcome ("valid", "rejected", ...).
func TrackScan(status string) {
	scansTotal.WithLabelValues(status).Inc()
}

// TrackRefunds counts the tickets and amount refunded by one cancellation.
func TrackRefunds(tickets int, amount decimal.Decimal) {
	if tickets <= 0 {
		return
	}
	refundsTotal.Add(float64(tickets))
	refundAmountTotal.Add(amount.InexactFloat64())
}

// TrackUniqueView counts one first-time attendee view.
func TrackUniqueView() {
	uniqueViewsTotal.Inc()
}

// Monitor samples infrastructure health in the background.
type Monitor struct {
	redis *redis.Client
}

func NewMonitor(ctx context.Context, redisClient *redis.Client) *Monitor {
	m := &Monitor{redis: redisClient}
	go m.collect(ctx)
	return m
}

func (m *Monitor) collect(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := m.redis.Ping(pingCtx).Err(); err != nil {
				redisUp.Set(0)
			} else {
				redisUp.Set(1)
			}
			cancel()
		}
	}
}

// Package metrics exposes economy counters fed from the committed-event bus.
package metrics

import (
	"context"

	"courtside/events"
	"courtside/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector turns committed events into Prometheus counters
type Collector struct {
	registry     *prometheus.Registry
	transactions *prometheus.CounterVec
	wagers       *prometheus.CounterVec
	chipsPaid    *prometheus.CounterVec
	joins        prometheus.Counter
}

// NewCollector registers the counters on a fresh registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_transactions_total",
			Help: "Committed transaction records by kind.",
		}, []string{"kind"}),
		wagers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_wagers_total",
			Help: "Settled wagers by game and result.",
		}, []string{"game", "result"}),
		chipsPaid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_chips_paid_total",
			Help: "Gross chips paid out by game.",
		}, []string{"game"}),
		joins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_joins_total",
			Help: "Starting stakes granted.",
		}),
	}

	c.registry.MustRegister(
		c.transactions,
		c.wagers,
		c.chipsPaid,
		c.joins,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry served at /metrics
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Subscribe attaches the collector to the bus
func (c *Collector) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, c.handle)
	bus.Subscribe(events.EventTypeWagerSettled, c.handle)
	bus.Subscribe(events.EventTypeUserJoined, c.handle)
}

func (c *Collector) handle(_ context.Context, event events.Event) {
	switch e := event.(type) {
	case events.BalanceChangeEvent:
		c.transactions.WithLabelValues(string(e.Kind)).Inc()
	case events.WagerSettledEvent:
		c.wagers.WithLabelValues(string(e.Game), wagerResult(e.Kind)).Inc()
		c.chipsPaid.WithLabelValues(string(e.Game)).Add(float64(e.Payout))
	case events.UserJoinedEvent:
		c.joins.Inc()
	}
}

// wagerResult labels a settlement by its record kind
func wagerResult(kind models.TransactionKind) string {
	switch {
	case kind.IsWin():
		return "win"
	case kind.IsLoss():
		return "lose"
	default:
		return "other"
	}
}

package stats

import (
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slidedeck/slidedeck-go/lib/db"
	"github.com/slidedeck/slidedeck-go/lib/session"
	"github.com/slidedeck/slidedeck-go/lib/settings"
)

var (
	slidedeckActiveDecks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "slidedeck",
			Name:      "active_decks",
			Help:      "Number of decks with at least one live connection",
		},
	)

	slidedeckTotalUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "slidedeck",
			Name:      "total_users",
			Help:      "Total number of connected users",
		},
	)
)

func Init(c *fiber.App, retrievedSettings *settings.Settings, store db.SnapshotStore, registry *session.Registry) {
	checks := []Checker{
		DBChecker{store},
		RoomChecker{registry},
	}

	c.Get("/health", Handler(
		settings.Version,
		"slidedeck-api",
		checks,
	))

	if retrievedSettings.EnableMetrics {
		go func() {
			ticker := time.NewTicker(10 * time.Second)
			defer ticker.Stop()

			for range ticker.C {
				decks, connections := registry.Stats()
				slidedeckActiveDecks.Set(float64(decks))
				slidedeckTotalUsers.Set(float64(connections))
			}
		}()
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			slidedeckActiveDecks,
			slidedeckTotalUsers,
		)
		handler := promhttp.HandlerFor(
			reg,
			promhttp.HandlerOpts{},
		)
		c.Get("/metrics", adaptor.HTTPHandler(handler))
	}
}

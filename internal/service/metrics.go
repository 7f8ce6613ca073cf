package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gamesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokernight_games_created_total",
		Help: "Total number of games created",
	})

	buyInsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokernight_buyins_recorded_total",
		Help: "Total number of buy-ins recorded",
	})

	buyInAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pokernight_buyin_amount",
		Help:    "Distribution of recorded buy-in amounts",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000},
	})

	winnersAssigned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokernight_winners_assigned_total",
		Help: "Total number of winner allocations stored",
	})

	settlementsComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokernight_settlements_computed_total",
		Help: "Total number of balance summaries computed",
	}, []string{"scope"})

	transfersEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokernight_transfers_emitted_total",
		Help: "Total number of simplified transfers produced",
	}, []string{"scope"})
)

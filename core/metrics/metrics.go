package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the process gauges updated by the epoch engine.
type Metrics struct {
	EpochsTotal        prometheus.Counter
	RewardsMintedTotal prometheus.Counter
	ActiveValidators   prometheus.Gauge
	StakedTotal        prometheus.Gauge
}

func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		EpochsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "helio",
			Subsystem: "staking",
			Name:      "epochs_total",
			Help:      "Number of epoch transitions performed.",
		}),
		RewardsMintedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "helio",
			Subsystem: "staking",
			Name:      "rewards_minted_total",
			Help:      "Total stake-token rewards minted, in wei.",
		}),
		ActiveValidators: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "helio",
			Subsystem: "staking",
			Name:      "active_validators",
			Help:      "Size of the active validator set.",
		}),
		StakedTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "helio",
			Subsystem: "staking",
			Name:      "staked_total",
			Help:      "Voting power of the current validator set, in wei.",
		}),
	}

	if registerer != nil {
		registerer.MustRegister(m.EpochsTotal, m.RewardsMintedTotal, m.ActiveValidators, m.StakedTotal)
	}

	return m
}

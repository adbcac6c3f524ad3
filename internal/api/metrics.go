package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sssom",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"route", "code"})

	curationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sssom",
		Name:      "curations_total",
		Help:      "Curation actions by mark.",
	}, []string{"mark"})

	mappingsStored = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sssom",
		Name:      "mappings_stored",
		Help:      "Number of mappings currently in the repository.",
	})
)

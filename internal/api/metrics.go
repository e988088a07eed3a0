package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics, exposed on GET /metrics.
var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reciclo_http_requests_total",
		Help: "HTTP requests handled, by method and status code.",
	}, []string{"method", "status"})

	itemsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reciclo_items_created_total",
		Help: "Material listings created.",
	})

	itemsValidated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reciclo_items_validated_total",
		Help: "Baled materials validated by gestores.",
	})

	ratingsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reciclo_ratings_submitted_total",
		Help: "Ratings submitted between counterparties.",
	})
)

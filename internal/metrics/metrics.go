package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure reasons for the lease counter.
const (
	ReasonNotFound          = "not_found"
	ReasonInsufficientStock = "insufficient_stock"
	ReasonDuplicate         = "duplicate_request"
	ReasonInternal          = "internal"
)

type Metrics struct {
	EntitiesCreated *prometheus.CounterVec
	LeasesCreated   prometheus.Counter
	LeaseFailures   *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EntitiesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_entities_created_total",
			Help: "Records created, by entity kind.",
		}, []string{"entity"}),
		LeasesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "rental_leases_created_total",
			Help: "Leases successfully created.",
		}),
		LeaseFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_lease_failures_total",
			Help: "Lease creation failures, by reason.",
		}, []string{"reason"}),
	}
}

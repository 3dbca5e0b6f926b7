// Package metrics holds the service's prometheus collectors. HTTP request
// metrics come from fiberprometheus; these cover domain events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_auth_failures_total",
		Help: "Requests rejected by the auth gate, by reason.",
	}, []string{"reason"})

	GitHubRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_github_requests_total",
		Help: "Outbound GitHub repository lookups, by outcome.",
	}, []string{"outcome"})

	RateLimitStorageErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_ratelimit_storage_errors_total",
		Help: "Redis errors seen by the rate limiter storage, by command.",
	}, []string{"command"})
)

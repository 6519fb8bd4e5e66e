// Package observability holds the Prometheus collectors of the service.
package observability

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aidar/walking-buddies/internal/domain"
)

const namespace = "walking_buddies"

var (
	walksLogged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "walks",
		Name:      "logged_total",
		Help:      "Number of walks accepted into the ledger.",
	})

	walksRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "walks",
		Name:      "rejected_total",
		Help:      "Number of walk submissions rejected, labeled by error code.",
	}, []string{"code"})

	walkPoints = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "walks",
		Name:      "points_awarded",
		Help:      "Points awarded per accepted walk.",
		Buckets:   prometheus.ExponentialBuckets(5, 2, 8),
	})

	rewardsGranted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rewards",
		Name:      "granted_total",
		Help:      "Number of bonus rewards appended to the ledger, labeled by source.",
	}, []string{"source"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, labeled by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, labeled by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	totals = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "totals",
		Help:      "Service-wide totals refreshed by the scheduler.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(walksLogged, walksRejected, walkPoints, rewardsGranted, httpRequests, httpDuration, totals)
}

// ObserveWalk records an accepted walk
func ObserveWalk(points int) {
	walksLogged.Inc()
	walkPoints.Observe(float64(points))
}

// ObserveRejectedWalk records a rejected submission
func ObserveRejectedWalk(err error) {
	walksRejected.WithLabelValues(string(domain.MapErrorToCode(err))).Inc()
}

// ObserveReward records a bonus reward. Challenge sources are collapsed to their prefix.
func ObserveReward(source string) {
	rewardsGranted.WithLabelValues(RewardLabel(source)).Inc()
}

// RewardLabel keeps label cardinality bounded
func RewardLabel(source string) string {
	if strings.HasPrefix(source, domain.RewardSourceChallengePrefix) {
		return "challenge"
	}
	return source
}

// ObserveRequest records a served HTTP request
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SetTotals publishes the service totals as gauges
func SetTotals(stats *domain.Stats) {
	if stats == nil {
		return
	}
	totals.WithLabelValues("users").Set(float64(stats.TotalUsers))
	totals.WithLabelValues("teams").Set(float64(stats.TotalTeams))
	totals.WithLabelValues("walks").Set(float64(stats.TotalWalks))
	totals.WithLabelValues("points").Set(float64(stats.TotalPoints))
	totals.WithLabelValues("steps").Set(float64(stats.TotalSteps))
}

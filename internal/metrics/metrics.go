package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace for all guestlist metrics
const namespace = "guestlist"

// Registry is the global Prometheus registry for all metrics
var Registry = prometheus.NewRegistry()

// AppInfo exposes application version information as labels
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// RegistrationsTotal counts registration attempts by outcome
// (accepted, capacity_exceeded, duplicate, not_found, error)
var RegistrationsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts by outcome",
	},
	[]string{"outcome"},
)

// AttendeeDeletionsTotal counts attendee deletions by outcome
// (deleted, forbidden, not_found, error)
var AttendeeDeletionsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendee_deletions_total",
		Help:      "Total number of attendee deletion attempts by outcome",
	},
	[]string{"outcome"},
)

// ConfirmationEmailsSent counts confirmation emails delivered to the transport
var ConfirmationEmailsSent = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confirmation_emails_sent_total",
		Help:      "Total number of confirmation emails sent",
	},
)

// ConfirmationEmailsFailed counts confirmation jobs that could not send
var ConfirmationEmailsFailed = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confirmation_emails_failed_total",
		Help:      "Total number of confirmation email attempts that failed",
	},
)

// Init records application build information.
func Init(version, commit, buildDate string) {
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}

// Handler serves the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

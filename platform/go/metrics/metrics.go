// Package metrics collects and exposes Prometheus counters for the
// identity cascades, so operators can watch which resolution stages still
// fire (the email-scan fallback in particular) and how often phone logins
// miss.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	identityservice "github.com/swami-pg/backend/domains/identity/be/service"
)

// Collector implements the identity domain's Metrics interface on
// Prometheus counters.
type Collector struct {
	resolutions       *prometheus.CounterVec
	emailScanFallback prometheus.Counter
	signupLinks       *prometheus.CounterVec
	identifierLookups *prometheus.CounterVec
}

// NewCollector builds a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "swamipg_role_resolutions_total",
			Help: "Role resolutions by resulting role and matching stage.",
		}, []string{"role", "via"}),
		emailScanFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swamipg_email_scan_fallback_total",
			Help: "Full tenant-collection scans performed as a resolution fallback.",
		}),
		signupLinks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "swamipg_signup_links_total",
			Help: "Signup linker outcomes: linked to an existing record or created a new one.",
		}, []string{"outcome"}),
		identifierLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "swamipg_identifier_lookups_total",
			Help: "Login identifier resolutions by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.resolutions, c.emailScanFallback, c.signupLinks, c.identifierLookups)
	return c
}

func (c *Collector) RecordResolution(role identityservice.Role, via string) {
	if via == "" {
		via = "none"
	}
	c.resolutions.WithLabelValues(string(role), via).Inc()
}

func (c *Collector) RecordEmailScanFallback() {
	c.emailScanFallback.Inc()
}

func (c *Collector) RecordSignupLink(linkedExisting bool) {
	outcome := "created"
	if linkedExisting {
		outcome = "linked"
	}
	c.signupLinks.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordIdentifierLookup(outcome string) {
	c.identifierLookups.WithLabelValues(outcome).Inc()
}

// Handler returns the scrape endpoint for the given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

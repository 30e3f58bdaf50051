package metrics

import "github.com/prometheus/client_golang/prometheus"

// SiteMetrics exposes counters for the booking and payment flows.
type SiteMetrics struct {
	bookingSubmissions *prometheus.CounterVec
	paymentIntents     *prometheus.CounterVec
	verifications      *prometheus.CounterVec
	emails             *prometheus.CounterVec
	cspViolations      *prometheus.CounterVec
	rateLimited        *prometheus.CounterVec
}

func NewSiteMetrics(reg prometheus.Registerer) *SiteMetrics {
	m := &SiteMetrics{
		bookingSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trades",
			Subsystem: "bookings",
			Name:      "submissions_total",
			Help:      "Booking form submissions by result",
		}, []string{"result"}),
		paymentIntents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trades",
			Subsystem: "payments",
			Name:      "intents_total",
			Help:      "Payment intent creation attempts by result",
		}, []string{"result"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trades",
			Subsystem: "payments",
			Name:      "verifications_total",
			Help:      "Payment verifications by resulting state",
		}, []string{"state"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trades",
			Subsystem: "notify",
			Name:      "emails_total",
			Help:      "Outbound emails by kind and result",
		}, []string{"kind", "result"}),
		cspViolations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trades",
			Subsystem: "csp",
			Name:      "violations_total",
			Help:      "CSP violation reports by directive",
		}, []string{"directive"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trades",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}, []string{"path"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingSubmissions, m.paymentIntents, m.verifications, m.emails, m.cspViolations, m.rateLimited)
	return m
}

func (m *SiteMetrics) ObserveBookingSubmission(result string) {
	if m == nil {
		return
	}
	m.bookingSubmissions.WithLabelValues(result).Inc()
}

func (m *SiteMetrics) ObservePaymentIntent(result string) {
	if m == nil {
		return
	}
	m.paymentIntents.WithLabelValues(result).Inc()
}

func (m *SiteMetrics) ObserveVerification(state string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(state).Inc()
}

func (m *SiteMetrics) ObserveEmail(kind, result string) {
	if m == nil {
		return
	}
	m.emails.WithLabelValues(kind, result).Inc()
}

// ObserveCSPViolation counts a report. Directive values come from browsers,
// so only the directive name before any space is used as the label.
func (m *SiteMetrics) ObserveCSPViolation(directive string) {
	if m == nil {
		return
	}
	m.cspViolations.WithLabelValues(directiveLabel(directive)).Inc()
}

func (m *SiteMetrics) ObserveRateLimited(path string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(path).Inc()
}

func directiveLabel(directive string) string {
	for i := 0; i < len(directive); i++ {
		if directive[i] == ' ' {
			directive = directive[:i]
			break
		}
	}
	if directive == "" || len(directive) > 32 {
		return "other"
	}
	return directive
}

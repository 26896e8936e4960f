package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	EventsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_events_received_total",
			Help: "Count of classified webhook events",
		},
		[]string{"kind"},
	)
	RepliesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_replies_sent_total",
			Help: "Count of replies delivered via the Send API",
		},
	)
	SendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_send_failures_total",
			Help: "Count of failed Send API calls",
		},
	)
	ProfileLookupFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_profile_lookup_failures_total",
			Help: "Count of failed user profile lookups",
		},
	)
)

func Init() {
	prometheus.MustRegister(
		EventsReceived,
		RepliesSent,
		SendFailures,
		ProfileLookupFailures,
	)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the application. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	IngestionRuns   *prometheus.CounterVec
	ArticlesAdded   prometheus.Counter
	ArticlesSkipped prometheus.Counter
	UsersCreated    prometheus.Counter
	LoginFailures   prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		IngestionRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "edunews_ingestion_runs_total",
			Help: "Ingestion runs by final status",
		}, []string{"source", "status"}),
		ArticlesAdded: f.NewCounter(prometheus.CounterOpts{
			Name: "edunews_ingestion_articles_added_total",
			Help: "Articles persisted by ingestion runs",
		}),
		ArticlesSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "edunews_ingestion_articles_skipped_total",
			Help: "Candidate articles skipped as duplicates",
		}),
		UsersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "edunews_users_created_total",
			Help: "Accounts created through signup",
		}),
		LoginFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "edunews_login_failures_total",
			Help: "Rejected login attempts",
		}),
	}
}

// ObserveIngestion records the outcome of one ingestion run.
func (m *Metrics) ObserveIngestion(source, status string, added, skipped int) {
	if m == nil {
		return
	}
	m.IngestionRuns.WithLabelValues(source, status).Inc()
	m.ArticlesAdded.Add(float64(added))
	m.ArticlesSkipped.Add(float64(skipped))
}

func (m *Metrics) IncUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

func (m *Metrics) IncLoginFailures() {
	if m == nil {
		return
	}
	m.LoginFailures.Inc()
}

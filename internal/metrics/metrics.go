// Package metrics holds the Prometheus counters for RSVP activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RSVPSubmissions   *prometheus.CounterVec
	RSVPConflicts     prometheus.Counter
	PartiesImported   prometheus.Counter
	ImportFailures    prometheus.Counter
	GuestsMigrated    prometheus.Counter
	MigrationFailures prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RSVPSubmissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rsvp_submissions_total",
			Help: "RSVP submissions accepted, by schema and status",
		}, []string{"schema", "status"}),
		RSVPConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "rsvp_update_conflicts_total",
			Help: "RSVP writes retried after a concurrent update",
		}),
		PartiesImported: f.NewCounter(prometheus.CounterOpts{
			Name: "rsvp_parties_imported_total",
			Help: "Parties created by bulk import",
		}),
		ImportFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "rsvp_import_failures_total",
			Help: "Import rows that failed to create a party",
		}),
		GuestsMigrated: f.NewCounter(prometheus.CounterOpts{
			Name: "rsvp_guests_migrated_total",
			Help: "Legacy guests migrated to parties",
		}),
		MigrationFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "rsvp_migration_failures_total",
			Help: "Legacy guests that failed to migrate",
		}),
	}
}

// ObserveSubmission counts an accepted RSVP.
func (m *Metrics) ObserveSubmission(schema, status string) {
	if m == nil {
		return
	}
	m.RSVPSubmissions.WithLabelValues(schema, status).Inc()
}

// ObserveConflict counts a retried RSVP write.
func (m *Metrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.RSVPConflicts.Inc()
}

// ObserveImport records the outcome of a bulk import.
func (m *Metrics) ObserveImport(created, failed int) {
	if m == nil {
		return
	}
	m.PartiesImported.Add(float64(created))
	m.ImportFailures.Add(float64(failed))
}

// ObserveMigration records the outcome of a migration run.
func (m *Metrics) ObserveMigration(migrated, failed int) {
	if m == nil {
		return
	}
	m.GuestsMigrated.Add(float64(migrated))
	m.MigrationFailures.Add(float64(failed))
}

// Package rsvp implements the RSVP engine: submission validation, headcount
// clamping, statistics, guest lookup, roster creation and export.
//
// Service serves the party-centric (v2) layout; Legacy serves the
// guest-centric (v1) layout that predates migration.
package rsvp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/rsvp/internal/calculator"
	"github.com/mmynk/rsvp/internal/metrics"
	"github.com/mmynk/rsvp/internal/models"
	"github.com/mmynk/rsvp/internal/storage"
)

const (
	// DefaultSearchLimit caps search results when no limit is configured.
	DefaultSearchLimit = 20

	// maxUpdateAttempts bounds the read-modify-write loop of a submission.
	maxUpdateAttempts = 3

	// SuccessMessage is returned with every accepted submission.
	SuccessMessage = "RSVP submitted successfully"
)

// CompanionPolicy decides what happens when the companion guest of a new
// party cannot be created.
type CompanionPolicy string

const (
	// CompanionLenient keeps the party and primary guest and logs the failure.
	CompanionLenient CompanionPolicy = "lenient"

	// CompanionRollback creates the party and both guests in one transaction.
	CompanionRollback CompanionPolicy = "rollback"
)

// ParseCompanionPolicy accepts "lenient", "rollback" or "" (lenient).
func ParseCompanionPolicy(s string) (CompanionPolicy, error) {
	switch p := CompanionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return CompanionLenient, nil
	case CompanionLenient, CompanionRollback:
		return p, nil
	default:
		return "", fmt.Errorf("unknown companion policy %q", s)
	}
}

type options struct {
	now         func() time.Time
	metrics     *metrics.Metrics
	policy      CompanionPolicy
	searchLimit int
}

// Option configures a Service or Legacy engine.
type Option func(*options)

// WithClock overrides the time source used for submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithMetrics records submissions, imports and version conflicts on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithCompanionPolicy sets what happens when a companion guest cannot be created.
func WithCompanionPolicy(p CompanionPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithSearchLimit caps the number of search results. Values below 1 are
// ignored.
func WithSearchLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.searchLimit = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:         time.Now,
		policy:      CompanionLenient,
		searchLimit: DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// applySubmission validates sub and writes it onto r. Fields the caller did
// not supply keep their previous values, so declining leaves an earlier
// headcount and dietary note in place.
func applySubmission(r *models.RSVP, sub models.Submission, invited int, now time.Time) error {
	status, err := models.ParseSubmittedStatus(string(sub.Status))
	if err != nil {
		return err
	}

	r.Status = status
	submitted := now.UTC().Truncate(time.Second)
	r.SubmittedAt = &submitted

	if status == models.StatusAttending {
		if sub.PartySizeAttending != nil {
			n := calculator.ClampHeadcount(*sub.PartySizeAttending, invited)
			r.PartySizeAttending = &n
		}
		if sub.DietaryRequirements != nil {
			r.DietaryRequirements = strings.TrimSpace(*sub.DietaryRequirements)
		}
	}
	if sub.AdditionalNotes != nil {
		r.AdditionalNotes = strings.TrimSpace(*sub.AdditionalNotes)
	}
	return nil
}

// retryOnConflict runs update until it succeeds, fails with something other
// than storage.ErrConflict, or runs out of attempts.
func retryOnConflict(ctx context.Context, m *metrics.Metrics, update func() error) error {
	var err error
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		if err = update(); !errors.Is(err, storage.ErrConflict) {
			return err
		}
		m.ObserveConflict()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}

// notFound translates storage.ErrNotFound into a typed error for kind/id.
func notFound(err error, kind, id string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return models.NewNotFoundError(kind, id)
	}
	return err
}

package repo

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// ReportStore persists probe reports. Reports are immutable once appended.
type ReportStore interface {
	// Append stores r, assigning ID and ObservedAt when they are empty.
	Append(ctx context.Context, r *domain.Report) error
	// List returns every stored report, oldest first.
	List(ctx context.Context) ([]*domain.Report, error)
	// Clear deletes every report and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// NewID returns a lexically sortable report ID.
func NewID(t time.Time) domain.ReportID {
	return domain.ReportID(ulid.MustNew(ulid.Timestamp(t), rand.Reader).String())
}

// Prepare fills the store-owned fields of r.
func Prepare(r *domain.Report) {
	if r.ObservedAt.IsZero() {
		r.ObservedAt = time.Now().UTC()
	}
	if r.ID == "" {
		r.ID = NewID(r.ObservedAt)
	}
}

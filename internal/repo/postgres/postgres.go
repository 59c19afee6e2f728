package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/repo"
)

var _ repo.ReportStore = (*Store)(nil)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS reports (
  id               TEXT PRIMARY KEY,
  url              TEXT NOT NULL,
  render_ok        BOOLEAN NOT NULL,
  render_message   TEXT NOT NULL,
  latency_ok       BOOLEAN NOT NULL,
  latency_message  TEXT NOT NULL,
  security_ok      BOOLEAN NOT NULL,
  security_message TEXT NOT NULL,
  page_title       TEXT NOT NULL DEFAULT '',
  http_status      INTEGER NULL,
  latency_ms       DOUBLE PRECISION NULL,
  observed_at      TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_observed_at ON reports (observed_at);
`

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

// Migrate creates the reports table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Append(ctx context.Context, r *domain.Report) error {
	repo.Prepare(r)

	var statusPtr *int
	if r.HTTPStatus != 0 {
		statusPtr = &r.HTTPStatus
	}
	var latencyPtr *float64
	if r.LatencyMS != 0 {
		latencyPtr = &r.LatencyMS
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO reports
		   (id, url, render_ok, render_message, latency_ok, latency_message,
		    security_ok, security_message, page_title, http_status, latency_ms, observed_at)
		 VALUES
		   ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(r.ID), r.URL,
		r.Render.OK, r.Render.Message,
		r.Latency.OK, r.Latency.Message,
		r.Security.OK, r.Security.Message,
		r.PageTitle, statusPtr, latencyPtr, r.ObservedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]*domain.Report, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, url, render_ok, render_message, latency_ok, latency_message,
       security_ok, security_message, page_title, http_status, latency_ms, observed_at
  FROM reports
 ORDER BY observed_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []*domain.Report
	for rows.Next() {
		var (
			r        domain.Report
			id       string
			httpNull sql.NullInt32
			latency  sql.NullFloat64
		)
		if err := rows.Scan(&id, &r.URL,
			&r.Render.OK, &r.Render.Message,
			&r.Latency.OK, &r.Latency.Message,
			&r.Security.OK, &r.Security.Message,
			&r.PageTitle, &httpNull, &latency, &r.ObservedAt,
		); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		r.ID = domain.ReportID(id)
		if httpNull.Valid {
			r.HTTPStatus = int(httpNull.Int32)
		}
		if latency.Valid {
			r.LatencyMS = latency.Float64
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *Store) Clear(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM reports`)
	if err != nil {
		return 0, fmt.Errorf("clear reports: %w", err)
	}
	n := int(tag.RowsAffected())
	if s.log != nil {
		s.log.Info("reports_cleared", zap.Int("deleted", n))
	}
	return n, nil
}

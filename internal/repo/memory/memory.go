package memory

import (
	"context"
	"sync"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/repo"
)

type Store struct {
	mu      sync.RWMutex
	reports []*domain.Report
}

func New() *Store {
	return &Store{
		reports: make([]*domain.Report, 0, 128),
	}
}

func (m *Store) Append(ctx context.Context, r *domain.Report) error {
	repo.Prepare(r)
	cp := *r
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, &cp)
	return nil
}

func (m *Store) List(ctx context.Context) ([]*domain.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Report, 0, len(m.reports))
	for _, r := range m.reports {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *Store) Clear(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.reports)
	m.reports = make([]*domain.Report, 0, 128)
	return n, nil
}

// Package resultsservice implements the leaderboard and ranking engine:
// bulk ingestion of timing results, team aggregation, ranked standings,
// per-participant history and export.
package resultsservice

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	resultsdb "github.com/Infuseting/SAE301-sub003/app/modules/results/infrastructure/repositories"
	"github.com/Infuseting/SAE301-sub003/internal/metrics"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// ResultService implements the Service interface.
type ResultService struct {
	results resultsdb.IndividualResultRepository
	teams   resultsdb.TeamResultRepository
	refs    resultsdb.ReferenceRepository
	logger  *slog.Logger
	metrics *metrics.ResultMetrics
	db      *bun.DB
}

// NewResultService creates a new ResultService. db may be nil in tests, in
// which case operations run without a transaction.
func NewResultService(
	results resultsdb.IndividualResultRepository,
	teams resultsdb.TeamResultRepository,
	refs resultsdb.ReferenceRepository,
	logger *slog.Logger,
	m *metrics.ResultMetrics,
	db *bun.DB,
) *ResultService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultService{
		results: results,
		teams:   teams,
		refs:    refs,
		logger:  logger,
		metrics: m,
		db:      db,
	}
}

// runInTx runs fn inside a single transaction; every write the engine makes
// goes through here so a bulk import commits or rolls back as one unit.
func (s *ResultService) runInTx(ctx context.Context, fn func(ctx context.Context, idb bun.IDB) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

// observe records the duration of an operation for the metrics endpoint.
func (s *ResultService) observe(operation string, start time.Time) {
	s.metrics.ObserveOperation(operation, time.Since(start))
}

// normalizePaging applies the default page and page size and caps the size.
func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

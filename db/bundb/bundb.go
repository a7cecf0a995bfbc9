// Package bundb assembles the bun connection pool and the repository
// implementations on top of it.
package bundb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	resultsdb "github.com/Infuseting/SAE301-sub003/app/modules/results/infrastructure/repositories"
	"github.com/Infuseting/SAE301-sub003/config"
)

// DBService owns the connection pool and the repositories bound to it.
type DBService struct {
	ResultsDB *resultsdb.IndividualResultDBImpl
	TeamsDB   *resultsdb.TeamResultDBImpl
	RefsDB    *resultsdb.ReferenceDBImpl
	db        *bun.DB
}

// GetDB returns the underlying database connection pool.
func (dbService *DBService) GetDB() *bun.DB {
	return dbService.db
}

// Close releases the connection pool.
func (dbService *DBService) Close() error {
	return dbService.db.Close()
}

// NewBunDBService initializes a new DBService with the provided Postgres
// configuration.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	db.RegisterModel(
		(*resultsdb.IndividualResult)(nil),
		(*resultsdb.TeamResult)(nil),
		(*resultsdb.Race)(nil),
		(*resultsdb.User)(nil),
		(*resultsdb.Team)(nil),
		(*resultsdb.Participation)(nil),
	)

	return &DBService{
		ResultsDB: &resultsdb.IndividualResultDBImpl{DB: db},
		TeamsDB:   &resultsdb.TeamResultDBImpl{DB: db},
		RefsDB:    &resultsdb.ReferenceDBImpl{DB: db},
		db:        db,
	}, nil
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return sqldb, nil
}

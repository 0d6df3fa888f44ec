package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/insightforge/insightforge/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs. Satisfied by
// pgxmock.PgxPoolIface in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store on top of a pgx connection pool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres connects to the given database URL and verifies the connection.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool, used in tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id                 TEXT PRIMARY KEY,
	mode               TEXT NOT NULL,
	business_goal      TEXT NOT NULL DEFAULT '',
	category           TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL,
	report             TEXT NOT NULL DEFAULT '',
	confidence         INTEGER NOT NULL DEFAULT 0,
	completeness_score INTEGER NOT NULL DEFAULT 0,
	completeness_label TEXT NOT NULL DEFAULT '',
	risk_flags         JSONB NOT NULL DEFAULT '[]',
	error              TEXT NOT NULL DEFAULT '',
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_analysis_runs_status ON analysis_runs(status);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_mode ON analysis_runs(mode);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at ON analysis_runs(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, run *model.AnalysisRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	flagsJSON, err := json.Marshal(run.RiskFlags)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal risk flags")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO analysis_runs
			(id, mode, business_goal, category, status, report, confidence, completeness_score, completeness_label, risk_flags, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		run.ID, run.Mode, run.BusinessGoal, run.Category, string(run.Status), run.Report,
		run.Confidence, run.CompletenessScore, run.CompletenessLabel, flagsJSON, run.Error, run.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert run")
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.AnalysisRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, mode, business_goal, category, status, report, confidence, completeness_score, completeness_label, risk_flags, error, created_at
		 FROM analysis_runs WHERE id = $1`,
		runID,
	)
	return scanPostgresRun(row)
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.AnalysisRun, error) {
	query := `SELECT id, mode, business_goal, category, status, report, confidence, completeness_score, completeness_label, risk_flags, error, created_at
		FROM analysis_runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.Mode != "" {
		args = append(args, filter.Mode)
		query += ` AND mode = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.AnalysisRun
	for rows.Next() {
		run, err := scanPostgresRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func scanPostgresRun(row pgx.Row) (*model.AnalysisRun, error) {
	var (
		run       model.AnalysisRun
		status    string
		flagsJSON []byte
	)
	err := row.Scan(
		&run.ID, &run.Mode, &run.BusinessGoal, &run.Category, &status, &run.Report,
		&run.Confidence, &run.CompletenessScore, &run.CompletenessLabel, &flagsJSON, &run.Error, &run.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, eris.Wrap(err, "store: run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan run")
	}
	run.Status = model.RunStatus(status)
	if len(flagsJSON) > 0 {
		if err := json.Unmarshal(flagsJSON, &run.RiskFlags); err != nil {
			return nil, eris.Wrap(err, "store: parse risk flags")
		}
	}
	return &run, nil
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightforge/insightforge/internal/model"
)

func newMockPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgresMigrate(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS analysis_runs").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveRun(t *testing.T) {
	s, mock := newMockPostgres(t)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := &model.AnalysisRun{
		ID:                "run-1",
		Mode:              "deep",
		BusinessGoal:      "profitability",
		Status:            model.RunStatusComplete,
		Report:            "# Deep Research Report",
		Confidence:        65,
		CompletenessScore: 70,
		CompletenessLabel: "Medium",
		RiskFlags:         []string{"Missing sources: reviews"},
		CreatedAt:         created,
	}

	mock.ExpectExec("INSERT INTO analysis_runs").
		WithArgs("run-1", "deep", "profitability", "", "complete", "# Deep Research Report",
			65, 70, "Medium", []byte(`["Missing sources: reviews"]`), "", created).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, s.SaveRun(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveRunAssignsID(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("INSERT INTO analysis_runs").
		WithArgs(pgxmock.AnyArg(), "quick", "", "", "failed", "",
			0, 0, "", []byte("null"), "mode unsupported", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run := &model.AnalysisRun{Mode: "quick", Status: model.RunStatusFailed, Error: "mode unsupported"}
	require.NoError(t, s.SaveRun(context.Background(), run))
	assert.NotEmpty(t, run.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func runColumns() []string {
	return []string{
		"id", "mode", "business_goal", "category", "status", "report",
		"confidence", "completeness_score", "completeness_label", "risk_flags", "error", "created_at",
	}
}

func TestPostgresGetRun(t *testing.T) {
	s, mock := newMockPostgres(t)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM analysis_runs WHERE id").
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows(runColumns()).
			AddRow("run-1", "quick", "growth", "shoes", "complete", "# Quick Insights Report",
				72, 80, "High", []byte(`["Pricing feed has anomalies: 25% records have non-positive prices."]`), "", created))

	got, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, "shoes", got.Category)
	assert.Len(t, got.RiskFlags, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRunNotFound(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery("SELECT (.+) FROM analysis_runs WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(runColumns()))

	_, err := s.GetRun(context.Background(), "missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestPostgresListRuns(t *testing.T) {
	s, mock := newMockPostgres(t)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM analysis_runs WHERE 1=1 AND status").
		WithArgs("complete", 100).
		WillReturnRows(pgxmock.NewRows(runColumns()).
			AddRow("run-2", "deep", "retention", "", "complete", "", 55, 60, "Medium", []byte(`[]`), "", created.Add(time.Minute)).
			AddRow("run-1", "quick", "growth", "", "complete", "", 72, 80, "High", []byte(`[]`), "", created))

	got, err := s.ListRuns(context.Background(), RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "run-2", got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

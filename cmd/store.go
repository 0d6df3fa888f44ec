package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/insightforge/insightforge/internal/config"
	"github.com/insightforge/insightforge/internal/model"
	"github.com/insightforge/insightforge/internal/store"
)

// storeRecorder wraps a Store so best-effort run recording never aborts
// an analysis.
type storeRecorder struct {
	store.Store
}

func (s *storeRecorder) record(ctx context.Context, run *model.AnalysisRun) {
	if err := s.SaveRun(ctx, run); err != nil {
		zap.L().Error("save run", zap.Error(err))
	}
}

// openStore builds the configured run-history store and runs migrations.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.SQLitePath)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/insightforge/insightforge/internal/engine"
	"github.com/insightforge/insightforge/internal/memory"
	"github.com/insightforge/insightforge/internal/model"
)

var (
	analyzeBriefPath    string
	analyzeBriefsDir    string
	analyzeOutputPath   string
	analyzeMemoryPath   string
	analyzeSourceDir    string
	analyzeUpdateMemory bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a research brief through the analysis engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("analyze"); err != nil {
			return err
		}
		if analyzeBriefPath == "" && analyzeBriefsDir == "" {
			return eris.New("analyze: provide --brief or --briefs-dir")
		}

		sourceDir := analyzeSourceDir
		if sourceDir == "" {
			sourceDir = cfg.Engine.SourceBaseDir
		}
		memoryPath := analyzeMemoryPath
		if memoryPath == "" {
			memoryPath = cfg.Memory.Path
		}

		var opts []engine.Option
		if cfg.Engine.Seed != 0 {
			opts = append(opts, engine.WithSeed(cfg.Engine.Seed))
		}
		eng := engine.New(sourceDir, opts...)

		st, err := openStore(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		runner := &analyzeRunner{
			engine:     eng,
			store:      &storeRecorder{st},
			memoryPath: memoryPath,
		}

		if analyzeBriefsDir != "" {
			return runner.runBatch(cmd.Context(), analyzeBriefsDir, analyzeOutputPath)
		}
		return runner.runSingle(cmd.Context(), analyzeBriefPath, analyzeOutputPath)
	},
}

type analyzeRunner struct {
	engine     *engine.Engine
	store      *storeRecorder
	memoryPath string

	mu  sync.Mutex
	mem model.DomainMemory
}

func (a *analyzeRunner) runSingle(ctx context.Context, briefPath, outputPath string) error {
	mem, err := memory.Load(a.memoryPath)
	if err != nil {
		return err
	}

	brief, err := loadBrief(briefPath)
	if err != nil {
		return err
	}

	result, err := a.analyzeOne(ctx, brief, mem)
	if err != nil {
		return err
	}

	fmt.Println(result.Report)

	if outputPath != "" && !result.ClarificationNeeded {
		if err := writeReport(outputPath, result.Report); err != nil {
			return err
		}
		zap.L().Info("report written", zap.String("path", outputPath))
	}

	if analyzeUpdateMemory && !result.ClarificationNeeded {
		updated := memory.Merge(mem, *brief, time.Now())
		if err := memory.Save(a.memoryPath, updated); err != nil {
			return err
		}
		zap.L().Info("domain memory updated", zap.String("path", a.memoryPath))
	}

	return nil
}

func (a *analyzeRunner) runBatch(ctx context.Context, briefsDir, outputDir string) error {
	paths, err := listBriefs(briefsDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return eris.Errorf("analyze: no briefs found in %s", briefsDir)
	}

	a.mem, err = memory.Load(a.memoryPath)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Batch.MaxConcurrentBriefs)

	for _, path := range paths {
		g.Go(func() error {
			brief, err := loadBrief(path)
			if err != nil {
				return err
			}

			a.mu.Lock()
			mem := a.mem
			a.mu.Unlock()

			result, err := a.analyzeOne(gctx, brief, mem)
			if err != nil {
				return eris.Wrapf(err, "analyze: brief %s", filepath.Base(path))
			}

			if outputDir != "" && !result.ClarificationNeeded {
				name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".md"
				if err := writeReport(filepath.Join(outputDir, name), result.Report); err != nil {
					return err
				}
			}

			if analyzeUpdateMemory && !result.ClarificationNeeded {
				a.mu.Lock()
				a.mem = memory.Merge(a.mem, *brief, time.Now())
				a.mu.Unlock()
			}

			zap.L().Info("brief analyzed",
				zap.String("brief", filepath.Base(path)),
				zap.String("mode", string(result.Mode)),
				zap.Int("confidence", result.Confidence),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if analyzeUpdateMemory {
		if err := memory.Save(a.memoryPath, a.mem); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzeRunner) analyzeOne(ctx context.Context, brief *model.Brief, mem model.DomainMemory) (*model.AnalysisResult, error) {
	result, err := a.engine.Analyze(*brief, mem)
	if err != nil {
		a.store.record(ctx, &model.AnalysisRun{
			Mode:         brief.Mode,
			BusinessGoal: brief.BusinessGoal,
			Category:     brief.Scope.CategoryOrProduct,
			Status:       model.RunStatusFailed,
			Error:        err.Error(),
		})
		return nil, err
	}

	status := model.RunStatusComplete
	if result.ClarificationNeeded {
		status = model.RunStatusClarification
	}
	a.store.record(ctx, &model.AnalysisRun{
		Mode:              string(result.Mode),
		BusinessGoal:      string(result.BusinessGoal),
		Category:          brief.Scope.CategoryOrProduct,
		Status:            status,
		Report:            result.Report,
		Confidence:        result.Confidence,
		CompletenessScore: result.CompletenessScore,
		CompletenessLabel: result.CompletenessLabel,
		RiskFlags:         result.RiskFlags,
	})
	return result, nil
}

// loadBrief reads a JSON or YAML research brief and checks the fields the
// engine cannot default. An absent business goal is allowed so the engine
// can ask for clarification.
func loadBrief(path string) (*model.Brief, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "analyze: read brief %s", path)
	}

	var brief model.Brief
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &brief)
	default:
		err = json.Unmarshal(data, &brief)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "analyze: parse brief %s", path)
	}

	var missing []string
	if strings.TrimSpace(brief.Mode) == "" {
		missing = append(missing, "mode")
	}
	if len(brief.DataSources) == 0 {
		missing = append(missing, "data_sources")
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("analyze: missing required brief fields: %s", strings.Join(missing, ", "))
	}
	return &brief, nil
}

func listBriefs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "analyze: read briefs dir %s", dir)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func writeReport(path, report string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "analyze: create output dir for %s", path)
	}
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return eris.Wrapf(err, "analyze: write report %s", path)
	}
	return nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeBriefPath, "brief", "", "path to a JSON or YAML research brief")
	analyzeCmd.Flags().StringVar(&analyzeBriefsDir, "briefs-dir", "", "directory of briefs to analyze concurrently")
	analyzeCmd.Flags().StringVar(&analyzeOutputPath, "output", "", "report output path (directory in batch mode)")
	analyzeCmd.Flags().StringVar(&analyzeMemoryPath, "memory", "", "domain memory path (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeSourceDir, "source-dir", "", "base directory for source paths (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeUpdateMemory, "update-memory", false, "merge brief facts into domain memory after analysis")
	rootCmd.AddCommand(analyzeCmd)
}

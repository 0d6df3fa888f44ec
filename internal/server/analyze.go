package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/insightforge/insightforge/internal/memory"
	"github.com/insightforge/insightforge/internal/model"
)

// AnalyzeRequest wraps a research brief with per-request overrides. The
// brief is kept raw so loose client shapes can be normalized before
// decoding.
type AnalyzeRequest struct {
	Brief        json.RawMessage `json:"brief"`
	UpdateMemory bool            `json:"update_memory"`
	MemoryPath   string          `json:"memory_path,omitempty"`
	OutputPath   string          `json:"output_path,omitempty"`
}

type AnalyzeResponse struct {
	Status            string   `json:"status"`
	RunID             string   `json:"run_id,omitempty"`
	Mode              string   `json:"mode"`
	BusinessGoal      string   `json:"business_goal"`
	Report            string   `json:"report"`
	MemoryUpdated     bool     `json:"memory_updated"`
	OutputPath        string   `json:"output_path,omitempty"`
	Confidence        int      `json:"confidence"`
	CompletenessScore int      `json:"completeness_score"`
	CompletenessLabel string   `json:"completeness_label"`
	Risks             []string `json:"risks"`
	Recommendations   []string `json:"recommendations"`
	Questions         []string `json:"questions,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Brief) == 0 {
		writeError(w, http.StatusBadRequest, "brief is required")
		return
	}

	brief, err := decodeBrief(req.Brief)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	memoryPath := req.MemoryPath
	if memoryPath == "" {
		memoryPath = s.cfg.Memory.Path
	}
	mem, err := memory.Load(memoryPath)
	if err != nil {
		zap.L().Error("load memory", zap.String("path", memoryPath), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load domain memory")
		return
	}

	result, err := s.engine.Analyze(*brief, mem)
	if err != nil {
		s.recordRun(r, &model.AnalysisRun{
			Mode:         brief.Mode,
			BusinessGoal: brief.BusinessGoal,
			Category:     brief.Scope.CategoryOrProduct,
			Status:       model.RunStatusFailed,
			Error:        err.Error(),
		})
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := model.RunStatusComplete
	if result.ClarificationNeeded {
		status = model.RunStatusClarification
	}
	run := &model.AnalysisRun{
		Mode:              string(result.Mode),
		BusinessGoal:      string(result.BusinessGoal),
		Category:          brief.Scope.CategoryOrProduct,
		Status:            status,
		Report:            result.Report,
		Confidence:        result.Confidence,
		CompletenessScore: result.CompletenessScore,
		CompletenessLabel: result.CompletenessLabel,
		RiskFlags:         result.RiskFlags,
	}
	s.recordRun(r, run)

	resp := AnalyzeResponse{
		Status:            string(status),
		RunID:             run.ID,
		Mode:              string(result.Mode),
		BusinessGoal:      string(result.BusinessGoal),
		Report:            result.Report,
		Confidence:        result.Confidence,
		CompletenessScore: result.CompletenessScore,
		CompletenessLabel: result.CompletenessLabel,
		Risks:             result.RiskFlags,
		Recommendations:   result.Recommendations,
		Questions:         result.Questions,
	}

	if req.OutputPath != "" && !result.ClarificationNeeded {
		if err := writeReport(req.OutputPath, result.Report); err != nil {
			zap.L().Error("write report", zap.String("path", req.OutputPath), zap.Error(err))
		} else {
			resp.OutputPath = req.OutputPath
		}
	}

	if req.UpdateMemory && !result.ClarificationNeeded {
		updated := memory.Merge(mem, *brief, timeNow())
		if err := memory.Save(memoryPath, updated); err != nil {
			zap.L().Error("save memory", zap.String("path", memoryPath), zap.Error(err))
		} else {
			resp.MemoryUpdated = true
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) recordRun(r *http.Request, run *model.AnalysisRun) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveRun(r.Context(), run); err != nil {
		zap.L().Error("save run", zap.Error(err))
	}
}

func writeReport(path, report string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(report), 0o644)
}

// Package memory handles the durable preference document: the pure
// append-only merge used by the engine's callers, and the file
// persistence the engine itself never performs.
package memory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/insightforge/insightforge/internal/model"
)

// Merge folds the brief's preferences into mem: KPI priorities, target
// marketplaces, the category of interest, and the analysis theme are
// appended when not already present (exact-string match). Prior entries
// are never removed or reordered. last_updated is stamped from now.
func Merge(mem model.DomainMemory, brief model.Brief, now time.Time) model.DomainMemory {
	updated := mem
	updated.PreferredKPIs = appendNovel(cloneList(mem.PreferredKPIs), brief.KPIPriority...)
	updated.TargetMarketplaces = appendNovel(cloneList(mem.TargetMarketplaces), brief.Scope.Marketplaces...)
	updated.ProductCategories = appendNovel(cloneList(mem.ProductCategories), brief.Scope.CategoryOrProduct)
	updated.PastAnalysisThemes = appendNovel(cloneList(mem.PastAnalysisThemes), brief.AnalysisTheme)
	updated.LastUpdated = now.Format("2006-01-02")
	return updated
}

func cloneList(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}

func appendNovel(list []string, items ...string) []string {
	for _, item := range items {
		if item == "" {
			continue
		}
		exists := false
		for _, have := range list {
			if have == item {
				exists = true
				break
			}
		}
		if !exists {
			list = append(list, item)
		}
	}
	return list
}

// Load reads the memory document from path. An absent file yields an
// empty document, not an error.
func Load(path string) (model.DomainMemory, error) {
	var mem model.DomainMemory
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return mem, nil
		}
		return mem, eris.Wrapf(err, "memory: read %s", path)
	}
	if err := json.Unmarshal(data, &mem); err != nil {
		return model.DomainMemory{}, eris.Wrapf(err, "memory: parse %s", path)
	}
	return mem, nil
}

// Save writes the memory document to path, creating parent directories.
// Keys are emitted in struct order for stable diffs.
func Save(path string, mem model.DomainMemory) error {
	data, err := json.MarshalIndent(mem, "", "  ")
	if err != nil {
		return eris.Wrap(err, "memory: marshal")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "memory: create dir for %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "memory: write %s", path)
	}
	return nil
}

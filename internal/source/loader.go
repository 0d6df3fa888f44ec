// Package source resolves data-source descriptors into normalized payloads.
// Structured (JSON) and tabular (CSV) files are supported; every category
// goes through the same code path.
package source

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/insightforge/insightforge/internal/model"
)

// Load resolves one category's descriptor into a SourcePayload. A nil
// descriptor yields an empty payload with provenance "none". Path
// descriptors resolve against rootDir when relative; a missing file or an
// unsupported extension aborts the run so downstream metrics never work
// from silently partial sources.
func Load(name string, desc *model.SourceDescriptor, rootDir string) (*model.SourcePayload, error) {
	if desc == nil {
		return &model.SourcePayload{Name: name, Provenance: model.ProvenanceNone}, nil
	}

	if desc.Path != "" {
		path := desc.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(rootDir, path)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, eris.Errorf("source: data source path not found for %s: %s", name, path)
		}

		var (
			records []model.Record
			err     error
		)
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".json":
			records, err = readJSON(path)
		case ".csv":
			records, err = readCSV(path)
		default:
			return nil, eris.Errorf("source: unsupported file format for %s: %s", name, ext)
		}
		if err != nil {
			return nil, eris.Wrapf(err, "source: load %s", name)
		}
		return &model.SourcePayload{Name: name, Records: records, Provenance: path}, nil
	}

	return &model.SourcePayload{Name: name, Records: desc.Records, Provenance: model.ProvenanceInline}, nil
}

// readJSON parses a structured file. A top-level array becomes the record
// list; any other top-level value is wrapped into a one-element list.
func readJSON(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read file")
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, eris.Wrap(err, "parse json")
	}

	switch val := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return listToRecords(val), nil
	case map[string]any:
		return []model.Record{model.Record(val)}, nil
	default:
		return []model.Record{{"value": val}}, nil
	}
}

func listToRecords(items []any) []model.Record {
	records := make([]model.Record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			records = append(records, model.Record(m))
			continue
		}
		records = append(records, model.Record{"value": item})
	}
	return records
}

// readCSV parses a tabular file row-by-row into key→value records using
// the header row as keys. Short rows drop the trailing keys; extra cells
// are ignored.
func readCSV(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "read csv header")
	}

	var records []model.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "read csv row")
		}

		rec := make(model.Record, len(header))
		for i, key := range header {
			if i < len(row) {
				rec[key] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

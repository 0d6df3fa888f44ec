package prompt

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/insightforge/insightforge/internal/model"
)

var requiredTopLevel = []string{"mode", "business_goal", "scope", "data_available"}

var requiredScopeKeys = []string{"marketplaces", "category_or_product", "region", "timeframe"}

// LoadRequest reads a JSON or YAML prompt request. An absent top-level
// required field is a hard error; absent scope or availability subkeys
// are returned so Build can ask for them in the clarification section.
func LoadRequest(path string) (*Request, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "prompt: read request %s", path)
	}

	yamlExt := false
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		yamlExt = true
	}

	var raw map[string]any
	if yamlExt {
		err = yaml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, nil, eris.Wrapf(err, "prompt: parse request %s", path)
	}

	missing := missingFields(raw)
	var hard []string
	for _, field := range missing {
		if !strings.Contains(field, ".") {
			hard = append(hard, field)
		}
	}
	if len(hard) > 0 {
		return nil, nil, eris.Errorf("prompt: missing required request fields: %s", strings.Join(hard, ", "))
	}

	var req Request
	if yamlExt {
		err = yaml.Unmarshal(data, &req)
	} else {
		err = json.Unmarshal(data, &req)
	}
	if err != nil {
		return nil, nil, eris.Wrapf(err, "prompt: parse request %s", path)
	}
	return &req, missing, nil
}

// missingFields lists absent required keys. Subkeys are dotted; a key
// present with a zero value is not missing.
func missingFields(raw map[string]any) []string {
	var missing []string
	for _, field := range requiredTopLevel {
		if _, ok := raw[field]; !ok {
			missing = append(missing, field)
		}
	}
	if scope, ok := raw["scope"].(map[string]any); ok {
		for _, key := range requiredScopeKeys {
			if _, ok := scope[key]; !ok {
				missing = append(missing, "scope."+key)
			}
		}
	}
	if avail, ok := raw["data_available"].(map[string]any); ok {
		for _, key := range model.ExpectedSources {
			if _, ok := avail[key]; !ok {
				missing = append(missing, "data_available."+key)
			}
		}
	}
	return missing
}

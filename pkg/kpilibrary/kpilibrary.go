// Package kpilibrary loads the KPI reference library from its JSON
// configuration file and validates it before the valuation workers use it.
package kpilibrary

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/valuation"

	"github.com/xeipuuv/gojsonschema"
)

// librarySchema is the structural contract for kpi-library.json. Semantic
// checks (duplicate IDs, dangling benchmark references) run afterwards.
var librarySchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"kpis"},
	"properties": map[string]interface{}{
		"kpis": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"id", "name", "unit", "applicableProcesses", "maturityRules"},
				"properties": map[string]interface{}{
					"id":   map[string]interface{}{"type": "string", "minLength": 1},
					"name": map[string]interface{}{"type": "string", "minLength": 1},
					"unit": map[string]interface{}{"type": "string", "minLength": 1},
					"direction": map[string]interface{}{
						"type": "string",
						"enum": []interface{}{"increase", "decrease"},
					},
					"applicableProcesses": map[string]interface{}{
						"type":     "array",
						"minItems": 1,
						"items":    map[string]interface{}{"type": "string", "minLength": 1},
					},
					"maturityRules": map[string]interface{}{
						"type":     "array",
						"minItems": 1,
						"items": map[string]interface{}{
							"type":     "object",
							"required": []interface{}{"level", "range", "confidence"},
							"properties": map[string]interface{}{
								"level": map[string]interface{}{
									"type": "string",
									"enum": []interface{}{"advanced", "developing", "foundational"},
								},
								"confidence": map[string]interface{}{
									"type": "string",
									"enum": []interface{}{"high", "medium", "low"},
								},
								"range": map[string]interface{}{
									"type":     "object",
									"required": []interface{}{"min", "max"},
									"properties": map[string]interface{}{
										"min": map[string]interface{}{"type": "number"},
										"max": map[string]interface{}{"type": "number"},
									},
								},
								"conditions": map[string]interface{}{"type": "object"},
							},
						},
					},
				},
			},
		},
		"benchmarks": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"kpiId", "process", "baselineValue", "baselineUnit", "improvementRange"},
				"properties": map[string]interface{}{
					"kpiId":         map[string]interface{}{"type": "string", "minLength": 1},
					"process":       map[string]interface{}{"type": "string", "minLength": 1},
					"baselineValue": map[string]interface{}{"type": "number", "minimum": 0},
					"baselineUnit":  map[string]interface{}{"type": "string", "minLength": 1},
				},
			},
		},
	},
}

// Load reads, validates and decodes the KPI library at path.
func Load(path string) (*valuation.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read KPI library %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates and decodes raw KPI library JSON.
func Parse(data []byte) (*valuation.Library, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewKpiLibraryInvalidError(fmt.Sprintf("not valid JSON: %s", err.Error()))
	}

	schemaLoader := gojsonschema.NewGoLoader(librarySchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			errs[i] = e.String()
		}
		return nil, errors.NewKpiLibraryInvalidError(strings.Join(errs, "; "))
	}

	var lib valuation.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, errors.NewKpiLibraryInvalidError(err.Error())
	}

	if err := checkSemantics(&lib); err != nil {
		return nil, err
	}
	return &lib, nil
}

// checkSemantics enforces constraints the JSON schema cannot express.
func checkSemantics(lib *valuation.Library) error {
	ids := make(map[string]bool, len(lib.Kpis))
	for _, kpi := range lib.Kpis {
		if ids[kpi.ID] {
			return errors.NewKpiLibraryInvalidError(fmt.Sprintf("duplicate KPI id %q", kpi.ID))
		}
		ids[kpi.ID] = true

		for _, rule := range kpi.MaturityRules {
			if rule.Range.Min > rule.Range.Max {
				return errors.NewKpiLibraryInvalidError(
					fmt.Sprintf("KPI %q: rule range min %.2f exceeds max %.2f", kpi.ID, rule.Range.Min, rule.Range.Max))
			}
		}
	}

	for _, b := range lib.Benchmarks {
		if !ids[b.KpiID] {
			return errors.NewKpiLibraryInvalidError(
				fmt.Sprintf("benchmark references unknown KPI id %q", b.KpiID))
		}
		if b.ImprovementRange.Min > b.ImprovementRange.Max {
			return errors.NewKpiLibraryInvalidError(
				fmt.Sprintf("benchmark for KPI %q: improvement range min exceeds max", b.KpiID))
		}
		for level, r := range b.TierRanges {
			if r.Min > r.Max {
				return errors.NewKpiLibraryInvalidError(
					fmt.Sprintf("benchmark for KPI %q: %s tier range min exceeds max", b.KpiID, level))
			}
		}
	}

	return nil
}

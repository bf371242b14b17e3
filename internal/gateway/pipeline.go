// Package gateway loads the serialized scoring pipeline and answers score
// requests against it. The pipeline is treated as a black box: callers hand
// over a feature row and get class probabilities back.
package gateway

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/xeipuuv/gojsonschema"
)

// ModelInfo identifies the fitted model carried by an artifact.
type ModelInfo struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	TrainedAt     string   `json:"trained_at"`
	Classes       []string `json:"classes"`
	PositiveClass string   `json:"positive_class"`
}

// NumericFeature holds the standardization parameters and fitted weight of
// one numeric column.
type NumericFeature struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Weight float64 `json:"weight"`
}

// CategoricalFeature maps each training level of a column to its fitted
// weight. Levels absent from the map were never seen in training.
type CategoricalFeature struct {
	Levels map[string]float64 `json:"levels"`
}

// ImportanceEntry is one row of the artifact's optional importance table.
type ImportanceEntry struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// Manifest is the on-disk artifact layout: a logistic model exported with
// its preprocessing constants, class labels, and an optional JSON Schema
// for the expected feature row.
type Manifest struct {
	SchemaVersion int                           `json:"schema_version"`
	Model         ModelInfo                     `json:"model"`
	Intercept     float64                       `json:"intercept"`
	Numeric       map[string]NumericFeature     `json:"numeric_features"`
	Categorical   map[string]CategoricalFeature `json:"categorical_features"`
	Importance    []ImportanceEntry             `json:"feature_importance,omitempty"`
	InputSchema   map[string]interface{}        `json:"input_schema,omitempty"`
}

// Pipeline is a parsed, validated artifact ready for inference.
type Pipeline struct {
	manifest      Manifest
	inputSchema   *gojsonschema.Schema
	positiveIndex int
}

// NewPipeline parses raw artifact bytes and checks the invariants inference
// relies on.
func NewPipeline(raw []byte) (*Pipeline, error) {
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}

	if len(m.Model.Classes) != 2 {
		return nil, fmt.Errorf("artifact must declare exactly 2 classes, got %d", len(m.Model.Classes))
	}

	positiveIndex := -1
	for i, class := range m.Model.Classes {
		if class == m.Model.PositiveClass {
			positiveIndex = i
		}
	}
	if positiveIndex < 0 {
		return nil, fmt.Errorf("positive class %q not among classes %v", m.Model.PositiveClass, m.Model.Classes)
	}

	if len(m.Numeric) == 0 && len(m.Categorical) == 0 {
		return nil, fmt.Errorf("artifact declares no features")
	}
	for name, nf := range m.Numeric {
		if nf.Std <= 0 {
			return nil, fmt.Errorf("numeric feature %s has non-positive std %v", name, nf.Std)
		}
	}
	for name, cf := range m.Categorical {
		if len(cf.Levels) == 0 {
			return nil, fmt.Errorf("categorical feature %s has no levels", name)
		}
	}

	p := &Pipeline{manifest: m, positiveIndex: positiveIndex}

	if len(m.InputSchema) > 0 {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(m.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema: %w", err)
		}
		p.inputSchema = schema
	}

	return p, nil
}

// Model returns the artifact's model identity block.
func (p *Pipeline) Model() ModelInfo {
	return p.manifest.Model
}

// Importance returns the artifact's importance table, nil when absent.
func (p *Pipeline) Importance() []ImportanceEntry {
	return p.manifest.Importance
}

// PositiveIndex returns the position of the positive class in the
// probability vector.
func (p *Pipeline) PositiveIndex() int {
	return p.positiveIndex
}

// PredictProba scores one feature row and returns the class probability
// vector, ordered like Model().Classes.
func (p *Pipeline) PredictProba(features map[string]interface{}) ([]float64, error) {
	if p.inputSchema != nil {
		if err := p.validateInput(features); err != nil {
			return nil, err
		}
	}

	z := p.manifest.Intercept

	for name, nf := range p.manifest.Numeric {
		val, err := numericValue(features, name)
		if err != nil {
			return nil, err
		}
		z += nf.Weight * (val - nf.Mean) / nf.Std
	}

	for name, cf := range p.manifest.Categorical {
		raw, ok := features[name]
		if !ok {
			return nil, fmt.Errorf("missing feature %s", name)
		}
		level, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("feature %s: expected string, got %T", name, raw)
		}
		weight, ok := cf.Levels[level]
		if !ok {
			return nil, fmt.Errorf("feature %s: unseen level %q", name, level)
		}
		z += weight
	}

	positive := 1.0 / (1.0 + math.Exp(-z))

	probs := make([]float64, 2)
	probs[p.positiveIndex] = positive
	probs[1-p.positiveIndex] = 1 - positive
	return probs, nil
}

func (p *Pipeline) validateInput(features map[string]interface{}) error {
	result, err := p.inputSchema.Validate(gojsonschema.NewGoLoader(features))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("feature row failed pipeline schema: %v", errs)
	}
	return nil
}

func numericValue(features map[string]interface{}, name string) (float64, error) {
	raw, ok := features[name]
	if !ok {
		return 0, fmt.Errorf("missing feature %s", name)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("feature %s: expected number, got %T", name, raw)
	}
}

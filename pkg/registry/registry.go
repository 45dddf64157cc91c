// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Find returns the activity for taskType, or nil.
func (r *ActivityRegistry) Find(taskType string) *Activity {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i]
		}
	}
	return nil
}

// Validate checks that task types are unique and every entry is usable by a
// modeler: a task type, a parseable timeout and compilable input/output schemas.
func (r *ActivityRegistry) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if a.TaskType == "" {
			errs = append(errs, fmt.Errorf("activity %q: taskType is required", a.ID))
			continue
		}
		if seen[a.TaskType] {
			errs = append(errs, fmt.Errorf("activity %q: duplicate taskType %s", a.ID, a.TaskType))
		}
		seen[a.TaskType] = true

		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				errs = append(errs, fmt.Errorf("activity %q: invalid timeout: %w", a.ID, err))
			}
		}
		if a.Retries < 0 {
			errs = append(errs, fmt.Errorf("activity %q: retries must not be negative", a.ID))
		}
		for name, schema := range map[string]map[string]interface{}{"inputSchema": a.InputSchema, "outputSchema": a.OutputSchema} {
			if schema == nil {
				continue
			}
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
				errs = append(errs, fmt.Errorf("activity %q: invalid %s: %w", a.ID, name, err))
			}
		}
	}
	return stderrors.Join(errs...)
}

// ValidateInput checks variables against the activity's input schema.
func (a *Activity) ValidateInput(variables map[string]interface{}) error {
	if a.InputSchema == nil {
		return nil
	}
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(a.InputSchema), gojsonschema.NewGoLoader(variables))
	if err != nil {
		return fmt.Errorf("failed to validate input: %w", err)
	}
	if !result.Valid() {
		msg := ""
		for i, e := range result.Errors() {
			if i > 0 {
				msg += "; "
			}
			msg += e.String()
		}
		return fmt.Errorf("invalid %s input: %s", a.TaskType, msg)
	}
	return nil
}

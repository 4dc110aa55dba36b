// internal/workers/interpretation/calculate-interpretation-price/config.go
package calculateinterpretationprice

import (
	"fmt"
	"time"

	"interpretation-workers/internal/common/validation"
	"interpretation-workers/pkg/registry"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	Timeout     time.Duration
	InputSchema *validation.Schema
}

// LoadConfig takes the job timeout and input schema from the activity
// registry entry for TaskType.
func LoadConfig(reg *registry.ActivityRegistry) (*Config, error) {
	activity, ok := reg.Find(TaskType)
	if !ok {
		return nil, fmt.Errorf("activity %s not found in registry", TaskType)
	}

	schema, err := validation.Compile(activity.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("activity %s: %w", TaskType, err)
	}

	return &Config{
		Timeout:     activity.TimeoutDuration(defaultTimeout),
		InputSchema: schema,
	}, nil
}

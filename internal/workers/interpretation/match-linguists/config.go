// internal/workers/interpretation/match-linguists/config.go
package matchlinguists

import (
	"fmt"
	"time"

	"interpretation-workers/internal/common/config"
	"interpretation-workers/internal/common/validation"
	"interpretation-workers/pkg/registry"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	Timeout     time.Duration
	InputSchema *validation.Schema

	// DefaultMaxDistance applies when the job omits maxDistance (miles).
	DefaultMaxDistance float64

	// SearchIndex is set when linguists come from Elasticsearch; failures
	// are then reported as search errors against this index.
	SearchIndex string
}

func LoadConfig(reg *registry.ActivityRegistry, matching config.MatchingConfig) (*Config, error) {
	activity, ok := reg.Find(TaskType)
	if !ok {
		return nil, fmt.Errorf("activity %s not found in registry", TaskType)
	}

	schema, err := validation.Compile(activity.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("activity %s: %w", TaskType, err)
	}

	cfg := &Config{
		Timeout:            activity.TimeoutDuration(defaultTimeout),
		InputSchema:        schema,
		DefaultMaxDistance: matching.DefaultMaxDistance,
	}
	if matching.LinguistSource == config.LinguistSourceElasticsearch {
		cfg.SearchIndex = matching.LinguistIndex
	}
	return cfg, nil
}

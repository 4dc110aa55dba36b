package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: interpretation
    user: ${TEST_DB_USER}
  redis:
    address: localhost:6379
workers:
  calculate-interpretation-price:
    enabled: true
  match-linguists:
    enabled: false
    max_jobs_active: 2
`

func TestLoadFromFile_DefaultsAndExpansion(t *testing.T) {
	t.Setenv("TEST_DB_USER", "quotes")

	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "quotes", cfg.Database.Postgres.User)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, LinguistSourcePostgres, cfg.Matching.LinguistSource)
	assert.Equal(t, "linguists", cfg.Matching.LinguistIndex)
	assert.Equal(t, 50.0, cfg.Matching.DefaultMaxDistance)
	assert.Equal(t, 5*time.Minute, cfg.Pricing.RateCacheTTL())
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "json", cfg.Logging.Format)

	price := GetWorkerConfig(cfg, "calculate-interpretation-price")
	assert.True(t, price.Enabled)
	assert.Equal(t, 5, price.MaxJobsActive)
	assert.Equal(t, 30*time.Second, GetDuration(price.Timeout))

	assert.False(t, IsWorkerEnabled(cfg, "match-linguists"))
	assert.Equal(t, 2, cfg.Workers["match-linguists"].MaxJobsActive)
	assert.True(t, IsWorkerEnabled(cfg, "unknown-worker"))
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "broker required",
			body:    "database:\n  postgres:\n    host: h\n    database: d\n    user: u\n",
			wantErr: "camunda.broker_address",
		},
		{
			name: "elasticsearch source needs addresses",
			body: `
camunda: {broker_address: "b:26500"}
database:
  postgres: {host: h, database: d, user: u}
  redis: {address: "r:6379"}
matching: {linguist_source: elasticsearch}
`,
			wantErr: "database.elasticsearch.addresses",
		},
		{
			name: "unknown linguist source",
			body: `
camunda: {broker_address: "b:26500"}
database:
  postgres: {host: h, database: d, user: u}
  redis: {address: "r:6379"}
matching: {linguist_source: mongo}
`,
			wantErr: "matching.linguist_source",
		},
		{
			name: "redis required while cache enabled",
			body: `
camunda: {broker_address: "b:26500"}
database:
  postgres: {host: h, database: d, user: u}
`,
			wantErr: "database.redis.address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_CacheDisabledWithoutRedis(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `
camunda: {broker_address: "b:26500"}
database:
  postgres: {host: h, database: d, user: u}
  elasticsearch: {addresses: ["http://es:9200"]}
pricing: {disable_rate_cache: true}
matching: {linguist_source: elasticsearch, default_max_distance: 75}
`))
	require.NoError(t, err)
	assert.True(t, cfg.Pricing.DisableRateCache)
	assert.Equal(t, 75.0, cfg.Matching.DefaultMaxDistance)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "q", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=q sslmode=require", p.GetDSN())
}

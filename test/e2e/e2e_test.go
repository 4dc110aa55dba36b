// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interpretation-workers/internal/common/config"
	"interpretation-workers/internal/common/database"
	"interpretation-workers/internal/common/logger"
	"interpretation-workers/internal/geo"
	"interpretation-workers/internal/matching"
	"interpretation-workers/internal/models"
	"interpretation-workers/internal/pricing"
	"interpretation-workers/internal/scheduling"
	"interpretation-workers/pkg/registry"

	cip "interpretation-workers/internal/workers/interpretation/calculate-interpretation-price"
	ml "interpretation-workers/internal/workers/interpretation/match-linguists"
)

// These tests run against the docker-compose stack. Set E2E=1 to enable.
func skipUnlessE2E(t *testing.T) *config.Config {
	t.Helper()
	if os.Getenv("E2E") == "" {
		t.Skip("set E2E=1 to run against live services")
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

const schema = `
CREATE TABLE IF NOT EXISTS languages (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pricing_rules (
	id                  BIGSERIAL PRIMARY KEY,
	source_language_id  TEXT NOT NULL REFERENCES languages(id),
	target_language_id  TEXT NOT NULL REFERENCES languages(id),
	service_type        TEXT NOT NULL,
	interpretation_mode TEXT,
	state               TEXT,
	per_hour_rate       NUMERIC(10,2) NOT NULL,
	travel_fee          NUMERIC(10,2),
	priority            INT NOT NULL DEFAULT 0,
	is_active           BOOLEAN NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS linguists (
	id                     TEXT PRIMARY KEY,
	first_name             TEXT NOT NULL,
	last_name              TEXT NOT NULL,
	email                  TEXT NOT NULL,
	phone                  TEXT,
	city                   TEXT NOT NULL DEFAULT '',
	state                  TEXT NOT NULL DEFAULT '',
	latitude               DOUBLE PRECISION,
	longitude              DOUBLE PRECISION,
	hourly_rate            NUMERIC(10,2) NOT NULL,
	available_for_on_site  BOOLEAN NOT NULL DEFAULT false,
	max_travel_distance    DOUBLE PRECISION,
	is_active              BOOLEAN NOT NULL DEFAULT true,
	is_verified            BOOLEAN NOT NULL DEFAULT false,
	average_rating         DOUBLE PRECISION,
	total_quotes_completed INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS linguist_languages (
	linguist_id TEXT NOT NULL REFERENCES linguists(id),
	language_id TEXT NOT NULL REFERENCES languages(id),
	proficiency TEXT NOT NULL,
	PRIMARY KEY (linguist_id, language_id)
);`

const fixtures = `
INSERT INTO languages (id, name) VALUES ('e2e-en', 'English'), ('e2e-es', 'Spanish')
ON CONFLICT (id) DO NOTHING;

DELETE FROM pricing_rules WHERE source_language_id = 'e2e-en';
INSERT INTO pricing_rules (source_language_id, target_language_id, service_type, interpretation_mode, state, per_hour_rate, travel_fee, priority)
VALUES
	('e2e-en', 'e2e-es', 'INTERPRETATION', 'ON_SITE', NULL, 100.00, 40.00, 10),
	('e2e-en', 'e2e-es', 'INTERPRETATION', 'ON_SITE', 'CA', 110.00, NULL, 0);

DELETE FROM linguist_languages WHERE linguist_id LIKE 'e2e-%';
DELETE FROM linguists WHERE id LIKE 'e2e-%';
INSERT INTO linguists (id, first_name, last_name, email, city, state, latitude, longitude, hourly_rate,
	available_for_on_site, max_travel_distance, is_verified, average_rating)
VALUES
	('e2e-1', 'Maria', 'Lopez', 'maria@example.com', 'Los Angeles', 'CA', 34.05, -118.24, 65, true, 30, true, 4.8),
	('e2e-2', 'Ana', 'Ruiz', 'ana@example.com', 'San Diego', 'CA', 32.72, -117.16, 60, true, NULL, true, 5.0);
INSERT INTO linguist_languages (linguist_id, language_id, proficiency)
VALUES ('e2e-1', 'e2e-en', 'NATIVE'), ('e2e-1', 'e2e-es', 'FLUENT'), ('e2e-2', 'e2e-en', 'NATIVE');`

func setupDatabase(t *testing.T, cfg *config.Config) *sql.DB {
	t.Helper()
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	t.Cleanup(func() { pg.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, pg.Ping(ctx), "postgres ping failed")

	_, err = pg.DB.ExecContext(ctx, schema)
	require.NoError(t, err)
	_, err = pg.DB.ExecContext(ctx, fixtures)
	require.NoError(t, err)
	return pg.DB
}

func TestZeebeTopology(t *testing.T) {
	cfg := skipUnlessE2E(t)

	client, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: cfg.Camunda.Plaintext,
	})
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = client.NewTopologyCommand().Send(ctx)
	assert.NoError(t, err)
}

func TestPricingAgainstPostgres(t *testing.T) {
	cfg := skipUnlessE2E(t)
	db := setupDatabase(t, cfg)
	log := logger.NewTestLogger(t)

	engine := pricing.NewEngine(
		scheduling.NewCalculator(scheduling.WithLogger(log)),
		pricing.NewRateResolver(pricing.NewPostgresRateRepository(db), log),
		log,
	)
	hcfg, err := cip.LoadConfig(registry.Builtin())
	require.NoError(t, err)
	handler := cip.NewHandler(hcfg, engine, nil, log)

	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	state := "CA"
	out, err := handler.Execute(context.Background(), &cip.Input{
		SourceLanguageID:      "e2e-en",
		TargetLanguageID:      "e2e-es",
		InterpretationSetting: "in-person",
		State:                 &state,
		DateTimeEntries: []models.AppointmentWindow{
			{Date: date, StartTime: "09:00", EndTime: "13:00"},
		},
	})
	require.NoError(t, err)

	// the CA rule wins over the higher-priority base rule and falls back to
	// the default travel fee
	assert.Equal(t, string(pricing.SourceStateRule), out.RateSource)
	assert.Equal(t, 110.0, out.HourlyRate)
	assert.Equal(t, 50.0, out.TravelFee)
	assert.Equal(t, 490.0, out.Total)
}

func TestMatchingAgainstPostgres(t *testing.T) {
	cfg := skipUnlessE2E(t)
	db := setupDatabase(t, cfg)
	log := logger.NewTestLogger(t)

	matcher := matching.NewMatcher(matching.NewPostgresLinguistRepository(db), geo.NewResolver(), log)
	hcfg, err := ml.LoadConfig(registry.Builtin(), cfg.Matching)
	require.NoError(t, err)
	handler := ml.NewHandler(hcfg, matcher, nil, log)

	source, state := "e2e-en", "CA"
	lat, lng := 34.0522, -118.2437
	out, err := handler.Execute(context.Background(), &ml.Input{
		InterpretationSetting: "in-person",
		SourceLanguageID:      &source,
		State:                 &state,
		Latitude:              &lat,
		Longitude:             &lng,
	})
	require.NoError(t, err)

	var ids []string
	for _, l := range out.Linguists {
		ids = append(ids, l.ID)
	}
	assert.Contains(t, ids, "e2e-1")
	assert.NotContains(t, ids, "e2e-2")
}

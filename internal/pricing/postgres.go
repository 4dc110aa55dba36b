package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"interpretation-workers/internal/models"
)

const selectPricingRule = `
SELECT id, source_language_id, target_language_id, service_type,
       interpretation_mode, state, per_hour_rate, travel_fee, priority, is_active
FROM pricing_rules
WHERE source_language_id = $1
  AND target_language_id = $2
  AND service_type = $3
  AND is_active = true`

// PostgresRateRepository reads pricing_rules through database/sql.
type PostgresRateRepository struct {
	db *sql.DB
}

func NewPostgresRateRepository(db *sql.DB) *PostgresRateRepository {
	return &PostgresRateRepository{db: db}
}

func (r *PostgresRateRepository) FindPricingRule(ctx context.Context, q RuleQuery) (*models.PricingRule, error) {
	query, args := buildRuleQuery(q)

	var (
		rule      models.PricingRule
		state     sql.NullString
		travelFee decimal.NullDecimal
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&rule.ID,
		&rule.SourceLanguageID,
		&rule.TargetLanguageID,
		&rule.ServiceType,
		&rule.Mode,
		&state,
		&rule.PerHourRate,
		&travelFee,
		&rule.Priority,
		&rule.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query pricing_rules: %w", err)
	}

	if state.Valid {
		rule.State = &state.String
	}
	if travelFee.Valid {
		rule.TravelFee = &travelFee.Decimal
	}
	return &rule, nil
}

func buildRuleQuery(q RuleQuery) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(selectPricingRule)
	args := []interface{}{q.SourceLanguageID, q.TargetLanguageID, models.ServiceTypeInterpretation}

	if q.Mode != "" {
		args = append(args, q.Mode)
		fmt.Fprintf(&sb, "\n  AND interpretation_mode = $%d", len(args))
	}

	switch q.StateScope {
	case StateExact:
		args = append(args, q.State)
		fmt.Fprintf(&sb, "\n  AND state = $%d", len(args))
	case StateNull:
		sb.WriteString("\n  AND state IS NULL")
	}

	sb.WriteString("\nORDER BY priority DESC, id ASC\nLIMIT 1")
	return sb.String(), args
}

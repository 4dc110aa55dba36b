package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"interpretation-workers/internal/common/logger"
	"interpretation-workers/internal/models"
)

// StateScope says how a rule query treats the rule's state column.
type StateScope int

const (
	StateExact StateScope = iota // state = $state
	StateNull                    // state IS NULL
	StateAny                     // no state predicate
)

// RuleQuery selects active interpretation rules for a language pair. An
// empty Mode matches every mode.
type RuleQuery struct {
	SourceLanguageID string
	TargetLanguageID string
	Mode             string
	StateScope       StateScope
	State            string
}

// RateRepository returns the highest-priority active rule matching q
// (priority DESC, id ASC), or (nil, nil) when none matches.
type RateRepository interface {
	FindPricingRule(ctx context.Context, q RuleQuery) (*models.PricingRule, error)
}

// RateSource records which fallback tier produced a rate.
type RateSource string

const (
	SourceStateRule RateSource = "state_rule"
	SourceModeBase  RateSource = "mode_base_rule"
	SourceAnyRule   RateSource = "language_pair_rule"
	SourceDefault   RateSource = "default"
)

var (
	defaultHourlyRates = map[models.ServiceMode]decimal.Decimal{
		models.ModeOnSite: decimal.NewFromInt(95),
		models.ModeVideo:  decimal.NewFromInt(75),
		models.ModePhone:  decimal.NewFromInt(65),
	}
	defaultTravelFee = decimal.NewFromInt(50)

	ErrInvalidRule = errors.New("pricing rule has a negative amount")
)

// RateResolutionError means the rate store could not answer. Defaults are
// never substituted for it.
type RateResolutionError struct {
	Tier RateSource
	Err  error
}

func (e *RateResolutionError) Error() string {
	return fmt.Sprintf("resolve rate (%s): %v", e.Tier, e.Err)
}

func (e *RateResolutionError) Unwrap() error { return e.Err }

type Rate struct {
	HourlyRate decimal.Decimal
	TravelFee  decimal.Decimal
	Source     RateSource
	RuleID     *int64
}

type tier struct {
	source RateSource
	query  func(pair models.LanguagePair, mode models.ServiceMode, state string) (RuleQuery, bool)
}

// RateResolver walks the fallback tiers in order and stops at the first
// tier that yields a rule. Priority only orders rules inside one tier.
type RateResolver struct {
	repo   RateRepository
	tiers  []tier
	logger logger.Logger
}

func NewRateResolver(repo RateRepository, log logger.Logger) *RateResolver {
	return &RateResolver{
		repo:   repo,
		logger: log,
		tiers: []tier{
			{source: SourceStateRule, query: stateRuleQuery},
			{source: SourceModeBase, query: modeBaseQuery},
			{source: SourceAnyRule, query: anyRuleQuery},
		},
	}
}

func stateRuleQuery(pair models.LanguagePair, mode models.ServiceMode, state string) (RuleQuery, bool) {
	if !mode.IsOnSite() || state == "" {
		return RuleQuery{}, false
	}
	return RuleQuery{
		SourceLanguageID: pair.SourceLanguageID,
		TargetLanguageID: pair.TargetLanguageID,
		Mode:             mode.RuleMode(),
		StateScope:       StateExact,
		State:            state,
	}, true
}

func modeBaseQuery(pair models.LanguagePair, mode models.ServiceMode, _ string) (RuleQuery, bool) {
	return RuleQuery{
		SourceLanguageID: pair.SourceLanguageID,
		TargetLanguageID: pair.TargetLanguageID,
		Mode:             mode.RuleMode(),
		StateScope:       StateNull,
	}, true
}

func anyRuleQuery(pair models.LanguagePair, _ models.ServiceMode, _ string) (RuleQuery, bool) {
	return RuleQuery{
		SourceLanguageID: pair.SourceLanguageID,
		TargetLanguageID: pair.TargetLanguageID,
		StateScope:       StateAny,
	}, true
}

// Resolve returns the hourly rate and travel fee for a request. Remote modes
// always carry a zero travel fee.
func (r *RateResolver) Resolve(ctx context.Context, pair models.LanguagePair, mode models.ServiceMode, state string) (Rate, error) {
	for _, t := range r.tiers {
		q, applies := t.query(pair, mode, state)
		if !applies {
			continue
		}

		rule, err := r.repo.FindPricingRule(ctx, q)
		if err != nil {
			return Rate{}, &RateResolutionError{Tier: t.source, Err: err}
		}
		if rule == nil {
			continue
		}

		rate, err := rateFromRule(rule, mode, t.source)
		if err != nil {
			return Rate{}, &RateResolutionError{Tier: t.source, Err: err}
		}

		r.logger.Debug("pricing rule selected", map[string]interface{}{
			"ruleId":   rule.ID,
			"source":   string(t.source),
			"priority": rule.Priority,
			"mode":     string(mode),
		})
		return rate, nil
	}

	r.logger.Debug("no pricing rule found, using default rate", map[string]interface{}{
		"sourceLanguageId": pair.SourceLanguageID,
		"targetLanguageId": pair.TargetLanguageID,
		"mode":             string(mode),
		"state":            state,
	})
	return defaultRate(mode), nil
}

func rateFromRule(rule *models.PricingRule, mode models.ServiceMode, source RateSource) (Rate, error) {
	if rule.PerHourRate.IsNegative() || (rule.TravelFee != nil && rule.TravelFee.IsNegative()) {
		return Rate{}, fmt.Errorf("rule %d: %w", rule.ID, ErrInvalidRule)
	}

	travel := decimal.Zero
	if mode.IsOnSite() {
		travel = defaultTravelFee
		if rule.TravelFee != nil {
			travel = *rule.TravelFee
		}
	}

	id := rule.ID
	return Rate{
		HourlyRate: rule.PerHourRate,
		TravelFee:  travel,
		Source:     source,
		RuleID:     &id,
	}, nil
}

func defaultRate(mode models.ServiceMode) Rate {
	travel := decimal.Zero
	if mode.IsOnSite() {
		travel = defaultTravelFee
	}
	return Rate{
		HourlyRate: defaultHourlyRates[mode],
		TravelFee:  travel,
		Source:     SourceDefault,
	}
}

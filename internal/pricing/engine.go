// Package pricing turns an interpretation request into a priced quote.
package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"interpretation-workers/internal/common/logger"
	"interpretation-workers/internal/models"
	"interpretation-workers/internal/scheduling"
)

const (
	OnSiteMinimumHours = 3
	RemoteMinimumHours = 2
)

var rushRate = decimal.RequireFromString("0.35")

// ValidationError is returned for malformed requests before any pricing work.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type Engine struct {
	calc   *scheduling.Calculator
	rates  *RateResolver
	logger logger.Logger
}

func NewEngine(calc *scheduling.Calculator, rates *RateResolver, log logger.Logger) *Engine {
	return &Engine{calc: calc, rates: rates, logger: log}
}

// MinimumHours is the billing floor for a mode.
func MinimumHours(mode models.ServiceMode) int {
	if mode.IsOnSite() {
		return OnSiteMinimumHours
	}
	return RemoteMinimumHours
}

// Price validates every window, then prices the request as a whole. Any
// scheduling, validation or rate error aborts without a partial result.
func (e *Engine) Price(ctx context.Context, req models.PricingRequest) (*models.PricingResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	req.Mode, _ = models.ParseServiceMode(string(req.Mode))

	zone := e.calc.ResolveTimeZone(req.Mode, req.State, req.TimeZone)

	for _, w := range req.Windows {
		if err := e.calc.ValidateAppointmentTime(w.Date, w.StartTime, zone); err != nil {
			return nil, err
		}
	}

	requested := 0
	sameDay := false
	for _, w := range req.Windows {
		requested += e.calc.ComputeHours(w.StartTime, w.EndTime)
		if e.calc.IsSameDay(w.Date, zone) {
			sameDay = true
		}
	}

	minimum := MinimumHours(req.Mode)
	billed := requested
	if billed < minimum {
		billed = minimum
	}

	state := strings.ToUpper(strings.TrimSpace(req.State))
	rate, err := e.rates.Resolve(ctx, req.Pair, req.Mode, state)
	if err != nil {
		return nil, err
	}

	subtotal := rate.HourlyRate.Mul(decimal.NewFromInt(int64(billed))).Round(2)
	travel := rate.TravelFee.Round(2)
	rush := decimal.Zero
	if sameDay {
		rush = subtotal.Add(travel).Mul(rushRate).Round(2)
	}

	result := &models.PricingResult{
		TimeZone:       zone,
		RequestedHours: requested,
		MinimumHours:   minimum,
		BilledHours:    billed,
		HourlyRate:     rate.HourlyRate,
		HoursSubtotal:  subtotal,
		TravelFee:      travel,
		RushFee:        rush,
		MinimumApplied: billed > requested,
		SameDayRush:    sameDay,
		Total:          subtotal.Add(travel).Add(rush),
		RateSource:     string(rate.Source),
		RuleID:         rate.RuleID,
	}
	result.Breakdown = breakdown(result, req.Mode)

	e.logger.Debug("request priced", map[string]interface{}{
		"mode":        string(req.Mode),
		"timeZone":    zone,
		"billedHours": billed,
		"rateSource":  result.RateSource,
		"sameDayRush": sameDay,
		"total":       result.Total.StringFixed(2),
	})
	return result, nil
}

func breakdown(r *models.PricingResult, mode models.ServiceMode) []string {
	lines := []string{fmt.Sprintf("Requested hours: %d", r.RequestedHours)}
	if r.MinimumApplied {
		lines = append(lines, fmt.Sprintf("Minimum %d-hour booking applied", r.MinimumHours))
	}
	lines = append(lines, fmt.Sprintf("Billed hours: %d x %s/hr = %s",
		r.BilledHours, money(r.HourlyRate), money(r.HoursSubtotal)))
	if mode.IsOnSite() {
		lines = append(lines, "Travel fee: "+money(r.TravelFee))
	}
	if r.SameDayRush {
		lines = append(lines, fmt.Sprintf("Same-day rush (35%%): %s", money(r.RushFee)))
	}
	return append(lines, "Total: "+money(r.Total))
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func validateRequest(req models.PricingRequest) error {
	if strings.TrimSpace(req.Pair.SourceLanguageID) == "" {
		return &ValidationError{Field: "sourceLanguageId", Reason: "required"}
	}
	if strings.TrimSpace(req.Pair.TargetLanguageID) == "" {
		return &ValidationError{Field: "targetLanguageId", Reason: "required"}
	}
	if !req.Mode.Valid() {
		return &ValidationError{Field: "interpretationSetting", Reason: fmt.Sprintf("unknown mode %q", req.Mode)}
	}
	if len(req.Windows) == 0 {
		return &ValidationError{Field: "dateTimeEntries", Reason: "at least one entry is required"}
	}
	for i, w := range req.Windows {
		field := fmt.Sprintf("dateTimeEntries[%d]", i)
		if !scheduling.ValidDate(w.Date) {
			return &ValidationError{Field: field + ".date", Reason: "expected YYYY-MM-DD"}
		}
		if !scheduling.ValidClock(w.StartTime) {
			return &ValidationError{Field: field + ".startTime", Reason: "expected HH:mm"}
		}
		if !scheduling.ValidClock(w.EndTime) {
			return &ValidationError{Field: field + ".endTime", Reason: "expected HH:mm"}
		}
	}
	return nil
}

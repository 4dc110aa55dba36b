package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interpretation-workers/internal/common/logger"
	"interpretation-workers/internal/models"
	"interpretation-workers/internal/scheduling"
)

// 2026-03-10 12:00 in New York, 09:00 in Los Angeles.
var fixedNow = time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, repo RateRepository) *Engine {
	t.Helper()
	log := logger.NewTestLogger(t)
	calc := scheduling.NewCalculator(
		scheduling.WithClock(func() time.Time { return fixedNow }),
		scheduling.WithLogger(log),
	)
	return NewEngine(calc, NewRateResolver(repo, log), log)
}

func window(date, start, end string) models.AppointmentWindow {
	return models.AppointmentWindow{Date: date, StartTime: start, EndTime: end}
}

func TestEngine_SameDayRush(t *testing.T) {
	engine := newTestEngine(t, &memRateRepository{})

	result, err := engine.Price(context.Background(), models.PricingRequest{
		Pair:    enEs,
		Mode:    models.ModeOnSite,
		State:   "NY",
		Windows: []models.AppointmentWindow{window("2026-03-10", "14:00", "17:00")},
	})
	require.NoError(t, err)

	assert.Equal(t, "America/New_York", result.TimeZone)
	assert.Equal(t, 3, result.BilledHours)
	assert.False(t, result.MinimumApplied)
	assert.True(t, result.SameDayRush)
	assert.Equal(t, "285.00", result.HoursSubtotal.StringFixed(2))
	assert.Equal(t, "50.00", result.TravelFee.StringFixed(2))
	assert.Equal(t, "117.25", result.RushFee.StringFixed(2))
	assert.Equal(t, "452.25", result.Total.StringFixed(2))

	require.NotEmpty(t, result.Breakdown)
	assert.Equal(t, "Total: $452.25", result.Breakdown[len(result.Breakdown)-1])
	assert.Equal(t, []string{
		"Requested hours: 3",
		"Billed hours: 3 x $95.00/hr = $285.00",
		"Travel fee: $50.00",
		"Same-day rush (35%): $117.25",
		"Total: $452.25",
	}, result.Breakdown)
}

func TestEngine_MinimumFloor(t *testing.T) {
	tests := []struct {
		name      string
		mode      models.ServiceMode
		wantHours int
		wantTotal string
	}{
		{"on-site one hour bills three", models.ModeOnSite, 3, "335.00"},
		{"video one hour bills two", models.ModeVideo, 2, "150.00"},
		{"phone one hour bills two", models.ModePhone, 2, "130.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, &memRateRepository{})

			result, err := engine.Price(context.Background(), models.PricingRequest{
				Pair:    enEs,
				Mode:    tt.mode,
				State:   "NY",
				Windows: []models.AppointmentWindow{window("2026-03-12", "09:00", "10:00")},
			})
			require.NoError(t, err)
			assert.Equal(t, 1, result.RequestedHours)
			assert.Equal(t, tt.wantHours, result.BilledHours)
			assert.True(t, result.MinimumApplied)
			assert.False(t, result.SameDayRush)
			assert.True(t, result.RushFee.IsZero())
			assert.Equal(t, tt.wantTotal, result.Total.StringFixed(2))
			assert.Equal(t, "Total: $"+tt.wantTotal, result.Breakdown[len(result.Breakdown)-1])
		})
	}
}

func TestEngine_MultipleWindows(t *testing.T) {
	engine := newTestEngine(t, &memRateRepository{})

	// 1h30 rounds to 2, 2h15 rounds to 3
	result, err := engine.Price(context.Background(), models.PricingRequest{
		Pair:     enEs,
		Mode:     models.ModeVideo,
		TimeZone: "America/Chicago",
		Windows: []models.AppointmentWindow{
			window("2026-03-11", "09:00", "10:30"),
			window("2026-03-12", "13:00", "15:15"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", result.TimeZone)
	assert.Equal(t, 5, result.BilledHours)
	assert.False(t, result.MinimumApplied)
	assert.Equal(t, "375.00", result.Total.StringFixed(2))
	assert.True(t, result.TravelFee.IsZero())
}

func TestEngine_RushAppliedOnce(t *testing.T) {
	engine := newTestEngine(t, &memRateRepository{})

	result, err := engine.Price(context.Background(), models.PricingRequest{
		Pair:     enEs,
		Mode:     models.ModePhone,
		TimeZone: "America/New_York",
		Windows: []models.AppointmentWindow{
			window("2026-03-10", "14:00", "15:00"),
			window("2026-03-10", "16:00", "17:00"),
			window("2026-03-11", "09:00", "10:00"),
		},
	})
	require.NoError(t, err)
	assert.True(t, result.SameDayRush)
	// 3h x $65 = 195; 35% = 68.25
	assert.Equal(t, "68.25", result.RushFee.StringFixed(2))
	assert.Equal(t, "263.25", result.Total.StringFixed(2))
}

func TestEngine_ComponentsSumToTotal(t *testing.T) {
	r := rule(1, "ON_SITE", nil, "87.33", 1)
	r.TravelFee = decPtr("12.17")
	engine := newTestEngine(t, &memRateRepository{rules: []models.PricingRule{r}})

	result, err := engine.Price(context.Background(), models.PricingRequest{
		Pair:    enEs,
		Mode:    models.ModeOnSite,
		State:   "NY",
		Windows: []models.AppointmentWindow{window("2026-03-10", "13:05", "17:59")},
	})
	require.NoError(t, err)

	sum := result.HoursSubtotal.Add(result.TravelFee).Add(result.RushFee)
	assert.True(t, sum.Equal(result.Total), "sum %s total %s", sum, result.Total)
	assert.Equal(t, SourceModeBase, RateSource(result.RateSource))
	for _, d := range []decimal.Decimal{result.HoursSubtotal, result.TravelFee, result.RushFee, result.Total} {
		assert.False(t, d.IsNegative())
		assert.Equal(t, d.Round(2).String(), d.String())
	}
}

func TestEngine_SchedulingErrorsAbortWholeRequest(t *testing.T) {
	tests := []struct {
		name     string
		windows  []models.AppointmentWindow
		wantCode scheduling.SchedulingCode
	}{
		{
			name:     "past date",
			windows:  []models.AppointmentWindow{window("2026-03-12", "09:00", "10:00"), window("2026-03-09", "09:00", "10:00")},
			wantCode: scheduling.CodePastDate,
		},
		{
			name:     "too soon",
			windows:  []models.AppointmentWindow{window("2026-03-10", "12:30", "14:00")},
			wantCode: scheduling.CodeTooSoon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memRateRepository{}
			engine := newTestEngine(t, repo)

			result, err := engine.Price(context.Background(), models.PricingRequest{
				Pair:    enEs,
				Mode:    models.ModeOnSite,
				State:   "NY",
				Windows: tt.windows,
			})
			assert.Nil(t, result)

			var se *scheduling.SchedulingError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.wantCode, se.Code)
			assert.Empty(t, repo.queries, "no rate lookup after a scheduling error")
		})
	}
}

func TestEngine_UnknownZoneFailsOpen(t *testing.T) {
	engine := newTestEngine(t, &memRateRepository{})

	result, err := engine.Price(context.Background(), models.PricingRequest{
		Pair:     enEs,
		Mode:     models.ModeVideo,
		TimeZone: "Mars/Olympus_Mons",
		Windows:  []models.AppointmentWindow{window("2000-01-01", "09:00", "10:00")},
	})
	require.NoError(t, err)
	assert.False(t, result.SameDayRush)
	assert.Equal(t, "150.00", result.Total.StringFixed(2))
}

func TestEngine_RateErrorPropagates(t *testing.T) {
	engine := newTestEngine(t, &memRateRepository{err: errors.New("pool exhausted")})

	result, err := engine.Price(context.Background(), models.PricingRequest{
		Pair:    enEs,
		Mode:    models.ModeOnSite,
		State:   "CA",
		Windows: []models.AppointmentWindow{window("2026-03-12", "09:00", "12:00")},
	})
	assert.Nil(t, result)
	var rre *RateResolutionError
	assert.ErrorAs(t, err, &rre)
}

func TestEngine_Validation(t *testing.T) {
	valid := models.PricingRequest{
		Pair:    enEs,
		Mode:    models.ModeVideo,
		Windows: []models.AppointmentWindow{window("2026-03-12", "09:00", "10:00")},
	}

	tests := []struct {
		name   string
		mutate func(r *models.PricingRequest)
		field  string
	}{
		{"missing source", func(r *models.PricingRequest) { r.Pair.SourceLanguageID = "" }, "sourceLanguageId"},
		{"missing target", func(r *models.PricingRequest) { r.Pair.TargetLanguageID = " " }, "targetLanguageId"},
		{"unknown mode", func(r *models.PricingRequest) { r.Mode = "carrier-pigeon" }, "interpretationSetting"},
		{"no windows", func(r *models.PricingRequest) { r.Windows = nil }, "dateTimeEntries"},
		{"bad date", func(r *models.PricingRequest) { r.Windows[0].Date = "03/12/2026" }, "dateTimeEntries[0].date"},
		{"bad start", func(r *models.PricingRequest) { r.Windows[0].StartTime = "9am" }, "dateTimeEntries[0].startTime"},
		{"bad end", func(r *models.PricingRequest) { r.Windows[0].EndTime = "25:00" }, "dateTimeEntries[0].endTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			req.Windows = append([]models.AppointmentWindow(nil), valid.Windows...)
			tt.mutate(&req)

			_, err := newTestEngine(t, &memRateRepository{}).Price(context.Background(), req)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestEngine_AcceptsRuleModeSpelling(t *testing.T) {
	result, err := newTestEngine(t, &memRateRepository{}).Price(context.Background(), models.PricingRequest{
		Pair:    enEs,
		Mode:    "ON_SITE",
		State:   "ny",
		Windows: []models.AppointmentWindow{window("2026-03-12", "09:00", "10:00")},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.BilledHours)
	assert.Equal(t, "50.00", result.TravelFee.StringFixed(2))
}

func TestEngine_Idempotent(t *testing.T) {
	repo := &memRateRepository{rules: []models.PricingRule{rule(1, "ON_SITE", strPtr("NY"), "101.5", 2)}}
	engine := newTestEngine(t, repo)
	req := models.PricingRequest{
		Pair:    enEs,
		Mode:    models.ModeOnSite,
		State:   "NY",
		Windows: []models.AppointmentWindow{window("2026-03-10", "15:00", "16:20")},
	}

	first, err := engine.Price(context.Background(), req)
	require.NoError(t, err)
	second, err := engine.Price(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

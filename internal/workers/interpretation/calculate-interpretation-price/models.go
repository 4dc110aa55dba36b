// internal/workers/interpretation/calculate-interpretation-price/models.go
package calculateinterpretationprice

import "interpretation-workers/internal/models"

type Input struct {
	SourceLanguageID      string                     `json:"sourceLanguageId"`
	TargetLanguageID      string                     `json:"targetLanguageId"`
	InterpretationSetting string                     `json:"interpretationSetting"`
	State                 *string                    `json:"state,omitempty"`
	TimeZone              *string                    `json:"timeZone,omitempty"`
	DateTimeEntries       []models.AppointmentWindow `json:"dateTimeEntries"`
}

// Output carries money as plain numbers for the process variables.
type Output struct {
	TimeZone       string   `json:"timeZone"`
	RequestedHours int      `json:"requestedHours"`
	MinimumHours   int      `json:"minimumHours"`
	BilledHours    int      `json:"billedHours"`
	HourlyRate     float64  `json:"hourlyRate"`
	HoursSubtotal  float64  `json:"hoursSubtotal"`
	TravelFee      float64  `json:"travelFee"`
	RushFee        float64  `json:"rushFee"`
	MinimumApplied bool     `json:"minimumApplied"`
	SameDayRush    bool     `json:"sameDayRush"`
	Total          float64  `json:"total"`
	RateSource     string   `json:"rateSource"`
	RuleID         *int64   `json:"ruleId,omitempty"`
	Breakdown      []string `json:"breakdown"`
}

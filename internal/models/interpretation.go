// internal/models/interpretation.go
package models

import "github.com/shopspring/decimal"

// ServiceMode is the interpretation delivery mode as sent by the quote form.
type ServiceMode string

const (
	ModeOnSite ServiceMode = "in-person"
	ModeVideo  ServiceMode = "video-remote"
	ModePhone  ServiceMode = "phone"
)

// ServiceTypeInterpretation is the only service type priced by the engine.
const ServiceTypeInterpretation = "INTERPRETATION"

// ParseServiceMode accepts the wire value or the stored rule value.
func ParseServiceMode(s string) (ServiceMode, bool) {
	switch s {
	case string(ModeOnSite), "ON_SITE":
		return ModeOnSite, true
	case string(ModeVideo), "VIDEO":
		return ModeVideo, true
	case string(ModePhone), "PHONE":
		return ModePhone, true
	}
	return "", false
}

func (m ServiceMode) IsOnSite() bool { return m == ModeOnSite }

func (m ServiceMode) Valid() bool {
	_, ok := ParseServiceMode(string(m))
	return ok
}

// RuleMode returns the value stored in pricing_rules.interpretation_mode.
func (m ServiceMode) RuleMode() string {
	switch m {
	case ModeOnSite:
		return "ON_SITE"
	case ModeVideo:
		return "VIDEO"
	case ModePhone:
		return "PHONE"
	}
	return ""
}

type LanguagePair struct {
	SourceLanguageID string `json:"sourceLanguageId"`
	TargetLanguageID string `json:"targetLanguageId"`
}

// PricingRule is an admin-managed rate record. State and TravelFee are
// nullable; a nil State is the mode's base rate.
type PricingRule struct {
	ID               int64            `json:"id"`
	SourceLanguageID string           `json:"sourceLanguageId"`
	TargetLanguageID string           `json:"targetLanguageId"`
	ServiceType      string           `json:"serviceType"`
	Mode             string           `json:"interpretationMode"`
	State            *string          `json:"state,omitempty"`
	PerHourRate      decimal.Decimal  `json:"perHourRate"`
	TravelFee        *decimal.Decimal `json:"travelFee,omitempty"`
	Priority         int              `json:"priority"`
	IsActive         bool             `json:"isActive"`
}

// AppointmentWindow is one requested slot in local wall-clock time.
type AppointmentWindow struct {
	Date      string `json:"date"`      // YYYY-MM-DD
	StartTime string `json:"startTime"` // HH:mm
	EndTime   string `json:"endTime"`   // HH:mm
}

type PricingRequest struct {
	Pair     LanguagePair
	Mode     ServiceMode
	State    string
	TimeZone string
	Windows  []AppointmentWindow
}

type PricingResult struct {
	TimeZone       string          `json:"timeZone"`
	RequestedHours int             `json:"requestedHours"`
	MinimumHours   int             `json:"minimumHours"`
	BilledHours    int             `json:"billedHours"`
	HourlyRate     decimal.Decimal `json:"hourlyRate"`
	HoursSubtotal  decimal.Decimal `json:"hoursSubtotal"`
	TravelFee      decimal.Decimal `json:"travelFee"`
	RushFee        decimal.Decimal `json:"rushFee"`
	MinimumApplied bool            `json:"minimumApplied"`
	SameDayRush    bool            `json:"sameDayRush"`
	Total          decimal.Decimal `json:"total"`
	RateSource     string          `json:"rateSource"`
	RuleID         *int64          `json:"ruleId,omitempty"`
	Breakdown      []string        `json:"breakdown"`
}

// internal/models/linguist.go
package models

import "github.com/shopspring/decimal"

// DefaultMaxTravelDistance applies when a linguist has not set a cap (miles).
const DefaultMaxTravelDistance = 50.0

type LanguageCapability struct {
	LanguageID   string `json:"languageId"`
	LanguageName string `json:"languageName,omitempty"`
	Proficiency  string `json:"proficiency"`
}

type Linguist struct {
	ID                   string               `json:"id"`
	FirstName            string               `json:"firstName"`
	LastName             string               `json:"lastName"`
	Email                string               `json:"email"`
	Phone                string               `json:"phone,omitempty"`
	City                 string               `json:"city"`
	State                string               `json:"state"`
	Latitude             *float64             `json:"latitude,omitempty"`
	Longitude            *float64             `json:"longitude,omitempty"`
	HourlyRate           decimal.Decimal      `json:"hourlyRate"`
	AvailableForOnSite   bool                 `json:"availableForOnSite"`
	MaxTravelDistance    *float64             `json:"maxTravelDistance,omitempty"`
	IsActive             bool                 `json:"isActive"`
	IsVerified           bool                 `json:"isVerified"`
	AverageRating        *float64             `json:"averageRating,omitempty"`
	TotalQuotesCompleted int                  `json:"totalQuotesCompleted"`
	Languages            []LanguageCapability `json:"languages"`
}

// TravelCap returns the linguist's own distance ceiling in miles.
func (l Linguist) TravelCap() float64 {
	if l.MaxTravelDistance == nil {
		return DefaultMaxTravelDistance
	}
	return *l.MaxTravelDistance
}

// LinguistFilter is the coarse repository-side narrowing applied before
// distance checks.
type LinguistFilter struct {
	OnlyActive       bool
	OnlyVerified     bool
	RequireOnSite    bool
	SourceLanguageID string
	State            string
}

type MatchCriteria struct {
	Mode             ServiceMode `json:"interpretationSetting"`
	SourceLanguageID string      `json:"sourceLanguageId,omitempty"`
	TargetLanguageID string      `json:"targetLanguageId,omitempty"`
	State            string      `json:"state,omitempty"`
	City             string      `json:"city,omitempty"`
	Latitude         *float64    `json:"latitude,omitempty"`
	Longitude        *float64    `json:"longitude,omitempty"`
	MaxDistance      float64     `json:"maxDistance"`
}

// MatchedLinguist is a ranked candidate. Distance is nil for remote matches.
type MatchedLinguist struct {
	ID                   string               `json:"id"`
	FirstName            string               `json:"firstName"`
	LastName             string               `json:"lastName"`
	Email                string               `json:"email"`
	Phone                string               `json:"phone,omitempty"`
	City                 string               `json:"city"`
	State                string               `json:"state"`
	HourlyRate           decimal.Decimal      `json:"hourlyRate"`
	AverageRating        *float64             `json:"averageRating,omitempty"`
	TotalQuotesCompleted int                  `json:"totalQuotesCompleted"`
	Distance             *float64             `json:"distance"`
	Languages            []LanguageCapability `json:"languages"`
}

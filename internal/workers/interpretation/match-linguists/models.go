// internal/workers/interpretation/match-linguists/models.go
package matchlinguists

import "interpretation-workers/internal/models"

type Input struct {
	InterpretationSetting string   `json:"interpretationSetting"`
	SourceLanguageID      *string  `json:"sourceLanguageId,omitempty"`
	TargetLanguageID      *string  `json:"targetLanguageId,omitempty"`
	State                 *string  `json:"state,omitempty"`
	City                  *string  `json:"city,omitempty"`
	Latitude              *float64 `json:"latitude,omitempty"`
	Longitude             *float64 `json:"longitude,omitempty"`
	MaxDistance           *float64 `json:"maxDistance,omitempty"`
}

type Output struct {
	Linguists    []LinguistMatch `json:"linguists"`
	TotalMatches int             `json:"totalMatches"`
}

// LinguistMatch is a ranked candidate. Distance is null for remote jobs and
// for on-site matches made by state alone.
type LinguistMatch struct {
	ID                   string                      `json:"id"`
	FirstName            string                      `json:"firstName"`
	LastName             string                      `json:"lastName"`
	Email                string                      `json:"email"`
	Phone                string                      `json:"phone,omitempty"`
	City                 string                      `json:"city"`
	State                string                      `json:"state"`
	HourlyRate           float64                     `json:"hourlyRate"`
	AverageRating        *float64                    `json:"averageRating"`
	TotalQuotesCompleted int                         `json:"totalQuotesCompleted"`
	Distance             *float64                    `json:"distance"`
	Languages            []models.LanguageCapability `json:"languages"`
}

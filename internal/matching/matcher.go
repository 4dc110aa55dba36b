// Package matching finds and ranks linguists able to take an interpretation job.
package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"interpretation-workers/internal/common/logger"
	"interpretation-workers/internal/geo"
	"interpretation-workers/internal/models"
)

// LinguistRepository lists linguists satisfying the coarse filter, each with
// its full language-capability collection.
type LinguistRepository interface {
	FindLinguists(ctx context.Context, filter models.LinguistFilter) ([]models.Linguist, error)
}

// QueryError wraps a repository failure. Matching never returns a partial list.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string { return fmt.Sprintf("query linguists: %v", e.Err) }

func (e *QueryError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type Matcher struct {
	repo     LinguistRepository
	resolver *geo.Resolver
	logger   logger.Logger
}

func NewMatcher(repo LinguistRepository, resolver *geo.Resolver, log logger.Logger) *Matcher {
	return &Matcher{repo: repo, resolver: resolver, logger: log}
}

// Match returns every eligible linguist, ranked. On-site results are
// ordered by distance (unknown distances last); remote results by rating.
func (m *Matcher) Match(ctx context.Context, criteria models.MatchCriteria) ([]models.MatchedLinguist, error) {
	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}
	criteria.Mode, _ = models.ParseServiceMode(string(criteria.Mode))
	criteria.State = strings.ToUpper(strings.TrimSpace(criteria.State))
	onSite := criteria.Mode.IsOnSite()

	filter := models.LinguistFilter{
		OnlyActive:       true,
		OnlyVerified:     true,
		RequireOnSite:    onSite,
		SourceLanguageID: criteria.SourceLanguageID,
	}
	if onSite {
		filter.State = criteria.State
	}

	candidates, err := m.repo.FindLinguists(ctx, filter)
	if err != nil {
		return nil, &QueryError{Err: err}
	}

	var (
		jobCoord    geo.Coordinate
		jobResolved bool
	)
	if onSite {
		jobCoord, jobResolved = m.resolver.Resolve(geo.Location{
			Latitude:  criteria.Latitude,
			Longitude: criteria.Longitude,
			City:      criteria.City,
			State:     criteria.State,
		})
	}

	matches := make([]models.MatchedLinguist, 0, len(candidates))
	for _, l := range candidates {
		if !eligible(l, filter) {
			continue
		}

		var distance *float64
		if onSite {
			linguistCoord, ok := m.resolver.Resolve(geo.Location{
				Latitude:  l.Latitude,
				Longitude: l.Longitude,
				City:      l.City,
				State:     l.State,
			})
			if jobResolved && ok {
				d := geo.Between(jobCoord, linguistCoord)
				if d > min(criteria.MaxDistance, l.TravelCap()) {
					continue
				}
				distance = &d
			} else if l.State != criteria.State {
				continue
			}
		}

		matches = append(matches, toMatched(l, distance, criteria))
	}

	if onSite {
		sortByDistance(matches)
	} else {
		sortByRating(matches)
	}

	m.logger.Debug("linguists matched", map[string]interface{}{
		"mode":        string(criteria.Mode),
		"candidates":  len(candidates),
		"matches":     len(matches),
		"jobResolved": jobResolved,
	})
	return matches, nil
}

// eligible re-applies the hard predicates so a lax repository cannot leak
// inactive or unverified linguists. The state prefilter is not re-checked.
func eligible(l models.Linguist, f models.LinguistFilter) bool {
	if f.OnlyActive && !l.IsActive {
		return false
	}
	if f.OnlyVerified && !l.IsVerified {
		return false
	}
	if f.RequireOnSite && !l.AvailableForOnSite {
		return false
	}
	if f.SourceLanguageID != "" {
		for _, c := range l.Languages {
			if c.LanguageID == f.SourceLanguageID {
				return true
			}
		}
		return false
	}
	return true
}

func toMatched(l models.Linguist, distance *float64, criteria models.MatchCriteria) models.MatchedLinguist {
	return models.MatchedLinguist{
		ID:                   l.ID,
		FirstName:            l.FirstName,
		LastName:             l.LastName,
		Email:                l.Email,
		Phone:                l.Phone,
		City:                 l.City,
		State:                l.State,
		HourlyRate:           l.HourlyRate,
		AverageRating:        l.AverageRating,
		TotalQuotesCompleted: l.TotalQuotesCompleted,
		Distance:             distance,
		Languages:            relevantLanguages(l.Languages, criteria.SourceLanguageID, criteria.TargetLanguageID),
	}
}

// relevantLanguages keeps the capabilities for the requested pair, or all
// of them when no language was requested.
func relevantLanguages(all []models.LanguageCapability, source, target string) []models.LanguageCapability {
	if source == "" && target == "" {
		return append([]models.LanguageCapability{}, all...)
	}
	out := []models.LanguageCapability{}
	for _, c := range all {
		if (source != "" && c.LanguageID == source) || (target != "" && c.LanguageID == target) {
			out = append(out, c)
		}
	}
	return out
}

func sortByDistance(ms []models.MatchedLinguist) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i].Distance, ms[j].Distance
		switch {
		case a != nil && b != nil && *a != *b:
			return *a < *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return ms[i].ID < ms[j].ID
	})
}

func sortByRating(ms []models.MatchedLinguist) {
	rating := func(m models.MatchedLinguist) float64 {
		if m.AverageRating == nil {
			return 0
		}
		return *m.AverageRating
	}
	sort.SliceStable(ms, func(i, j int) bool {
		if ri, rj := rating(ms[i]), rating(ms[j]); ri != rj {
			return ri > rj
		}
		return ms[i].ID < ms[j].ID
	})
}

func validateCriteria(c models.MatchCriteria) error {
	if !c.Mode.Valid() {
		return &ValidationError{Field: "interpretationSetting", Reason: fmt.Sprintf("unknown mode %q", c.Mode)}
	}
	if c.MaxDistance < 0 {
		return &ValidationError{Field: "maxDistance", Reason: "must not be negative"}
	}
	if c.Latitude != nil && (*c.Latitude < -90 || *c.Latitude > 90) {
		return &ValidationError{Field: "latitude", Reason: "must be within [-90, 90]"}
	}
	if c.Longitude != nil && (*c.Longitude < -180 || *c.Longitude > 180) {
		return &ValidationError{Field: "longitude", Reason: "must be within [-180, 180]"}
	}
	return nil
}

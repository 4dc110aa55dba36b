package matching

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"interpretation-workers/internal/models"
)

const selectLinguists = `
SELECT l.id, l.first_name, l.last_name, l.email, l.phone, l.city, l.state,
       l.latitude, l.longitude, l.hourly_rate, l.available_for_on_site,
       l.max_travel_distance, l.is_active, l.is_verified, l.average_rating,
       l.total_quotes_completed
FROM linguists l`

const selectLinguistLanguages = `
SELECT ll.linguist_id, ll.language_id, lang.name, ll.proficiency
FROM linguist_languages ll
JOIN languages lang ON lang.id = ll.language_id
WHERE ll.linguist_id = ANY($1)
ORDER BY ll.linguist_id, ll.language_id`

// PostgresLinguistRepository loads linguists and their languages in two
// queries.
type PostgresLinguistRepository struct {
	db *sql.DB
}

func NewPostgresLinguistRepository(db *sql.DB) *PostgresLinguistRepository {
	return &PostgresLinguistRepository{db: db}
}

func (r *PostgresLinguistRepository) FindLinguists(ctx context.Context, filter models.LinguistFilter) ([]models.Linguist, error) {
	query, args := buildLinguistQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query linguists: %w", err)
	}
	defer rows.Close()

	var (
		linguists []models.Linguist
		ids       []string
		index     = map[string]int{}
	)
	for rows.Next() {
		var (
			l         models.Linguist
			phone     sql.NullString
			lat, lng  sql.NullFloat64
			maxTravel sql.NullFloat64
			rating    sql.NullFloat64
		)
		if err := rows.Scan(
			&l.ID, &l.FirstName, &l.LastName, &l.Email, &phone, &l.City, &l.State,
			&lat, &lng, &l.HourlyRate, &l.AvailableForOnSite,
			&maxTravel, &l.IsActive, &l.IsVerified, &rating,
			&l.TotalQuotesCompleted,
		); err != nil {
			return nil, fmt.Errorf("scan linguist: %w", err)
		}
		l.Phone = phone.String
		l.Latitude = nullFloat(lat)
		l.Longitude = nullFloat(lng)
		l.MaxTravelDistance = nullFloat(maxTravel)
		l.AverageRating = nullFloat(rating)
		l.Languages = []models.LanguageCapability{}

		index[l.ID] = len(linguists)
		ids = append(ids, l.ID)
		linguists = append(linguists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate linguists: %w", err)
	}
	if len(linguists) == 0 {
		return []models.Linguist{}, nil
	}

	if err := r.attachLanguages(ctx, ids, index, linguists); err != nil {
		return nil, err
	}
	return linguists, nil
}

func (r *PostgresLinguistRepository) attachLanguages(ctx context.Context, ids []string, index map[string]int, linguists []models.Linguist) error {
	rows, err := r.db.QueryContext(ctx, selectLinguistLanguages, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query linguist languages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			linguistID string
			c          models.LanguageCapability
		)
		if err := rows.Scan(&linguistID, &c.LanguageID, &c.LanguageName, &c.Proficiency); err != nil {
			return fmt.Errorf("scan linguist language: %w", err)
		}
		if i, ok := index[linguistID]; ok {
			linguists[i].Languages = append(linguists[i].Languages, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate linguist languages: %w", err)
	}
	return nil
}

func buildLinguistQuery(f models.LinguistFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if f.OnlyActive {
		conds = append(conds, "l.is_active = true")
	}
	if f.OnlyVerified {
		conds = append(conds, "l.is_verified = true")
	}
	if f.RequireOnSite {
		conds = append(conds, "l.available_for_on_site = true")
	}
	if f.SourceLanguageID != "" {
		args = append(args, f.SourceLanguageID)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM linguist_languages ll WHERE ll.linguist_id = l.id AND ll.language_id = $%d)", len(args)))
	}
	if f.State != "" {
		args = append(args, f.State)
		conds = append(conds, fmt.Sprintf("l.state = $%d", len(args)))
	}

	query := selectLinguists
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, "\n  AND ")
	}
	return query + "\nORDER BY l.id", args
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

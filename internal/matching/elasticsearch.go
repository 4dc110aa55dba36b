package matching

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"interpretation-workers/internal/models"
)

const DefaultSearchSize = 1000

// ElasticsearchLinguistRepository reads linguist documents from a search
// index whose documents mirror models.Linguist.
type ElasticsearchLinguistRepository struct {
	client *elasticsearch.Client
	index  string
	size   int
}

func NewElasticsearchLinguistRepository(client *elasticsearch.Client, index string, size int) *ElasticsearchLinguistRepository {
	if size <= 0 {
		size = DefaultSearchSize
	}
	return &ElasticsearchLinguistRepository{client: client, index: index, size: size}
}

type searchHit struct {
	Source models.Linguist `json:"_source"`
	Sort   []interface{}   `json:"sort"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}

// FindLinguists pages through the index with search_after on id until a
// short page comes back, so no matching document is dropped.
func (r *ElasticsearchLinguistRepository) FindLinguists(ctx context.Context, filter models.LinguistFilter) ([]models.Linguist, error) {
	linguists := []models.Linguist{}
	var after []interface{}
	for {
		page, err := r.searchPage(ctx, filter, after)
		if err != nil {
			return nil, err
		}
		for _, hit := range page.Hits.Hits {
			l := hit.Source
			if l.Languages == nil {
				l.Languages = []models.LanguageCapability{}
			}
			linguists = append(linguists, l)
		}

		hits := page.Hits.Hits
		if len(hits) < r.size {
			if len(linguists) < page.Hits.Total.Value {
				return nil, fmt.Errorf("search %s: got %d of %d linguists", r.index, len(linguists), page.Hits.Total.Value)
			}
			return linguists, nil
		}
		after = hits[len(hits)-1].Sort
		if len(after) == 0 {
			return nil, fmt.Errorf("search %s: hit without sort values, cannot page", r.index)
		}
	}
}

func (r *ElasticsearchLinguistRepository) searchPage(ctx context.Context, filter models.LinguistFilter, after []interface{}) (*searchResponse, error) {
	search := buildLinguistSearch(filter, r.size)
	if len(after) > 0 {
		search["search_after"] = after
	}
	body, err := json.Marshal(search)
	if err != nil {
		return nil, fmt.Errorf("encode linguist search: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{r.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", r.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", r.index, res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &parsed, nil
}

func buildLinguistSearch(f models.LinguistFilter, size int) map[string]interface{} {
	filters := []interface{}{}
	term := func(field string, value interface{}) {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{field: value},
		})
	}

	if f.OnlyActive {
		term("isActive", true)
	}
	if f.OnlyVerified {
		term("isVerified", true)
	}
	if f.RequireOnSite {
		term("availableForOnSite", true)
	}
	if f.SourceLanguageID != "" {
		term("languages.languageId", f.SourceLanguageID)
	}
	if f.State != "" {
		term("state", f.State)
	}

	return map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		},
		"sort": []interface{}{
			map[string]interface{}{"id": "asc"},
		},
	}
}

package elastic

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/indices/create"
	"github.com/elastic/go-elasticsearch/v8/typedapi/some"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
)

// source is the mirrored document body.
type source struct {
	ID        string     `json:"id"`
	Complex   string     `json:"complex"`
	Zone      string     `json:"zone"`
	Category  string     `json:"category"`
	Title     string     `json:"title"`
	DocDate   *time.Time `json:"doc_date,omitempty"`
	SourceURL string     `json:"source_url,omitempty"`
	BlobURL   string     `json:"blob_url,omitempty"`
	FullText  string     `json:"full_text,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func toSource(doc *domain.Document) source {
	return source{
		ID:        doc.ID,
		Complex:   string(doc.Complex),
		Zone:      string(doc.Zone),
		Category:  string(doc.Category),
		Title:     doc.Title,
		DocDate:   doc.DocDate,
		SourceURL: doc.SourceURL,
		BlobURL:   doc.BlobURL,
		FullText:  doc.FullText,
		UpdatedAt: doc.UpdatedAt,
	}
}

// withoutFullText keeps hits small; highlights carry the text.
func withoutFullText() types.SourceFilter {
	return types.SourceFilter{Excludes: []string{"full_text"}}
}

func term(field, value string) types.Query {
	return types.Query{Term: map[string]types.TermQuery{field: {Value: value}}}
}

func termFilters(f domain.DocumentFilter) []types.Query {
	filters := []types.Query{}
	if f.Complex != "" {
		filters = append(filters, term("complex", string(f.Complex)))
	}
	if f.Zone != "" {
		filters = append(filters, term("zone", string(f.Zone)))
	}
	if f.Category != "" {
		filters = append(filters, term("category", string(f.Category)))
	}
	if f.DateFrom != nil || f.DateTo != nil {
		r := types.DateRangeQuery{}
		if f.DateFrom != nil {
			r.Gte = some.String(f.DateFrom.Format(time.RFC3339))
		}
		if f.DateTo != nil {
			r.Lte = some.String(f.DateTo.Format(time.RFC3339))
		}
		filters = append(filters, types.Query{Range: map[string]types.RangeQuery{"doc_date": r}})
	}
	return filters
}

func textRequest(q domain.TextQuery, size int) *search.Request {
	return &search.Request{
		Size: some.Int(size),
		Query: &types.Query{Bool: &types.BoolQuery{
			Must: []types.Query{{MultiMatch: &types.MultiMatchQuery{
				Query:    q.Q,
				Fields:   []string{"title^3", "full_text"},
				Operator: &operator.And,
			}}},
			Filter: termFilters(q.Filter()),
		}},
		Highlight: &types.Highlight{
			PreTags:  []string{"<em>"},
			PostTags: []string{"</em>"},
			Fields: map[string]types.HighlightField{
				"full_text": {FragmentSize: some.Int(fragmentSize), NumberOfFragments: some.Int(fragmentCount)},
				"title":     {NumberOfFragments: some.Int(0)},
			},
		},
		Source_:        withoutFullText(),
		TrackTotalHits: true,
	}
}

func filterRequest(f domain.DocumentFilter, page domain.Pagination) *search.Request {
	return &search.Request{
		From:  some.Int(page.Skip),
		Size:  some.Int(page.Limit),
		Query: &types.Query{Bool: &types.BoolQuery{Filter: termFilters(f)}},
		Sort: []types.SortCombinations{
			&types.SortOptions{SortOptions: map[string]types.FieldSort{
				"doc_date": {Order: &sortorder.Desc, Missing: "_last"},
			}},
			&types.SortOptions{SortOptions: map[string]types.FieldSort{
				"updated_at": {Order: &sortorder.Desc},
			}},
		},
		Source_:        withoutFullText(),
		TrackTotalHits: true,
	}
}

// toResult maps a search response onto engine hits. The reported total never
// drops below the number of hits returned.
func toResult(resp *search.Response) (*driven.EngineResult, error) {
	hits := make([]domain.SearchHit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		var src source
		if len(h.Source_) > 0 {
			if err := json.Unmarshal(h.Source_, &src); err != nil {
				return nil, fmt.Errorf("decode hit source: %w", err)
			}
		}

		id := src.ID
		if id == "" && h.Id_ != nil {
			id = *h.Id_
		}
		var score *float64
		if h.Score_ != nil {
			score = domain.Float64Ptr(float64(*h.Score_))
		}
		var highlights []string
		highlights = append(highlights, h.Highlight["full_text"]...)
		highlights = append(highlights, h.Highlight["title"]...)

		hits = append(hits, domain.SearchHit{
			DocumentID: id,
			Complex:    domain.Complex(src.Complex),
			Zone:       domain.Zone(src.Zone),
			Category:   domain.Category(src.Category),
			Title:      src.Title,
			DocDate:    src.DocDate,
			SourceURL:  src.SourceURL,
			BlobURL:    src.BlobURL,
			Score:      score,
			Highlights: highlights,
			UpdatedAt:  src.UpdatedAt,
		})
	}

	total := len(hits)
	if resp.Hits.Total != nil && int(resp.Hits.Total.Value) > total {
		total = int(resp.Hits.Total.Value)
	}
	return &driven.EngineResult{Hits: hits, Total: total}, nil
}

func indexMapping() *create.Request {
	return &create.Request{
		Mappings: &types.TypeMapping{
			Properties: map[string]types.Property{
				"id":         types.NewKeywordProperty(),
				"complex":    types.NewKeywordProperty(),
				"zone":       types.NewKeywordProperty(),
				"category":   types.NewKeywordProperty(),
				"title":      types.NewTextProperty(),
				"full_text":  types.NewTextProperty(),
				"doc_date":   types.NewDateProperty(),
				"updated_at": types.NewDateProperty(),
				"source_url": types.NewKeywordProperty(),
				"blob_url":   types.NewKeywordProperty(),
			},
		},
	}
}

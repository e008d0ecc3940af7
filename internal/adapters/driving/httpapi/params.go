package httpapi

import (
	"net/url"
	"strings"

	"github.com/custodia-labs/lexroster/internal/adapters/driving/view"
	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// hierarchy holds the optional complex, zone and category parameters.
type hierarchy struct {
	complex  domain.Complex
	zone     domain.Zone
	category domain.Category
}

func parseHierarchy(values url.Values) (hierarchy, error) {
	var h hierarchy
	var err error
	if v := strings.TrimSpace(values.Get("complex")); v != "" {
		if h.complex, err = domain.ParseComplex(v); err != nil {
			return h, err
		}
	}
	if v := strings.TrimSpace(values.Get("zone")); v != "" {
		if h.zone, err = domain.ParseZone(v); err != nil {
			return h, err
		}
	}
	if v := strings.TrimSpace(values.Get("category")); v != "" {
		if h.category, err = domain.ParseCategory(v); err != nil {
			return h, err
		}
	}
	return h, nil
}

func parsePagination(values url.Values) (domain.Pagination, error) {
	skip, err := queryInt(values, "skip")
	if err != nil {
		return domain.Pagination{}, err
	}
	limit, err := queryInt(values, "limit")
	if err != nil {
		return domain.Pagination{}, err
	}
	return domain.Pagination{Skip: skip, Limit: limit}, nil
}

func parseDocumentFilter(values url.Values) (domain.DocumentFilter, error) {
	h, err := parseHierarchy(values)
	if err != nil {
		return domain.DocumentFilter{}, err
	}
	from, err := view.ParseDate("dateFrom", values.Get("dateFrom"))
	if err != nil {
		return domain.DocumentFilter{}, err
	}
	to, err := view.ParseDate("dateTo", values.Get("dateTo"))
	if err != nil {
		return domain.DocumentFilter{}, err
	}
	return domain.DocumentFilter{
		Complex:  h.complex,
		Zone:     h.zone,
		Category: h.category,
		DateFrom: from,
		DateTo:   to,
	}, nil
}

package catalog

import (
	"strconv"
	"strings"

	"catalog-service/internal/models"
)

// StatusAll disables the status predicate; only admin specs accept it.
const StatusAll = "all"

// FilterParams carries raw query-string values before validation.
// Empty strings mean "filter not applied".
type FilterParams struct {
	CategoryID string
	Status     string
	MinPrice   string
	MaxPrice   string
	Search     string
	Featured   string
	NewArrival string
	BestSeller string
	Page       string
	Limit      string
}

// FilterCriteria is the normalized, validated form of a filter request.
// Nil pointer fields mean the corresponding filter is not applied.
type FilterCriteria struct {
	CategoryID *int64
	Status     *string
	MinPrice   *float64
	MaxPrice   *float64
	// Search is the trimmed raw term, used for relevance ranking.
	Search string
	// SearchPattern is the LIKE pattern derived from Search with literal
	// wildcard characters escaped. It is built here so raw user input
	// never reaches the predicate builder as a pattern.
	SearchPattern string
	Featured      *bool
	NewArrival    *bool
	BestSeller    *bool
	// ExcludeID drops a single product from the result, used by the
	// related-products view.
	ExcludeID *int64
	Page      int
	Limit     int
}

// HasSearch reports whether a search term is active
func (c *FilterCriteria) HasSearch() bool {
	return c.Search != ""
}

// FilterSpec validates and normalizes FilterParams into FilterCriteria.
// Public specs default an absent status to "active"; admin specs leave
// it absent and additionally accept "all".
type FilterSpec struct {
	defaultStatus string
	allowAll      bool
	defaultLimit  int
	maxLimit      int
}

// NewFilterSpec returns a spec for public-facing callers
func NewFilterSpec(defaultLimit, maxLimit int) *FilterSpec {
	return &FilterSpec{
		defaultStatus: models.ProductStatusActive,
		defaultLimit:  defaultLimit,
		maxLimit:      maxLimit,
	}
}

// NewAdminFilterSpec returns a spec for admin callers
func NewAdminFilterSpec(defaultLimit, maxLimit int) *FilterSpec {
	return &FilterSpec{
		allowAll:     true,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// DefaultLimit returns the page size used when the caller supplies none
func (s *FilterSpec) DefaultLimit() int { return s.defaultLimit }

// MaxLimit returns the largest page size the spec allows
func (s *FilterSpec) MaxLimit() int { return s.maxLimit }

// Parse validates raw parameters and returns immutable criteria.
// It never touches storage; all rejections happen before any query.
func (s *FilterSpec) Parse(p FilterParams) (*FilterCriteria, error) {
	c := &FilterCriteria{Page: 1, Limit: s.defaultLimit}

	if v := strings.TrimSpace(p.CategoryID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, newValidationError("category_id", "must be numeric, got %q", v)
		}
		c.CategoryID = &id
	}

	status := strings.TrimSpace(p.Status)
	switch {
	case status == "":
		if s.defaultStatus != "" {
			st := s.defaultStatus
			c.Status = &st
		}
	case status == StatusAll && s.allowAll:
		// no status predicate
	default:
		c.Status = &status
	}

	var err error
	if c.MinPrice, err = parsePrice("min_price", p.MinPrice); err != nil {
		return nil, err
	}
	if c.MaxPrice, err = parsePrice("max_price", p.MaxPrice); err != nil {
		return nil, err
	}
	if c.MinPrice != nil && c.MaxPrice != nil && *c.MinPrice > *c.MaxPrice {
		return nil, newValidationError("min_price", "must not exceed max_price")
	}

	if search := strings.TrimSpace(p.Search); search != "" {
		c.Search = search
		c.SearchPattern = "%" + EscapeLike(search) + "%"
	}

	if c.Featured, err = parseFlag("featured", p.Featured); err != nil {
		return nil, err
	}
	if c.NewArrival, err = parseFlag("new_arrival", p.NewArrival); err != nil {
		return nil, err
	}
	if c.BestSeller, err = parseFlag("best_seller", p.BestSeller); err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(p.Page); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return nil, newValidationError("page", "must be numeric, got %q", v)
		}
		if page < 1 {
			page = 1
		}
		c.Page = page
	}

	if v := strings.TrimSpace(p.Limit); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, newValidationError("limit", "must be numeric, got %q", v)
		}
		if limit <= 0 {
			return nil, newValidationError("limit", "must be positive, got %d", limit)
		}
		c.Limit = limit
	}
	if c.Limit > s.maxLimit {
		c.Limit = s.maxLimit
	}

	return c, nil
}

func parsePrice(field, raw string) (*float64, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil, nil
	}
	price, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, newValidationError(field, "must be numeric, got %q", v)
	}
	return &price, nil
}

func parseFlag(field, raw string) (*bool, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil, nil
	}
	flag, err := strconv.ParseBool(v)
	if err != nil {
		return nil, newValidationError(field, "must be boolean, got %q", v)
	}
	return &flag, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcard characters so user input always
// matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

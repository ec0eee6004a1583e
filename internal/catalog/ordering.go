package catalog

// Ordering decides the ORDER BY applied to a product page. Implementations
// with bind arguments expose them via Args; the executor merges those with
// the predicate's arguments.
type Ordering interface {
	OrderBy() string
	Args() map[string]interface{}
}

type recencyOrdering struct{}

func (recencyOrdering) OrderBy() string {
	return "p.created_at DESC, p.id ASC"
}

func (recencyOrdering) Args() map[string]interface{} { return nil }

// Recency orders newest first with a stable id tie-break
func Recency() Ordering {
	return recencyOrdering{}
}

type relevanceOrdering struct {
	term string
}

func (o relevanceOrdering) OrderBy() string {
	// Rank over the same text fields the search predicate matches.
	// Equal scores fall back to id so pages stay deterministic.
	return "ts_rank(to_tsvector('english', p.name || ' ' || p.description || ' ' || coalesce(p.keywords, '')), plainto_tsquery('english', :search_rank)) DESC, p.id ASC"
}

func (o relevanceOrdering) Args() map[string]interface{} {
	return map[string]interface{}{"search_rank": o.term}
}

// Relevance orders by the storage layer's text-relevance score for term
func Relevance(term string) Ordering {
	return relevanceOrdering{term: term}
}

type randomOrdering struct{}

func (randomOrdering) OrderBy() string {
	return "random()"
}

func (randomOrdering) Args() map[string]interface{} { return nil }

// Random shuffles the result per call. Non-deterministic on purpose:
// only the related-products view uses it, and tests substitute a
// deterministic Ordering instead.
func Random() Ordering {
	return randomOrdering{}
}

// ForCriteria picks the default ordering: relevance when a search term
// is present, recency otherwise.
func ForCriteria(c *FilterCriteria) Ordering {
	if c.HasSearch() {
		return Relevance(c.Search)
	}
	return Recency()
}

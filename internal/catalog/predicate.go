package catalog

import "strings"

// Predicate is an ordered list of SQL clauses with uniquely named bind
// arguments. One Predicate feeds both the count query and the data query
// of a listing, so the two can never disagree on which rows match.
type Predicate struct {
	clauses []string
	args    map[string]interface{}
}

// NewPredicate returns an empty predicate that matches all rows
func NewPredicate() *Predicate {
	return &Predicate{args: make(map[string]interface{})}
}

// Add appends a clause with one named bind argument. Argument names must
// be unique within a predicate; callers pick distinct names even for
// clauses on the same column (price_min vs price_max).
func (p *Predicate) Add(clause, name string, value interface{}) *Predicate {
	p.clauses = append(p.clauses, clause)
	p.args[name] = value
	return p
}

// AddClause appends a clause with no bind argument
func (p *Predicate) AddClause(clause string) *Predicate {
	p.clauses = append(p.clauses, clause)
	return p
}

// Clauses returns the clause list in the order it was built
func (p *Predicate) Clauses() []string {
	return p.clauses
}

// Empty reports whether no filters are active
func (p *Predicate) Empty() bool {
	return len(p.clauses) == 0
}

// Where renders the predicate as a WHERE fragment, or "" when empty
func (p *Predicate) Where() string {
	if p.Empty() {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}

// Args returns the named bind arguments merged with any extras. Extras
// let the executor attach limit/offset and ordering arguments without
// mutating the shared predicate.
func (p *Predicate) Args(extras ...map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(p.args))
	for k, v := range p.args {
		merged[k] = v
	}
	for _, extra := range extras {
		for k, v := range extra {
			merged[k] = v
		}
	}
	return merged
}

// BuildProductPredicate turns criteria into the product predicate shared
// by count and data queries. Clauses reference the products table as "p".
func BuildProductPredicate(c *FilterCriteria) *Predicate {
	p := NewPredicate()

	if c.CategoryID != nil {
		p.Add("p.category_id = :category_id", "category_id", *c.CategoryID)
	}
	if c.Status != nil {
		p.Add("p.status = :status", "status", *c.Status)
	}
	if c.MinPrice != nil {
		p.Add("p.price >= :price_min", "price_min", *c.MinPrice)
	}
	if c.MaxPrice != nil {
		p.Add("p.price <= :price_max", "price_max", *c.MaxPrice)
	}
	if c.Featured != nil {
		p.Add("p.featured = :featured", "featured", *c.Featured)
	}
	if c.NewArrival != nil {
		p.Add("p.new_arrival = :new_arrival", "new_arrival", *c.NewArrival)
	}
	if c.BestSeller != nil {
		p.Add("p.best_seller = :best_seller", "best_seller", *c.BestSeller)
	}
	if c.ExcludeID != nil {
		p.Add("p.id <> :exclude_id", "exclude_id", *c.ExcludeID)
	}
	if c.HasSearch() {
		p.Add(`(p.name ILIKE :search_pattern ESCAPE '\' OR p.description ILIKE :search_pattern ESCAPE '\' OR p.keywords ILIKE :search_pattern ESCAPE '\')`,
			"search_pattern", c.SearchPattern)
	}

	return p
}

// BuildStatusPredicate filters on a single status column under the given
// table alias. Used by the admin order and review listings.
func BuildStatusPredicate(alias string, c *FilterCriteria) *Predicate {
	p := NewPredicate()
	if c.Status != nil {
		p.Add(alias+".status = :status", "status", *c.Status)
	}
	return p
}

package store

import (
	"context"
	"fmt"

	"catalog-service/internal/models"
)

// ListCategories returns every category with its active product count.
// This is a true set aggregate across a join, so it groups explicitly and
// counts DISTINCT product ids; any other join added to this query later
// cannot inflate the counts.
func (s *Store) ListCategories(ctx context.Context) ([]models.CategorySummary, error) {
	query := `
		SELECT c.id, c.slug, c.name, c.parent_id,
			COUNT(DISTINCT p.id) AS product_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id AND p.status = 'active'
		GROUP BY c.id, c.slug, c.name, c.parent_id
		ORDER BY c.parent_id NULLS FIRST, c.name`

	var categories []models.CategorySummary
	if err := s.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("category listing failed: %w", err)
	}
	return categories, nil
}

package store

import (
	"context"
	"fmt"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
)

// Admin review listing. The join to products is many-to-one from the
// review side, so it cannot fan out review rows.

func reviewCountQuery(pred *catalog.Predicate) string {
	return "SELECT COUNT(*) FROM reviews r" + pred.Where()
}

func reviewPageQuery(pred *catalog.Predicate) string {
	return `
		SELECT r.id, r.product_id, r.author, r.rating, r.comment, r.status, r.created_at,
			p.name AS product_name
		FROM reviews r
		JOIN products p ON p.id = r.product_id` +
		pred.Where() +
		" ORDER BY r.created_at DESC, r.id ASC LIMIT :limit OFFSET :offset"
}

// CountReviews counts reviews matching the predicate
func (s *Store) CountReviews(ctx context.Context, pred *catalog.Predicate) (int, error) {
	return s.countNamed(ctx, reviewCountQuery(pred), pred)
}

// SelectReviewPage fetches one page of reviews matching the predicate
func (s *Store) SelectReviewPage(ctx context.Context, pred *catalog.Predicate, limit, offset int) ([]models.ReviewSummary, error) {
	args := pred.Args(map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})

	var reviews []models.ReviewSummary
	if err := s.selectNamed(ctx, &reviews, reviewPageQuery(pred), args); err != nil {
		return nil, fmt.Errorf("review page query failed: %w", err)
	}
	return reviews, nil
}

package store

import (
	"context"
	"fmt"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
)

// Admin order listing. Built on the same shared-predicate pattern as the
// product listing: the count and the page render from one Predicate.

func orderCountQuery(pred *catalog.Predicate) string {
	return "SELECT COUNT(*) FROM orders o" + pred.Where()
}

func orderPageQuery(pred *catalog.Predicate) string {
	return `
		SELECT o.id, o.customer_id, o.total_amount, o.status, o.created_at, o.updated_at,
			(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count
		FROM orders o` +
		pred.Where() +
		" ORDER BY o.created_at DESC, o.id ASC LIMIT :limit OFFSET :offset"
}

// CountOrders counts orders matching the predicate
func (s *Store) CountOrders(ctx context.Context, pred *catalog.Predicate) (int, error) {
	return s.countNamed(ctx, orderCountQuery(pred), pred)
}

// SelectOrderPage fetches one page of orders matching the predicate
func (s *Store) SelectOrderPage(ctx context.Context, pred *catalog.Predicate, limit, offset int) ([]models.Order, error) {
	args := pred.Args(map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})

	var orders []models.Order
	if err := s.selectNamed(ctx, &orders, orderPageQuery(pred), args); err != nil {
		return nil, fmt.Errorf("order page query failed: %w", err)
	}
	return orders, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
)

// productSummaryColumns attaches the per-product derived scalars via
// correlated subqueries scoped to p.id. An unqualified LEFT JOIN against
// images or reviews would duplicate the product row once per child and
// silently corrupt the aggregates, so joins are never used for these.
const productSummaryColumns = `
	p.id, p.slug, p.name, p.price, p.status, p.stock_quantity, p.created_at,
	c.name AS category_name,
	COALESCE((SELECT i.url FROM product_images i
		WHERE i.product_id = p.id AND i.is_primary
		ORDER BY i.id LIMIT 1), '') AS primary_image,
	COALESCE((SELECT AVG(r.rating)::float8 FROM reviews r
		WHERE r.product_id = p.id AND r.status = 'approved'), 0) AS avg_rating,
	(SELECT COUNT(*) FROM reviews r
		WHERE r.product_id = p.id AND r.status = 'approved') AS review_count`

// productCountQuery and productPageQuery render both halves of a listing
// from one predicate. The data query joins categories only for the display
// name; category_id is NOT NULL so the inner join cannot change row counts.
func productCountQuery(pred *catalog.Predicate) string {
	return "SELECT COUNT(*) FROM products p" + pred.Where()
}

func productPageQuery(pred *catalog.Predicate, ord catalog.Ordering) string {
	return "SELECT " + productSummaryColumns +
		" FROM products p JOIN categories c ON c.id = p.category_id" +
		pred.Where() +
		" ORDER BY " + ord.OrderBy() +
		" LIMIT :limit OFFSET :offset"
}

// CountProducts counts rows matching the predicate
func (s *Store) CountProducts(ctx context.Context, pred *catalog.Predicate) (int, error) {
	return s.countNamed(ctx, productCountQuery(pred), pred)
}

// SelectProductPage fetches one page of products matching the predicate
func (s *Store) SelectProductPage(ctx context.Context, pred *catalog.Predicate, ord catalog.Ordering, limit, offset int) ([]models.ProductSummary, error) {
	args := pred.Args(ord.Args(), map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})

	var products []models.ProductSummary
	if err := s.selectNamed(ctx, &products, productPageQuery(pred, ord), args); err != nil {
		return nil, fmt.Errorf("product page query failed: %w", err)
	}
	return products, nil
}

// GetProductBySlug retrieves a single product with its derived scalars.
// A missing product returns (nil, nil); absence is not an error.
func (s *Store) GetProductBySlug(ctx context.Context, slug string) (*models.ProductSummary, error) {
	query := "SELECT " + productSummaryColumns +
		" FROM products p JOIN categories c ON c.id = p.category_id WHERE p.slug = :slug"

	var product models.ProductSummary
	err := s.getNamed(ctx, &product, query, map[string]interface{}{"slug": slug})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("product lookup failed: %w", err)
	}
	return &product, nil
}

// DecreaseStock performs the atomic compare-and-subtract. The conditional
// UPDATE is the whole concurrency story: stock can never go negative and
// concurrent decrements against the same product serialize at the row.
// ok is false when stock was insufficient; that is a business outcome,
// not an error.
func (s *Store) DecreaseStock(ctx context.Context, productID int64, qty int) (*models.StockLevel, bool, error) {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $1, updated_at = NOW()
		WHERE id = $2 AND stock_quantity >= $1
		RETURNING stock_quantity, low_stock_threshold`

	var level models.StockLevel
	level.ProductID = productID
	err := s.db.QueryRowxContext(ctx, query, qty, productID).
		Scan(&level.Remaining, &level.Threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("stock decrement failed: %w", err)
	}
	return &level, true, nil
}

// UpdateProductStatus changes a product's lifecycle status
func (s *Store) UpdateProductStatus(ctx context.Context, productID int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE products SET status = $1, updated_at = NOW() WHERE id = $2",
		status, productID)
	return err
}

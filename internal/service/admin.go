package service

import (
	"context"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
	"catalog-service/internal/util"
)

// AdminListParams carries raw admin listing parameters. Status follows
// the admin convention: absent means no filter here too, and "all" is
// accepted explicitly.
type AdminListParams struct {
	Status string
	Page   string
	Limit  string
}

func (s *CatalogService) adminCriteria(p AdminListParams) (*catalog.FilterCriteria, error) {
	return s.adminSpec.Parse(catalog.FilterParams{
		Status: p.Status,
		Page:   p.Page,
		Limit:  p.Limit,
	})
}

// ListOrders returns one page of orders for the admin screen
func (s *CatalogService) ListOrders(ctx context.Context, params AdminListParams) (*models.PageResult[models.Order], error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListOrders")
	defer span.End()

	criteria, err := s.adminCriteria(params)
	if err != nil {
		return nil, err
	}
	pred := catalog.BuildStatusPredicate("o", criteria)

	util.CatalogQueriesTotal.WithLabelValues("admin_orders").Inc()

	return fetchPage(ctx, criteria.Page, criteria.Limit,
		func(ctx context.Context) (int, error) {
			return s.store.CountOrders(ctx, pred)
		},
		func(ctx context.Context, limit, offset int) ([]models.Order, error) {
			return s.store.SelectOrderPage(ctx, pred, limit, offset)
		},
	)
}

// ListReviews returns one page of reviews for the admin screen
func (s *CatalogService) ListReviews(ctx context.Context, params AdminListParams) (*models.PageResult[models.ReviewSummary], error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListReviews")
	defer span.End()

	criteria, err := s.adminCriteria(params)
	if err != nil {
		return nil, err
	}
	pred := catalog.BuildStatusPredicate("r", criteria)

	util.CatalogQueriesTotal.WithLabelValues("admin_reviews").Inc()

	return fetchPage(ctx, criteria.Page, criteria.Limit,
		func(ctx context.Context) (int, error) {
			return s.store.CountReviews(ctx, pred)
		},
		func(ctx context.Context, limit, offset int) ([]models.ReviewSummary, error) {
			return s.store.SelectReviewPage(ctx, pred, limit, offset)
		},
	)
}

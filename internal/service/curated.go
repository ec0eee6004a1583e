package service

import (
	"context"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
	"catalog-service/internal/util"
)

// Curated views: fixed-filter presets over the same engine as the general
// listing. Every preset pins status=active; the caller only chooses the
// limit. When fewer rows exist than the limit, all available rows come
// back without error.

func (s *CatalogService) curated(ctx context.Context, view string, criteria *catalog.FilterCriteria, ord catalog.Ordering) ([]models.ProductSummary, error) {
	result, err := s.listWithCriteria(ctx, view, criteria, ord)
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (s *CatalogService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.spec.DefaultLimit()
	}
	if max := s.spec.MaxLimit(); limit > max {
		return max
	}
	return limit
}

// GetFeatured returns up to limit featured active products, newest first
func (s *CatalogService) GetFeatured(ctx context.Context, limit int) ([]models.ProductSummary, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetFeatured")
	defer span.End()

	status := models.ProductStatusActive
	flag := true
	criteria := &catalog.FilterCriteria{
		Status:   &status,
		Featured: &flag,
		Page:     1,
		Limit:    s.clampLimit(limit),
	}
	return s.curated(ctx, "featured", criteria, catalog.Recency())
}

// GetNewArrivals returns up to limit new-arrival active products, newest first
func (s *CatalogService) GetNewArrivals(ctx context.Context, limit int) ([]models.ProductSummary, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetNewArrivals")
	defer span.End()

	status := models.ProductStatusActive
	flag := true
	criteria := &catalog.FilterCriteria{
		Status:     &status,
		NewArrival: &flag,
		Page:       1,
		Limit:      s.clampLimit(limit),
	}
	return s.curated(ctx, "new_arrivals", criteria, catalog.Recency())
}

// GetBestSellers returns up to limit best-seller active products, newest first
func (s *CatalogService) GetBestSellers(ctx context.Context, limit int) ([]models.ProductSummary, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetBestSellers")
	defer span.End()

	status := models.ProductStatusActive
	flag := true
	criteria := &catalog.FilterCriteria{
		Status:     &status,
		BestSeller: &flag,
		Page:       1,
		Limit:      s.clampLimit(limit),
	}
	return s.curated(ctx, "best_sellers", criteria, catalog.Recency())
}

// GetRelated returns up to limit active products from the same category,
// excluding the source product. Ordering is randomized per call unless a
// deterministic Ordering was injected via Options.
func (s *CatalogService) GetRelated(ctx context.Context, productID, categoryID int64, limit int) ([]models.ProductSummary, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetRelated")
	defer span.End()

	if limit <= 0 {
		limit = s.relatedLim
	}

	status := models.ProductStatusActive
	criteria := &catalog.FilterCriteria{
		Status:     &status,
		CategoryID: &categoryID,
		ExcludeID:  &productID,
		Page:       1,
		Limit:      s.clampLimit(limit),
	}
	return s.curated(ctx, "related", criteria, s.relatedOrd)
}

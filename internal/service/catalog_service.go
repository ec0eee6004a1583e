package service

import (
	"context"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
	"catalog-service/internal/util"

	"go.uber.org/zap"
)

// CatalogStore is the storage capability the service depends on. The
// concrete implementation is internal/store; tests substitute an
// in-memory fake.
type CatalogStore interface {
	CountProducts(ctx context.Context, pred *catalog.Predicate) (int, error)
	SelectProductPage(ctx context.Context, pred *catalog.Predicate, ord catalog.Ordering, limit, offset int) ([]models.ProductSummary, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.ProductSummary, error)
	DecreaseStock(ctx context.Context, productID int64, qty int) (*models.StockLevel, bool, error)
	ListCategories(ctx context.Context) ([]models.CategorySummary, error)
	CountOrders(ctx context.Context, pred *catalog.Predicate) (int, error)
	SelectOrderPage(ctx context.Context, pred *catalog.Predicate, limit, offset int) ([]models.Order, error)
	CountReviews(ctx context.Context, pred *catalog.Predicate) (int, error)
	SelectReviewPage(ctx context.Context, pred *catalog.Predicate, limit, offset int) ([]models.ReviewSummary, error)
}

// IdempotencyStore claims stock-decrement idempotency keys
type IdempotencyStore interface {
	AcquireIdempotencyKey(ctx context.Context, key string) (bool, error)
	ReleaseIdempotencyKey(ctx context.Context, key string) error
}

// StockEventPublisher publishes stock domain events
type StockEventPublisher interface {
	PublishStockDecreased(ctx context.Context, event *models.StockDecreasedEvent) error
	PublishLowStock(ctx context.Context, event *models.LowStockEvent) error
}

// Options tunes the service; zero values fall back to sane defaults
type Options struct {
	DefaultLimit int
	MaxLimit     int
	// RelatedLimit is the default page size for related products when the
	// caller passes none.
	RelatedLimit int
	// RelatedOrdering replaces the randomized related-products ordering,
	// letting tests run deterministically.
	RelatedOrdering catalog.Ordering
}

// CatalogService answers listing, curated-view and stock requests
type CatalogService struct {
	store      CatalogStore
	idem       IdempotencyStore
	events     StockEventPublisher
	spec       *catalog.FilterSpec
	adminSpec  *catalog.FilterSpec
	relatedOrd catalog.Ordering
	relatedLim int
	logger     *zap.Logger
}

// NewCatalogService creates a new catalog service. idem and events may be
// nil; the stock decrement then runs without idempotency claims and
// without event publication.
func NewCatalogService(store CatalogStore, idem IdempotencyStore, events StockEventPublisher, opts Options) *CatalogService {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 12
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	if opts.RelatedLimit <= 0 {
		opts.RelatedLimit = 4
	}
	if opts.RelatedOrdering == nil {
		opts.RelatedOrdering = catalog.Random()
	}

	return &CatalogService{
		store:      store,
		idem:       idem,
		events:     events,
		spec:       catalog.NewFilterSpec(opts.DefaultLimit, opts.MaxLimit),
		adminSpec:  catalog.NewAdminFilterSpec(opts.DefaultLimit, opts.MaxLimit),
		relatedOrd: opts.RelatedOrdering,
		relatedLim: opts.RelatedLimit,
		logger:     util.GetLogger(),
	}
}

// ListProducts validates raw filter parameters and returns one page of
// products. "No rows match" is an empty page, not an error.
func (s *CatalogService) ListProducts(ctx context.Context, params catalog.FilterParams) (*models.PageResult[models.ProductSummary], error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	criteria, err := s.spec.Parse(params)
	if err != nil {
		return nil, err
	}

	if criteria.HasSearch() {
		util.SearchQueriesTotal.Inc()
	}

	return s.listWithCriteria(ctx, "list", criteria, catalog.ForCriteria(criteria))
}

// ListProductsAdmin is the admin variant: no implicit status filter and
// "all" accepted.
func (s *CatalogService) ListProductsAdmin(ctx context.Context, params catalog.FilterParams) (*models.PageResult[models.ProductSummary], error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProductsAdmin")
	defer span.End()

	criteria, err := s.adminSpec.Parse(params)
	if err != nil {
		return nil, err
	}

	return s.listWithCriteria(ctx, "admin_list", criteria, catalog.ForCriteria(criteria))
}

// listWithCriteria builds ONE predicate and hands it to both the count
// and the data query. This is the count/data parity invariant; no call
// site re-derives filters on its own.
func (s *CatalogService) listWithCriteria(ctx context.Context, view string, criteria *catalog.FilterCriteria, ord catalog.Ordering) (*models.PageResult[models.ProductSummary], error) {
	pred := catalog.BuildProductPredicate(criteria)

	util.CatalogQueriesTotal.WithLabelValues(view).Inc()
	start := time.Now()
	defer func() {
		util.CatalogQueryDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
	}()

	result, err := fetchPage(ctx, criteria.Page, criteria.Limit,
		func(ctx context.Context) (int, error) {
			return s.store.CountProducts(ctx, pred)
		},
		func(ctx context.Context, limit, offset int) ([]models.ProductSummary, error) {
			return s.store.SelectProductPage(ctx, pred, ord, limit, offset)
		},
	)
	if err != nil {
		util.CatalogQueryErrors.WithLabelValues(view, "storage").Inc()
		s.logger.Error("Product listing failed", zap.String("view", view), zap.Error(err))
		return nil, err
	}

	return result, nil
}

// GetProduct returns one product with its derived scalars, or nil when
// the slug is unknown. Unpublished products are invisible here, same as
// in every public listing view.
func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*models.ProductSummary, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProduct")
	defer span.End()

	product, err := s.store.GetProductBySlug(ctx, slug)
	if err != nil || product == nil {
		return nil, err
	}
	if product.Status != models.ProductStatusActive {
		return nil, nil
	}
	return product, nil
}

// ListCategories returns the two-level category tree with active product
// counts attached.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.CategorySummary, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListCategories")
	defer span.End()

	flat, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	return buildCategoryTree(flat), nil
}

// buildCategoryTree nests child categories under their parents. The tree
// is two levels deep: parents carry no parent_id, children reference one.
func buildCategoryTree(flat []models.CategorySummary) []models.CategorySummary {
	parents := make([]models.CategorySummary, 0, len(flat))
	index := make(map[int64]int)

	for _, c := range flat {
		if c.ParentID == nil {
			index[c.ID] = len(parents)
			parents = append(parents, c)
		}
	}
	for _, c := range flat {
		if c.ParentID == nil {
			continue
		}
		if i, ok := index[*c.ParentID]; ok {
			parents[i].Children = append(parents[i].Children, c)
		}
	}

	return parents
}

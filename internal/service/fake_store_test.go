package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
)

// fakeStore is an in-memory reference implementation of CatalogStore. It
// evaluates the same Predicate the SQL store receives, so count/items
// parity is checked against a dataset the test fully controls.
type fakeStore struct {
	mu         sync.Mutex
	products   []models.Product
	orders     []models.Order
	reviews    []models.ReviewSummary
	categories []models.CategorySummary

	countCalls   int
	pageCalls    int
	failDecrease bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) addProduct(p models.Product) {
	f.products = append(f.products, p)
}

func matchProduct(p models.Product, pred *catalog.Predicate) (bool, error) {
	args := pred.Args()
	for _, clause := range pred.Clauses() {
		switch {
		case strings.Contains(clause, ":category_id"):
			if p.CategoryID != args["category_id"].(int64) {
				return false, nil
			}
		case strings.Contains(clause, ":status"):
			if p.Status != args["status"].(string) {
				return false, nil
			}
		case strings.Contains(clause, ":price_min"):
			if p.Price < args["price_min"].(float64) {
				return false, nil
			}
		case strings.Contains(clause, ":price_max"):
			if p.Price > args["price_max"].(float64) {
				return false, nil
			}
		case strings.Contains(clause, ":featured"):
			if p.Featured != args["featured"].(bool) {
				return false, nil
			}
		case strings.Contains(clause, ":new_arrival"):
			if p.NewArrival != args["new_arrival"].(bool) {
				return false, nil
			}
		case strings.Contains(clause, ":best_seller"):
			if p.BestSeller != args["best_seller"].(bool) {
				return false, nil
			}
		case strings.Contains(clause, ":exclude_id"):
			if p.ID == args["exclude_id"].(int64) {
				return false, nil
			}
		case strings.Contains(clause, ":search_pattern"):
			term := strings.ToLower(strings.Trim(args["search_pattern"].(string), "%"))
			hay := strings.ToLower(p.Name + " " + p.Description + " " + p.Keywords)
			if !strings.Contains(hay, term) {
				return false, nil
			}
		default:
			return false, fmt.Errorf("fake store cannot evaluate clause %q", clause)
		}
	}
	return true, nil
}

func (f *fakeStore) matching(pred *catalog.Predicate) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		ok, err := matchProduct(p, pred)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) CountProducts(_ context.Context, pred *catalog.Predicate) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++

	matched, err := f.matching(pred)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (f *fakeStore) SelectProductPage(_ context.Context, pred *catalog.Predicate, ord catalog.Ordering, limit, offset int) ([]models.ProductSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls++

	matched, err := f.matching(pred)
	if err != nil {
		return nil, err
	}

	orderBy := ord.OrderBy()
	switch {
	case strings.Contains(orderBy, "created_at DESC"):
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
				return matched[i].ID < matched[j].ID
			}
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	default:
		// relevance and injected deterministic orderings fall back to
		// the id tie-break; the fake scores every row equally
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].ID < matched[j].ID
		})
	}

	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]models.ProductSummary, 0, end-offset)
	for _, p := range matched[offset:end] {
		page = append(page, models.ProductSummary{
			ID:            p.ID,
			Slug:          p.Slug,
			Name:          p.Name,
			Price:         p.Price,
			Status:        p.Status,
			StockQuantity: p.StockQuantity,
			CreatedAt:     p.CreatedAt,
		})
	}
	return page, nil
}

func (f *fakeStore) GetProductBySlug(_ context.Context, slug string) (*models.ProductSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.products {
		if p.Slug == slug {
			return &models.ProductSummary{ID: p.ID, Slug: p.Slug, Name: p.Name, Price: p.Price, Status: p.Status}, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) DecreaseStock(_ context.Context, productID int64, qty int) (*models.StockLevel, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDecrease {
		return nil, false, errors.New("storage unavailable")
	}

	for i := range f.products {
		p := &f.products[i]
		if p.ID != productID {
			continue
		}
		if p.StockQuantity < qty {
			return nil, false, nil
		}
		p.StockQuantity -= qty
		return &models.StockLevel{
			ProductID: productID,
			Remaining: p.StockQuantity,
			Threshold: p.LowStockThreshold,
		}, true, nil
	}
	return nil, false, nil
}

func (f *fakeStore) stockOf(productID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == productID {
			return p.StockQuantity
		}
	}
	return -1
}

func (f *fakeStore) ListCategories(_ context.Context) ([]models.CategorySummary, error) {
	return f.categories, nil
}

func matchByStatus(status string, pred *catalog.Predicate) bool {
	args := pred.Args()
	for _, clause := range pred.Clauses() {
		if strings.Contains(clause, ":status") && status != args["status"].(string) {
			return false
		}
	}
	return true
}

func (f *fakeStore) CountOrders(_ context.Context, pred *catalog.Predicate) (int, error) {
	n := 0
	for _, o := range f.orders {
		if matchByStatus(o.Status, pred) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) SelectOrderPage(_ context.Context, pred *catalog.Predicate, limit, offset int) ([]models.Order, error) {
	var matched []models.Order
	for _, o := range f.orders {
		if matchByStatus(o.Status, pred) {
			matched = append(matched, o)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (f *fakeStore) CountReviews(_ context.Context, pred *catalog.Predicate) (int, error) {
	n := 0
	for _, r := range f.reviews {
		if matchByStatus(r.Status, pred) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) SelectReviewPage(_ context.Context, pred *catalog.Predicate, limit, offset int) ([]models.ReviewSummary, error) {
	var matched []models.ReviewSummary
	for _, r := range f.reviews {
		if matchByStatus(r.Status, pred) {
			matched = append(matched, r)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// fakeIdem mimics the Redis SETNX idempotency claim
type fakeIdem struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newFakeIdem() *fakeIdem {
	return &fakeIdem{keys: make(map[string]bool)}
}

func (f *fakeIdem) AcquireIdempotencyKey(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdem) ReleaseIdempotencyKey(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.keys, key)
	return nil
}

func (f *fakeIdem) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[key]
}

// fakePublisher records published stock events
type fakePublisher struct {
	mu        sync.Mutex
	decreased []*models.StockDecreasedEvent
	lowStock  []*models.LowStockEvent
}

func (f *fakePublisher) PublishStockDecreased(_ context.Context, event *models.StockDecreasedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decreased = append(f.decreased, event)
	return nil
}

func (f *fakePublisher) PublishLowStock(_ context.Context, event *models.LowStockEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lowStock = append(f.lowStock, event)
	return nil
}

// idAscOrdering replaces the randomized related ordering in tests
type idAscOrdering struct{}

func (idAscOrdering) OrderBy() string              { return "p.id ASC" }
func (idAscOrdering) Args() map[string]interface{} { return nil }

func seedProducts(f *fakeStore, n int, categoryID int64, status string, priceAt func(i int) float64) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		f.addProduct(models.Product{
			ID:         int64(i),
			Slug:       fmt.Sprintf("product-%d", i),
			CategoryID: categoryID,
			Name:       fmt.Sprintf("Product %d", i),
			Price:      priceAt(i),
			Status:     status,
			// newest-first ordering lines up with ascending ids
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		})
	}
}

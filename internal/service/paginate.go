package service

import (
	"context"

	"catalog-service/internal/models"
)

// fetchPage runs the count/data pair of a paginated listing. Both closures
// must be built from the same predicate; the closure shape makes it hard
// to do otherwise. When the offset lands past the last row the items are
// simply empty, never an error.
func fetchPage[T any](
	ctx context.Context,
	page, limit int,
	count func(context.Context) (int, error),
	fetch func(ctx context.Context, limit, offset int) ([]T, error),
) (*models.PageResult[T], error) {
	total, err := count(ctx)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit

	items := []T{}
	if offset < total {
		items, err = fetch(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
	}

	return &models.PageResult[T]{
		Items:      items,
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}

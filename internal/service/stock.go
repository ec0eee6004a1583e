package service

import (
	"context"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
	"catalog-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DecreaseStock runs the atomic compare-and-subtract for a product. The
// returned bool is false when stock was insufficient; that is a business
// outcome the caller must check, not an error. With an idempotency key,
// a retried call becomes a no-op instead of a second deduction.
func (s *CatalogService) DecreaseStock(ctx context.Context, productID int64, qty int, idempotencyKey string) (bool, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.DecreaseStock")
	defer span.End()

	if qty <= 0 {
		return false, &catalog.ValidationError{Field: "quantity", Message: "must be positive"}
	}

	if idempotencyKey != "" && s.idem != nil {
		acquired, err := s.idem.AcquireIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			// Redis being down must not block the write path; the DB
			// update stays atomic either way.
			s.logger.Warn("Idempotency claim failed, proceeding without",
				zap.String("key", idempotencyKey), zap.Error(err))
		} else if !acquired {
			s.logger.Info("Duplicate stock decrement suppressed",
				zap.String("key", idempotencyKey),
				zap.Int64("product_id", productID))
			util.StockDecrementsTotal.WithLabelValues("duplicate").Inc()
			return false, nil
		}
	}

	level, ok, err := s.store.DecreaseStock(ctx, productID, qty)
	if err != nil {
		s.releaseIdempotencyKey(ctx, idempotencyKey)
		util.StockDecrementsTotal.WithLabelValues("error").Inc()
		return false, err
	}

	if !ok {
		// Nothing was deducted, so the key must not block a retry after
		// a restock.
		s.releaseIdempotencyKey(ctx, idempotencyKey)
		util.StockDecrementsTotal.WithLabelValues("insufficient").Inc()
		s.logger.Info("Stock decrement rejected: insufficient stock",
			zap.Int64("product_id", productID), zap.Int("quantity", qty))
		return false, nil
	}

	util.StockDecrementsTotal.WithLabelValues("success").Inc()
	s.publishStockEvents(ctx, level, qty)

	return true, nil
}

// releaseIdempotencyKey frees a claimed key after a decrement that did
// not deduct anything, so the caller may retry.
func (s *CatalogService) releaseIdempotencyKey(ctx context.Context, key string) {
	if key == "" || s.idem == nil {
		return
	}
	if err := s.idem.ReleaseIdempotencyKey(ctx, key); err != nil {
		s.logger.Warn("Failed to release idempotency key",
			zap.String("key", key), zap.Error(err))
	}
}

// publishStockEvents emits StockDecreased and, when warranted, LowStock.
// Publish failures are logged, never surfaced: the decrement already
// committed and must not look failed to the caller.
func (s *CatalogService) publishStockEvents(ctx context.Context, level *models.StockLevel, qty int) {
	if s.events == nil {
		return
	}

	decreased := &models.StockDecreasedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeStockDecreased,
			Timestamp: time.Now(),
		},
		ProductID: level.ProductID,
		Quantity:  qty,
		Remaining: level.Remaining,
	}
	if err := s.events.PublishStockDecreased(ctx, decreased); err != nil {
		s.logger.Error("Failed to publish StockDecreased event",
			zap.Int64("product_id", level.ProductID), zap.Error(err))
	}

	if !level.Low() {
		return
	}

	low := &models.LowStockEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeLowStock,
			Timestamp: time.Now(),
		},
		ProductID: level.ProductID,
		Remaining: level.Remaining,
		Threshold: level.Threshold,
	}
	if err := s.events.PublishLowStock(ctx, low); err != nil {
		s.logger.Error("Failed to publish LowStock event",
			zap.Int64("product_id", level.ProductID), zap.Error(err))
	}
	util.LowStockEventsTotal.Inc()
}

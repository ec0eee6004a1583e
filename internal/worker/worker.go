package worker

import (
	"context"
	"strconv"

	"catalog-service/internal/broker"
	"catalog-service/internal/models"
	"catalog-service/internal/util"

	"go.uber.org/zap"
)

// StockWorker consumes stock events and keeps the stock gauges current.
// Low-stock events additionally raise a warning so operators notice
// before a product sells out.
type StockWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewStockWorker creates a new stock worker
func NewStockWorker(consumer *broker.Consumer) *StockWorker {
	w := &StockWorker{
		consumer: consumer,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnStockDecreased(w.handleStockDecreased)
	eventHandler.OnLowStock(w.handleLowStock)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *StockWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting stock worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StockWorker) Stop() error {
	w.logger.Info("Stopping stock worker")
	return w.consumer.Close()
}

func (w *StockWorker) handleStockDecreased(ctx context.Context, event *models.StockDecreasedEvent) error {
	util.StockRemaining.
		WithLabelValues(strconv.FormatInt(event.ProductID, 10)).
		Set(float64(event.Remaining))

	w.logger.Debug("Stock decreased",
		zap.Int64("product_id", event.ProductID),
		zap.Int("quantity", event.Quantity),
		zap.Int("remaining", event.Remaining))
	return nil
}

func (w *StockWorker) handleLowStock(ctx context.Context, event *models.LowStockEvent) error {
	w.logger.Warn("Product stock is low",
		zap.Int64("product_id", event.ProductID),
		zap.Int("remaining", event.Remaining),
		zap.Int("threshold", event.Threshold))
	return nil
}

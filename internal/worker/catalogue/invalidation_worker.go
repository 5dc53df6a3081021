package catalogue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/route-search-service/internal/domain"
	"github.com/route-search-service/internal/domain/repository"
	"github.com/route-search-service/internal/worker"
)

const (
	defaultBatchSize    = 20
	defaultIdleSleep    = 200 * time.Millisecond
	defaultClaimMinIdle = 5 * time.Second
)

// CacheInvalidator сбрасывает закешированные маршруты пары
type CacheInvalidator interface {
	Invalidate(ctx context.Context, origin, destination string) error
}

// InvalidationWorker читает события изменения каталога и сбрасывает кеш маршрутов
type InvalidationWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	invalidator  CacheInvalidator
	consumerName string
	batchSize    int
	idleSleep    time.Duration
	claimMinIdle time.Duration
}

// NewInvalidationWorker создает новый InvalidationWorker
func NewInvalidationWorker(
	streamRepo repository.StreamRepository,
	invalidator CacheInvalidator,
	consumerGroup string,
	batchSize int,
	idleSleep time.Duration,
	claimMinIdle time.Duration,
	logger *zap.Logger,
) *InvalidationWorker {
	hostname, _ := os.Hostname()
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if idleSleep <= 0 {
		idleSleep = defaultIdleSleep
	}
	if claimMinIdle <= 0 {
		claimMinIdle = defaultClaimMinIdle
	}

	return &InvalidationWorker{
		BaseWorker:   worker.NewBaseWorker("catalogue-cache-invalidation", consumerGroup, logger),
		streamRepo:   streamRepo,
		invalidator:  invalidator,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		batchSize:    batchSize,
		idleSleep:    idleSleep,
		claimMinIdle: claimMinIdle,
	}
}

// Start запускает воркер
func (w *InvalidationWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting InvalidationWorker",
		zap.String("stream", domain.StreamCatalogueChanged),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.batchSize),
		zap.Duration("claim_min_idle", w.claimMinIdle))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamCatalogueChanged, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	return w.Loop(ctx, w.idleSleep, w.ProcessBatch)
}

// ProcessBatch takes one batch, invalidates the affected pairs and acks.
// Messages left unacked for claimMinIdle (a failed invalidation or a dead
// consumer) are claimed again before new ones are read. Malformed events are
// acked and skipped.
func (w *InvalidationWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.nextBatch(ctx)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(messages))
	pairs := make(map[[2]string]struct{})
	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			ids = append(ids, msg.ID)
			continue
		}
		pairs[[2]string{event.Origin, event.Destination}] = struct{}{}
		ids = append(ids, msg.ID)
	}

	for pair := range pairs {
		if err := w.invalidator.Invalidate(ctx, pair[0], pair[1]); err != nil {
			return 0, fmt.Errorf("invalidate %s-%s: %w", pair[0], pair[1], err)
		}
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamCatalogueChanged, w.ConsumerGroup(), ids); err != nil {
		// не критично: кеш уже сброшен
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	logger.Info("Catalogue cache invalidated",
		zap.Int("messages", len(messages)),
		zap.Int("pairs", len(pairs)))

	return len(messages), nil
}

func (w *InvalidationWorker) nextBatch(ctx context.Context) ([]domain.StreamMessage, error) {
	pending, err := w.streamRepo.ClaimPending(ctx, domain.StreamCatalogueChanged, w.ConsumerGroup(), w.consumerName, w.claimMinIdle, w.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending: %w", err)
	}
	if len(pending) > 0 {
		return pending, nil
	}

	messages, err := w.streamRepo.ConsumeBatch(ctx, domain.StreamCatalogueChanged, w.ConsumerGroup(), w.consumerName, w.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to consume batch: %w", err)
	}
	return messages, nil
}

func parseMessage(msg domain.StreamMessage) (*domain.CatalogueChangedEvent, error) {
	data, ok := msg.Data["data"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var event domain.CatalogueChangedEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.Origin == "" || event.Destination == "" {
		return nil, fmt.Errorf("event %s has no route pair", event.EventID)
	}

	return &event, nil
}

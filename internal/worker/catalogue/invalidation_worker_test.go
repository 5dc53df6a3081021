package catalogue_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/route-search-service/internal/domain"
	"github.com/route-search-service/internal/worker/catalogue"
)

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ClaimPending(ctx context.Context, stream, group, consumer string, minIdle time.Duration, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, minIdle, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, origin, destination string) error {
	args := m.Called(ctx, origin, destination)
	return args.Error(0)
}

func eventMessage(t *testing.T, id, origin, destination string) domain.StreamMessage {
	t.Helper()
	data, err := json.Marshal(domain.NewCatalogueChangedEvent(origin, destination, time.Now().UTC()))
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: map[string]interface{}{"data": string(data)}}
}

const group = "test-group"

func noPending(streamRepo *MockStreamRepository) {
	streamRepo.On("ClaimPending", mock.Anything, domain.StreamCatalogueChanged, group, mock.Anything, time.Second, mock.Anything).
		Return(nil, nil)
}

func TestProcessBatch_InvalidatesDistinctPairs(t *testing.T) {
	streamRepo := new(MockStreamRepository)
	invalidator := new(MockInvalidator)
	w := catalogue.NewInvalidationWorker(streamRepo, invalidator, group, 10, time.Millisecond, time.Second, zap.NewNop())

	messages := []domain.StreamMessage{
		eventMessage(t, "1-0", "Belgrade", "Nis"),
		eventMessage(t, "2-0", "Belgrade", "Nis"),
		eventMessage(t, "3-0", "Nis", "Belgrade"),
	}
	noPending(streamRepo)
	streamRepo.On("ConsumeBatch", mock.Anything, domain.StreamCatalogueChanged, group, mock.Anything, 10).Return(messages, nil)
	invalidator.On("Invalidate", mock.Anything, "Belgrade", "Nis").Return(nil).Once()
	invalidator.On("Invalidate", mock.Anything, "Nis", "Belgrade").Return(nil).Once()
	streamRepo.On("AckMessages", mock.Anything, domain.StreamCatalogueChanged, group, []string{"1-0", "2-0", "3-0"}).Return(nil)

	processed, err := w.ProcessBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, processed)
	invalidator.AssertExpectations(t)
	streamRepo.AssertExpectations(t)
}

func TestProcessBatch_MalformedMessagesAcked(t *testing.T) {
	streamRepo := new(MockStreamRepository)
	invalidator := new(MockInvalidator)
	w := catalogue.NewInvalidationWorker(streamRepo, invalidator, group, 10, time.Millisecond, time.Second, zap.NewNop())

	messages := []domain.StreamMessage{
		{ID: "1-0", Data: map[string]interface{}{"data": "{broken"}},
		{ID: "2-0", Data: map[string]interface{}{"other": "x"}},
		{ID: "3-0", Data: map[string]interface{}{"data": `{"origin":"Belgrade"}`}},
	}
	noPending(streamRepo)
	streamRepo.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(messages, nil)
	streamRepo.On("AckMessages", mock.Anything, domain.StreamCatalogueChanged, group, []string{"1-0", "2-0", "3-0"}).Return(nil)

	processed, err := w.ProcessBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, processed)
	invalidator.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything, mock.Anything)
	streamRepo.AssertExpectations(t)
}

func TestProcessBatch_InvalidationFailureSkipsAck(t *testing.T) {
	streamRepo := new(MockStreamRepository)
	invalidator := new(MockInvalidator)
	w := catalogue.NewInvalidationWorker(streamRepo, invalidator, group, 10, time.Millisecond, time.Second, zap.NewNop())

	noPending(streamRepo)
	streamRepo.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.StreamMessage{eventMessage(t, "1-0", "Belgrade", "Nis")}, nil)
	invalidator.On("Invalidate", mock.Anything, "Belgrade", "Nis").Return(errors.New("redis down"))

	_, err := w.ProcessBatch(context.Background())

	assert.Error(t, err)
	streamRepo.AssertNotCalled(t, "AckMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessBatch_FailedInvalidationRetried(t *testing.T) {
	streamRepo := new(MockStreamRepository)
	invalidator := new(MockInvalidator)
	w := catalogue.NewInvalidationWorker(streamRepo, invalidator, group, 10, time.Millisecond, time.Second, zap.NewNop())
	msg := eventMessage(t, "1-0", "Belgrade", "Nis")

	// первый шаг: новое сообщение, сброс кеша падает
	streamRepo.On("ClaimPending", mock.Anything, domain.StreamCatalogueChanged, group, mock.Anything, time.Second, 10).
		Return(nil, nil).Once()
	streamRepo.On("ConsumeBatch", mock.Anything, domain.StreamCatalogueChanged, group, mock.Anything, 10).
		Return([]domain.StreamMessage{msg}, nil).Once()
	invalidator.On("Invalidate", mock.Anything, "Belgrade", "Nis").Return(errors.New("redis down")).Once()

	_, err := w.ProcessBatch(context.Background())
	require.Error(t, err)
	streamRepo.AssertNotCalled(t, "AckMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// второй шаг: то же сообщение возвращается из pending и подтверждается
	streamRepo.On("ClaimPending", mock.Anything, domain.StreamCatalogueChanged, group, mock.Anything, time.Second, 10).
		Return([]domain.StreamMessage{msg}, nil).Once()
	invalidator.On("Invalidate", mock.Anything, "Belgrade", "Nis").Return(nil).Once()
	streamRepo.On("AckMessages", mock.Anything, domain.StreamCatalogueChanged, group, []string{"1-0"}).Return(nil).Once()

	processed, err := w.ProcessBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	streamRepo.AssertNumberOfCalls(t, "ConsumeBatch", 1)
	invalidator.AssertExpectations(t)
	streamRepo.AssertExpectations(t)
}

func TestProcessBatch_ClaimError(t *testing.T) {
	streamRepo := new(MockStreamRepository)
	w := catalogue.NewInvalidationWorker(streamRepo, new(MockInvalidator), group, 10, time.Millisecond, time.Second, zap.NewNop())

	streamRepo.On("ClaimPending", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	_, err := w.ProcessBatch(context.Background())

	assert.Error(t, err)
	streamRepo.AssertNotCalled(t, "ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessBatch_Empty(t *testing.T) {
	streamRepo := new(MockStreamRepository)
	w := catalogue.NewInvalidationWorker(streamRepo, new(MockInvalidator), group, 0, 0, 0, zap.NewNop())

	streamRepo.On("ClaimPending", mock.Anything, domain.StreamCatalogueChanged, group, mock.Anything, 5*time.Second, 20).Return(nil, nil)
	streamRepo.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, 20).Return(nil, nil)

	processed, err := w.ProcessBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	streamRepo.AssertExpectations(t)
}

func TestStart_StopsOnStop(t *testing.T) {
	streamRepo := new(MockStreamRepository)
	w := catalogue.NewInvalidationWorker(streamRepo, new(MockInvalidator), group, 5, 5*time.Millisecond, time.Second, zap.NewNop())

	streamRepo.On("CreateConsumerGroup", mock.Anything, domain.StreamCatalogueChanged, group).Return(nil)
	noPending(streamRepo)
	streamRepo.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, 5).Return(nil, nil)

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.True(t, w.IsStopped())
}

func TestStart_ConsumerGroupError(t *testing.T) {
	streamRepo := new(MockStreamRepository)
	w := catalogue.NewInvalidationWorker(streamRepo, new(MockInvalidator), group, 5, time.Millisecond, time.Second, zap.NewNop())

	streamRepo.On("CreateConsumerGroup", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("NOAUTH"))

	err := w.Start(context.Background())
	assert.Error(t, err)
}

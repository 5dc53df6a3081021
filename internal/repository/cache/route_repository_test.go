package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/route-search-service/internal/domain"
	"github.com/route-search-service/internal/repository/cache"
)

type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) GetRoutes(ctx context.Context, origin, destination string) ([]*domain.Route, error) {
	args := m.Called(ctx, origin, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Route), args.Error(1)
}

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func sampleRoutes() []*domain.Route {
	return []*domain.Route{{
		ID:          1,
		Origin:      "Belgrade",
		Destination: "Novi Sad",
		Price:       decimal.RequireFromString("812.35"),
		Operator:    &domain.Operator{ID: 1, Name: "Lasta"},
		Schedules: []*domain.Schedule{{
			ID:            10,
			RouteID:       1,
			ValidFrom:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			ValidTo:       time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			ExceptionDays: []time.Time{time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
			ScheduleTimes: []*domain.ScheduleTime{{
				ID:            100,
				ScheduleID:    10,
				DepartureTime: domain.NewTimeOfDay(7, 15),
				ArrivalTime:   domain.NewTimeOfDay(8, 45),
				IsWeekday:     true,
			}},
		}},
	}}
}

func TestRoutesCacheKey(t *testing.T) {
	assert.Equal(t, "catalogue:routes:Belgrade:Novi+Sad", cache.RoutesCacheKey("Belgrade", "Novi Sad"))
	// разделитель внутри названия не склеивает пары
	assert.NotEqual(t, cache.RoutesCacheKey("a:b", "c"), cache.RoutesCacheKey("a", "b:c"))
}

func TestCachedRouteRepository_Hit(t *testing.T) {
	source := new(MockRouteRepository)
	store := new(MockCacheRepository)
	repo := cache.NewCachedRouteRepository(source, store, time.Minute, zap.NewNop())

	data, err := json.Marshal(sampleRoutes())
	require.NoError(t, err)
	key := cache.RoutesCacheKey("Belgrade", "Novi Sad")
	store.On("Get", mock.Anything, key).Return(data, nil)

	routes, err := repo.GetRoutes(context.Background(), "Belgrade", "Novi Sad")

	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "Lasta", routes[0].OperatorName())
	assert.Equal(t, "812.35", routes[0].Price.String())
	assert.Equal(t, domain.NewTimeOfDay(7, 15), routes[0].Schedules[0].ScheduleTimes[0].DepartureTime)
	assert.Equal(t, sampleRoutes()[0].Schedules[0].ExceptionDays, routes[0].Schedules[0].ExceptionDays)
	source.AssertNotCalled(t, "GetRoutes", mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedRouteRepository_MissPopulates(t *testing.T) {
	source := new(MockRouteRepository)
	store := new(MockCacheRepository)
	repo := cache.NewCachedRouteRepository(source, store, time.Minute, zap.NewNop())

	key := cache.RoutesCacheKey("Belgrade", "Novi Sad")
	store.On("Get", mock.Anything, key).Return(nil, nil)
	source.On("GetRoutes", mock.Anything, "Belgrade", "Novi Sad").Return(sampleRoutes(), nil)
	store.On("Set", mock.Anything, key, mock.AnythingOfType("[]uint8"), time.Minute).Return(nil)

	routes, err := repo.GetRoutes(context.Background(), "Belgrade", "Novi Sad")

	require.NoError(t, err)
	assert.Len(t, routes, 1)
	store.AssertExpectations(t)
	source.AssertExpectations(t)
}

func TestCachedRouteRepository_CacheFailureFallsBack(t *testing.T) {
	source := new(MockRouteRepository)
	store := new(MockCacheRepository)
	repo := cache.NewCachedRouteRepository(source, store, time.Minute, zap.NewNop())

	store.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	source.On("GetRoutes", mock.Anything, "Belgrade", "Novi Sad").Return(sampleRoutes(), nil)

	routes, err := repo.GetRoutes(context.Background(), "Belgrade", "Novi Sad")

	require.NoError(t, err)
	assert.Len(t, routes, 1)
}

func TestCachedRouteRepository_CorruptedEntry(t *testing.T) {
	source := new(MockRouteRepository)
	store := new(MockCacheRepository)
	repo := cache.NewCachedRouteRepository(source, store, time.Minute, zap.NewNop())

	store.On("Get", mock.Anything, mock.Anything).Return([]byte("{not json"), nil)
	store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	source.On("GetRoutes", mock.Anything, "Belgrade", "Novi Sad").Return(sampleRoutes(), nil)

	routes, err := repo.GetRoutes(context.Background(), "Belgrade", "Novi Sad")

	require.NoError(t, err)
	assert.Len(t, routes, 1)
	source.AssertExpectations(t)
}

func TestCachedRouteRepository_SourceError(t *testing.T) {
	source := new(MockRouteRepository)
	store := new(MockCacheRepository)
	repo := cache.NewCachedRouteRepository(source, store, time.Minute, zap.NewNop())

	store.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
	source.On("GetRoutes", mock.Anything, "Belgrade", "Novi Sad").Return(nil, errors.New("db down"))

	routes, err := repo.GetRoutes(context.Background(), "Belgrade", "Novi Sad")

	assert.Error(t, err)
	assert.Nil(t, routes)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedRouteRepository_Invalidate(t *testing.T) {
	store := new(MockCacheRepository)
	repo := cache.NewCachedRouteRepository(new(MockRouteRepository), store, time.Minute, zap.NewNop())

	store.On("Delete", mock.Anything, []string{cache.RoutesCacheKey("Belgrade", "Nis")}).Return(nil)

	require.NoError(t, repo.Invalidate(context.Background(), "Belgrade", "Nis"))
	store.AssertExpectations(t)
}

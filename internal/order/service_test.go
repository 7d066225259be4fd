package order

import (
	"testing"
	"time"

	"lokanta-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) TableByID(id uint) (*models.Table, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Table), args.Error(1)
}

func (m *mockRepository) OrderByID(id uint) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockRepository) Orders(f ListFilter) ([]models.Order, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockRepository) KitchenOrders() ([]models.Order, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockRepository) KitchenItems() ([]models.OrderItem, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OrderItem), args.Error(1)
}

func (m *mockRepository) ItemByID(id uint) (*models.OrderItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderItem), args.Error(1)
}

func (m *mockRepository) CreateOrderWithItems(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *mockRepository) ReplaceItems(order *models.Order, items []models.OrderItem, patch map[string]interface{}) error {
	args := m.Called(order, items, patch)
	return args.Error(0)
}

func (m *mockRepository) UpdateOrder(order *models.Order, patch map[string]interface{}) error {
	args := m.Called(order, patch)
	return args.Error(0)
}

func (m *mockRepository) CloseOrder(order *models.Order, closedAt time.Time, forceServe bool) error {
	args := m.Called(order, closedAt, forceServe)
	return args.Error(0)
}

func (m *mockRepository) ItemStatusCounts(orderID uint) (StatusCounts, error) {
	args := m.Called(orderID)
	return args.Get(0).(StatusCounts), args.Error(1)
}

func (m *mockRepository) ApplyItemTransition(item *models.OrderItem, t ItemTransition) error {
	args := m.Called(item, t)
	return args.Error(0)
}

var testNow = time.Date(2026, 8, 29, 20, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestCreate_RequiresTable(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo)

	_, err := svc.Create(CreateInput{
		Items: []ItemInput{{DishID: 1, Quantity: 1, Price: 10}},
	})

	assert.ErrorIs(t, err, ErrNoTable)
	repo.AssertNotCalled(t, "CreateOrderWithItems")
}

func TestCreate_RequiresItems(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo)

	_, err := svc.Create(CreateInput{TableID: 5})

	assert.ErrorIs(t, err, ErrNoItems)
	repo.AssertNotCalled(t, "CreateOrderWithItems")
}

func TestCreate_TableNotFound(t *testing.T) {
	repo := new(mockRepository)
	repo.On("TableByID", uint(99)).Return(nil, ErrTableNotFound)
	svc := newTestService(repo)

	_, err := svc.Create(CreateInput{
		TableID: 99,
		Items:   []ItemInput{{DishID: 1, Quantity: 1, Price: 10}},
	})

	assert.ErrorIs(t, err, ErrTableNotFound)
	repo.AssertNotCalled(t, "CreateOrderWithItems")
}

func TestCreate_ComputesTotalFromSnapshotPrices(t *testing.T) {
	repo := new(mockRepository)
	repo.On("TableByID", uint(5)).Return(&models.Table{ID: 5, Capacity: 4}, nil)

	var saved *models.Order
	repo.On("CreateOrderWithItems", mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) {
			saved = args.Get(0).(*models.Order)
			saved.ID = 42
		}).
		Return(nil)
	repo.On("OrderByID", uint(42)).Return(&models.Order{ID: 42}, nil)

	waiterID := uint(7)
	svc := newTestService(repo)
	_, err := svc.Create(CreateInput{
		TableID:  5,
		WaiterID: &waiterID,
		Items: []ItemInput{
			{DishID: 1, Quantity: 2, Price: 120.50},
			{DishID: 2, Quantity: 1, Price: 45},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 286.0, saved.TotalAmount) // 2*120.50 + 45
	assert.Equal(t, models.OrderStatusOpen, saved.Status)
	assert.Equal(t, models.OrderTypeDineIn, saved.OrderType)
	assert.Len(t, saved.Items, 2)
	for _, item := range saved.Items {
		assert.Equal(t, models.ItemStatusOrdered, item.Status)
	}
	repo.AssertExpectations(t)
}

func TestUpdate_ReplaceItemsRecomputesTotal(t *testing.T) {
	repo := new(mockRepository)
	existing := &models.Order{ID: 42, TableID: 5, Status: models.OrderStatusOpen, TotalAmount: 100}
	repo.On("OrderByID", uint(42)).Return(existing, nil)
	repo.On("ReplaceItems", existing, mock.AnythingOfType("[]models.OrderItem"),
		mock.MatchedBy(func(patch map[string]interface{}) bool {
			return patch["total_amount"] == 75.0
		})).Return(nil)

	svc := newTestService(repo)
	_, err := svc.Update(42, UpdateInput{
		Items: []ItemInput{
			{DishID: 3, Quantity: 3, Price: 25},
		},
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "UpdateOrder")
}

func TestUpdate_WithoutItemsKeepsTotal(t *testing.T) {
	repo := new(mockRepository)
	existing := &models.Order{ID: 42, TableID: 5, Status: models.OrderStatusOpen}
	takeaway := models.OrderTypeTakeaway
	repo.On("OrderByID", uint(42)).Return(existing, nil)
	repo.On("UpdateOrder", existing, mock.MatchedBy(func(patch map[string]interface{}) bool {
		_, hasTotal := patch["total_amount"]
		return patch["order_type"] == takeaway && !hasTotal
	})).Return(nil)

	svc := newTestService(repo)
	_, err := svc.Update(42, UpdateInput{OrderType: &takeaway})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "ReplaceItems")
}

func TestChangeStatus_AllowedTransition(t *testing.T) {
	repo := new(mockRepository)
	existing := &models.Order{ID: 42, Status: models.OrderStatusOpen}
	repo.On("OrderByID", uint(42)).Return(existing, nil)
	repo.On("UpdateOrder", existing, map[string]interface{}{"status": models.OrderStatusInProgress}).Return(nil)

	svc := newTestService(repo)
	err := svc.ChangeStatus(42, models.OrderStatusInProgress)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestChangeStatus_RejectsIllegalTransition(t *testing.T) {
	cases := []struct {
		from models.OrderStatus
		to   models.OrderStatus
	}{
		{models.OrderStatusClosed, models.OrderStatusOpen},
		{models.OrderStatusCancelled, models.OrderStatusInProgress},
		{models.OrderStatusReady, models.OrderStatusOpen},
		{models.OrderStatusOpen, models.OrderStatusClosed}, // kapanış sadece Close ile
	}

	for _, tc := range cases {
		repo := new(mockRepository)
		repo.On("OrderByID", uint(42)).Return(&models.Order{ID: 42, Status: tc.from}, nil)

		svc := newTestService(repo)
		err := svc.ChangeStatus(42, tc.to)

		var transErr *InvalidTransitionError
		assert.ErrorAs(t, err, &transErr, "%s -> %s", tc.from, tc.to)
		repo.AssertNotCalled(t, "UpdateOrder")
	}
}

func TestChangeStatus_RejectsUnknownStatus(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo)

	err := svc.ChangeStatus(42, models.OrderStatus("paid"))

	var transErr *InvalidTransitionError
	assert.ErrorAs(t, err, &transErr)
	repo.AssertNotCalled(t, "OrderByID")
}

func TestClose_BlockedWhileKitchenWorking(t *testing.T) {
	repo := new(mockRepository)
	repo.On("OrderByID", uint(42)).Return(&models.Order{ID: 42, Status: models.OrderStatusInProgress}, nil)
	repo.On("ItemStatusCounts", uint(42)).Return(StatusCounts{Ordered: 1, Preparing: 2, Served: 3}, nil)

	svc := newTestService(repo)
	_, err := svc.Close(42, false)

	var blocked *CloseBlockedError
	assert.ErrorAs(t, err, &blocked)
	assert.Equal(t, int64(1), blocked.Details.Ordered)
	assert.Equal(t, int64(2), blocked.Details.Preparing)
	repo.AssertNotCalled(t, "CloseOrder")
}

func TestClose_BlockedWhileItemsUnserved(t *testing.T) {
	repo := new(mockRepository)
	repo.On("OrderByID", uint(42)).Return(&models.Order{ID: 42, Status: models.OrderStatusReady}, nil)
	repo.On("ItemStatusCounts", uint(42)).Return(StatusCounts{Ready: 2, Served: 1}, nil)

	svc := newTestService(repo)
	_, err := svc.Close(42, false)

	var blocked *CloseBlockedError
	assert.ErrorAs(t, err, &blocked)
	assert.Equal(t, int64(2), blocked.Details.Ready)
	repo.AssertNotCalled(t, "CloseOrder")
}

func TestClose_AllServed(t *testing.T) {
	repo := new(mockRepository)
	existing := &models.Order{ID: 42, Status: models.OrderStatusReady}
	repo.On("OrderByID", uint(42)).Return(existing, nil)
	repo.On("ItemStatusCounts", uint(42)).Return(StatusCounts{Served: 4}, nil)
	repo.On("CloseOrder", existing, testNow, false).Return(nil)

	svc := newTestService(repo)
	_, err := svc.Close(42, false)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestClose_ForceServesRemainingItems(t *testing.T) {
	repo := new(mockRepository)
	existing := &models.Order{ID: 42, Status: models.OrderStatusInProgress}
	repo.On("OrderByID", uint(42)).Return(existing, nil)
	repo.On("ItemStatusCounts", uint(42)).Return(StatusCounts{Ordered: 1, Preparing: 1, Ready: 1}, nil)
	repo.On("CloseOrder", existing, testNow, true).Return(nil)

	svc := newTestService(repo)
	_, err := svc.Close(42, true)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCanClose(t *testing.T) {
	repo := new(mockRepository)
	repo.On("OrderByID", uint(42)).Return(&models.Order{ID: 42}, nil)
	repo.On("ItemStatusCounts", uint(42)).Return(StatusCounts{Ready: 2, Served: 1}, nil)

	svc := newTestService(repo)
	check, err := svc.CanClose(42)

	assert.NoError(t, err)
	assert.False(t, check.CanClose)
	assert.Equal(t, int64(2), check.UnfinishedItems)
	assert.Equal(t, int64(2), check.Details.Ready)

	// Sadece danışma amaçlı: hiçbir yazma çağrısı yapılmaz
	repo.AssertNotCalled(t, "CloseOrder")
	repo.AssertNotCalled(t, "UpdateOrder")
}

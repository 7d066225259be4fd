package order

import (
	"testing"
	"time"

	"lokanta-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestItemService(repo Repository) *ItemService {
	svc := NewItemService(repo)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestItemChangeStatus_AssignsChefOnce(t *testing.T) {
	repo := new(mockRepository)
	item := &models.OrderItem{ID: 10, OrderID: 42, Status: models.ItemStatusOrdered}
	repo.On("ItemByID", uint(10)).Return(item, nil)
	repo.On("ApplyItemTransition", item, mock.MatchedBy(func(tr ItemTransition) bool {
		return tr.Patch["status"] == models.ItemStatusPreparing &&
			tr.Patch["chef_id"] == uint(7) &&
			tr.RollupPatch == nil
	})).Return(nil)

	svc := newTestItemService(repo)
	err := svc.ChangeStatus(10, models.ItemStatusPreparing, 7)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestItemChangeStatus_KeepsExistingChef(t *testing.T) {
	chefID := uint(3)
	repo := new(mockRepository)
	// Kalem daha önce başka bir aşçı tarafından üstlenilmiş: ordered'a
	// dönüş olmadığı için bu senaryo normalde görülmez ama chef_id yine de
	// asla ezilmemeli.
	item := &models.OrderItem{ID: 10, OrderID: 42, Status: models.ItemStatusOrdered, ChefID: &chefID}
	repo.On("ItemByID", uint(10)).Return(item, nil)
	repo.On("ApplyItemTransition", item, mock.MatchedBy(func(tr ItemTransition) bool {
		_, hasChef := tr.Patch["chef_id"]
		return tr.Patch["status"] == models.ItemStatusPreparing && !hasChef
	})).Return(nil)

	svc := newTestItemService(repo)
	err := svc.ChangeStatus(10, models.ItemStatusPreparing, 7)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestItemChangeStatus_ReadyStampsAndRollsUp(t *testing.T) {
	repo := new(mockRepository)
	item := &models.OrderItem{ID: 10, OrderID: 42, Status: models.ItemStatusPreparing}
	repo.On("ItemByID", uint(10)).Return(item, nil)
	repo.On("ApplyItemTransition", item, mock.MatchedBy(func(tr ItemTransition) bool {
		return tr.Patch["status"] == models.ItemStatusReady &&
			tr.Patch["prepared_at"] == testNow &&
			len(tr.PendingStatuses) == 2 &&
			tr.RollupPatch["status"] == models.OrderStatusReady
	})).Return(nil)

	svc := newTestItemService(repo)
	err := svc.ChangeStatus(10, models.ItemStatusReady, 7)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestItemChangeStatus_OrderedStraightToReady(t *testing.T) {
	repo := new(mockRepository)
	item := &models.OrderItem{ID: 10, OrderID: 42, Status: models.ItemStatusOrdered}
	repo.On("ItemByID", uint(10)).Return(item, nil)
	repo.On("ApplyItemTransition", item, mock.MatchedBy(func(tr ItemTransition) bool {
		return tr.Patch["status"] == models.ItemStatusReady &&
			tr.RollupPatch["status"] == models.OrderStatusReady
	})).Return(nil)

	svc := newTestItemService(repo)
	err := svc.ChangeStatus(10, models.ItemStatusReady, 7)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestItemChangeStatus_RejectsIllegalTransition(t *testing.T) {
	cases := []struct {
		from models.OrderItemStatus
		to   models.OrderItemStatus
	}{
		{models.ItemStatusReady, models.ItemStatusPreparing},
		{models.ItemStatusServed, models.ItemStatusReady},
		{models.ItemStatusOrdered, models.ItemStatusServed},
		{models.ItemStatusPreparing, models.ItemStatusOrdered},
	}

	for _, tc := range cases {
		repo := new(mockRepository)
		repo.On("ItemByID", uint(10)).Return(&models.OrderItem{ID: 10, Status: tc.from}, nil)

		svc := newTestItemService(repo)
		err := svc.ChangeStatus(10, tc.to, 7)

		var transErr *InvalidTransitionError
		assert.ErrorAs(t, err, &transErr, "%s -> %s", tc.from, tc.to)
		repo.AssertNotCalled(t, "ApplyItemTransition")
	}
}

func TestMarkServed_OnlyReadyItems(t *testing.T) {
	for _, status := range []models.OrderItemStatus{
		models.ItemStatusOrdered,
		models.ItemStatusPreparing,
		models.ItemStatusServed,
	} {
		repo := new(mockRepository)
		repo.On("ItemByID", uint(10)).Return(&models.OrderItem{ID: 10, Status: status}, nil)

		svc := newTestItemService(repo)
		err := svc.MarkServed(10)

		assert.ErrorIs(t, err, ErrItemNotReady, "status %s", status)
		repo.AssertNotCalled(t, "ApplyItemTransition")
	}
}

func TestMarkServed_ClosesWhenNoReadyLeft(t *testing.T) {
	repo := new(mockRepository)
	item := &models.OrderItem{ID: 10, OrderID: 42, Status: models.ItemStatusReady}
	repo.On("ItemByID", uint(10)).Return(item, nil)
	repo.On("ApplyItemTransition", item, mock.MatchedBy(func(tr ItemTransition) bool {
		// Sayım sadece ready'e bakar: ordered/preparing kalemler
		// kapanışı engellemez.
		return tr.Patch["status"] == models.ItemStatusServed &&
			len(tr.PendingStatuses) == 1 &&
			tr.PendingStatuses[0] == models.ItemStatusReady &&
			tr.RollupPatch["status"] == models.OrderStatusClosed &&
			tr.RollupPatch["closed_at"] == testNow
	})).Return(nil)

	svc := newTestItemService(repo)
	err := svc.MarkServed(10)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestItemChangeStatus_NotFound(t *testing.T) {
	repo := new(mockRepository)
	repo.On("ItemByID", uint(99)).Return(nil, ErrItemNotFound)

	svc := newTestItemService(repo)
	err := svc.ChangeStatus(99, models.ItemStatusPreparing, 7)

	assert.ErrorIs(t, err, ErrItemNotFound)
}

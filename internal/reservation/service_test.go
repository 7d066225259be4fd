package reservation

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

func (m *mockRepository) ReservationByID(id uint) (*models.Reservation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *mockRepository) Reservations(f ListFilter) ([]models.Reservation, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}

func (m *mockRepository) FirstConflict(check ConflictCheck) (*models.Reservation, error) {
	args := m.Called(check)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *mockRepository) CreateGuarded(res *models.Reservation) (*models.Reservation, error) {
	args := m.Called(res)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *mockRepository) UpdateGuarded(res *models.Reservation, patch map[string]interface{}, check *ConflictCheck) (*models.Reservation, error) {
	args := m.Called(res, patch, check)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *mockRepository) Delete(res *models.Reservation) error {
	args := m.Called(res)
	return args.Error(0)
}

func window(fromHour, toHour int) (time.Time, time.Time) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	return day.Add(time.Duration(fromHour) * time.Hour), day.Add(time.Duration(toHour) * time.Hour)
}

func validCreateInput() CreateInput {
	from, to := window(19, 21)
	return CreateInput{
		TableID:       5,
		UserID:        7,
		CustomerName:  "Ayşe Yılmaz",
		CustomerPhone: "05551234567",
		GuestCount:    4,
		ReservedFrom:  from,
		ReservedTo:    to,
	}
}

func TestCheckAvailability_CapacityShortCircuits(t *testing.T) {
	repo := new(mockRepository)
	repo.On("TableByID", uint(5)).Return(&models.Table{ID: 5, Capacity: 4}, nil)
	svc := NewService(repo)

	from, to := window(19, 21)
	result, err := svc.CheckAvailability(AvailabilityInput{
		TableID: 5, From: from, To: to, GuestsCount: 6,
	})

	assert.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, "Masa kapasitesi aşıldı", result.Reason)
	// Kapasite aşımında çakışma sorgusu hiç çalıştırılmaz
	repo.AssertNotCalled(t, "FirstConflict")
}

func TestCheckAvailability_InvalidWindow(t *testing.T) {
	repo := new(mockRepository)
	repo.On("TableByID", uint(5)).Return(&models.Table{ID: 5, Capacity: 4}, nil)
	svc := NewService(repo)

	from, to := window(21, 19)
	_, err := svc.CheckAvailability(AvailabilityInput{TableID: 5, From: from, To: to})

	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestCheckAvailability_ReportsConflict(t *testing.T) {
	from, to := window(19, 21)
	conflictFrom, conflictTo := window(20, 22)
	existing := &models.Reservation{
		ID: 3, TableID: 5, CustomerName: "Mehmet Demir",
		ReservedFrom: conflictFrom, ReservedTo: conflictTo,
		Status: models.ReservationStatusConfirmed,
	}

	repo := new(mockRepository)
	repo.On("TableByID", uint(5)).Return(&models.Table{ID: 5, Capacity: 4}, nil)
	repo.On("FirstConflict", ConflictCheck{TableID: 5, From: from, To: to}).Return(existing, nil)
	svc := NewService(repo)

	result, err := svc.CheckAvailability(AvailabilityInput{TableID: 5, From: from, To: to, GuestsCount: 2})

	assert.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, uint(3), result.Conflict.ID)
	assert.Equal(t, "Mehmet Demir", result.Conflict.CustomerName)
}

func TestCheckAvailability_Free(t *testing.T) {
	from, to := window(12, 14)
	repo := new(mockRepository)
	repo.On("TableByID", uint(5)).Return(&models.Table{ID: 5, Capacity: 4}, nil)
	repo.On("FirstConflict", ConflictCheck{TableID: 5, From: from, To: to}).Return(nil, nil)
	svc := NewService(repo)

	result, err := svc.CheckAvailability(AvailabilityInput{TableID: 5, From: from, To: to})

	assert.NoError(t, err)
	assert.True(t, result.Available)
	assert.Nil(t, result.Conflict)
}

func TestCreate_MissingFields(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	in := validCreateInput()
	in.CustomerPhone = ""
	_, err := svc.Create(in)

	assert.ErrorIs(t, err, ErrMissingFields)
	repo.AssertNotCalled(t, "CreateGuarded")
}

func TestCreate_InvalidWindow(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	in := validCreateInput()
	in.ReservedTo = in.ReservedFrom // sıfır uzunluklu pencere de geçersiz
	_, err := svc.Create(in)

	assert.ErrorIs(t, err, ErrInvalidWindow)
	repo.AssertNotCalled(t, "CreateGuarded")
}

func TestCreate_CapacityExceeded(t *testing.T) {
	repo := new(mockRepository)
	repo.On("TableByID", uint(5)).Return(&models.Table{ID: 5, Capacity: 2}, nil)
	svc := NewService(repo)

	_, err := svc.Create(validCreateInput())

	assert.ErrorIs(t, err, ErrCapacityExceeded)
	repo.AssertNotCalled(t, "CreateGuarded")
}

func TestCreate_ConflictRejected(t *testing.T) {
	existing := &models.Reservation{ID: 3, TableID: 5}

	repo := new(mockRepository)
	repo.On("TableByID", uint(5)).Return(&models.Table{ID: 5, Capacity: 6}, nil)
	repo.On("CreateGuarded", mock.AnythingOfType("*models.Reservation")).Return(existing, nil)
	svc := NewService(repo)

	_, err := svc.Create(validCreateInput())

	var conflictErr *ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, uint(3), conflictErr.Conflict.ID)
}

func TestCreate_Success(t *testing.T) {
	repo := new(mockRepository)
	repo.On("TableByID", uint(5)).Return(&models.Table{ID: 5, Capacity: 6}, nil)
	repo.On("CreateGuarded", mock.MatchedBy(func(res *models.Reservation) bool {
		return res.Status == models.ReservationStatusConfirmed && res.TableID == 5
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Reservation).ID = 11
	}).Return(nil, nil)
	repo.On("ReservationByID", uint(11)).Return(&models.Reservation{ID: 11}, nil)
	svc := NewService(repo)

	created, err := svc.Create(validCreateInput())

	assert.NoError(t, err)
	assert.Equal(t, uint(11), created.ID)
	repo.AssertExpectations(t)
}

func TestUpdate_ReChecksWithSelfExcluded(t *testing.T) {
	from, to := window(19, 21)
	newFrom, newTo := window(20, 22)
	existing := &models.Reservation{
		ID: 11, TableID: 5, GuestCount: 2,
		ReservedFrom: from, ReservedTo: to,
		Status: models.ReservationStatusConfirmed,
	}

	repo := new(mockRepository)
	repo.On("ReservationByID", uint(11)).Return(existing, nil)
	repo.On("TableByID", uint(5)).Return(&models.Table{ID: 5, Capacity: 4}, nil)
	repo.On("UpdateGuarded", existing, mock.Anything,
		&ConflictCheck{TableID: 5, From: newFrom, To: newTo, ExcludeID: 11}).Return(nil, nil)
	svc := NewService(repo)

	_, err := svc.Update(11, UpdateInput{ReservedFrom: &newFrom, ReservedTo: &newTo})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdate_NameOnlySkipsConflictCheck(t *testing.T) {
	from, to := window(19, 21)
	existing := &models.Reservation{
		ID: 11, TableID: 5, ReservedFrom: from, ReservedTo: to,
		Status: models.ReservationStatusConfirmed,
	}
	name := "Fatma Kaya"

	repo := new(mockRepository)
	repo.On("ReservationByID", uint(11)).Return(existing, nil)
	repo.On("UpdateGuarded", existing,
		map[string]interface{}{"customer_name": name},
		(*ConflictCheck)(nil)).Return(nil, nil)
	svc := NewService(repo)

	_, err := svc.Update(11, UpdateInput{CustomerName: &name})

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "TableByID")
	repo.AssertExpectations(t)
}

func TestChangeStatus_OccupyingTransitionReChecks(t *testing.T) {
	from, to := window(19, 21)
	existing := &models.Reservation{
		ID: 11, TableID: 5, ReservedFrom: from, ReservedTo: to,
		Status: models.ReservationStatusCancelled,
	}

	repo := new(mockRepository)
	repo.On("ReservationByID", uint(11)).Return(existing, nil)
	repo.On("UpdateGuarded", existing,
		map[string]interface{}{"status": models.ReservationStatusConfirmed},
		&ConflictCheck{TableID: 5, From: from, To: to, ExcludeID: 11}).Return(nil, nil)
	svc := NewService(repo)

	err := svc.ChangeStatus(11, models.ReservationStatusConfirmed)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestChangeStatus_NonOccupyingSkipsCheck(t *testing.T) {
	existing := &models.Reservation{ID: 11, TableID: 5, Status: models.ReservationStatusConfirmed}

	repo := new(mockRepository)
	repo.On("ReservationByID", uint(11)).Return(existing, nil)
	repo.On("UpdateGuarded", existing,
		map[string]interface{}{"status": models.ReservationStatusCompleted},
		(*ConflictCheck)(nil)).Return(nil, nil)
	svc := NewService(repo)

	err := svc.ChangeStatus(11, models.ReservationStatusCompleted)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestChangeStatus_SameOccupyingStatusSkipsCheck(t *testing.T) {
	existing := &models.Reservation{ID: 11, TableID: 5, Status: models.ReservationStatusConfirmed}

	repo := new(mockRepository)
	repo.On("ReservationByID", uint(11)).Return(existing, nil)
	repo.On("UpdateGuarded", existing,
		map[string]interface{}{"status": models.ReservationStatusConfirmed},
		(*ConflictCheck)(nil)).Return(nil, nil)
	svc := NewService(repo)

	err := svc.ChangeStatus(11, models.ReservationStatusConfirmed)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestChangeStatus_ConflictRejected(t *testing.T) {
	from, to := window(19, 21)
	existing := &models.Reservation{
		ID: 11, TableID: 5, ReservedFrom: from, ReservedTo: to,
		Status: models.ReservationStatusCancelled,
	}
	other := &models.Reservation{ID: 12, TableID: 5}

	repo := new(mockRepository)
	repo.On("ReservationByID", uint(11)).Return(existing, nil)
	repo.On("UpdateGuarded", existing, mock.Anything, mock.Anything).Return(other, nil)
	svc := NewService(repo)

	err := svc.ChangeStatus(11, models.ReservationStatusSeated)

	var conflictErr *ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, uint(12), conflictErr.Conflict.ID)
}

func TestChangeStatus_InvalidStatus(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	err := svc.ChangeStatus(11, models.ReservationStatus("waitlisted"))

	assert.ErrorIs(t, err, ErrInvalidStatus)
	repo.AssertNotCalled(t, "UpdateGuarded")
}

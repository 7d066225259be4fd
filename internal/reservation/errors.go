package reservation

import (
	"errors"
	"fmt"

	"lokanta-backend/internal/models"
)

var (
	ErrReservationNotFound = errors.New("rezervasyon bulunamadı")
	ErrTableNotFound       = errors.New("masa bulunamadı")
	ErrMissingFields       = errors.New("tableId, customerName, customerPhone, reservedFrom ve reservedTo zorunlu")
	ErrCapacityExceeded    = errors.New("masa kapasitesi aşıldı")
	ErrInvalidWindow       = errors.New("reservedTo, reservedFrom'dan sonra olmalı")
	ErrInvalidStatus       = errors.New("geçersiz rezervasyon durumu")
)

// ConflictError: masa istenen zaman aralığında başka bir rezervasyon
// tarafından tutuluyor. Handler çakışan rezervasyonun detaylarını döner.
type ConflictError struct {
	Conflict *models.Reservation
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("masa belirtilen saatlerde dolu (çakışan rezervasyon: %d)", e.Conflict.ID)
}

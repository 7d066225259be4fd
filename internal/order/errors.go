package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound = errors.New("sipariş bulunamadı")
	ErrTableNotFound = errors.New("masa bulunamadı")
	ErrItemNotFound  = errors.New("sipariş kalemi bulunamadı")
	ErrNoItems       = errors.New("items listesi boş olamaz")
	ErrNoTable       = errors.New("tableId zorunlu")
	ErrItemNotReady  = errors.New("sadece hazır (ready) kalemler servis edilebilir")
)

// InvalidTransitionError: geçiş tablosunda tanımlı olmayan durum değişikliği.
type InvalidTransitionError struct {
	From, To string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("geçersiz durum geçişi: %s -> %s", e.From, e.To)
}

// CloseBlockedError: bitmemiş kalemler yüzünden kapatılamayan sipariş.
// Handler bu hatayı {message, details, forceCloseAvailable} gövdesine çevirir.
type CloseBlockedError struct {
	Message string
	Details StatusCounts
}

func (e *CloseBlockedError) Error() string {
	return e.Message
}

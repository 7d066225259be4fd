package audit

import (
	"encoding/json"
	"fmt"
	"log"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog: denetim kaydı yazar. Hata durumunda sadece log'lanır; audit
// kaydının yazılamaması asıl işlemi geri almaz.
func WriteLog(opts LogOptions) {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("Audit log yazılamadı: %v", fmt.Errorf("%s/%d: %w", opts.EntityType, opts.EntityID, err))
	}
}

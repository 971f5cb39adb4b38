package dao

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type Sale struct {
	ID        uint            `gorm:"primaryKey"`
	SessionID *uint           `gorm:"index"`
	MemberID  *uint           `gorm:"index"`
	ShiftID   *uint           `gorm:"index"`
	Total     int             `gorm:"not null"`
	Method    string          `gorm:"not null"`
	Type      string          `gorm:"not null"`
	Items     json.RawMessage `gorm:"type:jsonb"`
	CreatedAt time.Time
}

type SaleDAO struct {
	db *gorm.DB
}

func NewSaleDAO(db *gorm.DB) *SaleDAO {
	return &SaleDAO{
		db: db,
	}
}

// FindConsumptionsBySessionID lists the already-charged account consumptions
// of a session, newest first, for the cost preview.
func (d *SaleDAO) FindConsumptionsBySessionID(ctx context.Context, sessionID uint) ([]Sale, error) {
	var sales []Sale

	result := d.db.WithContext(ctx).
		Where("session_id = ? AND type = ?", sessionID, "CONSUMPTION").
		Order("created_at desc").
		Find(&sales)
	if result.Error != nil {
		return nil, result.Error
	}

	return sales, nil
}

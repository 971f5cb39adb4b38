package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrTableNotFound   = errors.New("table not found")
	ErrTableNameExists = errors.New("a table with this name already exists")
	ErrTableOccupied   = errors.New("table already has an active session")
)

type Table struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"unique;not null"`
	Type             string `gorm:"not null"`
	Status           string `gorm:"not null;default:AVAILABLE"`
	PriceMember      int    `gorm:"not null"`
	PriceClient      int    `gorm:"not null"`
	CurrentSessionID *uint  `gorm:"index"`
	CurrentSession   *Session
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type TableDAO struct {
	db *gorm.DB
}

func NewTableDAO(db *gorm.DB) *TableDAO {
	return &TableDAO{
		db: db,
	}
}

func (d *TableDAO) Insert(ctx context.Context, table Table) (Table, error) {
	result := d.db.WithContext(ctx).Create(&table)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_tables_name"`) {
			return Table{}, ErrTableNameExists
		}

		return Table{}, result.Error
	}

	return table, nil
}

func (d *TableDAO) Update(ctx context.Context, table Table) (Table, error) {
	result := d.db.WithContext(ctx).
		Model(&Table{}).
		Where("id = ?", table.ID).
		Updates(map[string]interface{}{
			"name":         table.Name,
			"type":         table.Type,
			"price_member": table.PriceMember,
			"price_client": table.PriceClient,
		})
	if result.Error != nil {
		return Table{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Table{}, ErrTableNotFound
	}

	return d.FindByID(ctx, table.ID)
}

// UpdateStatus flips a table between the non-billing statuses (AVAILABLE,
// RESERVED, CLEANING). Occupancy is owned by the session lifecycle, so a
// table holding an active session cannot be flipped here.
func (d *TableDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Table{}).
		Where("id = ? AND current_session_id IS NULL", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := d.db.WithContext(ctx).Model(&Table{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrTableNotFound
		}

		return ErrTableOccupied
	}

	return nil
}

func (d *TableDAO) FindByID(ctx context.Context, id uint) (Table, error) {
	var table Table

	result := d.db.WithContext(ctx).
		Preload("CurrentSession.Players.Member").
		First(&table, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Table{}, ErrTableNotFound
		}

		return Table{}, result.Error
	}

	return table, nil
}

func (d *TableDAO) FindAll(ctx context.Context) ([]Table, error) {
	var tables []Table

	result := d.db.WithContext(ctx).
		Preload("CurrentSession.Players.Member").
		Order("name asc").
		Find(&tables)
	if result.Error != nil {
		return nil, result.Error
	}

	return tables, nil
}

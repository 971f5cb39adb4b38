package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNoOpenShift      = errors.New("no open shift")
	ErrShiftNotFound    = errors.New("shift not found")
	ErrShiftAlreadyOpen = errors.New("a shift is already open")
)

type Shift struct {
	ID            uint   `gorm:"primaryKey"`
	Status        string `gorm:"not null;index"`
	OpenedByID    uint   `gorm:"not null"`
	ClosedByID    *uint
	InitialAmount int       `gorm:"not null;default:0"`
	OpenedAt      time.Time `gorm:"not null"`
	ClosedAt      *time.Time
}

type ShiftDAO struct {
	db *gorm.DB
}

func NewShiftDAO(db *gorm.DB) *ShiftDAO {
	return &ShiftDAO{
		db: db,
	}
}

// FindOpen returns the single open shift, the gate every billing operation
// checks first.
func (d *ShiftDAO) FindOpen(ctx context.Context) (Shift, error) {
	var shift Shift

	result := d.db.WithContext(ctx).Where("status = ?", "OPEN").First(&shift)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Shift{}, ErrNoOpenShift
		}

		return Shift{}, result.Error
	}

	return shift, nil
}

func (d *ShiftDAO) Open(ctx context.Context, openedByID uint, initialAmount int) (Shift, error) {
	var shift Shift

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open Shift
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ?", "OPEN").
			First(&open).Error
		if err == nil {
			return ErrShiftAlreadyOpen
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		shift = Shift{
			Status:        "OPEN",
			OpenedByID:    openedByID,
			InitialAmount: initialAmount,
			OpenedAt:      time.Now(),
		}

		return tx.Create(&shift).Error
	})
	if err != nil {
		return Shift{}, err
	}

	return shift, nil
}

func (d *ShiftDAO) Close(ctx context.Context, closedByID uint) (Shift, error) {
	var shift Shift

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ?", "OPEN").
			First(&shift).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoOpenShift
			}

			return err
		}

		now := time.Now()
		shift.Status = "CLOSED"
		shift.ClosedByID = &closedByID
		shift.ClosedAt = &now

		return tx.Save(&shift).Error
	})
	if err != nil {
		return Shift{}, err
	}

	return shift, nil
}

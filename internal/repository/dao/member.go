package dao

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrMemberNotFound = errors.New("member not found")

type Member struct {
	ID                  uint   `gorm:"primaryKey"`
	Name                string `gorm:"not null"`
	Type                string `gorm:"not null"`
	Status              string `gorm:"not null;default:ACTIVE"`
	MembershipExpiresAt *time.Time
	CurrentDebt         int `gorm:"not null;default:0"`
	DebtLimit           int `gorm:"not null;default:0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type MemberDAO struct {
	db *gorm.DB
}

func NewMemberDAO(db *gorm.DB) *MemberDAO {
	return &MemberDAO{
		db: db,
	}
}

func (d *MemberDAO) FindByID(ctx context.Context, id uint) (Member, error) {
	var member Member

	result := d.db.WithContext(ctx).First(&member, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Member{}, ErrMemberNotFound
		}

		return Member{}, result.Error
	}

	return member, nil
}

func (d *MemberDAO) FindByIDs(ctx context.Context, ids []uint) ([]Member, error) {
	var members []Member

	result := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}

	return members, nil
}

func (d *MemberDAO) FindAll(ctx context.Context) ([]Member, error) {
	var members []Member

	result := d.db.WithContext(ctx).Order("name asc").Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}

	return members, nil
}

// PayDebt records the sale and lowers the member's tracked debt in one
// transaction.
func (d *MemberDAO) PayDebt(ctx context.Context, memberID uint, amount int, method string, shiftID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, err := json.Marshal([]orderItemRow{{
			Name:     "Debt payment",
			Price:    amount,
			Quantity: 1,
			AddedAt:  time.Now(),
		}})
		if err != nil {
			return err
		}

		sale := Sale{
			MemberID: &memberID,
			ShiftID:  &shiftID,
			Total:    amount,
			Method:   method,
			Type:     "DEBT_PAYMENT",
			Items:    items,
		}
		if err = tx.Create(&sale).Error; err != nil {
			return err
		}

		return incrementMemberDebt(tx, memberID, -amount)
	})
}

// incrementMemberDebt applies a debt delta atomically at the row level.
func incrementMemberDebt(tx *gorm.DB, memberID uint, amount int) error {
	result := tx.Model(&Member{}).
		Where("id = ?", memberID).
		Update("current_debt", gorm.Expr("current_debt + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

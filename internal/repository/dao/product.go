package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	PriceMember int    `gorm:"not null"`
	PriceClient int    `gorm:"not null"`
	Stock       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type StockMovement struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"not null;index"`
	Quantity  int    `gorm:"not null"`
	Reason    string `gorm:"not null"`
	UserID    uint   `gorm:"not null"`
	CreatedAt time.Time
}

type ProductDAO struct {
	db *gorm.DB
}

func NewProductDAO(db *gorm.DB) *ProductDAO {
	return &ProductDAO{
		db: db,
	}
}

func (d *ProductDAO) FindByID(ctx context.Context, id uint) (Product, error) {
	var product Product

	result := d.db.WithContext(ctx).First(&product, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Product{}, ErrProductNotFound
		}

		return Product{}, result.Error
	}

	return product, nil
}

func (d *ProductDAO) FindByIDs(ctx context.Context, ids []uint) ([]Product, error) {
	var products []Product

	result := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

func (d *ProductDAO) FindAll(ctx context.Context) ([]Product, error) {
	var products []Product

	result := d.db.WithContext(ctx).Order("name asc").Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// decrementStock takes quantity units off the shelf and writes the paired
// audit row. The guarded update keeps stock non-negative; an empty shelf
// rejects the whole transaction.
func decrementStock(tx *gorm.DB, productID uint, quantity int, reason string, actorUserID uint) error {
	result := tx.Model(&Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrProductNotFound
		}

		return ErrInsufficientStock
	}

	return tx.Create(&StockMovement{
		ProductID: productID,
		Quantity:  -quantity,
		Reason:    reason,
		UserID:    actorUserID,
	}).Error
}

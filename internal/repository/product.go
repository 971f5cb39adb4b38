package repository

import (
	"context"
	"fmt"

	"github.com/cueclub/venue-api/internal/domain"
	"github.com/cueclub/venue-api/internal/repository/dao"
)

var (
	ErrProductNotFound   = dao.ErrProductNotFound
	ErrInsufficientStock = dao.ErrInsufficientStock
)

type ProductDAO interface {
	FindByID(ctx context.Context, id uint) (dao.Product, error)
	FindByIDs(ctx context.Context, ids []uint) ([]dao.Product, error)
	FindAll(ctx context.Context) ([]dao.Product, error)
}

type ProductRepository struct {
	dao ProductDAO
}

func NewProductRepository(dao ProductDAO) *ProductRepository {
	return &ProductRepository{
		dao: dao,
	}
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (domain.Product, error) {
	product, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return productDaoToDomain(product), nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error) {
	productsDAO, err := r.dao.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByIDs -> %w", err)
	}

	products := make([]domain.Product, len(productsDAO))
	for i, p := range productsDAO {
		products[i] = productDaoToDomain(p)
	}

	return products, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	productsDAO, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	products := make([]domain.Product, len(productsDAO))
	for i, p := range productsDAO {
		products[i] = productDaoToDomain(p)
	}

	return products, nil
}

func productDaoToDomain(p dao.Product) domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		PriceMember: p.PriceMember,
		PriceClient: p.PriceClient,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

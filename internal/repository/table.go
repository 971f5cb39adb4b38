package repository

import (
	"context"
	"fmt"

	"github.com/cueclub/venue-api/internal/domain"
	"github.com/cueclub/venue-api/internal/repository/dao"
)

var (
	ErrTableNotFound   = dao.ErrTableNotFound
	ErrTableNameExists = dao.ErrTableNameExists
	ErrTableOccupied   = dao.ErrTableOccupied
)

type TableDAO interface {
	Insert(ctx context.Context, table dao.Table) (dao.Table, error)
	Update(ctx context.Context, table dao.Table) (dao.Table, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	FindByID(ctx context.Context, id uint) (dao.Table, error)
	FindAll(ctx context.Context) ([]dao.Table, error)
}

type TableRepository struct {
	dao TableDAO
}

func NewTableRepository(dao TableDAO) *TableRepository {
	return &TableRepository{
		dao: dao,
	}
}

func (r *TableRepository) Create(ctx context.Context, table domain.Table) (domain.Table, error) {
	created, err := r.dao.Insert(ctx, dao.Table{
		Name:        table.Name,
		Type:        string(table.Type),
		Status:      string(domain.TableAvailable),
		PriceMember: table.PriceMember,
		PriceClient: table.PriceClient,
	})
	if err != nil {
		return domain.Table{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *TableRepository) Update(ctx context.Context, table domain.Table) (domain.Table, error) {
	updated, err := r.dao.Update(ctx, dao.Table{
		ID:          table.ID,
		Name:        table.Name,
		Type:        string(table.Type),
		PriceMember: table.PriceMember,
		PriceClient: table.PriceClient,
	})
	if err != nil {
		return domain.Table{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *TableRepository) UpdateStatus(ctx context.Context, id uint, status domain.TableStatus) error {
	err := r.dao.UpdateStatus(ctx, id, string(status))
	if err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *TableRepository) FindByID(ctx context.Context, id uint) (domain.Table, error) {
	table, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Table{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(table), nil
}

func (r *TableRepository) FindAll(ctx context.Context) ([]domain.Table, error) {
	tablesDAO, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	tables := make([]domain.Table, len(tablesDAO))
	for i, t := range tablesDAO {
		tables[i] = r.daoToDomain(t)
	}

	return tables, nil
}

func (r *TableRepository) daoToDomain(t dao.Table) domain.Table {
	return domain.Table{
		ID:               t.ID,
		Name:             t.Name,
		Type:             domain.TableType(t.Type),
		Status:           domain.TableStatus(t.Status),
		PriceMember:      t.PriceMember,
		PriceClient:      t.PriceClient,
		CurrentSessionID: t.CurrentSessionID,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

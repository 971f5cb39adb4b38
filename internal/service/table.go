package service

import (
	"context"
	"fmt"

	"github.com/cueclub/venue-api/internal/domain"
	"github.com/cueclub/venue-api/internal/repository"
)

var ErrTableNameExists = repository.ErrTableNameExists

type TableRepository interface {
	Create(ctx context.Context, table domain.Table) (domain.Table, error)
	Update(ctx context.Context, table domain.Table) (domain.Table, error)
	UpdateStatus(ctx context.Context, id uint, status domain.TableStatus) error
	FindByID(ctx context.Context, id uint) (domain.Table, error)
	FindAll(ctx context.Context) ([]domain.Table, error)
}

type TableService struct {
	repo TableRepository
}

func NewTableService(repo TableRepository) *TableService {
	return &TableService{
		repo: repo,
	}
}

func (s *TableService) CreateTable(ctx context.Context, table domain.Table) (domain.Table, error) {
	created, err := s.repo.Create(ctx, table)
	if err != nil {
		return domain.Table{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *TableService) UpdateTable(ctx context.Context, table domain.Table) (domain.Table, error) {
	updated, err := s.repo.Update(ctx, table)
	if err != nil {
		return domain.Table{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// UpdateTableStatus covers the non-billing statuses only; occupancy is
// driven by the session lifecycle.
func (s *TableService) UpdateTableStatus(ctx context.Context, id uint, status domain.TableStatus) error {
	err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return nil
}

func (s *TableService) GetTable(ctx context.Context, id uint) (domain.Table, error) {
	table, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Table{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return table, nil
}

func (s *TableService) ListTables(ctx context.Context) ([]domain.Table, error) {
	tables, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return tables, nil
}

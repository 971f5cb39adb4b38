package repository

import (
	"context"
	"fmt"

	"github.com/cueclub/venue-api/internal/domain"
	"github.com/cueclub/venue-api/internal/repository/dao"
)

var (
	ErrNoOpenShift      = dao.ErrNoOpenShift
	ErrShiftAlreadyOpen = dao.ErrShiftAlreadyOpen
)

type ShiftDAO interface {
	FindOpen(ctx context.Context) (dao.Shift, error)
	Open(ctx context.Context, openedByID uint, initialAmount int) (dao.Shift, error)
	Close(ctx context.Context, closedByID uint) (dao.Shift, error)
}

type ShiftRepository struct {
	dao ShiftDAO
}

func NewShiftRepository(dao ShiftDAO) *ShiftRepository {
	return &ShiftRepository{
		dao: dao,
	}
}

func (r *ShiftRepository) FindOpen(ctx context.Context) (domain.Shift, error) {
	shift, err := r.dao.FindOpen(ctx)
	if err != nil {
		return domain.Shift{}, fmt.Errorf("r.dao.FindOpen -> %w", err)
	}

	return r.daoToDomain(shift), nil
}

func (r *ShiftRepository) Open(ctx context.Context, openedByID uint, initialAmount int) (domain.Shift, error) {
	shift, err := r.dao.Open(ctx, openedByID, initialAmount)
	if err != nil {
		return domain.Shift{}, fmt.Errorf("r.dao.Open -> %w", err)
	}

	return r.daoToDomain(shift), nil
}

func (r *ShiftRepository) Close(ctx context.Context, closedByID uint) (domain.Shift, error) {
	shift, err := r.dao.Close(ctx, closedByID)
	if err != nil {
		return domain.Shift{}, fmt.Errorf("r.dao.Close -> %w", err)
	}

	return r.daoToDomain(shift), nil
}

func (r *ShiftRepository) daoToDomain(s dao.Shift) domain.Shift {
	return domain.Shift{
		ID:            s.ID,
		Status:        domain.ShiftStatus(s.Status),
		OpenedByID:    s.OpenedByID,
		ClosedByID:    s.ClosedByID,
		InitialAmount: s.InitialAmount,
		OpenedAt:      s.OpenedAt,
		ClosedAt:      s.ClosedAt,
	}
}

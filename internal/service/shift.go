package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cueclub/venue-api/internal/domain"
	"github.com/cueclub/venue-api/internal/repository"
)

var (
	ErrShiftClosed      = errors.New("no shift is open")
	ErrShiftAlreadyOpen = repository.ErrShiftAlreadyOpen
)

type ShiftRepository interface {
	FindOpen(ctx context.Context) (domain.Shift, error)
	Open(ctx context.Context, openedByID uint, initialAmount int) (domain.Shift, error)
	Close(ctx context.Context, closedByID uint) (domain.Shift, error)
}

type ShiftService struct {
	repo ShiftRepository
}

func NewShiftService(repo ShiftRepository) *ShiftService {
	return &ShiftService{
		repo: repo,
	}
}

// RequireOpenShift is the gate dependency injected into the billing
// services. Absence of an open shift is ErrShiftClosed, never a mutation.
func (s *ShiftService) RequireOpenShift(ctx context.Context) (domain.Shift, error) {
	shift, err := s.repo.FindOpen(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoOpenShift) {
			return domain.Shift{}, ErrShiftClosed
		}

		return domain.Shift{}, fmt.Errorf("s.repo.FindOpen -> %w", err)
	}

	return shift, nil
}

func (s *ShiftService) OpenShift(ctx context.Context, openedByID uint, initialAmount int) (domain.Shift, error) {
	shift, err := s.repo.Open(ctx, openedByID, initialAmount)
	if err != nil {
		return domain.Shift{}, fmt.Errorf("s.repo.Open -> %w", err)
	}

	return shift, nil
}

func (s *ShiftService) CloseShift(ctx context.Context, closedByID uint) (domain.Shift, error) {
	shift, err := s.repo.Close(ctx, closedByID)
	if err != nil {
		if errors.Is(err, repository.ErrNoOpenShift) {
			return domain.Shift{}, ErrShiftClosed
		}

		return domain.Shift{}, fmt.Errorf("s.repo.Close -> %w", err)
	}

	return shift, nil
}

func (s *ShiftService) CurrentShift(ctx context.Context) (domain.Shift, error) {
	return s.RequireOpenShift(ctx)
}

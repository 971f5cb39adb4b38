package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cueclub/venue-api/internal/domain"
	"github.com/cueclub/venue-api/internal/repository"
)

var (
	ErrMemberNotFound = repository.ErrMemberNotFound

	ErrInvalidDebtPayment = errors.New("debt payment exceeds the member's current debt")
)

type MemberRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Member, error)
	FindAll(ctx context.Context) ([]domain.Member, error)
	PayDebt(ctx context.Context, memberID uint, amount int, method domain.PaymentMethod, shiftID uint) error
}

type MemberService struct {
	repo MemberRepository
	gate ShiftGate
}

func NewMemberService(repo MemberRepository, gate ShiftGate) *MemberService {
	return &MemberService{
		repo: repo,
		gate: gate,
	}
}

func (s *MemberService) GetMember(ctx context.Context, id uint) (domain.Member, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Member{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return member, nil
}

func (s *MemberService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	members, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return members, nil
}

// PayDebt collects money against a member's on-account balance. ACCOUNT is
// not a valid method here; paying debt with more debt is meaningless.
func (s *MemberService) PayDebt(ctx context.Context, memberID uint, amount int, method domain.PaymentMethod) (domain.Member, error) {
	shift, err := s.gate.RequireOpenShift(ctx)
	if err != nil {
		return domain.Member{}, err
	}

	if amount <= 0 {
		return domain.Member{}, domain.ErrInvalidPaymentAmount
	}
	if !method.Valid() || method == domain.PaymentAccount {
		return domain.Member{}, domain.ErrInvalidPaymentMethod
	}

	member, err := s.repo.FindByID(ctx, memberID)
	if err != nil {
		return domain.Member{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if amount > member.CurrentDebt {
		return domain.Member{}, ErrInvalidDebtPayment
	}

	if err = s.repo.PayDebt(ctx, memberID, amount, method, shift.ID); err != nil {
		return domain.Member{}, fmt.Errorf("s.repo.PayDebt -> %w", err)
	}

	member.CurrentDebt -= amount

	return member, nil
}

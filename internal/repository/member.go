package repository

import (
	"context"
	"fmt"

	"github.com/cueclub/venue-api/internal/domain"
	"github.com/cueclub/venue-api/internal/repository/dao"
)

var ErrMemberNotFound = dao.ErrMemberNotFound

type MemberDAO interface {
	FindByID(ctx context.Context, id uint) (dao.Member, error)
	FindByIDs(ctx context.Context, ids []uint) ([]dao.Member, error)
	FindAll(ctx context.Context) ([]dao.Member, error)
	PayDebt(ctx context.Context, memberID uint, amount int, method string, shiftID uint) error
}

type MemberRepository struct {
	dao MemberDAO
}

func NewMemberRepository(dao MemberDAO) *MemberRepository {
	return &MemberRepository{
		dao: dao,
	}
}

func (r *MemberRepository) FindByID(ctx context.Context, id uint) (domain.Member, error) {
	member, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Member{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return memberDaoToDomain(member), nil
}

func (r *MemberRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Member, error) {
	membersDAO, err := r.dao.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByIDs -> %w", err)
	}

	members := make([]domain.Member, len(membersDAO))
	for i, m := range membersDAO {
		members[i] = memberDaoToDomain(m)
	}

	return members, nil
}

func (r *MemberRepository) FindAll(ctx context.Context) ([]domain.Member, error) {
	membersDAO, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	members := make([]domain.Member, len(membersDAO))
	for i, m := range membersDAO {
		members[i] = memberDaoToDomain(m)
	}

	return members, nil
}

func (r *MemberRepository) PayDebt(ctx context.Context, memberID uint, amount int, method domain.PaymentMethod, shiftID uint) error {
	err := r.dao.PayDebt(ctx, memberID, amount, string(method), shiftID)
	if err != nil {
		return fmt.Errorf("r.dao.PayDebt -> %w", err)
	}

	return nil
}

func memberDaoToDomain(m dao.Member) domain.Member {
	return domain.Member{
		ID:                  m.ID,
		Name:                m.Name,
		Type:                domain.MemberType(m.Type),
		Status:              domain.MemberStatus(m.Status),
		MembershipExpiresAt: m.MembershipExpiresAt,
		CurrentDebt:         m.CurrentDebt,
		DebtLimit:           m.DebtLimit,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

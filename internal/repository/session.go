package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cueclub/venue-api/internal/domain"
	"github.com/cueclub/venue-api/internal/repository/dao"
)

var (
	ErrSessionNotFound   = dao.ErrSessionNotFound
	ErrSessionNotActive  = dao.ErrSessionNotActive
	ErrPlayerNotFound    = dao.ErrPlayerNotFound
	ErrPlayerAlreadyLeft = dao.ErrPlayerAlreadyLeft
)

type SessionDAO interface {
	Open(ctx context.Context, tableID uint, session dao.Session, players []dao.SessionPlayer) (dao.Session, error)
	FindByID(ctx context.Context, id uint) (dao.Session, error)
	AddConsumption(ctx context.Context, sessionID uint, items []dao.ConsumptionItem, targetMemberID *uint, actorUserID uint, shiftID uint) error
	UpdateGameState(ctx context.Context, sessionID uint, state json.RawMessage) error
	Close(ctx context.Context, sessionID uint, endTime time.Time, totalAmount, durationMin int, sales []dao.Sale, debtIncrements map[uint]int) error
	AddPlayer(ctx context.Context, player dao.SessionPlayer) (dao.SessionPlayer, error)
	FindPlayerByID(ctx context.Context, id uint) (dao.SessionPlayer, error)
	LeavePlayer(ctx context.Context, playerID uint, endTime time.Time, totalCost int) (int64, error)
}

type SaleDAO interface {
	FindConsumptionsBySessionID(ctx context.Context, sessionID uint) ([]dao.Sale, error)
}

type SessionRepository struct {
	dao     SessionDAO
	saleDAO SaleDAO
	tRepo   *TableRepository
}

func NewSessionRepository(dao SessionDAO, saleDAO SaleDAO, tRepo *TableRepository) *SessionRepository {
	return &SessionRepository{
		dao:     dao,
		saleDAO: saleDAO,
		tRepo:   tRepo,
	}
}

func (r *SessionRepository) Open(ctx context.Context, tableID uint, session domain.Session, players []domain.SessionPlayer) (domain.Session, error) {
	sessionDAO, err := r.domainToDao(session)
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.domainToDao -> %w", err)
	}

	playersDAO := make([]dao.SessionPlayer, len(players))
	for i, p := range players {
		playersDAO[i] = r.playerDomainToDao(p)
	}

	created, err := r.dao.Open(ctx, tableID, sessionDAO, playersDAO)
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.dao.Open -> %w", err)
	}

	return r.daoToDomain(created)
}

func (r *SessionRepository) FindByID(ctx context.Context, id uint) (domain.Session, error) {
	session, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(session)
}

func (r *SessionRepository) AddConsumption(ctx context.Context, sessionID uint, items []domain.OrderItem, targetMemberID *uint, actorUserID, shiftID uint) error {
	itemsDAO := make([]dao.ConsumptionItem, len(items))
	for i, item := range items {
		itemsDAO[i] = dao.ConsumptionItem{
			ProductID:       item.ProductID,
			Name:            item.Name,
			Price:           item.Price,
			Quantity:        item.Quantity,
			SessionPlayerID: item.SessionPlayerID,
		}
	}

	err := r.dao.AddConsumption(ctx, sessionID, itemsDAO, targetMemberID, actorUserID, shiftID)
	if err != nil {
		return fmt.Errorf("r.dao.AddConsumption -> %w", err)
	}

	return nil
}

func (r *SessionRepository) UpdateGameState(ctx context.Context, sessionID uint, state json.RawMessage) error {
	err := r.dao.UpdateGameState(ctx, sessionID, state)
	if err != nil {
		return fmt.Errorf("r.dao.UpdateGameState -> %w", err)
	}

	return nil
}

func (r *SessionRepository) Close(ctx context.Context, sessionID uint, endTime time.Time, totalAmount, durationMin int, sales []domain.Sale, debtIncrements map[uint]int) error {
	salesDAO := make([]dao.Sale, len(sales))
	for i, s := range sales {
		saleDAO, err := r.saleDomainToDao(s)
		if err != nil {
			return fmt.Errorf("r.saleDomainToDao -> %w", err)
		}
		salesDAO[i] = saleDAO
	}

	err := r.dao.Close(ctx, sessionID, endTime, totalAmount, durationMin, salesDAO, debtIncrements)
	if err != nil {
		return fmt.Errorf("r.dao.Close -> %w", err)
	}

	return nil
}

func (r *SessionRepository) AddPlayer(ctx context.Context, player domain.SessionPlayer) (domain.SessionPlayer, error) {
	created, err := r.dao.AddPlayer(ctx, r.playerDomainToDao(player))
	if err != nil {
		return domain.SessionPlayer{}, fmt.Errorf("r.dao.AddPlayer -> %w", err)
	}

	return r.playerDaoToDomain(created), nil
}

func (r *SessionRepository) FindPlayerByID(ctx context.Context, id uint) (domain.SessionPlayer, error) {
	player, err := r.dao.FindPlayerByID(ctx, id)
	if err != nil {
		return domain.SessionPlayer{}, fmt.Errorf("r.dao.FindPlayerByID -> %w", err)
	}

	return r.playerDaoToDomain(player), nil
}

func (r *SessionRepository) LeavePlayer(ctx context.Context, playerID uint, endTime time.Time, totalCost int) (int64, error) {
	remaining, err := r.dao.LeavePlayer(ctx, playerID, endTime, totalCost)
	if err != nil {
		return 0, fmt.Errorf("r.dao.LeavePlayer -> %w", err)
	}

	return remaining, nil
}

// FindConsumptionSales lists the account charges already booked against a
// session, for inclusion in the cost preview.
func (r *SessionRepository) FindConsumptionSales(ctx context.Context, sessionID uint) ([]domain.Sale, error) {
	salesDAO, err := r.saleDAO.FindConsumptionsBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("r.saleDAO.FindConsumptionsBySessionID -> %w", err)
	}

	sales := make([]domain.Sale, len(salesDAO))
	for i, s := range salesDAO {
		sale, err := r.saleDaoToDomain(s)
		if err != nil {
			return nil, fmt.Errorf("r.saleDaoToDomain -> %w", err)
		}
		sales[i] = sale
	}

	return sales, nil
}

func (r *SessionRepository) domainToDao(s domain.Session) (dao.Session, error) {
	orders, err := marshalOrderItems(s.Orders)
	if err != nil {
		return dao.Session{}, err
	}

	return dao.Session{
		ID:          s.ID,
		TableID:     s.TableID,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Status:      string(s.Status),
		Training:    s.Training,
		Orders:      orders,
		GameState:   s.GameState,
		TotalAmount: s.TotalAmount,
		DurationMin: s.DurationMin,
	}, nil
}

func (r *SessionRepository) daoToDomain(s dao.Session) (domain.Session, error) {
	orders, err := unmarshalOrderItems(s.Orders)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session %v has a corrupt orders payload -> %w", s.ID, err)
	}

	players := make([]domain.SessionPlayer, len(s.Players))
	for i, p := range s.Players {
		players[i] = r.playerDaoToDomain(p)
	}

	return domain.Session{
		ID:          s.ID,
		TableID:     s.TableID,
		Table:       r.tRepo.daoToDomain(s.Table),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Status:      domain.SessionStatus(s.Status),
		Training:    s.Training,
		Orders:      orders,
		GameState:   s.GameState,
		TotalAmount: s.TotalAmount,
		DurationMin: s.DurationMin,
		Players:     players,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}, nil
}

func (r *SessionRepository) playerDomainToDao(p domain.SessionPlayer) dao.SessionPlayer {
	return dao.SessionPlayer{
		ID:         p.ID,
		SessionID:  p.SessionID,
		MemberID:   p.MemberID,
		GuestName:  p.GuestName,
		StartTime:  p.StartTime,
		EndTime:    p.EndTime,
		Status:     string(p.Status),
		HourlyRate: p.HourlyRate,
		TotalCost:  p.TotalCost,
	}
}

func (r *SessionRepository) playerDaoToDomain(p dao.SessionPlayer) domain.SessionPlayer {
	player := domain.SessionPlayer{
		ID:         p.ID,
		SessionID:  p.SessionID,
		MemberID:   p.MemberID,
		GuestName:  p.GuestName,
		StartTime:  p.StartTime,
		EndTime:    p.EndTime,
		Status:     domain.PlayerStatus(p.Status),
		HourlyRate: p.HourlyRate,
		TotalCost:  p.TotalCost,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}

	if p.Member != nil {
		member := memberDaoToDomain(*p.Member)
		player.Member = &member
	}

	return player
}

func (r *SessionRepository) saleDomainToDao(s domain.Sale) (dao.Sale, error) {
	items, err := marshalOrderItems(s.Items)
	if err != nil {
		return dao.Sale{}, err
	}

	return dao.Sale{
		ID:        s.ID,
		SessionID: s.SessionID,
		MemberID:  s.MemberID,
		ShiftID:   s.ShiftID,
		Total:     s.Total,
		Method:    string(s.Method),
		Type:      string(s.Type),
		Items:     items,
	}, nil
}

func (r *SessionRepository) saleDaoToDomain(s dao.Sale) (domain.Sale, error) {
	items, err := unmarshalOrderItems(s.Items)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("sale %v has a corrupt items payload -> %w", s.ID, err)
	}

	return domain.Sale{
		ID:        s.ID,
		SessionID: s.SessionID,
		MemberID:  s.MemberID,
		ShiftID:   s.ShiftID,
		Total:     s.Total,
		Method:    domain.PaymentMethod(s.Method),
		Type:      domain.SaleType(s.Type),
		Items:     items,
		CreatedAt: s.CreatedAt,
	}, nil
}

func marshalOrderItems(items []domain.OrderItem) (json.RawMessage, error) {
	if len(items) == 0 {
		return nil, nil
	}

	return json.Marshal(items)
}

func unmarshalOrderItems(raw json.RawMessage) ([]domain.OrderItem, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var items []domain.OrderItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	return items, nil
}

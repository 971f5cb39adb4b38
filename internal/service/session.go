package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cueclub/venue-api/internal/domain"
	"github.com/cueclub/venue-api/internal/repository"
)

var (
	ErrTableNotFound     = repository.ErrTableNotFound
	ErrTableOccupied     = repository.ErrTableOccupied
	ErrSessionNotFound   = repository.ErrSessionNotFound
	ErrSessionNotActive  = repository.ErrSessionNotActive
	ErrPlayerNotFound    = repository.ErrPlayerNotFound
	ErrPlayerAlreadyLeft = repository.ErrPlayerAlreadyLeft
	ErrProductNotFound   = repository.ErrProductNotFound
	ErrInsufficientStock = repository.ErrInsufficientStock

	ErrNotEnoughPlayers    = errors.New("card sessions require at least two players")
	ErrNotPerPlayerBilling = errors.New("players can only join tables billed per player")
)

// ShiftGate is the open-shift precondition every billing mutation checks
// before touching anything. Injected, not read from ambient state.
type ShiftGate interface {
	RequireOpenShift(ctx context.Context) (domain.Shift, error)
}

type SessionRepository interface {
	Open(ctx context.Context, tableID uint, session domain.Session, players []domain.SessionPlayer) (domain.Session, error)
	FindByID(ctx context.Context, id uint) (domain.Session, error)
	AddConsumption(ctx context.Context, sessionID uint, items []domain.OrderItem, targetMemberID *uint, actorUserID, shiftID uint) error
	UpdateGameState(ctx context.Context, sessionID uint, state json.RawMessage) error
	Close(ctx context.Context, sessionID uint, endTime time.Time, totalAmount, durationMin int, sales []domain.Sale, debtIncrements map[uint]int) error
	AddPlayer(ctx context.Context, player domain.SessionPlayer) (domain.SessionPlayer, error)
	FindPlayerByID(ctx context.Context, id uint) (domain.SessionPlayer, error)
	LeavePlayer(ctx context.Context, playerID uint, endTime time.Time, totalCost int) (int64, error)
	FindConsumptionSales(ctx context.Context, sessionID uint) ([]domain.Sale, error)
}

type SessionTableRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Table, error)
}

type SessionMemberRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Member, error)
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Member, error)
}

type SessionProductRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error)
}

type SessionService struct {
	repo        SessionRepository
	tableRepo   SessionTableRepository
	memberRepo  SessionMemberRepository
	productRepo SessionProductRepository
	gate        ShiftGate
}

func NewSessionService(repo SessionRepository, tableRepo SessionTableRepository, memberRepo SessionMemberRepository, productRepo SessionProductRepository, gate ShiftGate) *SessionService {
	return &SessionService{
		repo:        repo,
		tableRepo:   tableRepo,
		memberRepo:  memberRepo,
		productRepo: productRepo,
		gate:        gate,
	}
}

// PlayerInput identifies one occupant at open or join time. A nil MemberID
// means an unregistered guest billed at the client rate.
type PlayerInput struct {
	MemberID  *uint
	GuestName string
}

// ConsumptionInput is one requested consumption line. Prices are never
// accepted from the caller; they resolve server-side.
type ConsumptionInput struct {
	ProductID       uint
	Quantity        int
	SessionPlayerID *uint
}

// LeaveResult carries the stamped cost plus the advisory occupancy warning.
type LeaveResult struct {
	Player              domain.SessionPlayer
	Cost                int
	BelowMinimumPlayers bool
}

// PreviewResult is a non-mutating cost snapshot of an open session.
type PreviewResult struct {
	Session        domain.Session
	Breakdown      domain.CostBreakdown
	AccountCharges []domain.Sale
}

// CloseResult reports the settled figures.
type CloseResult struct {
	Session   domain.Session
	Breakdown domain.CostBreakdown
	Payments  []domain.Payment
}

// OpenSession claims the table and starts the clock. Hourly rates are
// resolved per player right now and frozen on each SessionPlayer record.
func (s *SessionService) OpenSession(ctx context.Context, tableID uint, inputs []PlayerInput, training bool) (domain.Session, error) {
	if _, err := s.gate.RequireOpenShift(ctx); err != nil {
		return domain.Session{}, err
	}

	table, err := s.tableRepo.FindByID(ctx, tableID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("s.tableRepo.FindByID -> %w", err)
	}

	if table.Type.BilledPerPlayer() && len(inputs) < 2 {
		return domain.Session{}, ErrNotEnoughPlayers
	}

	now := time.Now()
	players, err := s.buildPlayers(ctx, table, inputs, now)
	if err != nil {
		return domain.Session{}, err
	}

	session := domain.Session{
		TableID:   tableID,
		StartTime: now,
		Status:    domain.SessionActive,
		Training:  training,
	}

	created, err := s.repo.Open(ctx, tableID, session, players)
	if err != nil {
		return domain.Session{}, fmt.Errorf("s.repo.Open -> %w", err)
	}
	created.Table = table

	return created, nil
}

// JoinSession adds a player to an active per-player session, snapshotting
// their rate at this moment.
func (s *SessionService) JoinSession(ctx context.Context, sessionID uint, input PlayerInput) (domain.SessionPlayer, error) {
	if _, err := s.gate.RequireOpenShift(ctx); err != nil {
		return domain.SessionPlayer{}, err
	}

	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return domain.SessionPlayer{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if session.Status != domain.SessionActive {
		return domain.SessionPlayer{}, ErrSessionNotActive
	}
	if !session.Table.Type.BilledPerPlayer() {
		return domain.SessionPlayer{}, ErrNotPerPlayerBilling
	}

	now := time.Now()
	players, err := s.buildPlayers(ctx, session.Table, []PlayerInput{input}, now)
	if err != nil {
		return domain.SessionPlayer{}, err
	}

	player := players[0]
	player.SessionID = sessionID

	created, err := s.repo.AddPlayer(ctx, player)
	if err != nil {
		return domain.SessionPlayer{}, fmt.Errorf("s.repo.AddPlayer -> %w", err)
	}

	return created, nil
}

// LeaveSession stamps a player's exit cost at their frozen rate. The
// transition is one-way; a second leave fails without changing anything.
func (s *SessionService) LeaveSession(ctx context.Context, sessionID, playerID uint) (LeaveResult, error) {
	if _, err := s.gate.RequireOpenShift(ctx); err != nil {
		return LeaveResult{}, err
	}

	player, err := s.repo.FindPlayerByID(ctx, playerID)
	if err != nil {
		return LeaveResult{}, fmt.Errorf("s.repo.FindPlayerByID -> %w", err)
	}
	if player.SessionID != sessionID {
		return LeaveResult{}, ErrPlayerNotFound
	}

	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return LeaveResult{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if session.Status != domain.SessionActive {
		return LeaveResult{}, ErrSessionNotActive
	}

	now := time.Now()
	cost := domain.PlayerCost(player, session.Training, now)

	remaining, err := s.repo.LeavePlayer(ctx, playerID, now, cost)
	if err != nil {
		return LeaveResult{}, fmt.Errorf("s.repo.LeavePlayer -> %w", err)
	}

	player.Status = domain.PlayerLeft
	player.EndTime = &now
	player.TotalCost = cost

	return LeaveResult{
		Player:              player,
		Cost:                cost,
		BelowMinimumPlayers: session.Table.Type.BilledPerPlayer() && remaining < 2,
	}, nil
}

// AddConsumption books products onto an active session: stock is deducted
// and audited, and the items either charge the target member's account
// immediately or accumulate as pending orders for settlement.
func (s *SessionService) AddConsumption(ctx context.Context, sessionID uint, inputs []ConsumptionInput, targetMemberID *uint, actorUserID uint) error {
	shift, err := s.gate.RequireOpenShift(ctx)
	if err != nil {
		return err
	}

	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if session.Status != domain.SessionActive {
		return ErrSessionNotActive
	}

	var target *domain.Member
	if targetMemberID != nil {
		member, err := s.memberRepo.FindByID(ctx, *targetMemberID)
		if err != nil {
			return fmt.Errorf("s.memberRepo.FindByID -> %w", err)
		}
		target = &member
	}

	items, err := s.priceConsumption(ctx, inputs, target)
	if err != nil {
		return err
	}

	err = s.repo.AddConsumption(ctx, sessionID, items, targetMemberID, actorUserID, shift.ID)
	if err != nil {
		return fmt.Errorf("s.repo.AddConsumption -> %w", err)
	}

	return nil
}

// PreviewCost prices the session as of now without mutating anything.
func (s *SessionService) PreviewCost(ctx context.Context, sessionID uint) (PreviewResult, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return PreviewResult{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	charges, err := s.repo.FindConsumptionSales(ctx, sessionID)
	if err != nil {
		return PreviewResult{}, fmt.Errorf("s.repo.FindConsumptionSales -> %w", err)
	}

	return PreviewResult{
		Session:        session,
		Breakdown:      domain.ComputeSessionCost(session, time.Now()),
		AccountCharges: charges,
	}, nil
}

// CloseSession settles and closes. The total is recomputed from fresh state
// here; whatever figure the caller previewed earlier has no authority.
func (s *SessionService) CloseSession(ctx context.Context, sessionID uint, payments []domain.Payment) (CloseResult, error) {
	shift, err := s.gate.RequireOpenShift(ctx)
	if err != nil {
		return CloseResult{}, err
	}

	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return CloseResult{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if session.Status != domain.SessionActive {
		return CloseResult{}, ErrSessionNotActive
	}

	now := time.Now()
	breakdown := domain.ComputeSessionCost(session, now)

	if len(payments) == 0 {
		payments = domain.DefaultPayments(breakdown.Total)
	}
	if err = domain.ValidatePayments(payments, breakdown.Total); err != nil {
		return CloseResult{}, err
	}

	sales := make([]domain.Sale, len(payments))
	debtIncrements := make(map[uint]int)
	for i, payment := range payments {
		if payment.Method == domain.PaymentAccount {
			if _, err = s.memberRepo.FindByID(ctx, *payment.MemberID); err != nil {
				return CloseResult{}, fmt.Errorf("s.memberRepo.FindByID -> %w", err)
			}
			debtIncrements[*payment.MemberID] += payment.Amount
		}

		sales[i] = domain.Sale{
			MemberID: payment.MemberID,
			ShiftID:  &shift.ID,
			Total:    payment.Amount,
			Method:   payment.Method,
			Type:     domain.SaleTableSession,
		}
	}
	// The pending order snapshot rides on the first settlement line.
	if len(sales) > 0 {
		sales[0].Items = session.Orders
	}

	err = s.repo.Close(ctx, sessionID, now, breakdown.Total, breakdown.DurationMin, sales, debtIncrements)
	if err != nil {
		return CloseResult{}, fmt.Errorf("s.repo.Close -> %w", err)
	}

	session.Status = domain.SessionClosed
	session.EndTime = &now
	session.TotalAmount = breakdown.Total
	session.DurationMin = breakdown.DurationMin

	return CloseResult{
		Session:   session,
		Breakdown: breakdown,
		Payments:  payments,
	}, nil
}

// UpdateGameState stores the scoreboard blob verbatim. It is owned by the
// presentation layer and no billing rule reads it.
func (s *SessionService) UpdateGameState(ctx context.Context, sessionID uint, state json.RawMessage) error {
	err := s.repo.UpdateGameState(ctx, sessionID, state)
	if err != nil {
		return fmt.Errorf("s.repo.UpdateGameState -> %w", err)
	}

	return nil
}

// GetSession loads one session with table and players.
func (s *SessionService) GetSession(ctx context.Context, sessionID uint) (domain.Session, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return session, nil
}

func (s *SessionService) buildPlayers(ctx context.Context, table domain.Table, inputs []PlayerInput, now time.Time) ([]domain.SessionPlayer, error) {
	var memberIDs []uint
	for _, input := range inputs {
		if input.MemberID != nil {
			memberIDs = append(memberIDs, *input.MemberID)
		}
	}

	membersByID := make(map[uint]domain.Member, len(memberIDs))
	if len(memberIDs) > 0 {
		members, err := s.memberRepo.FindByIDs(ctx, memberIDs)
		if err != nil {
			return nil, fmt.Errorf("s.memberRepo.FindByIDs -> %w", err)
		}
		for _, m := range members {
			membersByID[m.ID] = m
		}
	}

	players := make([]domain.SessionPlayer, len(inputs))
	for i, input := range inputs {
		var member *domain.Member
		name := input.GuestName
		if input.MemberID != nil {
			m, ok := membersByID[*input.MemberID]
			if !ok {
				return nil, ErrMemberNotFound
			}
			member = &m
			name = m.Name
		}

		players[i] = domain.SessionPlayer{
			MemberID:   input.MemberID,
			GuestName:  name,
			StartTime:  now,
			Status:     domain.PlayerActive,
			HourlyRate: table.RateFor(member, now),
		}
	}

	return players, nil
}

func (s *SessionService) priceConsumption(ctx context.Context, inputs []ConsumptionInput, target *domain.Member) ([]domain.OrderItem, error) {
	ids := make([]uint, len(inputs))
	for i, input := range inputs {
		ids[i] = input.ProductID
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("s.productRepo.FindByIDs -> %w", err)
	}

	productsByID := make(map[uint]domain.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}

	now := time.Now()
	items := make([]domain.OrderItem, len(inputs))
	for i, input := range inputs {
		product, ok := productsByID[input.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}

		items[i] = domain.OrderItem{
			ProductID:       product.ID,
			Name:            product.Name,
			Price:           product.PriceFor(target, now),
			Quantity:        input.Quantity,
			SessionPlayerID: input.SessionPlayerID,
			AddedAt:         now,
		}
	}

	return items, nil
}

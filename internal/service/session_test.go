package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cueclub/venue-api/internal/domain"
)

type fakeShiftGate struct {
	shift domain.Shift
	err   error
}

func (f *fakeShiftGate) RequireOpenShift(_ context.Context) (domain.Shift, error) {
	return f.shift, f.err
}

func openGate() *fakeShiftGate {
	return &fakeShiftGate{shift: domain.Shift{ID: 1, Status: domain.ShiftOpen}}
}

func closedGate() *fakeShiftGate {
	return &fakeShiftGate{err: ErrShiftClosed}
}

type fakeSessionRepo struct {
	session        domain.Session
	findErr        error
	player         domain.SessionPlayer
	playerErr      error
	remaining      int64
	salesBySession []domain.Sale

	openedPlayers    []domain.SessionPlayer
	addedPlayer      *domain.SessionPlayer
	leftPlayerID     uint
	leftCost         int
	consumptionItems []domain.OrderItem
	consumptionShift uint
	closedSales      []domain.Sale
	closedDebt       map[uint]int
	closedTotal      int
	gameState        json.RawMessage
}

func (f *fakeSessionRepo) Open(_ context.Context, _ uint, session domain.Session, players []domain.SessionPlayer) (domain.Session, error) {
	f.openedPlayers = players
	session.ID = 99
	session.Players = players

	return session, nil
}

func (f *fakeSessionRepo) FindByID(_ context.Context, _ uint) (domain.Session, error) {
	return f.session, f.findErr
}

func (f *fakeSessionRepo) AddConsumption(_ context.Context, _ uint, items []domain.OrderItem, _ *uint, _, shiftID uint) error {
	f.consumptionItems = items
	f.consumptionShift = shiftID

	return nil
}

func (f *fakeSessionRepo) UpdateGameState(_ context.Context, _ uint, state json.RawMessage) error {
	f.gameState = state

	return nil
}

func (f *fakeSessionRepo) Close(_ context.Context, _ uint, _ time.Time, totalAmount, _ int, sales []domain.Sale, debtIncrements map[uint]int) error {
	f.closedTotal = totalAmount
	f.closedSales = sales
	f.closedDebt = debtIncrements

	return nil
}

func (f *fakeSessionRepo) AddPlayer(_ context.Context, player domain.SessionPlayer) (domain.SessionPlayer, error) {
	f.addedPlayer = &player
	player.ID = 42

	return player, nil
}

func (f *fakeSessionRepo) FindPlayerByID(_ context.Context, _ uint) (domain.SessionPlayer, error) {
	return f.player, f.playerErr
}

func (f *fakeSessionRepo) LeavePlayer(_ context.Context, playerID uint, _ time.Time, totalCost int) (int64, error) {
	f.leftPlayerID = playerID
	f.leftCost = totalCost

	return f.remaining, nil
}

func (f *fakeSessionRepo) FindConsumptionSales(_ context.Context, _ uint) ([]domain.Sale, error) {
	return f.salesBySession, nil
}

type fakeTableRepo struct {
	table domain.Table
	err   error
}

func (f *fakeTableRepo) FindByID(_ context.Context, _ uint) (domain.Table, error) {
	return f.table, f.err
}

type fakeMemberRepo struct {
	members map[uint]domain.Member
}

func (f *fakeMemberRepo) FindByID(_ context.Context, id uint) (domain.Member, error) {
	member, ok := f.members[id]
	if !ok {
		return domain.Member{}, ErrMemberNotFound
	}

	return member, nil
}

func (f *fakeMemberRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.Member, error) {
	var members []domain.Member
	for _, id := range ids {
		if member, ok := f.members[id]; ok {
			members = append(members, member)
		}
	}

	return members, nil
}

type fakeProductRepo struct {
	products map[uint]domain.Product
}

func (f *fakeProductRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.Product, error) {
	var products []domain.Product
	for _, id := range ids {
		if product, ok := f.products[id]; ok {
			products = append(products, product)
		}
	}

	return products, nil
}

func newSessionService(repo *fakeSessionRepo, table domain.Table, members map[uint]domain.Member, products map[uint]domain.Product, gate ShiftGate) *SessionService {
	return NewSessionService(
		repo,
		&fakeTableRepo{table: table},
		&fakeMemberRepo{members: members},
		&fakeProductRepo{products: products},
		gate,
	)
}

func uintPtr(v uint) *uint {
	return &v
}

func TestOpenSessionRequiresOpenShift(t *testing.T) {
	repo := &fakeSessionRepo{}
	svc := newSessionService(repo, domain.Table{ID: 1, Type: domain.TablePool}, nil, nil, closedGate())

	_, err := svc.OpenSession(context.Background(), 1, []PlayerInput{{GuestName: "Walk-in"}}, false)
	assert.ErrorIs(t, err, ErrShiftClosed)
	assert.Nil(t, repo.openedPlayers)
}

func TestOpenSessionCardsNeedsTwoPlayers(t *testing.T) {
	repo := &fakeSessionRepo{}
	svc := newSessionService(repo, domain.Table{ID: 1, Type: domain.TableCards}, nil, nil, openGate())

	_, err := svc.OpenSession(context.Background(), 1, []PlayerInput{{GuestName: "Solo"}}, false)
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestOpenSessionFreezesRates(t *testing.T) {
	table := domain.Table{ID: 1, Type: domain.TableCards, PriceMember: 2000, PriceClient: 3000}
	members := map[uint]domain.Member{
		7: {ID: 7, Name: "Ana", Type: domain.MemberRegular, Status: domain.MemberActive},
	}
	repo := &fakeSessionRepo{}
	svc := newSessionService(repo, table, members, nil, openGate())

	session, err := svc.OpenSession(context.Background(), 1, []PlayerInput{
		{MemberID: uintPtr(7)},
		{GuestName: "Beto"},
	}, false)
	require.NoError(t, err)
	require.Len(t, session.Players, 2)

	assert.Equal(t, 2000, session.Players[0].HourlyRate)
	assert.Equal(t, "Ana", session.Players[0].GuestName)
	assert.Equal(t, 3000, session.Players[1].HourlyRate)
	assert.Equal(t, "Beto", session.Players[1].GuestName)
}

func TestOpenSessionUnknownMember(t *testing.T) {
	repo := &fakeSessionRepo{}
	svc := newSessionService(repo, domain.Table{ID: 1, Type: domain.TablePool}, nil, nil, openGate())

	_, err := svc.OpenSession(context.Background(), 1, []PlayerInput{{MemberID: uintPtr(404)}}, false)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestJoinSessionOnlyPerPlayerTables(t *testing.T) {
	repo := &fakeSessionRepo{
		session: domain.Session{
			ID:     5,
			Status: domain.SessionActive,
			Table:  domain.Table{Type: domain.TablePool},
		},
	}
	svc := newSessionService(repo, domain.Table{}, nil, nil, openGate())

	_, err := svc.JoinSession(context.Background(), 5, PlayerInput{GuestName: "Late"})
	assert.ErrorIs(t, err, ErrNotPerPlayerBilling)
}

func TestJoinSessionSnapshotsRate(t *testing.T) {
	repo := &fakeSessionRepo{
		session: domain.Session{
			ID:     5,
			Status: domain.SessionActive,
			Table:  domain.Table{Type: domain.TableCards, PriceMember: 2000, PriceClient: 3000},
		},
	}
	svc := newSessionService(repo, domain.Table{}, nil, nil, openGate())

	player, err := svc.JoinSession(context.Background(), 5, PlayerInput{GuestName: "Late"})
	require.NoError(t, err)
	assert.Equal(t, uint(5), player.SessionID)
	assert.Equal(t, 3000, player.HourlyRate)
	assert.Equal(t, domain.PlayerActive, player.Status)
}

func TestLeaveSessionStampsCostAndWarnsBelowMinimum(t *testing.T) {
	start := time.Now().Add(-90 * time.Minute)
	repo := &fakeSessionRepo{
		session: domain.Session{
			ID:     5,
			Status: domain.SessionActive,
			Table:  domain.Table{Type: domain.TableCards},
		},
		player: domain.SessionPlayer{
			ID:         3,
			SessionID:  5,
			StartTime:  start,
			Status:     domain.PlayerActive,
			HourlyRate: 2000,
		},
		remaining: 1,
	}
	svc := newSessionService(repo, domain.Table{}, nil, nil, openGate())

	result, err := svc.LeaveSession(context.Background(), 5, 3)
	require.NoError(t, err)

	// 90 minutes at 2000/h, plus the instant between the fixture and the
	// call rounding up by at most one unit.
	assert.InDelta(t, 3000, result.Cost, 1)
	assert.Equal(t, result.Cost, repo.leftCost)
	assert.Equal(t, domain.PlayerLeft, result.Player.Status)
	assert.True(t, result.BelowMinimumPlayers)
}

func TestLeaveSessionWrongSession(t *testing.T) {
	repo := &fakeSessionRepo{
		player: domain.SessionPlayer{ID: 3, SessionID: 6, Status: domain.PlayerActive},
	}
	svc := newSessionService(repo, domain.Table{}, nil, nil, openGate())

	_, err := svc.LeaveSession(context.Background(), 5, 3)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestAddConsumptionPricesServerSide(t *testing.T) {
	repo := &fakeSessionRepo{
		session: domain.Session{ID: 5, Status: domain.SessionActive},
	}
	products := map[uint]domain.Product{
		1: {ID: 1, Name: "Beer", PriceMember: 1200, PriceClient: 1500, Stock: 10},
	}
	svc := newSessionService(repo, domain.Table{}, nil, products, openGate())

	err := svc.AddConsumption(context.Background(), 5, []ConsumptionInput{
		{ProductID: 1, Quantity: 2},
	}, nil, 1)
	require.NoError(t, err)
	require.Len(t, repo.consumptionItems, 1)

	assert.Equal(t, 1500, repo.consumptionItems[0].Price)
	assert.Equal(t, 2, repo.consumptionItems[0].Quantity)
	assert.Equal(t, "Beer", repo.consumptionItems[0].Name)
	assert.Equal(t, uint(1), repo.consumptionShift)
}

func TestAddConsumptionMemberPriceForTarget(t *testing.T) {
	repo := &fakeSessionRepo{
		session: domain.Session{ID: 5, Status: domain.SessionActive},
	}
	members := map[uint]domain.Member{
		7: {ID: 7, Type: domain.MemberRegular, Status: domain.MemberActive},
	}
	products := map[uint]domain.Product{
		1: {ID: 1, Name: "Beer", PriceMember: 1200, PriceClient: 1500},
	}
	svc := newSessionService(repo, domain.Table{}, members, products, openGate())

	err := svc.AddConsumption(context.Background(), 5, []ConsumptionInput{
		{ProductID: 1, Quantity: 1},
	}, uintPtr(7), 1)
	require.NoError(t, err)
	require.Len(t, repo.consumptionItems, 1)
	assert.Equal(t, 1200, repo.consumptionItems[0].Price)
}

func TestAddConsumptionUnknownProduct(t *testing.T) {
	repo := &fakeSessionRepo{
		session: domain.Session{ID: 5, Status: domain.SessionActive},
	}
	svc := newSessionService(repo, domain.Table{}, nil, nil, openGate())

	err := svc.AddConsumption(context.Background(), 5, []ConsumptionInput{
		{ProductID: 404, Quantity: 1},
	}, nil, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddConsumptionClosedSession(t *testing.T) {
	repo := &fakeSessionRepo{
		session: domain.Session{ID: 5, Status: domain.SessionClosed},
	}
	svc := newSessionService(repo, domain.Table{}, nil, nil, openGate())

	err := svc.AddConsumption(context.Background(), 5, []ConsumptionInput{
		{ProductID: 1, Quantity: 1},
	}, nil, 1)
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestCloseSessionDefaultsToSingleCashPayment(t *testing.T) {
	repo := &fakeSessionRepo{
		session: domain.Session{
			ID:        5,
			Status:    domain.SessionActive,
			StartTime: time.Now().Add(-2 * time.Hour),
			Table:     domain.Table{Type: domain.TablePool, PriceClient: 4000},
			Orders: []domain.OrderItem{
				{ProductID: 1, Name: "Beer", Price: 1500, Quantity: 2},
			},
		},
	}
	svc := newSessionService(repo, domain.Table{}, nil, nil, openGate())

	result, err := svc.CloseSession(context.Background(), 5, nil)
	require.NoError(t, err)

	require.Len(t, result.Payments, 1)
	assert.Equal(t, domain.PaymentCash, result.Payments[0].Method)
	assert.Equal(t, result.Breakdown.Total, result.Payments[0].Amount)

	require.Len(t, repo.closedSales, 1)
	assert.Equal(t, domain.SaleTableSession, repo.closedSales[0].Type)
	assert.Equal(t, result.Breakdown.Total, repo.closedSales[0].Total)
	assert.Equal(t, repo.session.Orders, repo.closedSales[0].Items)
	assert.Empty(t, repo.closedDebt)
	assert.Equal(t, domain.SessionClosed, result.Session.Status)
}

func TestCloseSessionAccountPaymentIncrementsDebt(t *testing.T) {
	repo := &fakeSessionRepo{
		session: domain.Session{
			ID:        5,
			Status:    domain.SessionActive,
			StartTime: time.Now(),
			Table:     domain.Table{Type: domain.TablePool, PriceClient: 4000},
			Orders: []domain.OrderItem{
				{ProductID: 1, Name: "Beer", Price: 2500, Quantity: 2},
			},
		},
	}
	members := map[uint]domain.Member{
		7: {ID: 7, Type: domain.MemberRegular, Status: domain.MemberActive},
	}
	svc := newSessionService(repo, domain.Table{}, members, nil, openGate())

	// The time component is at most one unit here; the tolerance covers it.
	result, err := svc.CloseSession(context.Background(), 5, []domain.Payment{
		{Amount: 2000, Method: domain.PaymentCash},
		{Amount: 3000, Method: domain.PaymentAccount, MemberID: uintPtr(7)},
	})
	require.NoError(t, err)

	assert.Equal(t, 3000, repo.closedDebt[7])
	require.Len(t, repo.closedSales, 2)
	assert.Equal(t, domain.PaymentAccount, repo.closedSales[1].Method)
	assert.Equal(t, uintPtr(7), repo.closedSales[1].MemberID)
	assert.Equal(t, result.Breakdown.Total, repo.closedTotal)
}

func TestCloseSessionPaymentMismatch(t *testing.T) {
	repo := &fakeSessionRepo{
		session: domain.Session{
			ID:        5,
			Status:    domain.SessionActive,
			StartTime: time.Now().Add(-2 * time.Hour),
			Table:     domain.Table{Type: domain.TablePool, PriceClient: 4000},
		},
	}
	svc := newSessionService(repo, domain.Table{}, nil, nil, openGate())

	_, err := svc.CloseSession(context.Background(), 5, []domain.Payment{
		{Amount: 1000, Method: domain.PaymentCash},
	})
	assert.ErrorIs(t, err, domain.ErrPaymentMismatch)
	assert.Nil(t, repo.closedSales)
}

func TestCloseSessionAlreadyClosed(t *testing.T) {
	repo := &fakeSessionRepo{
		session: domain.Session{ID: 5, Status: domain.SessionClosed},
	}
	svc := newSessionService(repo, domain.Table{}, nil, nil, openGate())

	_, err := svc.CloseSession(context.Background(), 5, nil)
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestCloseSessionRequiresOpenShift(t *testing.T) {
	repo := &fakeSessionRepo{
		session: domain.Session{ID: 5, Status: domain.SessionActive},
	}
	svc := newSessionService(repo, domain.Table{}, nil, nil, closedGate())

	_, err := svc.CloseSession(context.Background(), 5, nil)
	assert.ErrorIs(t, err, ErrShiftClosed)
	assert.Nil(t, repo.closedSales)
}

func TestUpdateGameStateStoredVerbatim(t *testing.T) {
	repo := &fakeSessionRepo{}
	svc := newSessionService(repo, domain.Table{}, nil, nil, openGate())

	state := json.RawMessage(`{"balls":["8","9"],"turn":2}`)
	err := svc.UpdateGameState(context.Background(), 5, state)
	require.NoError(t, err)
	assert.Equal(t, state, repo.gameState)
}

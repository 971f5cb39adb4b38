package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker is not available, skipping dao integration tests: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_USER=venue",
		"POSTGRES_PASSWORD=venue",
		"POSTGRES_DB=venue_test",
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	dsn := fmt.Sprintf(
		"host=localhost port=%s user=venue password=venue dbname=venue_test sslmode=disable",
		resource.GetPort("5432/tcp"),
	)
	if err = pool.Retry(func() error {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:                                   logger.Default.LogMode(logger.Silent),
			DisableForeignKeyConstraintWhenMigrating: true,
		})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err = sqlDB.Ping(); err != nil {
			return err
		}
		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres container: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate test schema: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Fatalf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

func requireDB(t *testing.T) {
	if testDB == nil {
		t.Skip("docker is not available")
	}
}

func TestSessionOpenClaimsTable(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	tableDAO := NewTableDAO(testDB)
	sessionDAO := NewSessionDAO(testDB)

	table, err := tableDAO.Insert(ctx, Table{
		Name:        "Pool occupancy",
		Type:        "POOL",
		Status:      "AVAILABLE",
		PriceMember: 3000,
		PriceClient: 4000,
	})
	require.NoError(t, err)

	session, err := sessionDAO.Open(ctx, table.ID, Session{StartTime: time.Now()}, []SessionPlayer{
		{GuestName: "Walk-in", StartTime: time.Now(), Status: "ACTIVE", HourlyRate: 4000},
	})
	require.NoError(t, err)

	claimed, err := tableDAO.FindByID(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, "OCCUPIED", claimed.Status)
	require.NotNil(t, claimed.CurrentSessionID)
	assert.Equal(t, session.ID, *claimed.CurrentSessionID)

	// A second open on the claimed table loses.
	_, err = sessionDAO.Open(ctx, table.ID, Session{StartTime: time.Now()}, nil)
	assert.ErrorIs(t, err, ErrTableOccupied)

	// The occupied table cannot be flipped to a non-billing status either.
	err = tableDAO.UpdateStatus(ctx, table.ID, "CLEANING")
	assert.ErrorIs(t, err, ErrTableOccupied)

	err = sessionDAO.Close(ctx, session.ID, time.Now(), 8000, 120, nil, nil)
	require.NoError(t, err)

	freed, err := tableDAO.FindByID(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, "AVAILABLE", freed.Status)
	assert.Nil(t, freed.CurrentSessionID)

	closed, err := sessionDAO.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", closed.Status)
	assert.Equal(t, 8000, closed.TotalAmount)

	// Settlement is one-way.
	err = sessionDAO.Close(ctx, session.ID, time.Now(), 8000, 120, nil, nil)
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestLeavePlayerIsOneWay(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	tableDAO := NewTableDAO(testDB)
	sessionDAO := NewSessionDAO(testDB)

	table, err := tableDAO.Insert(ctx, Table{
		Name:        "Cards leave",
		Type:        "CARDS",
		Status:      "AVAILABLE",
		PriceMember: 2000,
		PriceClient: 3000,
	})
	require.NoError(t, err)

	session, err := sessionDAO.Open(ctx, table.ID, Session{StartTime: time.Now()}, []SessionPlayer{
		{GuestName: "Ana", StartTime: time.Now(), Status: "ACTIVE", HourlyRate: 2000},
		{GuestName: "Beto", StartTime: time.Now(), Status: "ACTIVE", HourlyRate: 3000},
	})
	require.NoError(t, err)
	require.Len(t, session.Players, 2)

	remaining, err := sessionDAO.LeavePlayer(ctx, session.Players[0].ID, time.Now(), 3000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), remaining)

	left, err := sessionDAO.FindPlayerByID(ctx, session.Players[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "LEFT", left.Status)
	assert.Equal(t, 3000, left.TotalCost)
	assert.NotNil(t, left.EndTime)

	_, err = sessionDAO.LeavePlayer(ctx, session.Players[0].ID, time.Now(), 3000)
	assert.ErrorIs(t, err, ErrPlayerAlreadyLeft)
}

func TestAddConsumptionGuardsStock(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	tableDAO := NewTableDAO(testDB)
	sessionDAO := NewSessionDAO(testDB)

	product := Product{Name: "Beer", PriceMember: 1200, PriceClient: 1500, Stock: 10}
	require.NoError(t, testDB.Create(&product).Error)

	table, err := tableDAO.Insert(ctx, Table{
		Name:        "Pool consumption",
		Type:        "POOL",
		Status:      "AVAILABLE",
		PriceMember: 3000,
		PriceClient: 4000,
	})
	require.NoError(t, err)

	session, err := sessionDAO.Open(ctx, table.ID, Session{StartTime: time.Now()}, nil)
	require.NoError(t, err)

	err = sessionDAO.AddConsumption(ctx, session.ID, []ConsumptionItem{
		{ProductID: product.ID, Name: product.Name, Price: 1500, Quantity: 2},
	}, nil, 1, 1)
	require.NoError(t, err)

	var reloaded Product
	require.NoError(t, testDB.First(&reloaded, product.ID).Error)
	assert.Equal(t, 8, reloaded.Stock)

	var movement StockMovement
	require.NoError(t, testDB.Where("product_id = ?", product.ID).Order("id desc").First(&movement).Error)
	assert.Equal(t, -2, movement.Quantity)

	// The pending orders accumulate on the session as priced lines.
	withOrders, err := sessionDAO.FindByID(ctx, session.ID)
	require.NoError(t, err)
	var orders []orderItemRow
	require.NoError(t, json.Unmarshal(withOrders.Orders, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, 1500, orders[0].Price)
	assert.Equal(t, 2, orders[0].Quantity)

	// Ordering beyond the shelf fails and leaves the stock untouched.
	err = sessionDAO.AddConsumption(ctx, session.ID, []ConsumptionItem{
		{ProductID: product.ID, Name: product.Name, Price: 1500, Quantity: 100},
	}, nil, 1, 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	require.NoError(t, testDB.First(&reloaded, product.ID).Error)
	assert.Equal(t, 8, reloaded.Stock)
}

func TestAddConsumptionChargesTargetMember(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	tableDAO := NewTableDAO(testDB)
	sessionDAO := NewSessionDAO(testDB)
	memberDAO := NewMemberDAO(testDB)

	member := Member{Name: "Carla", Type: "REGULAR", Status: "ACTIVE"}
	require.NoError(t, testDB.Create(&member).Error)

	product := Product{Name: "Pisco", PriceMember: 4000, PriceClient: 5000, Stock: 5}
	require.NoError(t, testDB.Create(&product).Error)

	table, err := tableDAO.Insert(ctx, Table{
		Name:        "Pool account charge",
		Type:        "POOL",
		Status:      "AVAILABLE",
		PriceMember: 3000,
		PriceClient: 4000,
	})
	require.NoError(t, err)

	session, err := sessionDAO.Open(ctx, table.ID, Session{StartTime: time.Now()}, nil)
	require.NoError(t, err)

	err = sessionDAO.AddConsumption(ctx, session.ID, []ConsumptionItem{
		{ProductID: product.ID, Name: product.Name, Price: 4000, Quantity: 1},
	}, &member.ID, 1, 1)
	require.NoError(t, err)

	charged, err := memberDAO.FindByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 4000, charged.CurrentDebt)

	// The charge is a permanent sale, not a pending order.
	var sale Sale
	require.NoError(t, testDB.Where("member_id = ? AND type = ?", member.ID, "CONSUMPTION").First(&sale).Error)
	assert.Equal(t, 4000, sale.Total)

	withOrders, err := sessionDAO.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, withOrders.Orders)
}

func TestCloseAppliesDebtIncrements(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	tableDAO := NewTableDAO(testDB)
	sessionDAO := NewSessionDAO(testDB)
	memberDAO := NewMemberDAO(testDB)

	member := Member{Name: "Diego", Type: "REGULAR", Status: "ACTIVE"}
	require.NoError(t, testDB.Create(&member).Error)

	table, err := tableDAO.Insert(ctx, Table{
		Name:        "Pool settlement",
		Type:        "POOL",
		Status:      "AVAILABLE",
		PriceMember: 3000,
		PriceClient: 4000,
	})
	require.NoError(t, err)

	session, err := sessionDAO.Open(ctx, table.ID, Session{StartTime: time.Now()}, nil)
	require.NoError(t, err)

	sales := []Sale{
		{Total: 3000, Method: "CASH", Type: "TABLE_SESSION"},
		{Total: 5000, Method: "ACCOUNT", Type: "TABLE_SESSION", MemberID: &member.ID},
	}
	err = sessionDAO.Close(ctx, session.ID, time.Now(), 8000, 120, sales, map[uint]int{member.ID: 5000})
	require.NoError(t, err)

	debtor, err := memberDAO.FindByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 5000, debtor.CurrentDebt)

	var recorded []Sale
	require.NoError(t, testDB.Where("session_id = ?", session.ID).Order("id asc").Find(&recorded).Error)
	require.Len(t, recorded, 2)
	assert.Equal(t, "CASH", recorded[0].Method)
	assert.Equal(t, "ACCOUNT", recorded[1].Method)
}

func TestShiftSingleOpen(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	shiftDAO := NewShiftDAO(testDB)

	shift, err := shiftDAO.Open(ctx, 1, 20000)
	require.NoError(t, err)
	assert.Equal(t, "OPEN", shift.Status)

	_, err = shiftDAO.Open(ctx, 2, 10000)
	assert.ErrorIs(t, err, ErrShiftAlreadyOpen)

	closed, err := shiftDAO.Close(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	_, err = shiftDAO.FindOpen(ctx)
	assert.ErrorIs(t, err, ErrNoOpenShift)
}

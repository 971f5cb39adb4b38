package dao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionNotActive  = errors.New("session is not active")
	ErrPlayerNotFound    = errors.New("session player not found")
	ErrPlayerAlreadyLeft = errors.New("session player already left")
)

type Session struct {
	ID          uint            `gorm:"primaryKey"`
	TableID     uint            `gorm:"not null;index"`
	Table       Table           `gorm:"foreignKey:TableID"`
	StartTime   time.Time       `gorm:"not null"`
	EndTime     *time.Time
	Status      string          `gorm:"not null;default:ACTIVE"`
	Training    bool            `gorm:"not null;default:false"`
	Orders      json.RawMessage `gorm:"type:jsonb"`
	GameState   json.RawMessage `gorm:"type:jsonb"`
	TotalAmount int             `gorm:"not null;default:0"`
	DurationMin int             `gorm:"not null;default:0"`
	Players     []SessionPlayer `gorm:"foreignKey:SessionID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SessionPlayer struct {
	ID         uint  `gorm:"primaryKey"`
	SessionID  uint  `gorm:"not null;index"`
	MemberID   *uint `gorm:"index"`
	Member     *Member
	GuestName  string    `gorm:"not null"`
	StartTime  time.Time `gorm:"not null"`
	EndTime    *time.Time
	Status     string `gorm:"not null;default:ACTIVE"`
	HourlyRate int    `gorm:"not null"`
	TotalCost  int    `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ConsumptionItem is one priced line of a consumption call, already resolved
// against the product catalogue.
type ConsumptionItem struct {
	ProductID       uint
	Name            string
	Price           int
	Quantity        int
	SessionPlayerID *uint
}

type SessionDAO struct {
	db *gorm.DB
}

func NewSessionDAO(db *gorm.DB) *SessionDAO {
	return &SessionDAO{
		db: db,
	}
}

// Open claims the table and creates the session with its initial players in
// one transaction. The table row is locked first so two concurrent opens
// cannot both observe it as free.
func (d *SessionDAO) Open(ctx context.Context, tableID uint, session Session, players []SessionPlayer) (Session, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table Table
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}

			return err
		}

		if table.CurrentSessionID != nil || table.Status == string(statusOccupied) {
			return ErrTableOccupied
		}

		session.TableID = tableID
		session.Status = string(statusActive)
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		for i := range players {
			players[i].SessionID = session.ID
		}
		if len(players) > 0 {
			if err := tx.Create(&players).Error; err != nil {
				return err
			}
		}
		session.Players = players

		return tx.Model(&Table{}).
			Where("id = ?", tableID).
			Updates(map[string]interface{}{
				"status":             string(statusOccupied),
				"current_session_id": session.ID,
			}).Error
	})
	if err != nil {
		return Session{}, err
	}

	return session, nil
}

func (d *SessionDAO) FindByID(ctx context.Context, id uint) (Session, error) {
	var session Session

	result := d.db.WithContext(ctx).
		Preload("Table").
		Preload("Players.Member").
		First(&session, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Session{}, ErrSessionNotFound
		}

		return Session{}, result.Error
	}

	return session, nil
}

// AddConsumption deducts stock, writes the movement audit rows and either
// charges the target member's account or appends the items to the session's
// pending orders, all in one transaction.
func (d *SessionDAO) AddConsumption(ctx context.Context, sessionID uint, items []ConsumptionItem, targetMemberID *uint, actorUserID uint, shiftID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session Session
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}

			return err
		}
		if session.Status != string(statusActive) {
			return ErrSessionNotActive
		}

		target := "table"
		if targetMemberID != nil {
			target = "member"
		}
		reason := fmt.Sprintf("session %v consumption (%v)", sessionID, target)

		for _, item := range items {
			if err := decrementStock(tx, item.ProductID, item.Quantity, reason, actorUserID); err != nil {
				return err
			}
		}

		if targetMemberID != nil {
			// Immediate, permanent charge against the member's account,
			// independent of the eventual session settlement.
			total := 0
			for _, item := range items {
				total += item.Price * item.Quantity
			}

			itemsJSON, err := marshalItems(items, time.Now())
			if err != nil {
				return err
			}

			sale := Sale{
				SessionID: &sessionID,
				MemberID:  targetMemberID,
				ShiftID:   &shiftID,
				Total:     total,
				Method:    "ACCOUNT",
				Type:      "CONSUMPTION",
				Items:     itemsJSON,
			}
			if err := tx.Create(&sale).Error; err != nil {
				return err
			}

			return incrementMemberDebt(tx, *targetMemberID, total)
		}

		return appendOrders(tx, session, items)
	})
}

// UpdateGameState stores the scoreboard blob. The payload is owned by the
// presentation layer and never interpreted here.
func (d *SessionDAO) UpdateGameState(ctx context.Context, sessionID uint, state json.RawMessage) error {
	result := d.db.WithContext(ctx).
		Model(&Session{}).
		Where("id = ? AND status = ?", sessionID, string(statusActive)).
		Update("game_state", state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := d.db.WithContext(ctx).Model(&Session{}).Where("id = ?", sessionID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrSessionNotFound
		}

		return ErrSessionNotActive
	}

	return nil
}

// Close settles the session: stamps the final figures, frees the table,
// records one sale per payment line and applies on-account debt increments.
func (d *SessionDAO) Close(ctx context.Context, sessionID uint, endTime time.Time, totalAmount, durationMin int, sales []Sale, debtIncrements map[uint]int) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session Session
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}

			return err
		}
		if session.Status != string(statusActive) {
			return ErrSessionNotActive
		}

		if err := tx.Model(&Session{}).
			Where("id = ?", sessionID).
			Updates(map[string]interface{}{
				"status":       string(statusClosed),
				"end_time":     endTime,
				"total_amount": totalAmount,
				"duration_min": durationMin,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&Table{}).
			Where("id = ?", session.TableID).
			Updates(map[string]interface{}{
				"status":             string(statusAvailable),
				"current_session_id": nil,
			}).Error; err != nil {
			return err
		}

		for i := range sales {
			sales[i].SessionID = &sessionID
			if err := tx.Create(&sales[i]).Error; err != nil {
				return err
			}
		}

		for memberID, amount := range debtIncrements {
			if err := incrementMemberDebt(tx, memberID, amount); err != nil {
				return err
			}
		}

		return nil
	})
}

// AddPlayer joins one player to an active session.
func (d *SessionDAO) AddPlayer(ctx context.Context, player SessionPlayer) (SessionPlayer, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session Session
		if err := tx.First(&session, player.SessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}

			return err
		}
		if session.Status != string(statusActive) {
			return ErrSessionNotActive
		}

		return tx.Create(&player).Error
	})
	if err != nil {
		return SessionPlayer{}, err
	}

	return player, nil
}

func (d *SessionDAO) FindPlayerByID(ctx context.Context, id uint) (SessionPlayer, error) {
	var player SessionPlayer

	result := d.db.WithContext(ctx).Preload("Member").First(&player, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return SessionPlayer{}, ErrPlayerNotFound
		}

		return SessionPlayer{}, result.Error
	}

	return player, nil
}

// LeavePlayer stamps the player's exit and cost. ACTIVE -> LEFT is one-way;
// the guarded update makes a concurrent double-leave lose. Returns how many
// players remain active so the caller can raise the minimum-occupancy
// warning.
func (d *SessionDAO) LeavePlayer(ctx context.Context, playerID uint, endTime time.Time, totalCost int) (int64, error) {
	var remaining int64

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var player SessionPlayer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&player, playerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlayerNotFound
			}

			return err
		}

		result := tx.Model(&SessionPlayer{}).
			Where("id = ? AND status = ?", playerID, string(statusActive)).
			Updates(map[string]interface{}{
				"status":     string(statusLeft),
				"end_time":   endTime,
				"total_cost": totalCost,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPlayerAlreadyLeft
		}

		return tx.Model(&SessionPlayer{}).
			Where("session_id = ? AND status = ?", player.SessionID, string(statusActive)).
			Count(&remaining).Error
	})
	if err != nil {
		return 0, err
	}

	return remaining, nil
}

func appendOrders(tx *gorm.DB, session Session, items []ConsumptionItem) error {
	var orders []orderItemRow
	if len(session.Orders) > 0 {
		if err := json.Unmarshal(session.Orders, &orders); err != nil {
			return fmt.Errorf("corrupt orders payload on session %v -> %w", session.ID, err)
		}
	}

	now := time.Now()
	for _, item := range items {
		orders = append(orders, orderItemRow{
			ProductID:       item.ProductID,
			Name:            item.Name,
			Price:           item.Price,
			Quantity:        item.Quantity,
			SessionPlayerID: item.SessionPlayerID,
			AddedAt:         now,
		})
	}

	raw, err := json.Marshal(orders)
	if err != nil {
		return err
	}

	return tx.Model(&Session{}).
		Where("id = ?", session.ID).
		Update("orders", json.RawMessage(raw)).Error
}

func marshalItems(items []ConsumptionItem, addedAt time.Time) (json.RawMessage, error) {
	rows := make([]orderItemRow, len(items))
	for i, item := range items {
		rows[i] = orderItemRow{
			ProductID:       item.ProductID,
			Name:            item.Name,
			Price:           item.Price,
			Quantity:        item.Quantity,
			SessionPlayerID: item.SessionPlayerID,
			AddedAt:         addedAt,
		}
	}

	return json.Marshal(rows)
}

// orderItemRow is the JSONB shape of one pending order / sale item.
type orderItemRow struct {
	ProductID       uint      `json:"product_id"`
	Name            string    `json:"name"`
	Price           int       `json:"price"`
	Quantity        int       `json:"quantity"`
	SessionPlayerID *uint     `json:"session_player_id,omitempty"`
	AddedAt         time.Time `json:"added_at"`
}

type rowStatus string

const (
	statusActive    rowStatus = "ACTIVE"
	statusClosed    rowStatus = "CLOSED"
	statusLeft      rowStatus = "LEFT"
	statusOccupied  rowStatus = "OCCUPIED"
	statusAvailable rowStatus = "AVAILABLE"
)

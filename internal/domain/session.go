package domain

import (
	"encoding/json"
	"time"
)

type SessionStatus string

const (
	SessionActive SessionStatus = "ACTIVE"
	SessionClosed SessionStatus = "CLOSED"
)

type PlayerStatus string

const (
	PlayerActive PlayerStatus = "ACTIVE"
	PlayerLeft   PlayerStatus = "LEFT"
)

// OrderItem is one pending consumption line attached to a session, not yet
// billed to any individual patron.
type OrderItem struct {
	ProductID       uint      `json:"product_id"`
	Name            string    `json:"name"`
	Price           int       `json:"price"`
	Quantity        int       `json:"quantity"`
	SessionPlayerID *uint     `json:"session_player_id,omitempty"`
	AddedAt         time.Time `json:"added_at"`
}

type Session struct {
	ID          uint            `json:"id"`
	TableID     uint            `json:"table_id"`
	Table       Table           `json:"table"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     *time.Time      `json:"end_time,omitempty"`
	Status      SessionStatus   `json:"status"`
	Training    bool            `json:"training"`
	Orders      []OrderItem     `json:"orders"`
	GameState   json.RawMessage `json:"game_state,omitempty"` // owned by the scoreboard layer, opaque here
	TotalAmount int             `json:"total_amount"`
	DurationMin int             `json:"duration_min"`
	Players     []SessionPlayer `json:"players"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SessionPlayer is one occupant's billable presence within a session.
// HourlyRate is snapshotted at join time and immune to later price changes.
type SessionPlayer struct {
	ID         uint         `json:"id"`
	SessionID  uint         `json:"session_id"`
	MemberID   *uint        `json:"member_id,omitempty"`
	Member     *Member      `json:"member,omitempty"`
	GuestName  string       `json:"guest_name"`
	StartTime  time.Time    `json:"start_time"`
	EndTime    *time.Time   `json:"end_time,omitempty"`
	Status     PlayerStatus `json:"status"`
	HourlyRate int          `json:"hourly_rate"`
	TotalCost  int          `json:"total_cost"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// ConsumptionTotal sums price*quantity over pending orders. Items are priced
// in whole currency units, so no rounding is involved.
func (s Session) ConsumptionTotal() int {
	total := 0
	for _, item := range s.Orders {
		total += item.Price * item.Quantity
	}

	return total
}

// HasEligibleMember reports whether any seated patron qualifies for member
// pricing right now. One eligible member is enough to win the member rate
// for the whole table.
func (s Session) HasEligibleMember(now time.Time) bool {
	for _, p := range s.Players {
		if p.Member != nil && p.Member.EligibleForMemberPricing(now) {
			return true
		}
	}

	return false
}

package domain

import "time"

type TableType string

const (
	TablePool        TableType = "POOL"
	TableCarom       TableType = "CAROM"
	TableChileanPool TableType = "POOL_CHILENO"
	TableSnooker     TableType = "SNOOKER"
	TableCards       TableType = "CARDS"
)

// BilledPerPlayer reports whether occupants of this table type pay for their
// own elapsed time instead of sharing one table clock.
func (t TableType) BilledPerPlayer() bool {
	return t == TableCards
}

type TableStatus string

const (
	TableAvailable TableStatus = "AVAILABLE"
	TableOccupied  TableStatus = "OCCUPIED"
	TableReserved  TableStatus = "RESERVED"
	TableCleaning  TableStatus = "CLEANING"
)

type Table struct {
	ID               uint        `json:"id"`
	Name             string      `json:"name"`
	Type             TableType   `json:"type"`
	Status           TableStatus `json:"status"`
	PriceMember      int         `json:"price_member"`
	PriceClient      int         `json:"price_client"`
	CurrentSessionID *uint       `json:"current_session_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// RateFor resolves the hourly rate for one patron. Unregistered guests
// (nil member) always pay the client rate.
func (t Table) RateFor(m *Member, now time.Time) int {
	if m != nil && m.EligibleForMemberPricing(now) {
		return t.PriceMember
	}

	return t.PriceClient
}

package domain

import "time"

type Product struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	PriceMember int       `json:"price_member"`
	PriceClient int       `json:"price_client"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PriceFor resolves the unit price for one patron, mirroring table rate
// resolution: member price only while eligibility holds.
func (p Product) PriceFor(m *Member, now time.Time) int {
	if m != nil && m.EligibleForMemberPricing(now) {
		return p.PriceMember
	}

	return p.PriceClient
}

// StockMovement is the immutable audit record of one inventory delta. It is
// always written in the same transaction as the stock change it documents.
type StockMovement struct {
	ID        uint      `json:"id"`
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

package response

import (
	"github.com/cueclub/venue-api/internal/domain"
)

// PreviewResponse is a point-in-time costing of an open session, including
// consumptions already charged to member accounts.
type PreviewResponse struct {
	Session        domain.Session       `json:"session"`
	Breakdown      domain.CostBreakdown `json:"breakdown"`
	PendingOrders  []domain.OrderItem   `json:"pending_orders"`
	AccountCharges []domain.Sale        `json:"account_charges"`
}

type CloseSessionResponse struct {
	Session   domain.Session       `json:"session"`
	Breakdown domain.CostBreakdown `json:"breakdown"`
	Payments  []domain.Payment     `json:"payments"`
}

type LeaveSessionResponse struct {
	Player              domain.SessionPlayer `json:"player"`
	Cost                int                  `json:"cost"`
	BelowMinimumPlayers bool                 `json:"below_minimum_players"`
}

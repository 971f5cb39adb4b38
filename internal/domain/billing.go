package domain

import (
	"math"
	"time"
)

// BillingMode computes the time component of a session's cost. The two
// implementations are the venue's two billing schemes: one shared clock for
// the whole table, or one clock per seated player.
type BillingMode interface {
	TimeCost(s Session, now time.Time) int
}

// BillingModeFor selects the billing mode for a table type.
func BillingModeFor(t TableType) BillingMode {
	if t.BilledPerPlayer() {
		return PerPlayerBilling{}
	}

	return PerTableBilling{}
}

// PerTableBilling charges one shared hourly rate against total table time,
// regardless of seat count. The member rate applies when any seated patron is
// currently eligible.
type PerTableBilling struct{}

func (PerTableBilling) TimeCost(s Session, now time.Time) int {
	rate := float64(s.Table.PriceClient)
	if s.HasEligibleMember(now) {
		rate = float64(s.Table.PriceMember)
	}
	if s.Training {
		rate /= 2
	}

	return ceilCost(s.StartTime, now, rate)
}

// PerPlayerBilling bills each occupant for their own elapsed presence at the
// rate frozen on their SessionPlayer record. Players who already left
// contribute the cost stamped when they left.
type PerPlayerBilling struct{}

func (PerPlayerBilling) TimeCost(s Session, now time.Time) int {
	total := 0
	for _, p := range s.Players {
		switch p.Status {
		case PlayerLeft:
			total += p.TotalCost
		case PlayerActive:
			total += PlayerCost(p, s.Training, now)
		}
	}

	return total
}

// PlayerCost is the amount owed by a single player for their own elapsed
// time at their frozen rate, rounded up to the next whole currency unit.
func PlayerCost(p SessionPlayer, training bool, now time.Time) int {
	rate := float64(p.HourlyRate)
	if training {
		rate /= 2
	}

	return ceilCost(p.StartTime, now, rate)
}

// ceilCost rounds up to the next whole currency unit; billing never rounds
// down.
func ceilCost(start, now time.Time, hourlyRate float64) int {
	if now.Before(start) {
		return 0
	}
	hours := now.Sub(start).Hours()

	return int(math.Ceil(hours * hourlyRate))
}

// CostBreakdown is the result of pricing a session at a point in time.
type CostBreakdown struct {
	TimeCost         int `json:"time_cost"`
	ConsumptionTotal int `json:"consumption_total"`
	Total            int `json:"total"`
	DurationMin      int `json:"duration_min"`
}

// ComputeSessionCost prices a session as of now. The ceiling is applied once
// to the time component; consumption items are whole units by construction.
func ComputeSessionCost(s Session, now time.Time) CostBreakdown {
	timeCost := BillingModeFor(s.Table.Type).TimeCost(s, now)
	consumption := s.ConsumptionTotal()

	durationMin := 0
	if now.After(s.StartTime) {
		durationMin = int(math.Ceil(now.Sub(s.StartTime).Minutes()))
	}

	return CostBreakdown{
		TimeCost:         timeCost,
		ConsumptionTotal: consumption,
		Total:            timeCost + consumption,
		DurationMin:      durationMin,
	}
}

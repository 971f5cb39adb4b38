package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var billingEpoch = time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)

func poolTable() Table {
	return Table{
		ID:          1,
		Name:        "Pool 1",
		Type:        TablePool,
		PriceMember: 3000,
		PriceClient: 4000,
	}
}

func activeMember() *Member {
	return &Member{
		ID:     10,
		Name:   "Ana",
		Type:   MemberRegular,
		Status: MemberActive,
	}
}

func TestPerTableBillingGuestRate(t *testing.T) {
	session := Session{
		Table:     poolTable(),
		StartTime: billingEpoch,
		Players: []SessionPlayer{
			{GuestName: "Walk-in", Status: PlayerActive},
		},
	}

	cost := PerTableBilling{}.TimeCost(session, billingEpoch.Add(2*time.Hour))
	assert.Equal(t, 8000, cost)
}

func TestPerTableBillingMemberRate(t *testing.T) {
	session := Session{
		Table:     poolTable(),
		StartTime: billingEpoch,
		Players: []SessionPlayer{
			{GuestName: "Walk-in", Status: PlayerActive},
			{Member: activeMember(), Status: PlayerActive},
		},
	}

	// One eligible member wins the member rate for the whole table.
	cost := PerTableBilling{}.TimeCost(session, billingEpoch.Add(2*time.Hour))
	assert.Equal(t, 6000, cost)
}

func TestPerTableBillingTrainingHalvesRate(t *testing.T) {
	session := Session{
		Table:     poolTable(),
		StartTime: billingEpoch,
		Training:  true,
		Players: []SessionPlayer{
			{GuestName: "Walk-in", Status: PlayerActive},
		},
	}

	cost := PerTableBilling{}.TimeCost(session, billingEpoch.Add(2*time.Hour))
	assert.Equal(t, 4000, cost)
}

func TestPerTableBillingRoundsUp(t *testing.T) {
	session := Session{
		Table:     poolTable(),
		StartTime: billingEpoch,
	}

	// 61 minutes at 4000/h is 4066.67; billing never rounds down.
	cost := PerTableBilling{}.TimeCost(session, billingEpoch.Add(61*time.Minute))
	assert.Equal(t, 4067, cost)
}

func TestPerTableBillingClockNotStarted(t *testing.T) {
	session := Session{
		Table:     poolTable(),
		StartTime: billingEpoch,
	}

	cost := PerTableBilling{}.TimeCost(session, billingEpoch.Add(-time.Minute))
	assert.Equal(t, 0, cost)
}

func TestPerPlayerBillingMixedPlayers(t *testing.T) {
	left := billingEpoch.Add(90 * time.Minute)
	session := Session{
		Table:     Table{Type: TableCards, PriceMember: 2000, PriceClient: 3000},
		StartTime: billingEpoch,
		Players: []SessionPlayer{
			{
				// Left after 90 minutes at the member rate; the stamped cost
				// is authoritative from then on.
				Member:     activeMember(),
				StartTime:  billingEpoch,
				EndTime:    &left,
				Status:     PlayerLeft,
				HourlyRate: 2000,
				TotalCost:  3000,
			},
			{
				GuestName:  "Beto",
				StartTime:  billingEpoch,
				Status:     PlayerActive,
				HourlyRate: 3000,
			},
		},
	}

	cost := PerPlayerBilling{}.TimeCost(session, billingEpoch.Add(2*time.Hour))
	assert.Equal(t, 3000+6000, cost)
}

func TestPerPlayerBillingLateJoinerOwnClock(t *testing.T) {
	session := Session{
		Table:     Table{Type: TableCards, PriceClient: 3000},
		StartTime: billingEpoch,
		Players: []SessionPlayer{
			{StartTime: billingEpoch, Status: PlayerActive, HourlyRate: 3000},
			{StartTime: billingEpoch.Add(time.Hour), Status: PlayerActive, HourlyRate: 3000},
		},
	}

	cost := PerPlayerBilling{}.TimeCost(session, billingEpoch.Add(2*time.Hour))
	assert.Equal(t, 6000+3000, cost)
}

func TestPlayerCostTrainingHalvesFrozenRate(t *testing.T) {
	player := SessionPlayer{
		StartTime:  billingEpoch,
		Status:     PlayerActive,
		HourlyRate: 2000,
	}

	assert.Equal(t, 2000, PlayerCost(player, false, billingEpoch.Add(time.Hour)))
	assert.Equal(t, 1000, PlayerCost(player, true, billingEpoch.Add(time.Hour)))
}

func TestBillingModeForTableTypes(t *testing.T) {
	assert.IsType(t, PerPlayerBilling{}, BillingModeFor(TableCards))
	assert.IsType(t, PerTableBilling{}, BillingModeFor(TablePool))
	assert.IsType(t, PerTableBilling{}, BillingModeFor(TableSnooker))
	assert.IsType(t, PerTableBilling{}, BillingModeFor(TableChileanPool))
	assert.IsType(t, PerTableBilling{}, BillingModeFor(TableCarom))
}

func TestComputeSessionCost(t *testing.T) {
	session := Session{
		Table:     poolTable(),
		StartTime: billingEpoch,
		Orders: []OrderItem{
			{ProductID: 1, Name: "Beer", Price: 1500, Quantity: 2},
			{ProductID: 2, Name: "Snacks", Price: 800, Quantity: 1},
		},
	}

	breakdown := ComputeSessionCost(session, billingEpoch.Add(2*time.Hour))
	assert.Equal(t, 8000, breakdown.TimeCost)
	assert.Equal(t, 3800, breakdown.ConsumptionTotal)
	assert.Equal(t, 11800, breakdown.Total)
	assert.Equal(t, 120, breakdown.DurationMin)
}

func TestComputeSessionCostDurationRoundsUp(t *testing.T) {
	session := Session{
		Table:     poolTable(),
		StartTime: billingEpoch,
	}

	breakdown := ComputeSessionCost(session, billingEpoch.Add(90*time.Second))
	assert.Equal(t, 2, breakdown.DurationMin)
}

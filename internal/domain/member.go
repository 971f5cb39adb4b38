package domain

import "time"

type MemberType string

const (
	MemberRegular  MemberType = "REGULAR"
	MemberFounding MemberType = "FOUNDING"
	MemberGuest    MemberType = "GUEST"
)

type MemberStatus string

const (
	MemberActive   MemberStatus = "ACTIVE"
	MemberInactive MemberStatus = "INACTIVE"
	MemberBanned   MemberStatus = "BANNED"
)

// MemberGracePeriodDays is the window after membership expiration during
// which member pricing still applies. A recurring monitor outside this core
// flips overdue accounts to INACTIVE; pricing checks never change status.
const MemberGracePeriodDays = 30

type Member struct {
	ID                  uint         `json:"id"`
	Name                string       `json:"name"`
	Type                MemberType   `json:"type"`
	Status              MemberStatus `json:"status"`
	MembershipExpiresAt *time.Time   `json:"membership_expires_at,omitempty"`
	CurrentDebt         int          `json:"current_debt"`
	DebtLimit           int          `json:"debt_limit"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// EligibleForMemberPricing reports whether the member currently qualifies for
// the member rate. Pure; no side effects on the member record.
func (m Member) EligibleForMemberPricing(now time.Time) bool {
	if m.Type == MemberGuest {
		return false
	}
	if m.Status != MemberActive {
		return false
	}
	// No expiration set means a legacy or indefinite membership.
	if m.MembershipExpiresAt == nil {
		return true
	}

	graceEnd := m.MembershipExpiresAt.AddDate(0, 0, MemberGracePeriodDays)

	return !now.After(graceEnd)
}

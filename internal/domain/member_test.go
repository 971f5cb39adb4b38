package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEligibleForMemberPricing(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	expired := now.AddDate(0, 0, -10)
	longExpired := now.AddDate(0, 0, -31)
	graceBoundary := now.AddDate(0, 0, -MemberGracePeriodDays)

	tests := []struct {
		name   string
		member Member
		want   bool
	}{
		{
			name:   "active member without expiration",
			member: Member{Type: MemberRegular, Status: MemberActive},
			want:   true,
		},
		{
			name:   "active member within grace period",
			member: Member{Type: MemberRegular, Status: MemberActive, MembershipExpiresAt: &expired},
			want:   true,
		},
		{
			name:   "active member on the last day of grace",
			member: Member{Type: MemberRegular, Status: MemberActive, MembershipExpiresAt: &graceBoundary},
			want:   true,
		},
		{
			name:   "active member past the grace period",
			member: Member{Type: MemberRegular, Status: MemberActive, MembershipExpiresAt: &longExpired},
			want:   false,
		},
		{
			name:   "guest type never qualifies",
			member: Member{Type: MemberGuest, Status: MemberActive},
			want:   false,
		},
		{
			name:   "inactive member",
			member: Member{Type: MemberRegular, Status: MemberInactive},
			want:   false,
		},
		{
			name:   "banned member",
			member: Member{Type: MemberFounding, Status: MemberBanned},
			want:   false,
		},
		{
			name:   "founding member qualifies like regular",
			member: Member{Type: MemberFounding, Status: MemberActive},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.member.EligibleForMemberPricing(now))
		})
	}
}

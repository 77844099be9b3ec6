package model

// Policy defaults applied when the tutor has not configured the fields.
const (
	DefaultNoticeHours       = 24
	DefaultLateRefundPercent = 0
)

// CancellationPolicy governs refunds: cancelling at least NoticeHours before
// the session refunds 100%, anything later refunds LateRefundPercent.
type CancellationPolicy struct {
	NoticeHours       int `json:"notice_hours"`
	LateRefundPercent int `json:"late_refund_percent"` // 0..100
}

// TutorProfile carries the read-only pricing and policy inputs supplied by
// the profile collaborator. Rates are per hour; a missing rate fails price
// computation rather than defaulting to zero.
type TutorProfile struct {
	TutorID              int64  `json:"tutor_id"`
	BaseHourlyRateCents  int64  `json:"base_hourly_rate_cents"`
	GroupHourlyRateCents int64  `json:"group_hourly_rate_cents"`
	MaxGroupSize         int    `json:"max_group_size"`
	NoticeHours          *int   `json:"cancellation_notice_hours,omitempty"`
	LateRefundPercent    *int   `json:"late_cancellation_refund_percent,omitempty"`
}

// Policy resolves the tutor's cancellation policy, applying defaults for
// unset fields. Missing fields are not an error.
func (p *TutorProfile) Policy() CancellationPolicy {
	policy := CancellationPolicy{
		NoticeHours:       DefaultNoticeHours,
		LateRefundPercent: DefaultLateRefundPercent,
	}
	if p == nil {
		return policy
	}
	if p.NoticeHours != nil {
		policy.NoticeHours = *p.NoticeHours
	}
	if p.LateRefundPercent != nil {
		policy.LateRefundPercent = *p.LateRefundPercent
	}
	return policy
}

// HourlyRateCents returns the rate used to price a booking over the given
// medium. Zero means the tutor has not configured a rate.
func (p *TutorProfile) HourlyRateCents(m Medium) int64 {
	if p == nil {
		return 0
	}
	if m == MediumGroup {
		return p.GroupHourlyRateCents
	}
	return p.BaseHourlyRateCents
}

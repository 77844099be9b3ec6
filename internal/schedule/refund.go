package schedule

import (
	"time"

	"github.com/tutorlane/slotengine/internal/model"
)

// RefundPercent computes the refund for cancelling a session scheduled at
// scheduledAt, as of now, under the tutor's policy. Cancelling with at least
// NoticeHours of notice refunds 100%; anything later refunds the tutor's
// configured late percent. The boundary itself still earns the full refund.
//
// Pure in (scheduledAt, now, policy): who initiates the cancellation is a
// caller concern layered on top, not an input here.
func RefundPercent(scheduledAt, now time.Time, policy model.CancellationPolicy) int {
	notice := time.Duration(policy.NoticeHours) * time.Hour
	if scheduledAt.Sub(now) >= notice {
		return 100
	}
	return policy.LateRefundPercent
}

// RefundAmountCents applies a refund percent to a price.
func RefundAmountCents(priceCents int64, percent int) int64 {
	return priceCents * int64(percent) / 100
}

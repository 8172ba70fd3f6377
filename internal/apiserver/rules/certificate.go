// Package rules holds the pure domain computations: certificate expiry
// and risk classification. Nothing here touches the store.
package rules

import (
	"time"

	"github.com/sentinela-gov/sentinela/internal/common/cnst"
)

// EffectiveCertificateStatus returns the status a certificate must be
// persisted with. An expiry date strictly before today forces VENCIDA no
// matter what the caller sent; otherwise the requested status stands,
// defaulting to VÁLIDA. The comparison is date-only, so a certificate
// expiring today is still valid for the whole day.
func EffectiveCertificateStatus(expiresAt, now time.Time, requested string) string {
	if truncateToDay(expiresAt.In(now.Location())).Before(truncateToDay(now)) {
		return cnst.CertificateExpired
	}
	if requested == "" {
		return cnst.CertificateValid
	}
	return requested
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

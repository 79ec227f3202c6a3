package policy

import (
	"strings"

	"github.com/erazemk/najdeno/internal/apperr"
)

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CheckDomain reports a ValidationError on field "domain" unless email ends
// with suffix. The comparison is case-insensitive; suffix should include the
// "@" so that look-alike hosts ("evil-uni.edu") do not match "@uni.edu".
func CheckDomain(email, suffix string) error {
	normalized := NormalizeEmail(email)
	want := strings.ToLower(strings.TrimSpace(suffix))
	if want == "" || !strings.HasSuffix(normalized, want) || len(normalized) == len(want) {
		return apperr.Invalid("domain", "only %s email addresses may register", suffix)
	}
	return nil
}

package table

import "strings"

// Badge classes rendered for status cells.
const (
	BadgeSuccess = "success"
	BadgeDanger  = "danger"
	BadgeWarning = "warning"
	BadgeNeutral = "neutral"
)

// Badge classifies a status value into its badge class. Matching is
// case-insensitive because the platform is not consistent about status
// casing across namespaces.
func Badge(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "approved":
		return BadgeSuccess
	case "failed":
		return BadgeDanger
	case "pending":
		return BadgeWarning
	default:
		return BadgeNeutral
	}
}

// Slug turns an arbitrary label into a URL- and DOM-id-safe token. The
// contract: ASCII letters and digits are lowercased and kept, every other
// run of characters collapses to a single hyphen, and the result never
// starts or ends with a hyphen. Two labels differing only in case or
// punctuation therefore collide; callers needing uniqueness must append
// their own discriminator.
func Slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r + ('a' - 'A'))
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

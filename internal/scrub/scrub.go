// Package scrub removes personally identifying details from answer text.
//
// Survey answers are free text, so participants occasionally paste in
// email addresses, phone numbers or card numbers. When scrubbing is
// enabled, answers pass through Clean before they are stored.
package scrub

import (
	"regexp"
	"strings"
)

// Redaction markers left in place of removed content.
const (
	EmailMarker = "[redacted-email]"
	CardMarker  = "[redacted-card]"
	PhoneMarker = "[redacted-phone]"
)

var (
	// emailRegex matches common email address shapes
	emailRegex = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// cardRegex matches 13 to 16 digit card-like runs with optional
	// single space or dash separators
	cardRegex = regexp.MustCompile(`\b(?:\d[ \-]?){12,15}\d\b`)

	// phoneRegex matches separator-delimited phone numbers with an
	// optional country prefix. Bare digit runs are left alone so
	// ordinary numeric answers survive.
	phoneRegex = regexp.MustCompile(`(?:\+\d{1,2}[ \-.]?)?(?:\(\d{3}\)|\d{3})[ \-.]\d{3}[ \-.]\d{4}\b`)
)

// RedactEmails replaces email addresses with EmailMarker.
func RedactEmails(text string) string {
	return emailRegex.ReplaceAllString(text, EmailMarker)
}

// RedactCards replaces card-like digit runs with CardMarker.
func RedactCards(text string) string {
	return cardRegex.ReplaceAllString(text, CardMarker)
}

// RedactPhones replaces phone-like numbers with PhoneMarker.
func RedactPhones(text string) string {
	return phoneRegex.ReplaceAllString(text, PhoneMarker)
}

// ContainsPII reports whether the text holds anything Clean would redact.
func ContainsPII(text string) bool {
	return emailRegex.MatchString(text) ||
		cardRegex.MatchString(text) ||
		phoneRegex.MatchString(text)
}

// Clean performs full scrubbing on answer text.
// Cards are redacted before phones so a separated card number is not
// half-eaten by the narrower phone pattern.
func Clean(text string) string {
	text = RedactEmails(text)
	text = RedactCards(text)
	text = RedactPhones(text)
	return strings.TrimSpace(text)
}

// Package normalize canonicalizes user-supplied text before it is compared or stored.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Email returns the canonical form of an email address: trimmed, NFC-normalized
// and lower-cased in both the local and the domain part. Two addresses that
// differ only in case or Unicode composition normalize to the same value.
func Email(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

// Text trims s, NFC-normalizes it and collapses internal whitespace runs to a
// single space. Used for names and titles so "Camarão" typed with a combining
// tilde matches the precomposed form.
func Text(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

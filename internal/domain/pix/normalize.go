package pix

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	mobilePattern    = regexp.MustCompile(`^\d{11}$`)
	ccPhonePattern   = regexp.MustCompile(`^55\d{10,11}$`)
	payloadCharset   = regexp.MustCompile(`[^A-Za-z0-9 ]`)
	alnumOnlyPattern = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// stripDiacritics removes combining marks after Unicode decomposition
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// looksLikeMobile reports whether an 11-digit string is plausibly a Brazilian
// mobile number: area code 11-99 followed by a 9-prefixed subscriber number
func looksLikeMobile(digits string) bool {
	if !mobilePattern.MatchString(digits) {
		return false
	}
	area, err := strconv.Atoi(digits[:2])
	if err != nil || area < 11 || area > 99 {
		return false
	}
	return digits[2] == '9'
}

// NormalizeKey canonicalizes a PIX key for payload embedding. Bare Brazilian
// mobile numbers gain the +55 country code; numbers already carrying 55 gain
// the plus sign. CPF, CNPJ, email and random keys pass through verbatim.
func NormalizeKey(key string) string {
	key = strings.Join(strings.Fields(key), "")
	switch {
	case looksLikeMobile(key):
		return "+55" + key
	case ccPhonePattern.MatchString(key):
		return "+" + key
	default:
		return key
	}
}

// NormalizeText prepares free text for an EMV field: decompose, drop
// diacritics, drop anything outside [A-Za-z0-9 ], uppercase and truncate
func NormalizeText(s string, maxLen int) string {
	decomposed, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		decomposed = s
	}
	cleaned := payloadCharset.ReplaceAllString(decomposed, "")
	cleaned = strings.ToUpper(cleaned)
	if len(cleaned) > maxLen {
		cleaned = cleaned[:maxLen]
	}
	return cleaned
}

// normalizeReference strips a transaction id down to alphanumerics and
// truncates it to the EMV reference-label limit
func normalizeReference(txid string, maxLen int) string {
	cleaned := alnumOnlyPattern.ReplaceAllString(txid, "")
	if len(cleaned) > maxLen {
		cleaned = cleaned[:maxLen]
	}
	return cleaned
}

package validate

import (
	"regexp"
	"strings"
)

var (
	// US ZIP: exactly 5 digits
	reZip = regexp.MustCompile(`^[0-9]{5}$`)
	// Target TCIN: exactly 8 digits
	reSKU = regexp.MustCompile(`^[0-9]{8}$`)
	// store chain code: 3 lowercase letters
	reStore = regexp.MustCompile(`^[a-z]{3}$`)
	reAlnum = regexp.MustCompile(`[^A-Za-z0-9 ]+`)
)

func Zipcode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reZip.MatchString(s)
}

func SKU(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reSKU.MatchString(s)
}

func Store(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, reStore.MatchString(s)
}

// Keyword accepts UPC/TCIN-shaped search terms: all digits, length 8, 9, 12 or 13.
func Keyword(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 8 && len(s) != 9 && len(s) != 12 && len(s) != 13 {
		return "", false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return s, true
}

// AlnumSpace strips everything but letters, digits and spaces, collapsing
// whitespace runs. Display names are stored in this reduced form.
func AlnumSpace(s string) string {
	s = reAlnum.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Name sanitizes a display name and caps it at 64 characters.
func Name(s string) (string, bool) {
	s = AlnumSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 64 {
		s = strings.TrimSpace(s[:64])
	}
	return s, true
}

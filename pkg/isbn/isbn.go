// Package isbn converts between the book identifiers users paste in: bare
// ISBN-10s and ISBN-13s with or without hyphens, ASINs, and Amazon product
// URLs.
package isbn

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var (
	isbnASINRegex = regexp.MustCompile(`^[0-9]{9}[0-9X]$`)
	asinPathRegex = regexp.MustCompile(`(?i)/([A-Z0-9]{10})(?:[/?]|$)`)
)

// Normalize strips an ISBN down to its digits and returns both forms where
// they can be known. A 13-digit input yields the ISBN-13 plus a derived
// ISBN-10 when the input is in the 978 range. A 10-digit input yields only
// the ISBN-10. Anything else yields two empty strings.
func Normalize(value string) (isbn10, isbn13 string) {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) || r == 'X' || r == 'x' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.ToUpper(b.String())

	switch len(cleaned) {
	case 13:
		isbn13 = cleaned
		if strings.HasPrefix(cleaned, "978") {
			isbn10 = ISBN13To10(cleaned)
		}
	case 10:
		isbn10 = cleaned
	}
	return isbn10, isbn13
}

// ISBN13To10 converts a 978-range ISBN-13 to its ISBN-10 form by
// recomputing the modulo-11 check digit over the nine core digits.
// It returns an empty string when the input is not convertible.
func ISBN13To10(isbn13 string) string {
	if len(isbn13) != 13 || !strings.HasPrefix(isbn13, "978") {
		return ""
	}

	core := isbn13[3:12]
	sum := 0
	for i, r := range core {
		if !unicode.IsDigit(r) {
			return ""
		}
		sum += int(r-'0') * (10 - i)
	}

	check := 11 - sum%11
	switch check {
	case 10:
		return core + "X"
	case 11:
		return core + "0"
	default:
		return core + string(rune('0'+check))
	}
}

// ASINToISBN reports the ISBN-10 hiding inside an ASIN. Amazon reuses
// ISBN-10s as ASINs for print books, so a 9-digits-plus-check ASIN is an
// ISBN-10. Kindle ASINs (B0...) are not, and return an empty string.
func ASINToISBN(asin string) string {
	asin = strings.ToUpper(strings.TrimSpace(asin))
	if isbnASINRegex.MatchString(asin) {
		return asin
	}
	return ""
}

// ParseASINFromURL extracts the ASIN from an Amazon product URL such as
// https://www.amazon.co.jp/dp/B0ABCDEFGH or .../gp/product/4101010137.
// It returns an empty string when no plausible ASIN path segment exists.
func ParseASINFromURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	// url.Parse accepts relative strings like "foo/4101010137"; only a real
	// URL with a host counts.
	if !u.IsAbs() || u.Host == "" {
		return ""
	}
	m := asinPathRegex.FindStringSubmatch(u.Path)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// Package iban implements ISO 13616 IBAN check-digit generation and
// validation (mod-97). No third-party library in use here covers IBANs, and
// the arithmetic is small enough that pulling one in would not pay for
// itself.
package iban

import (
	"fmt"
	"strings"
)

// Valid reports whether s is a structurally valid IBAN: 2-letter country
// code, 2 check digits, and a mod-97 remainder of 1 over the rearranged
// string. It does not verify that the country's BBAN layout is respected.
func Valid(s string) bool {
	s = strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	if len(s) < 15 || len(s) > 34 {
		return false
	}
	if !isLetter(s[0]) || !isLetter(s[1]) || !isDigit(s[2]) || !isDigit(s[3]) {
		return false
	}
	digits, ok := toDigits(s[4:] + s[:4])
	if !ok {
		return false
	}
	return mod97(digits) == 1
}

// Generate builds an IBAN for the given country from the bank code and
// account number, computing the two check digits.
func Generate(country, bankCode, accountNumber string) string {
	bban := bankCode + accountNumber
	digits, _ := toDigits(bban + country + "00")
	check := 98 - mod97(digits)
	return fmt.Sprintf("%s%02d%s", country, check, bban)
}

// toDigits expands letters to their numeric values (A=10 .. Z=35).
func toDigits(s string) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isDigit(c):
			b.WriteByte(c)
		case isLetter(c):
			fmt.Fprintf(&b, "%d", c-'A'+10)
		default:
			return "", false
		}
	}
	return b.String(), true
}

// mod97 computes the remainder of an arbitrarily long digit string
// piecewise, so the value never overflows an int.
func mod97(digits string) int {
	rem := 0
	for i := 0; i < len(digits); i++ {
		rem = (rem*10 + int(digits[i]-'0')) % 97
	}
	return rem
}

func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }

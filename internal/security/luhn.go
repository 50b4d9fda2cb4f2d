package security

import "strings"

// LuhnValid reports whether a card number passes the Luhn checksum.
// Spaces and dashes are stripped before checking.
func LuhnValid(cardNumber string) bool {
	cardNumber = strings.ReplaceAll(cardNumber, "-", "")
	cardNumber = strings.ReplaceAll(cardNumber, " ", "")
	if cardNumber == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(cardNumber) - 1; i >= 0; i-- {
		c := cardNumber[i]
		if c < '0' || c > '9' {
			return false
		}

		digit := int(c - '0')
		if double {
			digit *= 2
			if digit >= 10 {
				digit = 1 + digit%10
			}
		}
		sum += digit
		double = !double
	}

	return sum%10 == 0
}

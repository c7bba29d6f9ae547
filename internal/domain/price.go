package domain

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxPrice is the largest price a recipe can carry: five digits, two of them decimals.
const MaxPrice Price = 99999

// Price is an amount in cents. It is written to JSON as a decimal string
// ("7.00") and read from either a string or a number.
type Price int64

// Field messages shown to API clients.
//
//nolint:staticcheck // user-facing sentences
var (
	errPriceFormat    = errors.New("A valid number is required.")
	errPriceDecimals  = errors.New("Ensure that there are no more than 2 decimal places.")
	errPriceMaxDigits = errors.New("Ensure that there are no more than 5 digits in total.")
	errPriceNegative  = errors.New("Ensure this value is greater than or equal to 0.")
)

// ParsePrice parses a decimal amount such as "7", "7.5" or "12.99".
// More than two decimal places, more than five digits and negative values are rejected.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errPriceFormat
	}
	if strings.HasPrefix(s, "-") {
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return 0, errPriceFormat
		}
		return 0, errPriceNegative
	}
	s = strings.TrimPrefix(s, "+")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, errPriceFormat
	}
	if (whole != "" && !isDigits(whole)) || (frac != "" && !isDigits(frac)) {
		return 0, errPriceFormat
	}

	frac = strings.TrimRight(frac, "0")
	if len(frac) > 2 {
		return 0, errPriceDecimals
	}
	whole = strings.TrimLeft(whole, "0")
	if len(whole) > 3 {
		return 0, errPriceMaxDigits
	}

	frac += strings.Repeat("0", 2-len(frac))
	cents, err := strconv.ParseInt("0"+whole+frac, 10, 64)
	if err != nil {
		return 0, errPriceFormat
	}
	return Price(cents), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Cents returns the amount in cents.
func (p Price) Cents() int64 { return int64(p) }

// String renders the price with exactly two decimals.
func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", int64(p)/100, int64(p)%100)
}

// MarshalJSON writes the price as a decimal string.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// UnmarshalJSON accepts "7.00" as well as 7 or 7.5.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return errPriceFormat
		}
		raw = unquoted
	}
	parsed, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

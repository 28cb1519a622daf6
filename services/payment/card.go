// Package payment validates card details entered during client onboarding.
// Only the format is checked here; authorization belongs to the processor.
package payment

import (
	"strconv"
	"time"
)

// Brand is the issuing network family inferred from the card number.
type Brand string

const (
	BrandVisa       Brand = "Visa"
	BrandMastercard Brand = "Mastercard"
	BrandAmex       Brand = "American Express"
	BrandDiscover   Brand = "Discover"
	BrandUnknown    Brand = "Unknown"
)

// brandLengths lists the valid PAN lengths per brand.
var brandLengths = map[Brand][]int{
	BrandVisa:       {13, 16, 19},
	BrandMastercard: {16},
	BrandAmex:       {15},
	BrandDiscover:   {16, 19},
}

// ExpectedLengths returns the valid number-of-digits set for a brand.
func ExpectedLengths(brand Brand) []int {
	return brandLengths[brand]
}

// CVVLength returns the security-code length the brand uses.
func CVVLength(brand Brand) int {
	if brand == BrandAmex {
		return 4
	}
	return 3
}

// digits strips spaces and reports whether the remainder is all digits.
// Any other character makes the number invalid.
func digits(number string) (string, bool) {
	out := make([]byte, 0, len(number))
	for i := 0; i < len(number); i++ {
		c := number[i]
		if c == ' ' {
			continue
		}
		if c < '0' || c > '9' {
			return "", false
		}
		out = append(out, c)
	}
	return string(out), len(out) > 0
}

// DetectBrand matches the leading digits of the card number against the
// known network prefixes. Detection runs on the prefix alone so partial
// input still yields a brand for CVV-length decisions.
func DetectBrand(number string) Brand {
	num, ok := digits(number)
	if !ok {
		return BrandUnknown
	}

	switch {
	case num[0] == '4':
		return BrandVisa
	case prefixInRange(num, 2, 51, 55), prefixInRange(num, 4, 2221, 2720):
		return BrandMastercard
	case hasPrefix(num, "34"), hasPrefix(num, "37"):
		return BrandAmex
	case hasPrefix(num, "6011"), hasPrefix(num, "65"), prefixInRange(num, 3, 644, 649):
		return BrandDiscover
	default:
		return BrandUnknown
	}
}

func hasPrefix(num, prefix string) bool {
	return len(num) >= len(prefix) && num[:len(prefix)] == prefix
}

func prefixInRange(num string, width, lo, hi int) bool {
	if len(num) < width {
		return false
	}
	n, err := strconv.Atoi(num[:width])
	if err != nil {
		return false
	}
	return n >= lo && n <= hi
}

// LuhnCheck runs the mod-10 checksum, doubling every second digit from the
// right. Non-digit or empty input fails closed.
func LuhnCheck(number string) bool {
	num, ok := digits(number)
	if !ok {
		return false
	}

	sum := 0
	double := false
	for i := len(num) - 1; i >= 0; i-- {
		d := int(num[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// IsValidCardNumber requires a known brand, a length the brand issues, and a
// passing Luhn checksum.
func IsValidCardNumber(number string) bool {
	num, ok := digits(number)
	if !ok {
		return false
	}
	brand := DetectBrand(num)
	if brand == BrandUnknown {
		return false
	}
	lengthOK := false
	for _, l := range brandLengths[brand] {
		if len(num) == l {
			lengthOK = true
			break
		}
	}
	return lengthOK && LuhnCheck(num)
}

// IsValidExpiry accepts MM and a 2- or 4-digit year and rejects anything
// strictly before the current month. The current month itself is valid.
func IsValidExpiry(month, year string, now time.Time) bool {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return false
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 0 {
		return false
	}
	if y < 100 {
		// two-digit convention: same century as the current year
		y += (now.Year() / 100) * 100
	}

	if y != now.Year() {
		return y > now.Year()
	}
	return m >= int(now.Month())
}

// IsValidCVV checks the code is digits only and the brand's length.
func IsValidCVV(cvv string, brand Brand) bool {
	num, ok := digits(cvv)
	if !ok || len(num) != len(cvv) {
		return false
	}
	return len(num) == CVVLength(brand)
}

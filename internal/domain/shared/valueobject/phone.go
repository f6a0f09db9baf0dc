package valueobject

import (
	"errors"
	"strings"
)

// Region represents a default dialing region (ISO 3166-1 alpha-2)
type Region string

const (
	RegionAU Region = "AU" // Australia
	RegionNZ Region = "NZ" // New Zealand
	RegionUS Region = "US" // United States
	RegionGB Region = "GB" // United Kingdom
)

// minSignificantDigits is the minimum number of national digits a phone
// number must carry to be accepted.
const minSignificantDigits = 8

// Phone normalization errors
var (
	ErrPhoneEmpty    = errors.New("phone: number is empty")
	ErrPhoneTooShort = errors.New("phone: number has too few digits")
	ErrPhoneRegion   = errors.New("phone: unknown default region")
)

// countryCallingCodes maps a region to its international calling code.
var countryCallingCodes = map[Region]string{
	RegionAU: "61",
	RegionNZ: "64",
	RegionUS: "1",
	RegionGB: "44",
}

// Phone is a value object holding a phone number in international
// dialing format (E.164-style, "+" followed by digits only).
// It is immutable.
type Phone struct {
	value string
}

// NormalizePhone parses raw input into a Phone in international format.
// Rules:
//   - everything except digits and a leading "+" is stripped
//   - a leading trunk "0" is replaced with the default region's country code
//   - input without "+" or trunk prefix gets the region code prepended
//   - fewer than minSignificantDigits national digits is rejected
func NormalizePhone(raw string, region Region) (Phone, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Phone{}, ErrPhoneEmpty
	}

	international := strings.HasPrefix(trimmed, "+")
	digits := stripNonDigits(trimmed)
	if digits == "" {
		return Phone{}, ErrPhoneEmpty
	}

	if international {
		cc := callingCode(region)
		national := digits
		if cc != "" && strings.HasPrefix(digits, cc) {
			national = digits[len(cc):]
		}
		if len(national) < minSignificantDigits {
			return Phone{}, ErrPhoneTooShort
		}
		return Phone{value: "+" + digits}, nil
	}

	cc, ok := countryCallingCodes[region]
	if !ok {
		return Phone{}, ErrPhoneRegion
	}

	national := digits
	if strings.HasPrefix(national, "0") {
		national = strings.TrimPrefix(national, "0")
	}
	if len(national) < minSignificantDigits {
		return Phone{}, ErrPhoneTooShort
	}

	return Phone{value: "+" + cc + national}, nil
}

// String returns the normalized phone number
func (p Phone) String() string {
	return p.value
}

// IsZero returns true if the phone has no value
func (p Phone) IsZero() bool {
	return p.value == ""
}

// callingCode returns the calling code for a region, or "" when unknown
func callingCode(region Region) string {
	return countryCallingCodes[region]
}

// stripNonDigits removes every non-digit character
func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package utils

import (
	"strings"

	"github.com/MboaMarket/mboa_api/internal/models"
)

// Cameroon mobile numbers are nine digits starting with 6. Operator is
// determined by the first three digits (two for the legacy 67/69 blocks).
var (
	mtnPrefixes    = []string{"650", "651", "652", "653", "654", "67", "680", "681", "682", "683", "684"}
	orangePrefixes = []string{"655", "656", "657", "658", "659", "69", "685", "686", "687", "688", "689"}
)

// NormalizePhone strips spaces, dashes and a leading +237/237 country code.
func NormalizePhone(raw string) string {
	s := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "+")
	s = strings.TrimPrefix(s, "237")
	return s
}

// ValidatePhone checks a payer number against the expected operator's prefix
// table. Returns the normalized nine-digit number or ErrInvalidPhone.
func ValidatePhone(raw string, operator models.Operator) (string, error) {
	phone := NormalizePhone(raw)
	if len(phone) != 9 || phone[0] != '6' {
		return "", ErrInvalidPhone
	}
	for _, c := range phone {
		if c < '0' || c > '9' {
			return "", ErrInvalidPhone
		}
	}

	var prefixes []string
	switch operator {
	case models.OperatorMTN:
		prefixes = mtnPrefixes
	case models.OperatorOrange:
		prefixes = orangePrefixes
	default:
		return "", ErrInvalidPhone
	}

	for _, p := range prefixes {
		if strings.HasPrefix(phone, p) {
			return phone, nil
		}
	}
	return "", ErrInvalidPhone
}

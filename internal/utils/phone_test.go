package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MboaMarket/mboa_api/internal/models"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare number", "670123456", "670123456"},
		{"with country code", "237670123456", "670123456"},
		{"with plus country code", "+237670123456", "670123456"},
		{"with spaces and dashes", "+237 670-123-456", "670123456"},
		{"with parentheses", "(237) 670123456", "670123456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.raw))
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		operator models.Operator
		want     string
		wantErr  bool
	}{
		{"mtn 67 block", "670123456", models.OperatorMTN, "670123456", false},
		{"mtn 650 block", "650987654", models.OperatorMTN, "650987654", false},
		{"mtn 680 block", "+237684000001", models.OperatorMTN, "684000001", false},
		{"orange 69 block", "690123456", models.OperatorOrange, "690123456", false},
		{"orange 655 block", "655111222", models.OperatorOrange, "655111222", false},
		{"orange 685 block", "689000111", models.OperatorOrange, "689000111", false},
		{"mtn number on orange", "670123456", models.OperatorOrange, "", true},
		{"orange number on mtn", "690123456", models.OperatorMTN, "", true},
		{"too short", "67012345", models.OperatorMTN, "", true},
		{"too long", "6701234567", models.OperatorMTN, "", true},
		{"not starting with 6", "770123456", models.OperatorMTN, "", true},
		{"non digit", "67012345a", models.OperatorMTN, "", true},
		{"unknown operator", "670123456", models.Operator("CAMTEL"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePhone(tt.raw, tt.operator)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

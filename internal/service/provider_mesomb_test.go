package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/pkg/mesomb"
)

func TestClassifyCode(t *testing.T) {
	tests := []struct {
		code string
		want FailureKind
	}{
		{"subscriber-not-found", FailureAccountNotFound},
		{"insufficient-balance", FailureDeclined},
		{"payer-rejected", FailureDeclined},
		{"provider-timeout", FailureRetryable},
		{"internal-error", FailureRetryable},
		{"invalid-amount", FailureFatal},
		{"totally-unknown-code", FailureFatal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyCode(tt.code), "code=%s", tt.code)
	}
}

func TestStatusResult(t *testing.T) {
	p := NewMeSombProvider(nil)

	st := p.StatusResult(&mesomb.Transaction{PK: "t1", Status: "SUCCESS"})
	assert.Equal(t, models.PaymentSuccess, st.Status)

	st = p.StatusResult(&mesomb.Transaction{PK: "t2", Status: "PENDING"})
	assert.Equal(t, models.PaymentPending, st.Status)

	st = p.StatusResult(&mesomb.Transaction{PK: "t3", Status: "CANCELED"})
	assert.Equal(t, models.PaymentCancelled, st.Status)
	assert.Equal(t, FailureDeclined, st.FailureKind)

	st = p.StatusResult(&mesomb.Transaction{PK: "t4", Status: "FAILED"})
	assert.Equal(t, models.PaymentFailed, st.Status)
	assert.Equal(t, "FAILED", st.FailureCode)
}

package models

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSuccess   PaymentStatus = "success"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Terminal reports whether a payment status can no longer change.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentSuccess || s == PaymentFailed || s == PaymentCancelled
}

// Operator is a mobile-money network.
type Operator string

const (
	OperatorMTN    Operator = "MTN"
	OperatorOrange Operator = "ORANGE"
)

// ProviderCode identifies a payment processor integration.
type ProviderCode string

const (
	ProviderMeSomb ProviderCode = "mesomb"
	ProviderPayPal ProviderCode = "paypal"
)

// Payment records one boost purchase attempt. The quoted amount is frozen here
// at purchase time; the boost row copies it and never recomputes.
type Payment struct {
	ID           int           `db:"id" json:"-"`
	PaymentID    string        `db:"payment_id" json:"paymentId"`
	Reference    string        `db:"reference" json:"reference"`
	UserID       int           `db:"user_id" json:"-"`
	ListingID    int           `db:"listing_id" json:"listingId"`
	Tier         TierCode      `db:"tier" json:"tier"`
	Days         int           `db:"days" json:"days"`
	AmountXAF    int           `db:"amount_xaf" json:"amountXaf"`
	Phone        *string       `db:"phone" json:"phone,omitempty"`
	Operator     *Operator     `db:"operator" json:"operator,omitempty"`
	Provider     ProviderCode  `db:"provider" json:"provider"`
	ProviderRef  *string       `db:"provider_ref" json:"-"`
	Status       PaymentStatus `db:"status" json:"status"`
	FailedReason *string       `db:"failed_reason" json:"failedReason,omitempty"`

	// Poller bookkeeping.
	Attempts             int        `db:"attempts" json:"-"`
	NextCheckAt          *time.Time `db:"next_check_at" json:"-"`
	CompensationRequired bool       `db:"compensation_required" json:"-"`

	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	ProcessedAt *time.Time `db:"processed_at" json:"processedAt,omitempty"`
	UpdatedAt   time.Time  `db:"updated_at" json:"-"`
}

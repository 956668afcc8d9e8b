package models

import "time"

// CheckoutStep numbers the boost purchase wizard. Success is not a step: a
// successful purchase is terminal via the payment and boost records.
type CheckoutStep int

const (
	StepSelectTier     CheckoutStep = 1
	StepSelectDuration CheckoutStep = 2
	StepSelectMethod   CheckoutStep = 3
	StepConfirm        CheckoutStep = 4
	StepAwaitingPhone  CheckoutStep = 5
	StepProcessing     CheckoutStep = 6
	StepError          CheckoutStep = 7
)

// PaymentMethod is the option picked at step 3.
type PaymentMethod string

const (
	MethodMTNMoMo     PaymentMethod = "mtn_momo"
	MethodOrangeMoney PaymentMethod = "orange_money"
	MethodPayPal      PaymentMethod = "paypal"
)

// MobileMoney reports whether the method requires a payer phone number.
func (m PaymentMethod) MobileMoney() bool {
	return m == MethodMTNMoMo || m == MethodOrangeMoney
}

// CheckoutSession is the server-side state of one boost purchase wizard.
// Sessions live in Redis with a TTL; an expired session simply restarts the
// wizard, mirroring a page reload in the original flow.
type CheckoutSession struct {
	SessionID string       `json:"sessionId"`
	UserID    int          `json:"userId"`
	ListingID int          `json:"listingId"`
	Step      CheckoutStep `json:"step"`

	Tier   TierCode      `json:"tier,omitempty"`
	Days   int           `json:"days"`
	Method PaymentMethod `json:"method,omitempty"`
	Phone  string        `json:"phone,omitempty"`

	// QuoteXAF is frozen when the session reaches the confirm step.
	QuoteXAF int `json:"quoteXaf,omitempty"`

	// PaymentID is set once Pay has submitted a collection request.
	PaymentID string `json:"paymentId,omitempty"`

	ErrorCode    string    `json:"errorCode,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

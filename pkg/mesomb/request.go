package mesomb

// CollectRequest represents a mobile-money collection (request-to-pay).
type CollectRequest struct {
	Amount      int    `json:"amount"`
	Service     string `json:"service"` // "MTN" or "ORANGE"
	Payer       string `json:"payer"`   // nine-digit subscriber number
	Currency    string `json:"currency,omitempty"`
	Reference   string `json:"reference"`
	Description string `json:"message,omitempty"`
	Fees        bool   `json:"fees"`
}

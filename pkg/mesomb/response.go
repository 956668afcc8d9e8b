package mesomb

// CollectResponse is the result of a collection request. Status is one of the
// Status* constants; Code carries the provider error code on failures.
type CollectResponse struct {
	Success     bool        `json:"success"`
	Status      string      `json:"status"`
	Code        string      `json:"code,omitempty"`
	Message     string      `json:"message,omitempty"`
	Transaction Transaction `json:"transaction"`
}

// Transaction describes one MeSomb transaction as returned by the
// transactions endpoint.
type Transaction struct {
	PK        string  `json:"pk"`
	Status    string  `json:"status"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Fees      float64 `json:"fees"`
	Service   string  `json:"service"`
	Payer     string  `json:"b_party"`
	Reference string  `json:"reference,omitempty"`
	Message   string  `json:"message,omitempty"`
	FinTrxID  string  `json:"fin_trx_id,omitempty"`
}

// ApplicationStatus reports the application state and per-service balances.
type ApplicationStatus struct {
	Name     string             `json:"name"`
	Balances []ServiceBalance   `json:"balances"`
}

// ServiceBalance is the available balance for one service.
type ServiceBalance struct {
	Service string  `json:"service"`
	Value   float64 `json:"value"`
}

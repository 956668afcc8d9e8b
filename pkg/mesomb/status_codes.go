package mesomb

// Transaction statuses returned by MeSomb.
const (
	StatusSuccess   = "SUCCESS"
	StatusPending   = "PENDING"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELED" // provider spelling
)

// Error code classification

// Fatal - the collection can never succeed with the same input.
var fatalCodes = map[string]bool{
	"subscriber-not-found":    true, // number not registered for mobile money
	"subscriber-internal-err": true,
	"invalid-amount":          true,
	"invalid-number":          true,
	"service-not-supported":   true,
	"unauthorized":            true,
	"signature-error":         true,
}

// Declined - payer-side terminal failures.
var declinedCodes = map[string]bool{
	"insufficient-balance": true,
	"payer-rejected":       true,
	"payer-limit-reached":  true,
}

// Retryable - transient provider-side conditions.
var retryableCodes = map[string]bool{
	"provider-timeout":     true,
	"provider-unavailable": true,
	"internal-error":       true,
}

// Helper functions
func IsSuccess(status string) bool {
	return status == StatusSuccess
}

func IsPending(status string) bool {
	return status == StatusPending
}

func IsCancelled(status string) bool {
	return status == StatusCancelled
}

func IsTerminal(status string) bool {
	return status == StatusSuccess || status == StatusFailed || status == StatusCancelled
}

func IsFatalCode(code string) bool {
	return fatalCodes[code]
}

// IsUnregisteredAccount reports the one failure users hit most: the payer
// number exists on the network but has no mobile-money account.
func IsUnregisteredAccount(code string) bool {
	return code == "subscriber-not-found"
}

func IsDeclinedCode(code string) bool {
	return declinedCodes[code]
}

func IsRetryableCode(code string) bool {
	return retryableCodes[code]
}

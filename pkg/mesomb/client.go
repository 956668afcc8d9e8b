package mesomb

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Config holds MeSomb API credentials.
type Config struct {
	BaseURL   string
	AppKey    string
	AccessKey string
	SecretKey string
}

// Client is a minimal HTTP client for the MeSomb payment aggregator.
// Every request is signed with HMAC-SHA1 over a canonical request string.
type Client struct {
	httpClient *http.Client
	config     Config
	debug      bool

	// now and nonce are swappable for deterministic signature tests.
	now   func() time.Time
	nonce func() string
}

// NewClient constructs a new MeSomb client with sane defaults.
func NewClient(config Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		config:     config,
		debug:      os.Getenv("ENV") == "development",
		now:        time.Now,
		nonce:      func() string { return strings.ReplaceAll(uuid.New().String(), "-", "") },
	}
}

// sign builds the canonical string and returns its HMAC-SHA1 hex digest.
// Canonical form:
//
//	METHOD \n SHA1(body) \n content-type \n timestamp \n nonce \n url
func (c *Client) sign(method, rawURL string, body []byte, timestamp int64, nonce string) string {
	bodyHash := sha1.Sum(body)
	canonical := strings.Join([]string{
		method,
		hex.EncodeToString(bodyHash[:]),
		"application/json",
		fmt.Sprintf("%d", timestamp),
		nonce,
		rawURL,
	}, "\n")

	mac := hmac.New(sha1.New, []byte(c.config.SecretKey))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// Collect submits a mobile-money collection (request-to-pay). The payer
// receives a confirmation prompt on their phone; the response is either a
// terminal status or pending.
func (c *Client) Collect(ctx context.Context, req *CollectRequest) (*CollectResponse, error) {
	if req.Currency == "" {
		req.Currency = "XAF"
	}
	var resp CollectResponse
	if err := c.doRequest(ctx, http.MethodPost, "/payment/collect/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckTransactions fetches the current status of transactions by ID.
// The endpoint is idempotent: polling the same IDs never creates new
// collection requests.
func (c *Client) CheckTransactions(ctx context.Context, ids []string) ([]Transaction, error) {
	endpoint := "/payment/transactions/?ids=" + url.QueryEscape(strings.Join(ids, ","))
	var list []Transaction
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetStatus returns the application status and balances.
func (c *Client) GetStatus(ctx context.Context) (*ApplicationStatus, error) {
	var status ApplicationStatus
	if err := c.doRequest(ctx, http.MethodGet, "/payment/status/", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// doRequest performs a signed HTTP request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	var payload []byte
	var err error
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	fullURL := c.config.BaseURL + endpoint
	timestamp := c.now().Unix()
	nonce := c.nonce()
	signature := c.sign(method, fullURL, payload, timestamp, nonce)

	if c.debug {
		log.Debug().
			Str("endpoint", fullURL).
			RawJSON("request", orNull(payload)).
			Msg("[MESOMB] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-MeSomb-Application", c.config.AppKey)
	req.Header.Set("X-MeSomb-Date", fmt.Sprintf("%d", timestamp))
	req.Header.Set("X-MeSomb-Nonce", nonce)
	req.Header.Set("Authorization", fmt.Sprintf(
		"HMAC-SHA1 Credential=%s/mesomb_request, SignedHeaders=content-type;x-mesomb-date;x-mesomb-nonce, Signature=%s",
		c.config.AccessKey, signature,
	))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[MESOMB] Incoming response")
	}

	// MeSomb returns error details as JSON with a code field even on non-2xx,
	// so decode regardless of status code to surface the message.
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response (http %d): %w", resp.StatusCode, err)
	}
	return nil
}

func orNull(payload []byte) []byte {
	if len(payload) == 0 {
		return []byte("null")
	}
	return payload
}

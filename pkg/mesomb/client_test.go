package mesomb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	c := NewClient(Config{
		BaseURL:   baseURL,
		AppKey:    "app-key",
		AccessKey: "access-key",
		SecretKey: "secret-key",
	})
	c.debug = false
	c.now = func() time.Time { return time.Unix(1756400000, 0) }
	c.nonce = func() string { return "deadbeefdeadbeefdeadbeefdeadbeef" }
	return c
}

func TestSignIsDeterministic(t *testing.T) {
	c := testClient("https://mesomb.example")

	sig := c.sign(http.MethodPost, "https://mesomb.example/payment/collect/", []byte(`{"amount":1000}`), 1756400000, "nonce1")
	again := c.sign(http.MethodPost, "https://mesomb.example/payment/collect/", []byte(`{"amount":1000}`), 1756400000, "nonce1")
	assert.Equal(t, sig, again)
	assert.Len(t, sig, 40, "hex HMAC-SHA1 digest")

	// Any input change alters the signature.
	assert.NotEqual(t, sig, c.sign(http.MethodGet, "https://mesomb.example/payment/collect/", []byte(`{"amount":1000}`), 1756400000, "nonce1"))
	assert.NotEqual(t, sig, c.sign(http.MethodPost, "https://mesomb.example/payment/collect/", []byte(`{"amount":2000}`), 1756400000, "nonce1"))
	assert.NotEqual(t, sig, c.sign(http.MethodPost, "https://mesomb.example/payment/collect/", []byte(`{"amount":1000}`), 1756400001, "nonce1"))
	assert.NotEqual(t, sig, c.sign(http.MethodPost, "https://mesomb.example/payment/collect/", []byte(`{"amount":1000}`), 1756400000, "nonce2"))
}

func TestCollectSendsSignedRequest(t *testing.T) {
	var gotAuth, gotApp, gotDate, gotNonce string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payment/collect/", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotApp = r.Header.Get("X-MeSomb-Application")
		gotDate = r.Header.Get("X-MeSomb-Date")
		gotNonce = r.Header.Get("X-MeSomb-Nonce")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"status":"PENDING","transaction":{"pk":"trx-123","status":"PENDING"}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	resp, err := c.Collect(context.Background(), &CollectRequest{
		Amount:    28000,
		Service:   "MTN",
		Payer:     "670123456",
		Reference: "ref-1",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, "trx-123", resp.Transaction.PK)

	assert.Equal(t, "app-key", gotApp)
	assert.Equal(t, "1756400000", gotDate)
	assert.Equal(t, "deadbeefdeadbeefdeadbeefdeadbeef", gotNonce)
	assert.Contains(t, gotAuth, "HMAC-SHA1 Credential=access-key/mesomb_request")
	assert.Contains(t, gotAuth, "Signature=")
}

func TestCollectDefaultsCurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"status":"SUCCESS","transaction":{"pk":"trx-1","status":"SUCCESS"}}`))
	}))
	defer srv.Close()

	req := &CollectRequest{Amount: 1000, Service: "MTN", Payer: "670123456", Reference: "r"}
	_, err := testClient(srv.URL).Collect(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "XAF", req.Currency)
}

func TestCheckTransactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payment/transactions/", r.URL.Path)
		assert.Equal(t, "trx-1,trx-2", r.URL.Query().Get("ids"))
		w.Write([]byte(`[{"pk":"trx-1","status":"SUCCESS","amount":28000},{"pk":"trx-2","status":"FAILED"}]`))
	}))
	defer srv.Close()

	list, err := testClient(srv.URL).CheckTransactions(context.Background(), []string{"trx-1", "trx-2"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, StatusSuccess, list[0].Status)
	assert.Equal(t, StatusFailed, list[1].Status)
}

func TestStatusClassification(t *testing.T) {
	assert.True(t, IsSuccess("SUCCESS"))
	assert.True(t, IsPending("PENDING"))
	assert.True(t, IsCancelled("CANCELED"))
	assert.True(t, IsTerminal("FAILED"))
	assert.False(t, IsTerminal("PENDING"))

	assert.True(t, IsUnregisteredAccount("subscriber-not-found"))
	assert.True(t, IsFatalCode("subscriber-not-found"))
	assert.True(t, IsDeclinedCode("insufficient-balance"))
	assert.True(t, IsRetryableCode("provider-timeout"))
	assert.False(t, IsRetryableCode("insufficient-balance"))
}

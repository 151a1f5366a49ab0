package client

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"paystack-storefront/internal/config"
)

const SignatureHeader = "X-Paystack-Signature"

var (
	// ErrGatewayTimeout means no answer arrived before the deadline. The
	// request may or may not have reached Paystack.
	ErrGatewayTimeout = errors.New("paystack request timed out")
	// ErrInvalidSignature means the webhook body was not signed with our key.
	ErrInvalidSignature = errors.New("invalid paystack signature")
)

// RejectedError is returned when Paystack answers with a non-2xx status.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("paystack error %d: %s", e.StatusCode, e.Body)
}

type PaystackClient interface {
	// InitializeTransaction opens a hosted payment session and returns the
	// gateway response body untouched.
	InitializeTransaction(ctx context.Context, req *InitializeTransactionRequest) (json.RawMessage, error)
	VerifyWebhookSignature(body []byte, signature string) error
}

type InitializeTransactionRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"` // minor units
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url"`
}

type paystackClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	secretKey  string
	timeout    time.Duration
}

func NewPaystackClient(cfg *config.Paystack) PaystackClient {
	return &paystackClientImpl{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseApiURL: strings.TrimRight(cfg.BaseApiURL, "/"),
		secretKey:  cfg.SecretKey,
		timeout:    cfg.Timeout,
	}
}

func (c *paystackClientImpl) InitializeTransaction(ctx context.Context, payload *InitializeTransactionRequest) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/transaction/initialize",
		bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrGatewayTimeout, err)
		}
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrGatewayTimeout, err)
		}
		return nil, fmt.Errorf("read paystack response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RejectedError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if !json.Valid(respBody) {
		return nil, fmt.Errorf("paystack returned invalid json")
	}

	return json.RawMessage(respBody), nil
}

// VerifyWebhookSignature checks the hex HMAC-SHA512 of the raw body, keyed
// with the secret key, against the signature header value.
func (c *paystackClientImpl) VerifyWebhookSignature(body []byte, signature string) error {
	if signature == "" {
		return ErrInvalidSignature
	}

	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return ErrInvalidSignature
	}

	if !hmac.Equal(got, Sign(c.secretKey, body)) {
		return ErrInvalidSignature
	}

	return nil
}

// Sign computes the raw Paystack webhook signature for body.
func Sign(secretKey string, body []byte) []byte {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	return mac.Sum(nil)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

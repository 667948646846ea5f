// Package payment talks to the external payment gateway: it opens a gateway
// order for every placed order and checks the signatures the gateway hands
// back to customers.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency = "INR"
	defaultTimeout  = 10 * time.Second
)

type Config struct {
	// BaseURL of the gateway API. Empty means handles are minted locally,
	// which is how development and tests run.
	BaseURL  string
	KeyID    string
	Secret   string
	Currency string
}

type Gateway struct {
	cfg    Config
	client *http.Client
}

func NewGateway(cfg Config, client *http.Client) (*Gateway, error) {
	if cfg.Secret == "" {
		return nil, errs.NewValueIsRequiredError("secret")
	}
	if cfg.BaseURL != "" && cfg.KeyID == "" {
		return nil, errs.NewValueIsRequiredError("keyId")
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Gateway{cfg: cfg, client: client}, nil
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreatePayment opens a gateway order for amount, expressed in minor units.
func (g *Gateway) CreatePayment(ctx context.Context, orderID kernel.UUID, amount kernel.Money) (string, error) {
	if g.cfg.BaseURL == "" {
		return localHandle()
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:   amount.Decimal().Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		Currency: g.cfg.Currency,
		Receipt:  orderID.String(),
		Notes:    map[string]string{"order_id": orderID.String()},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.cfg.KeyID, g.cfg.Secret)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errs.NewUpstreamError("payment gateway", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errs.NewUpstreamError("payment gateway", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var created createOrderResponse
	if err = json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", errs.NewUpstreamError("payment gateway", err)
	}
	if created.ID == "" {
		return "", errs.NewUpstreamError("payment gateway", errors.New("empty order id in response"))
	}
	return created.ID, nil
}

// VerifySignature checks signature against HMAC-SHA256(secret, handle|paymentID)
// in hex.
func (g *Gateway) VerifySignature(handle, paymentID, signature string) error {
	expected := Sign(g.cfg.Secret, handle, paymentID)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(signature))) != 1 {
		return errs.NewInvalidCredentialError("signature")
	}
	return nil
}

// Sign computes the signature the gateway issues for a captured payment.
func Sign(secret, handle, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(handle + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func localHandle() (string, error) {
	b := make([]byte, 7)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "order_" + hex.EncodeToString(b), nil
}

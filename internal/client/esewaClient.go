package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dairymart/internal/config"
	"dairymart/internal/model"

	"github.com/shopspring/decimal"
)

// ErrVerificationFailed means the gateway did not confirm the transaction;
// callers must not mark anything paid.
var ErrVerificationFailed = errors.New("esewa verification failed")

// PaymentRequest is the redirect payload returned to the storefront: the
// gateway form URL plus the signed fields the browser posts to it.
type PaymentRequest struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

type EsewaClient interface {
	BuildPaymentRequest(order *model.Order, successURL, failureURL string) *PaymentRequest
	// VerifyPayment re-checks a success callback's reference id and amount
	// with the gateway's verification endpoint.
	VerifyPayment(ctx context.Context, refID, orderNumber string, amount decimal.Decimal) error
}

type esewaClientImpl struct {
	httpClient   *http.Client
	baseURL      string
	merchantCode string
	secretKey    string
}

func NewEsewaClient(cfg *config.Esewa) EsewaClient {
	return &esewaClientImpl{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		baseURL:      cfg.BaseURL,
		merchantCode: cfg.MerchantCode,
		secretKey:    cfg.SecretKey,
	}
}

func (c *esewaClientImpl) BuildPaymentRequest(order *model.Order, successURL, failureURL string) *PaymentRequest {
	total := order.Total.StringFixed(2)

	fields := map[string]string{
		"amount":                  order.Subtotal.Sub(order.Discount).StringFixed(2),
		"tax_amount":              "0",
		"product_service_charge":  "0",
		"product_delivery_charge": order.ShippingCost.StringFixed(2),
		"total_amount":            total,
		"transaction_uuid":        order.OrderNumber,
		"product_code":            c.merchantCode,
		"success_url":             successURL,
		"failure_url":             failureURL,
		"signed_field_names":      "total_amount,transaction_uuid,product_code",
	}
	fields["signature"] = c.sign(total, order.OrderNumber)

	return &PaymentRequest{
		URL:    c.baseURL + "/api/epay/main/v2/form",
		Fields: fields,
	}
}

// sign computes the base64 HMAC-SHA256 over the signed field list in the
// exact order eSewa expects.
func (c *esewaClientImpl) sign(totalAmount, transactionUUID string) string {
	message := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		totalAmount, transactionUUID, c.merchantCode)

	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (c *esewaClientImpl) VerifyPayment(ctx context.Context, refID, orderNumber string, amount decimal.Decimal) error {
	form := url.Values{}
	form.Set("amt", amount.StringFixed(2))
	form.Set("rid", refID)
	form.Set("pid", orderNumber)
	form.Set("scd", c.merchantCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/epay/transrec", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("esewa verification request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read verification response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("esewa verification status %d: %s", resp.StatusCode, string(body))
	}

	// The verification endpoint answers with a small XML document whose
	// response_code is "Success" for confirmed transactions.
	if !strings.Contains(strings.ToLower(string(body)), "success") {
		return ErrVerificationFailed
	}

	return nil
}

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"dairymart/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testEsewaClient(baseURL string) *esewaClientImpl {
	return &esewaClientImpl{
		httpClient:   http.DefaultClient,
		baseURL:      baseURL,
		merchantCode: "EPAYTEST",
		secretKey:    "8gBm/:&EnhH.1/q",
	}
}

func TestSignKnownVector(t *testing.T) {
	c := testEsewaClient("")

	// Vector computed independently for the sandbox key.
	got := c.sign("110.00", "DM-ABC123")
	assert.Equal(t, "SoC39nn+OW8HNVJ8X/dNUicY/7WdfvPZ3kHdXw0R080=", got)
}

func TestBuildPaymentRequest(t *testing.T) {
	c := testEsewaClient("https://rc-epay.esewa.com.np")

	order := &model.Order{
		OrderNumber:  "DM-ABC123",
		Subtotal:     dec("50.00"),
		ShippingCost: dec("60.00"),
		Discount:     dec("0"),
		Total:        dec("110.00"),
	}

	req := c.BuildPaymentRequest(order, "https://shop.test/success", "https://shop.test/failure")

	assert.Equal(t, "https://rc-epay.esewa.com.np/api/epay/main/v2/form", req.URL)
	assert.Equal(t, "110.00", req.Fields["total_amount"])
	assert.Equal(t, "DM-ABC123", req.Fields["transaction_uuid"])
	assert.Equal(t, "EPAYTEST", req.Fields["product_code"])
	assert.Equal(t, "50.00", req.Fields["amount"])
	assert.Equal(t, "60.00", req.Fields["product_delivery_charge"])
	assert.Equal(t, "https://shop.test/success", req.Fields["success_url"])
	assert.Equal(t, "https://shop.test/failure", req.Fields["failure_url"])
	assert.Equal(t, "total_amount,transaction_uuid,product_code", req.Fields["signed_field_names"])
	assert.Equal(t, c.sign("110.00", "DM-ABC123"), req.Fields["signature"])
}

func TestVerifyPaymentSuccess(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"amt": r.PostFormValue("amt"),
			"rid": r.PostFormValue("rid"),
			"pid": r.PostFormValue("pid"),
			"scd": r.PostFormValue("scd"),
		}
		w.Write([]byte("<response><response_code>Success</response_code></response>"))
	}))
	defer srv.Close()

	c := testEsewaClient(srv.URL)
	err := c.VerifyPayment(context.Background(), "REF123", "DM-ABC123", dec("110.00"))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"amt": "110.00",
		"rid": "REF123",
		"pid": "DM-ABC123",
		"scd": "EPAYTEST",
	}, gotForm)
}

func TestVerifyPaymentFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<response><response_code>Failure</response_code></response>"))
	}))
	defer srv.Close()

	c := testEsewaClient(srv.URL)
	err := c.VerifyPayment(context.Background(), "REF123", "DM-ABC123", dec("110.00"))
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestVerifyPaymentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testEsewaClient(srv.URL)
	err := c.VerifyPayment(context.Background(), "REF123", "DM-ABC123", dec("110.00"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrVerificationFailed, "transport errors are retryable, not verification failures")
}

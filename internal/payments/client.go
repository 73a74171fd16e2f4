package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/missionpool/backend/internal/apperr"
)

const requestTimeout = 15 * time.Second

// Client talks to the processor's REST API with form-encoded requests and
// bearer authentication.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

var _ Processor = (*Client)(nil)

func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}
	var intent PaymentIntent
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", form, "", &intent); err != nil {
		return PaymentIntent{}, err
	}
	return intent, nil
}

func (c *Client) GetPaymentIntent(ctx context.Context, ref string) (PaymentIntent, error) {
	var intent PaymentIntent
	if err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(ref), nil, "", &intent); err != nil {
		return PaymentIntent{}, err
	}
	return intent, nil
}

func (c *Client) CreateTransfer(ctx context.Context, params TransferParams) (Transfer, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.Amount, 10))
	form.Set("currency", params.Currency)
	form.Set("destination", params.Destination)
	for k, v := range params.Metadata {
		form.Set("metadata["+k+"]", v)
	}
	var transfer Transfer
	if err := c.do(ctx, http.MethodPost, "/v1/transfers", form, params.IdempotencyKey, &transfer); err != nil {
		return Transfer{}, err
	}
	return transfer, nil
}

// processorError is the shape of the processor's error body.
type processorError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, idempotencyKey string, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build processor request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.New(apperr.Configuration, "payment processor unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var pe processorError
		msg := resp.Status
		if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&pe); err == nil && pe.Error.Message != "" {
			msg = pe.Error.Message
		}
		return apperr.New(apperr.PaymentProcessing, "%s", msg)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperr.New(apperr.PaymentProcessing, "malformed processor response: %v", err)
		}
	}
	return nil
}

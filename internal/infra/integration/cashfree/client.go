package cashfree

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/workshop-payments/internal/logger"
)

const (
	EnvSandbox    = "sandbox"
	EnvProduction = "production"

	sandboxAPIURL         = "https://sandbox.cashfree.com/pg"
	productionAPIURL      = "https://api.cashfree.com/pg"
	sandboxCheckoutURL    = "https://payments-test.cashfree.com/order/#"
	productionCheckoutURL = "https://payments.cashfree.com/order/#"

	defaultAPIVersion = "2023-08-01"
)

// ErrUnavailable marca qualquer falha de rede, timeout ou resposta não-2xx.
var ErrUnavailable = errors.New("gateway unavailable")

// APIError carrega o status e a mensagem devolvidos pelo gateway.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cashfree api error (status %d): %s %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return ErrUnavailable }

type Client struct {
	baseURL     string
	checkoutURL string
	appID       string
	secret      string
	apiVersion  string
	http        *http.Client
}

type Option func(*Client)

// WithBaseURL troca o host da API (testes com httptest).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithAPIVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.apiVersion = v
		}
	}
}

func NewClient(appID, secret, env string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		baseURL:     sandboxAPIURL,
		checkoutURL: sandboxCheckoutURL,
		appID:       appID,
		secret:      secret,
		apiVersion:  defaultAPIVersion,
		http:        &http.Client{Timeout: timeout},
	}
	if env == EnvProduction {
		c.baseURL = productionAPIURL
		c.checkoutURL = productionCheckoutURL
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Configured() bool {
	return c.appID != "" && c.secret != ""
}

// CheckoutURL monta a URL do checkout hospedado a partir do payment_session_id.
func (c *Client) CheckoutURL(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	return c.checkoutURL + sessionID
}

// CreateOrder cria a order remota. O order_id é nosso e funciona como chave de idempotência.
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderOutput, error) {
	payload := createOrderRequest{
		OrderID:       input.OrderID,
		OrderAmount:   input.Amount,
		OrderCurrency: input.Currency,
		CustomerDetails: customerDetailsReq{
			CustomerID:    input.Customer.ID,
			CustomerName:  input.Customer.Name,
			CustomerEmail: input.Customer.Email,
			CustomerPhone: input.Customer.Phone,
		},
		OrderNote: input.Note,
	}
	if input.ReturnURL != "" || input.NotifyURL != "" {
		payload.OrderMeta = &orderMeta{
			ReturnURL: strings.ReplaceAll(input.ReturnURL, "{order_id}", url.QueryEscape(input.OrderID)),
			NotifyURL: input.NotifyURL,
		}
	}

	var response orderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", payload, &response); err != nil {
		return nil, err
	}

	orderID := response.OrderID
	if orderID == "" {
		orderID = input.OrderID
	}
	if response.PaymentSessionID == "" {
		return nil, fmt.Errorf("%w: order %s sem payment_session_id", ErrUnavailable, orderID)
	}

	return &OrderOutput{
		GatewayOrderID:   orderID,
		PaymentSessionID: response.PaymentSessionID,
		OrderStatus:      response.OrderStatus,
	}, nil
}

// GetOrder busca o status autoritativo. Para orders PAID também busca o id do pagamento.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*OrderStatusOutput, error) {
	var response orderResponse
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, &response); err != nil {
		return nil, err
	}

	out := &OrderStatusOutput{
		OrderID:     orderID,
		OrderStatus: response.OrderStatus,
	}

	if strings.EqualFold(response.OrderStatus, "PAID") {
		var payments []paymentResponse
		if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/payments", nil, &payments); err != nil {
			// O status já é autoritativo; o id do pagamento é só informativo.
			logger.WithComponent("cashfree").WithError(err).WithField("order_id", orderID).
				Warn("não foi possível buscar os pagamentos da order")
		}
		for _, p := range payments {
			if strings.EqualFold(p.PaymentStatus, "SUCCESS") {
				out.GatewayPaymentID = idString(p.CFPaymentID)
				break
			}
		}
	}

	return out, nil
}

func (c *Client) CreateRefund(ctx context.Context, input RefundInput) error {
	payload := createRefundRequest{
		RefundAmount: input.Amount,
		RefundID:     input.RefundID,
		RefundNote:   input.Note,
	}
	return c.do(ctx, http.MethodPost, "/orders/"+url.PathEscape(input.OrderID)+"/refunds", payload, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("erro ao gerar json: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil {
			apiErr.Code = er.Code
			apiErr.Message = er.Message
		} else {
			apiErr.Message = string(raw)
		}
		logger.WithComponent("cashfree").WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"path":   path,
			"code":   apiErr.Code,
		}).Error("❌ gateway rejeitou a requisição")
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: erro ao ler resposta: %v", ErrUnavailable, err)
	}
	return nil
}

// setHeaders centraliza os headers obrigatórios
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("x-client-id", c.appID)
	req.Header.Set("x-client-secret", c.secret)
	req.Header.Set("x-api-version", c.apiVersion)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "WorkshopPayments/1.0")
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

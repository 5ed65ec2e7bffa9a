package cashfree

type CustomerDetails struct {
	ID    string
	Name  string
	Email string
	Phone string
}

type CreateOrderInput struct {
	OrderID   string
	Amount    float64
	Currency  string
	Customer  CustomerDetails
	ReturnURL string
	NotifyURL string
	Note      string
}

type OrderOutput struct {
	GatewayOrderID   string
	PaymentSessionID string
	OrderStatus      string
}

type OrderStatusOutput struct {
	OrderID          string
	OrderStatus      string
	GatewayPaymentID string
}

type RefundInput struct {
	OrderID  string
	RefundID string
	Amount   float64
	Note     string
}

// --- PAYLOADS: o que mandamos pro gateway (interno) ---

type createOrderRequest struct {
	OrderID         string             `json:"order_id"`
	OrderAmount     float64            `json:"order_amount"`
	OrderCurrency   string             `json:"order_currency"`
	CustomerDetails customerDetailsReq `json:"customer_details"`
	OrderMeta       *orderMeta         `json:"order_meta,omitempty"`
	OrderNote       string             `json:"order_note,omitempty"`
}

type customerDetailsReq struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
}

type orderMeta struct {
	ReturnURL string `json:"return_url,omitempty"`
	NotifyURL string `json:"notify_url,omitempty"`
}

type createRefundRequest struct {
	RefundAmount float64 `json:"refund_amount"`
	RefundID     string  `json:"refund_id"`
	RefundNote   string  `json:"refund_note,omitempty"`
}

// --- RESPONSES ---

type orderResponse struct {
	CFOrderID        any    `json:"cf_order_id"`
	OrderID          string `json:"order_id"`
	OrderStatus      string `json:"order_status"`
	PaymentSessionID string `json:"payment_session_id"`
}

type paymentResponse struct {
	CFPaymentID   any    `json:"cf_payment_id"`
	PaymentStatus string `json:"payment_status"`
}

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Type    string `json:"type"`
}

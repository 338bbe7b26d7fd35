package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoestore/storefront/internal/domain/shared"
)

// Status represents the status of an order as the server reports it
type Status string

const (
	StatusPending           Status = "PENDING"
	StatusWaitingForPayment Status = "WAITING_FOR_PAYMENT"
	StatusPaymentFailed     Status = "PAYMENT_FAILED"
	StatusPaid              Status = "PAID"
	StatusProcessing        Status = "PROCESSING"
	StatusShipped           Status = "SHIPPED"
	StatusDelivered         Status = "DELIVERED"
	StatusCancelled         Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusWaitingForPayment, StatusPaymentFailed, StatusPaid,
		StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusWaitingForPayment || target == StatusPaymentFailed || target == StatusCancelled
	case StatusWaitingForPayment:
		return target == StatusPaid || target == StatusPaymentFailed || target == StatusCancelled
	case StatusPaymentFailed:
		return target == StatusWaitingForPayment
	case StatusPaid:
		return target == StatusProcessing
	case StatusProcessing:
		return target == StatusShipped
	case StatusShipped:
		return target == StatusDelivered
	case StatusDelivered, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for statuses that accept no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanCancel returns true if a user-initiated cancel is permitted
func (s Status) CanCancel() bool {
	return s == StatusPending || s == StatusWaitingForPayment
}

// CanPay returns true if payment may be initiated or retried
func (s Status) CanPay() bool {
	return s == StatusPending || s == StatusWaitingForPayment || s == StatusPaymentFailed
}

// Item is an immutable snapshot of one ordered line: product id, quantity and
// unit price at purchase time.
type Item struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ShoeID    int64           `json:"shoeId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
}

// Amount returns quantity * unit price for this line.
func (i Item) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a purchase record progressing through the payment/fulfillment
// state machine. Items are immutable after creation; the server is the
// authority for status and the client only ever replaces it wholesale.
type Order struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"userId"`
	Items          []Item          `json:"items"`
	Total          decimal.Decimal `json:"total"`
	Status         Status          `json:"status"`
	ShippingMethod string          `json:"shippingMethod,omitempty"`
	ShippingFee    decimal.Decimal `json:"shippingFee"`
	Currency       string          `json:"currency,omitempty"`
	ExchangeRate   decimal.Decimal `json:"exchangeRate"`
	PaymentToken   string          `json:"paymentToken,omitempty"`
	PaymentURL     string          `json:"paymentUrl,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// GoodsTotal returns the sum of the item amounts, excluding the shipping fee.
func (o *Order) GoodsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount())
	}
	return total
}

// ApplyStatus replaces the local status with a server-reported one. Once a
// terminal status has been reached no further status change is accepted.
func (o *Order) ApplyStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", status))
	}
	if o.Status.IsTerminal() && status != o.Status {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Order is %s and accepts no further status change", o.Status))
	}
	o.Status = status
	return nil
}

// IsTerminal returns true if the order is delivered or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

package api

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shoestore/storefront/internal/domain/order"
)

// OrderItemInput is one line of an order-creation request: the product id,
// quantity and the unit price the buyer saw.
type OrderItemInput struct {
	ShoeID    int64           `json:"shoeId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
}

// CreateOrderRequest is the order-creation payload.
type CreateOrderRequest struct {
	UserID         int64            `json:"userId"`
	Total          decimal.Decimal  `json:"total"`
	Items          []OrderItemInput `json:"items"`
	ShippingMethod string           `json:"shippingMethod,omitempty"`
	ShippingFee    *decimal.Decimal `json:"shippingFee,omitempty"`
}

// CreateOrder submits a new order and returns it with the server-assigned id.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*order.Order, error) {
	var o order.Order
	if err := c.post(ctx, "/orders", req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders returns the authenticated user's orders.
func (c *Client) ListOrders(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	if err := c.get(ctx, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns one order by id.
func (c *Client) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	if err := c.get(ctx, fmt.Sprintf("/orders/%d", id), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CancelOrder deletes a cancellable order. The server rejects the call for
// orders past the payment stage.
func (c *Client) CancelOrder(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/orders/%d", id))
}

// UpdateOrderStatus sets an order's fulfillment status. Seller/admin surface.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error) {
	var o order.Order
	body := map[string]string{"status": status.String()}
	if err := c.patch(ctx, fmt.Sprintf("/orders/%d/status", id), body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

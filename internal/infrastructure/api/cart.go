package api

import (
	"context"

	"github.com/shoestore/storefront/internal/domain/shop"
)

// cartLine is the wire shape of one cart line in a replace request.
type cartLine struct {
	ShoeID   int64 `json:"shoeId"`
	Quantity int   `json:"quantity"`
}

type replaceCartRequest struct {
	Items []cartLine `json:"items"`
}

// FetchCart returns the authenticated user's server-held cart.
func (c *Client) FetchCart(ctx context.Context) ([]shop.CartItem, error) {
	var items []shop.CartItem
	if err := c.get(ctx, "/cart", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ReplaceCart stores the full item list on the server and returns the
// authoritative echo of what was stored.
func (c *Client) ReplaceCart(ctx context.Context, items []shop.CartItem) ([]shop.CartItem, error) {
	req := replaceCartRequest{Items: make([]cartLine, 0, len(items))}
	for _, item := range items {
		req.Items = append(req.Items, cartLine{ShoeID: item.Shoe.ID, Quantity: item.Quantity})
	}

	var echo []shop.CartItem
	if err := c.post(ctx, "/cart", req, &echo); err != nil {
		return nil, err
	}
	return echo, nil
}

// ClearCart empties the user's server-held cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/cart")
}

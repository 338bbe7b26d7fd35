package api

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shoestore/storefront/internal/domain/shop"
)

// ListShoes returns the catalog, optionally filtered.
func (c *Client) ListShoes(ctx context.Context, filter shop.Filter) ([]shop.Shoe, error) {
	query := map[string]string{}
	if filter.Brand != "" {
		query["brand"] = filter.Brand
	}
	if filter.Color != "" {
		query["color"] = filter.Color
	}
	if filter.Size != "" {
		query["size"] = filter.Size
	}
	if filter.Search != "" {
		query["search"] = filter.Search
	}
	if !filter.MinPrice.IsZero() {
		query["minPrice"] = filter.MinPrice.String()
	}
	if !filter.MaxPrice.IsZero() {
		query["maxPrice"] = filter.MaxPrice.String()
	}

	var shoes []shop.Shoe
	if err := c.get(ctx, "/shoes", query, &shoes); err != nil {
		return nil, err
	}
	return shoes, nil
}

// GetShoe returns one product by id.
func (c *Client) GetShoe(ctx context.Context, id int64) (*shop.Shoe, error) {
	var s shop.Shoe
	if err := c.get(ctx, fmt.Sprintf("/shoes/%d", id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ShoeForm is the payload for creating or updating a product. Sellers and
// admins only; the server enforces ownership.
type ShoeForm struct {
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Description string          `json:"description,omitempty"`
}

// CreateShoe adds a product to the catalog.
func (c *Client) CreateShoe(ctx context.Context, form ShoeForm) (*shop.Shoe, error) {
	var s shop.Shoe
	if err := c.post(ctx, "/shoes", form, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateShoe updates an existing product.
func (c *Client) UpdateShoe(ctx context.Context, id int64, form ShoeForm) (*shop.Shoe, error) {
	var s shop.Shoe
	if err := c.put(ctx, fmt.Sprintf("/shoes/%d", id), form, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteShoe removes a product from the catalog.
func (c *Client) DeleteShoe(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/shoes/%d", id))
}

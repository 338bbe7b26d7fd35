package shop

import (
	"github.com/shopspring/decimal"
)

// Shoe represents a product as the catalog API returns it.
// Price and stock are the server's values at fetch time; the server remains
// the final arbiter of both at order-creation time.
type Shoe struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	ImageURL    string          `json:"imageUrl"`
	Description string          `json:"description"`
	SellerID    int64           `json:"sellerId"`
}

// InStock reports whether at least one unit is available per the last fetch.
func (s Shoe) InStock() bool {
	return s.Stock > 0
}

// Filter holds the catalog listing filters. Zero values mean "no constraint".
type Filter struct {
	Brand    string
	Color    string
	Size     string
	Search   string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
}

// IsZero reports whether no filter constraint is set.
func (f Filter) IsZero() bool {
	return f.Brand == "" && f.Color == "" && f.Size == "" && f.Search == "" &&
		f.MinPrice.IsZero() && f.MaxPrice.IsZero()
}

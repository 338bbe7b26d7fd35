package identity

import "time"

// Role is a user's role on the platform
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// SellerStatus tracks a user's position in the seller approval workflow
type SellerStatus string

const (
	SellerStatusNone     SellerStatus = ""
	SellerStatusPending  SellerStatus = "pending"
	SellerStatusApproved SellerStatus = "approved"
	SellerStatusRejected SellerStatus = "rejected"
)

// User is the platform account as the server returns it.
type User struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         Role         `json:"role"`
	SellerStatus SellerStatus `json:"sellerStatus,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// IsAdmin returns true for administrator accounts
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsSeller returns true for approved seller accounts
func (u User) IsSeller() bool {
	return u.Role == RoleSeller
}

// SellerRequest is a pending application to become a seller.
type SellerRequest struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"userId"`
	UserName  string       `json:"userName"`
	ShopName  string       `json:"shopName"`
	Reason    string       `json:"reason"`
	Status    SellerStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}

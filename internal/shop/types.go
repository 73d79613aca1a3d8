package shop

import (
	"time"
)

// Cart mirrors the payload returned by every cart endpoint. The server's
// view is authoritative: callers replace (or selectively merge) local state
// from it rather than patching fields.
type Cart struct {
	Items      []CartItem `json:"items"`
	Total      string     `json:"total"`
	TotalItems int        `json:"total_items"`
}

// CartItem describes one cart line in transport-friendly form.
type CartItem struct {
	ID              int64      `json:"id"`
	Product         ProductRef `json:"product"`
	Quantity        int        `json:"quantity"`
	PriceAtAddition string     `json:"price_at_addition"`
}

// ProductRef is the embedded product summary inside a cart line.
type ProductRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Product describes a catalog entry from /api/products/.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
	UpdatedAt   string `json:"updated_at"`
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (p Product) ParsedUpdatedAt() time.Time {
	return parseTime(p.UpdatedAt)
}

// ProductListResponse mirrors /api/products/.
type ProductListResponse struct {
	Items []Product `json:"items"`
}

// User identifies the authenticated account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

// LoginResponse mirrors /api/auth/login/.
type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	CSRF    string `json:"csrf"`
	User    User   `json:"user"`
}

// RefreshResponse mirrors /api/auth/refresh/. The refresh call is
// authenticated by the refresh cookie alone; no token travels in the body.
type RefreshResponse struct {
	Access string `json:"access"`
	User   User   `json:"user"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

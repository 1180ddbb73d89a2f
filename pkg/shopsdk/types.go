// Package shopsdk holds the wire types for the storefront API plus a small
// cookie-aware client, usable by Go consumers and by the end-to-end tests.
package shopsdk

import "time"

// ErrorResponse mirrors the error body every endpoint uses.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// LoginRequest is the credential for POST /v1/auth.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session status values returned by authentication endpoints.
const (
	StatusAuthenticated = "authenticated"
	StatusMFARequired   = "mfa_required"
)

// SessionResponse describes the session issued by login, MFA completion or
// registration. Tokens travel only in cookies, never in the body.
type SessionResponse struct {
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MFARequest carries the six-digit TOTP code for POST /v1/auth/2fa.
type MFARequest struct {
	Code string `json:"code"`
}

// WhoAmIResponse is the authenticated identity summary.
type WhoAmIResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// RegisterBeginRequest opens a registration session with the profile details.
type RegisterBeginRequest struct {
	Email    string `json:"email"`
	Forename string `json:"forename"`
	Surname  string `json:"surname"`
	Address  string `json:"address"`
}

// RegisterCompleteRequest commits the account with its password.
type RegisterCompleteRequest struct {
	Password string `json:"password"`
}

// UserResponse is an account as seen by its owner or an administrator.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Forename    string    `json:"forename"`
	Surname     string    `json:"surname"`
	Address     string    `json:"address"`
	TOTPEnabled bool      `json:"totp_enabled"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserSummary is the admin listing entry. Personal fields stay out of it.
type UserSummary struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateProfileRequest replaces the personal fields.
type UpdateProfileRequest struct {
	Forename string `json:"forename"`
	Surname  string `json:"surname"`
	Address  string `json:"address"`
}

// UpdatePasswordRequest rotates the credential.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// TOTPEnrollResponse is shown exactly once at enrollment start.
type TOTPEnrollResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

// TOTPCodeRequest confirms an enrollment or disables the second factor.
type TOTPCodeRequest struct {
	Code string `json:"code"`
}

// ProductRequest creates or replaces a catalog product. Price is in pennies.
type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Listed      bool   `json:"listed"`
}

// ProductResponse is a catalog product.
type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Listed      bool   `json:"listed"`
}

// OrderItemRequest is one line of a new order.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Count     int64  `json:"count"`
}

// OrderCreateRequest places an order.
type OrderCreateRequest struct {
	Items []OrderItemRequest `json:"items"`
}

// OrderItemResponse is one line of an existing order.
type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Count     int64  `json:"count"`
}

// OrderResponse is an order with its fixed charge amount in pennies.
type OrderResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	AmountCharged int64               `json:"amount_charged"`
	Status        string              `json:"status"`
	OrderPlaced   time.Time           `json:"order_placed"`
	Items         []OrderItemResponse `json:"items"`
}

// PaymentConfigResponse describes the payment setup ahead of checkout.
type PaymentConfigResponse struct {
	PaymentEnabled bool   `json:"payment_enabled"`
	PublishableKey string `json:"publishable_key,omitempty"`
}

// CheckoutResponse tells the client how to finish paying. When
// PaymentRequired is false the order is already confirmed.
type CheckoutResponse struct {
	Order           OrderResponse `json:"order"`
	PaymentRequired bool          `json:"payment_required"`
	PublishableKey  string        `json:"publishable_key,omitempty"`
	ClientSecret    string        `json:"client_secret,omitempty"`
}

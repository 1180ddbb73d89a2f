package shopsdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Status int
	Body   ErrorResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Body.Error, e.Body.Description)
}

// Client is a cookie-aware API client. It keeps the session cookie in a jar
// and echoes the CSRF token header automatically on state-changing calls.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	csrf string
}

func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Jar: jar},
	}, nil
}

// CSRFToken exposes the current token, mainly for tests that want to tamper
// with it.
func (c *Client) CSRFToken() string { return c.csrf }

// SetCSRFToken overrides the token that will be sent, for tests.
func (c *Client) SetCSRFToken(token string) { c.csrf = token }

func (c *Client) do(method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && method != http.MethodHead && c.csrf != "" {
		req.Header.Set("X-CSRF-Token", c.csrf)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// The CSRF cookie is deliberately script-readable; pick up rotations.
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "session_csrf" {
			c.csrf = cookie.Value
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Body)
		return apiErr
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) RegisterBegin(req RegisterBeginRequest) (SessionResponse, error) {
	var out SessionResponse
	err := c.do(http.MethodPost, "/v1/register", req, &out)
	return out, err
}

func (c *Client) RegisterComplete(req RegisterCompleteRequest) (SessionResponse, error) {
	var out SessionResponse
	err := c.do(http.MethodPost, "/v1/register/credential", req, &out)
	return out, err
}

func (c *Client) Login(email, password string) (SessionResponse, error) {
	var out SessionResponse
	err := c.do(http.MethodPost, "/v1/auth", LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

func (c *Client) CompleteMFA(code string) (SessionResponse, error) {
	var out SessionResponse
	err := c.do(http.MethodPost, "/v1/auth/2fa", MFARequest{Code: code}, &out)
	return out, err
}

func (c *Client) Logout() error {
	return c.do(http.MethodDelete, "/v1/auth", nil, nil)
}

func (c *Client) WhoAmI() (WhoAmIResponse, error) {
	var out WhoAmIResponse
	err := c.do(http.MethodGet, "/v1/auth", nil, &out)
	return out, err
}

func (c *Client) GetUser(id string) (UserResponse, error) {
	var out UserResponse
	err := c.do(http.MethodGet, "/v1/users/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) ListUsers() ([]UserSummary, error) {
	var out []UserSummary
	err := c.do(http.MethodGet, "/v1/users", nil, &out)
	return out, err
}

func (c *Client) UpdateProfile(id string, req UpdateProfileRequest) error {
	return c.do(http.MethodPut, "/v1/users/"+url.PathEscape(id), req, nil)
}

func (c *Client) UpdatePassword(req UpdatePasswordRequest) (SessionResponse, error) {
	var out SessionResponse
	err := c.do(http.MethodPut, "/v1/users/password", req, &out)
	return out, err
}

func (c *Client) PromoteUser(id string) error {
	return c.do(http.MethodPost, "/v1/users/"+url.PathEscape(id)+"/promote", nil, nil)
}

func (c *Client) DeleteUser(id string) error {
	return c.do(http.MethodDelete, "/v1/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) EnrollTOTP() (TOTPEnrollResponse, error) {
	var out TOTPEnrollResponse
	err := c.do(http.MethodPost, "/v1/users/2fa/enroll", nil, &out)
	return out, err
}

func (c *Client) ConfirmTOTP(code string) error {
	return c.do(http.MethodPost, "/v1/users/2fa/confirm", TOTPCodeRequest{Code: code}, nil)
}

func (c *Client) DisableTOTP(code string) error {
	return c.do(http.MethodDelete, "/v1/users/2fa", TOTPCodeRequest{Code: code}, nil)
}

func (c *Client) CreateProduct(req ProductRequest) (ProductResponse, error) {
	var out ProductResponse
	err := c.do(http.MethodPost, "/v1/products", req, &out)
	return out, err
}

func (c *Client) ListProducts() ([]ProductResponse, error) {
	var out []ProductResponse
	err := c.do(http.MethodGet, "/v1/products", nil, &out)
	return out, err
}

func (c *Client) UpdateProduct(id string, req ProductRequest) (ProductResponse, error) {
	var out ProductResponse
	err := c.do(http.MethodPut, "/v1/products/"+url.PathEscape(id), req, &out)
	return out, err
}

func (c *Client) DeleteProduct(id string) error {
	return c.do(http.MethodDelete, "/v1/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateOrder(req OrderCreateRequest) (OrderResponse, error) {
	var out OrderResponse
	err := c.do(http.MethodPost, "/v1/orders", req, &out)
	return out, err
}

func (c *Client) ListOrders() ([]OrderResponse, error) {
	var out []OrderResponse
	err := c.do(http.MethodGet, "/v1/orders", nil, &out)
	return out, err
}

func (c *Client) GetOrder(id string) (OrderResponse, error) {
	var out OrderResponse
	err := c.do(http.MethodGet, "/v1/orders/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) FulfilOrder(id string) (OrderResponse, error) {
	var out OrderResponse
	err := c.do(http.MethodPost, "/v1/orders/"+url.PathEscape(id)+"/fulfil", nil, &out)
	return out, err
}

// CheckSession probes whether the client holds an authenticated session.
func (c *Client) CheckSession() error {
	return c.do(http.MethodGet, "/v1/auth/check", nil, nil)
}

// CheckAdmin probes for an authenticated administrator session.
func (c *Client) CheckAdmin() error {
	return c.do(http.MethodGet, "/v1/auth/check/admin", nil, nil)
}

// CheckCustomer probes for an authenticated customer session.
func (c *Client) CheckCustomer() error {
	return c.do(http.MethodGet, "/v1/auth/check/customer", nil, nil)
}

func (c *Client) PaymentConfig() (PaymentConfigResponse, error) {
	var out PaymentConfigResponse
	err := c.do(http.MethodGet, "/v1/checkout", nil, &out)
	return out, err
}

func (c *Client) Checkout(orderID string) (CheckoutResponse, error) {
	var out CheckoutResponse
	err := c.do(http.MethodPost, "/v1/orders/"+url.PathEscape(orderID)+"/checkout", nil, &out)
	return out, err
}

func (c *Client) CheckoutStatus(orderID string) (OrderResponse, error) {
	var out OrderResponse
	err := c.do(http.MethodGet, "/v1/orders/"+url.PathEscape(orderID)+"/checkout", nil, &out)
	return out, err
}

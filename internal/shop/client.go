package shop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Backend is the slice of the client the cart sync engine depends on.
// *Client implements it; tests substitute fakes.
type Backend interface {
	FetchCart(ctx context.Context) (*Cart, error)
	AddItem(ctx context.Context, productID int64, quantity int) (*Cart, error)
	UpdateItem(ctx context.Context, itemID int64, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, itemID int64) (*Cart, error)
	BulkUpdate(ctx context.Context, updates map[int64]int) (*Cart, error)
}

// Ensure Client implements Backend at compile time.
var _ Backend = (*Client)(nil)

// Client talks to the storefront HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	creds     Credentials
	userAgent string
}

const (
	defaultUserAgent = "trolley/0.1"
	requestTimeout   = 10 * time.Second

	refreshCookieName = "refresh_token"
)

// Options configure a Client beyond its base URL.
type Options struct {
	Credentials   Credentials
	Timeout       time.Duration
	OnAuthExpired func()
}

// NewClient builds a Client for the given API base URL. When opts.Credentials
// is set, requests carry bearer and CSRF headers and transparently refresh
// the access token on 401.
func NewClient(apiBase string, opts Options) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	c := &Client{
		baseURL:   base,
		creds:     opts.Credentials,
		userAgent: defaultUserAgent,
	}
	transport := http.DefaultTransport
	if opts.Credentials != nil {
		refresh := func(req *http.Request) (string, error) {
			return c.refreshAccess(req.Context())
		}
		transport = newAuthTransport(http.DefaultTransport, opts.Credentials, refresh, opts.OnAuthExpired)
	}
	c.http = &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
	return c, nil
}

// FetchCart retrieves the authoritative cart state.
func (c *Client) FetchCart(ctx context.Context) (*Cart, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart/", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AddItem adds quantity of a product to the cart.
func (c *Client) AddItem(ctx context.Context, productID int64, quantity int) (*Cart, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if productID <= 0 {
		return nil, fmt.Errorf("product id required")
	}
	body := map[string]any{"product_id": productID, "quantity": quantity}
	var payload Cart
	if err := c.do(ctx, http.MethodPost, "/api/cart/add/", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateItem sets the quantity of an existing cart line.
func (c *Client) UpdateItem(ctx context.Context, itemID int64, quantity int) (*Cart, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if itemID <= 0 {
		return nil, fmt.Errorf("item id required")
	}
	body := map[string]any{"quantity": quantity}
	var payload Cart
	path := fmt.Sprintf("/api/cart/items/%d/", itemID)
	if err := c.do(ctx, http.MethodPut, path, body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// RemoveItem deletes a cart line. A 404 surfaces as an *APIError so callers
// can treat "already removed" as a reconciliation signal rather than failure.
func (c *Client) RemoveItem(ctx context.Context, itemID int64) (*Cart, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if itemID <= 0 {
		return nil, fmt.Errorf("item id required")
	}
	var payload Cart
	path := fmt.Sprintf("/api/cart/items/%d/", itemID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// BulkUpdate sends a batch of productID→quantity changes in one request.
// The payload carries only the delta the caller computed, keeping request
// size proportional to what actually changed.
func (c *Client) BulkUpdate(ctx context.Context, updates map[int64]int) (*Cart, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no updates to send")
	}
	// JSON object keys are strings; encode product IDs accordingly.
	encoded := make(map[string]int, len(updates))
	for productID, qty := range updates {
		encoded[strconv.FormatInt(productID, 10)] = qty
	}
	body := map[string]any{"updates": encoded}
	var payload Cart
	if err := c.do(ctx, http.MethodPost, "/api/cart/bulk-update/", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchProducts retrieves the product catalog.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload ProductListResponse
	if err := c.do(ctx, http.MethodGet, "/api/products/", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// Login exchanges credentials for an access token, refresh token and CSRF
// token. It bypasses the auth transport refresh path (auth endpoints never
// trigger a refresh).
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body := map[string]any{"username": username, "password": password}
	var payload LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login/", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Refresh obtains a fresh access token using the stored refresh token,
// presented as a cookie the way a browser would send it.
func (c *Client) Refresh(ctx context.Context) (*RefreshResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/refresh/", nil)
	if err != nil {
		return nil, err
	}
	if c.creds != nil {
		if refresh := c.creds.RefreshToken(); refresh != "" {
			req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: refresh})
		}
	}
	var payload RefreshResponse
	if err := c.send(req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// refreshAccess is the transport's refresh hook: it performs the refresh
// call and stores the new access token before queued requests are replayed.
func (c *Client) refreshAccess(ctx context.Context) (string, error) {
	resp, err := c.Refresh(ctx)
	if err != nil {
		return "", err
	}
	if c.creds != nil {
		c.creds.SetAccessToken(resp.Access)
	}
	return resp.Access, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.send(req, dest)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) send(req *http.Request, dest any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &APIError{
			Status: resp.StatusCode,
			Path:   req.URL.Path,
			Detail: readErrorDetail(resp.Body),
		}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrorDetail pulls the conventional {"detail": "..."} message out of an
// error body, tolerating anything else.
func readErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Detail)
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		return nil, fmt.Errorf("api base url required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", apiBase, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

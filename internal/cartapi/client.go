package cartapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aritzhuerta/storefront-cart/pkg/config"
	pkgerrors "github.com/aritzhuerta/storefront-cart/pkg/errors"
	"github.com/aritzhuerta/storefront-cart/pkg/logger"
)

var (
	errBaseURLRequired = errors.New("cart api base url is required")
	errLoggerRequired  = errors.New("cart api logger is required")
)

// Client speaks the cart HTTP contract with centralized request ids,
// logging, and error mapping. It performs exactly one attempt per call.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient initializes the cart API client from configuration.
func NewClient(cfg config.APIConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logg,
	}, nil
}

// WithHTTPClient swaps the underlying transport, mainly for tests.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	if httpClient != nil {
		c.http = httpClient
	}
	return c
}

// FetchCart retrieves the full cart snapshot.
func (c *Client) FetchCart(ctx context.Context) (*CartPayload, error) {
	var payload CartPayload
	if err := c.do(ctx, http.MethodGet, "/cart", nil, "Failed to fetch cart", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AddItem adds a product variant to the cart and returns the new snapshot.
func (c *Client) AddItem(ctx context.Context, req AddItemRequest) (*CartPayload, error) {
	var payload CartPayload
	if err := c.do(ctx, http.MethodPost, "/cart", req, "Failed to add to cart", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateItem changes a line item's quantity and returns the new snapshot.
func (c *Client) UpdateItem(ctx context.Context, itemID string, quantity int) (*CartPayload, error) {
	var payload CartPayload
	path := "/cart/" + itemID
	if err := c.do(ctx, http.MethodPut, path, updateItemRequest{Quantity: quantity}, "Failed to update cart item", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// RemoveItem deletes a line item and returns the new snapshot.
func (c *Client) RemoveItem(ctx context.Context, itemID string) (*CartPayload, error) {
	var payload CartPayload
	path := "/cart/" + itemID
	if err := c.do(ctx, http.MethodDelete, path, nil, "Failed to remove from cart", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ApplyCoupon submits a coupon code for server-side validation.
func (c *Client) ApplyCoupon(ctx context.Context, code string) (*CouponPayload, error) {
	var payload CouponPayload
	if err := c.do(ctx, http.MethodPost, "/cart/coupon", applyCouponRequest{Code: code}, "Invalid coupon code", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// RemoveCoupon clears the applied coupon. The success body is opaque and discarded.
func (c *Client) RemoveCoupon(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart/coupon", nil, "Failed to remove coupon", nil)
}

// do executes a single best-effort request. A non-2xx response is mapped to a
// typed error carrying the server's message when the body provides one, the
// operation's fallback message otherwise.
func (c *Client) do(ctx context.Context, method, path string, body any, fallback string, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fallback)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fallback)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	ctx = c.logger.WithRequestID(ctx, requestID)
	ctx = c.logger.WithFields(ctx, map[string]any{"method": method, "path": path})

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error(ctx, "cart request failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fallback)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := fallback
		var apiErr errorBody
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && strings.TrimSpace(apiErr.Message) != "" {
			message = apiErr.Message
		}
		c.logger.Warn(c.logger.WithField(ctx, "status", resp.StatusCode), "cart request rejected")
		return pkgerrors.New(pkgerrors.CodeFromStatus(resp.StatusCode), message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error(ctx, "cart response decode failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDecode, err, fallback)
	}

	c.logger.Debug(ctx, fmt.Sprintf("cart request completed: %d", resp.StatusCode))
	return nil
}

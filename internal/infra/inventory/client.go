package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"order-service/internal/pkg/config"
	"order-service/internal/pkg/errs"
	"order-service/internal/pkg/resilience"
	"order-service/internal/usecase/commands"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	CheckPolicyName     = "inventory-check"
	DecrementPolicyName = "inventory-decrement"

	availabilityPath = "/api/inventory"
	decrementPath    = "/api/inventory/decrement"

	maxErrorBody = 512
)

// StatusError reports a non-2xx answer from the inventory service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("inventory service responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("inventory service responded with status %d: %s", e.StatusCode, e.Body)
}

type availabilityResponse struct {
	SkuCode string `json:"skuCode"`
	InStock bool   `json:"inStock"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	check      *resilience.Policy[map[string]bool]
	decrement  *resilience.Policy[struct{}]
}

func NewHTTPClient(cfg config.InventoryConfig) *http.Client {
	return &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func NewClient(cfg config.InventoryConfig, httpClient *http.Client, reg *resilience.Registry, policy resilience.Config) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(cfg)
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		check:      resilience.NewPolicy[map[string]bool](reg, CheckPolicyName, policy),
		decrement:  resilience.NewPolicy[struct{}](reg, DecrementPolicyName, policy),
	}
}

var _ commands.InventoryGateway = (*Client)(nil)

func (c *Client) CheckAvailability(ctx context.Context, skuCodes []string) (map[string]bool, error) {
	return c.check.Execute(ctx,
		func(ctx context.Context) (map[string]bool, error) {
			return c.fetchAvailability(ctx, skuCodes)
		},
		unavailable[map[string]bool]("check inventory availability"),
	)
}

func (c *Client) DecrementStock(ctx context.Context, items []commands.StockDecrement) error {
	_, err := c.decrement.Execute(ctx,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.postDecrement(ctx, items)
		},
		unavailable[struct{}]("decrement inventory"),
	)
	return err
}

func unavailable[T any](op string) resilience.Fallback[T] {
	return func(_ context.Context, cause error) (T, error) {
		var zero T
		return zero, errs.Mark(errs.Wrap(cause, op), errs.ErrRemoteUnavailable)
	}
}

func (c *Client) fetchAvailability(ctx context.Context, skuCodes []string) (map[string]bool, error) {
	q := url.Values{}
	for _, sku := range skuCodes {
		q.Add("skuCode", sku)
	}
	endpoint := c.baseURL + availabilityPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errs.Wrap(err, "build availability request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "availability request")
	}
	defer drainAndClose(resp.Body)

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var body []availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errs.Wrap(err, "decode availability response")
	}

	availability := make(map[string]bool, len(body))
	for _, r := range body {
		// a sku reported twice is only in stock if every entry says so
		if prev, seen := availability[r.SkuCode]; seen {
			availability[r.SkuCode] = prev && r.InStock
			continue
		}
		availability[r.SkuCode] = r.InStock
	}
	return availability, nil
}

func (c *Client) postDecrement(ctx context.Context, items []commands.StockDecrement) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return errs.Wrap(err, "encode decrement request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+decrementPath, bytes.NewReader(payload))
	if err != nil {
		return errs.Wrap(err, "build decrement request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Wrap(err, "decrement request")
	}
	defer drainAndClose(resp.Body)

	return checkStatus(resp)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}

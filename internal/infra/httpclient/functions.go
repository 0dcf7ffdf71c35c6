package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/meurdo/meurdo-api/internal/config"
	"go.uber.org/zap"
)

// FunctionsClient calls the BaaS serverless functions (billing checkout and portal).
type FunctionsClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func NewFunctionsClient(cfg *config.Config, log *zap.Logger) *FunctionsClient {
	return &FunctionsClient{
		BaseURL: strings.TrimRight(cfg.Functions.BaseURL, "/"),
		APIKey:  cfg.Functions.APIKey,
		HTTPClient: &http.Client{
			Timeout: cfg.FunctionsTimeout(),
		},
		Logger: log,
	}
}

// CheckoutRequest is the payload of the create-checkout function
type CheckoutRequest struct {
	PriceID    string `json:"price_id,omitempty"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// PortalRequest is the payload of the customer-portal function
type PortalRequest struct {
	ReturnURL string `json:"return_url"`
}

type redirectResponse struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// CreateCheckout returns the hosted checkout URL for the calling user.
func (c *FunctionsClient) CreateCheckout(ctx context.Context, userToken string, req CheckoutRequest) (string, error) {
	return c.invokeRedirect(ctx, "create-checkout", userToken, req)
}

// CreatePortal returns the customer portal URL for the calling user.
func (c *FunctionsClient) CreatePortal(ctx context.Context, userToken string, req PortalRequest) (string, error) {
	return c.invokeRedirect(ctx, "customer-portal", userToken, req)
}

func (c *FunctionsClient) invokeRedirect(ctx context.Context, name, userToken string, payload any) (string, error) {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/functions/v1/%s", c.BaseURL, name)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+userToken)
	if c.APIKey != "" {
		httpReq.Header.Set("apikey", c.APIKey)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.Logger.Error("function request failed",
			zap.String("function", name),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(raw)))
		return "", fmt.Errorf("function %s failed with status %d", name, resp.StatusCode)
	}

	var out redirectResponse
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("function %s: %s", name, out.Error)
	}
	if out.URL == "" {
		return "", fmt.Errorf("function %s returned no url", name)
	}
	return out.URL, nil
}

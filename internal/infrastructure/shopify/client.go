package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseSize is the maximum allowed response size from the Admin API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// defaultAPIVersion is used when the config does not pin a version
const defaultAPIVersion = "2024-01"

// Transport-level errors. All of them are retryable on the next scan.
var (
	ErrNotConfigured   = errors.New("shopify: client not configured")
	ErrUnavailable     = errors.New("shopify: service temporarily unavailable")
	ErrRequestFailed   = errors.New("shopify: request failed")
	ErrAuthFailed      = errors.New("shopify: authentication failed")
	ErrRateLimited     = errors.New("shopify: rate limited")
	ErrInvalidResponse = errors.New("shopify: invalid response")
)

// Config holds the connection settings for one shop
type Config struct {
	// ShopDomain is either the shop handle or the full *.myshopify.com domain
	ShopDomain string
	// AccessToken is the Admin API access token
	AccessToken string
	// APIVersion pins the Admin API version (e.g. "2025-07")
	APIVersion string
	// Timeout bounds one GraphQL call
	Timeout time.Duration
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.ShopDomain == "" {
		return fmt.Errorf("%w: shop domain is required", ErrNotConfigured)
	}
	if c.AccessToken == "" {
		return fmt.Errorf("%w: access token is required", ErrNotConfigured)
	}
	return nil
}

// Endpoint returns the GraphQL Admin API URL for this shop
func (c *Config) Endpoint() string {
	domain := c.ShopDomain
	if !strings.Contains(domain, ".") {
		domain += ".myshopify.com"
	}
	version := c.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", domain, version)
}

// Client is the GraphQL Admin API transport. It is an explicit instance
// passed into each pusher rather than a package singleton.
type Client struct {
	config     Config
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for one shop
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		config:     config,
		endpoint:   config.Endpoint(),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// NewClientWithEndpoint creates a client pointed at an explicit URL.
// Used by tests to target a local fake server.
func NewClientWithEndpoint(config Config, endpoint string) (*Client, error) {
	c, err := NewClient(config)
	if err != nil {
		return nil, err
	}
	c.endpoint = endpoint
	return c, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// envelope is the standard response wrapper: either data or a top-level
// errors list. Mutation payloads additionally carry nested userErrors
// inside data, which the pushers interpret.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Do submits one query or mutation and decodes the data payload into out.
// Top-level errors (including throttling) are returned as transport
// errors; nested userErrors are left for the caller to interpret.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("shopify: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("shopify: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d", ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP 429", ErrRateLimited)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if len(env.Errors) > 0 {
		messages := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			if e.Extensions.Code == "THROTTLED" {
				return fmt.Errorf("%w: %s", ErrRateLimited, e.Message)
			}
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("%w: %s", ErrRequestFailed, strings.Join(messages, "; "))
	}

	if env.Data == nil {
		return fmt.Errorf("%w: missing data", ErrInvalidResponse)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}
	return nil
}

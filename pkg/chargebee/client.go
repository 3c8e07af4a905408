package chargebee

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// SiteSuffix is the fixed SaaS domain every Chargebee site lives under.
	SiteSuffix = "chargebee.com"

	pricingPageSessionPath = "/api/v2/pricing_page_sessions/create_for_existing_subscription"

	defaultTimeout = 30 * time.Second
)

// Client is a minimal Chargebee API client scoped to pricing-page sessions.
// Credentials are supplied per client, not read from the environment, because
// the demo lets the user point it at any site.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientConfig holds configuration for a Chargebee client.
type ClientConfig struct {
	// Site is the per-customer site identifier. It may arrive decorated with a
	// scheme, the chargebee.com suffix, or a trailing slash; NewClient
	// normalizes it.
	Site    string
	APIKey  string
	Timeout time.Duration
}

// SessionRequest describes one pricing-page session to create for an existing
// subscription.
type SessionRequest struct {
	SubscriptionID string
	PricingPageID  string // optional
	RedirectURL    string
	// CustomFieldKey/CustomFieldValue are forwarded as a one-entry custom map.
	// The pair is sent only when both are non-empty.
	CustomFieldKey   string
	CustomFieldValue string
}

// PricingPageSession is the hosted session returned by Chargebee. Timestamps
// are epoch seconds, passed through verbatim.
type PricingPageSession struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// NewClient creates a Chargebee client for the given site and key.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	site := NormalizeSite(cfg.Site)

	return &Client{
		baseURL:    "https://" + site + "." + SiteSuffix,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NormalizeSite reduces a user-supplied site value to the bare site name.
// Users paste anything from "acme-corp" to "https://acme-corp.chargebee.com/",
// so strip the scheme, the chargebee.com suffix, and any trailing slash, in
// that order. The result is stable under repeated application.
func NormalizeSite(site string) string {
	site = strings.TrimSpace(site)
	site = strings.TrimPrefix(site, "https://")
	site = strings.TrimPrefix(site, "http://")
	if idx := strings.LastIndex(site, "."+SiteSuffix); idx >= 0 {
		rest := site[idx+len("."+SiteSuffix):]
		if rest == "" || rest == "/" {
			site = site[:idx]
		}
	}
	return strings.TrimSuffix(site, "/")
}

// BaseURL returns the fully qualified upstream host for this client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// basicAuth computes the Basic credential Chargebee expects: the API key as
// username with an empty password.
func basicAuth(apiKey string) string {
	return base64.StdEncoding.EncodeToString([]byte(apiKey + ":"))
}

// maskKey keeps only the last 4 characters of a secret for diagnostics.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "***"
	}
	return "***" + key[len(key)-4:]
}

// CreatePricingPageSession creates a hosted pricing-page session for an
// existing subscription. On upstream failure it returns an *APIError carrying
// the upstream status and a message derived from the response body; transport
// failures come back as ordinary wrapped errors.
func (c *Client) CreatePricingPageSession(ctx context.Context, req SessionRequest) (*PricingPageSession, error) {
	form := url.Values{}
	form.Set("redirect_url", req.RedirectURL)
	if req.PricingPageID != "" {
		form.Set("pricing_page[id]", req.PricingPageID)
	}
	form.Set("subscription[id]", req.SubscriptionID)

	if req.CustomFieldKey != "" && req.CustomFieldValue != "" {
		custom, err := json.Marshal(map[string]string{req.CustomFieldKey: req.CustomFieldValue})
		if err != nil {
			return nil, fmt.Errorf("encode custom field: %w", err)
		}
		form.Set("custom", string(custom))
	}

	endpoint := c.baseURL + pricingPageSessionPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build pricing page session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Basic "+basicAuth(c.apiKey))

	log.Debug().
		Str("url", endpoint).
		Str("subscriptionID", req.SubscriptionID).
		Str("pricingPageID", req.PricingPageID).
		Str("apiKey", maskKey(c.apiKey)).
		Msg("Creating Chargebee pricing page session")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chargebee request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chargebee response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp.StatusCode, body)
		log.Debug().
			Int("status", apiErr.StatusCode).
			Str("code", apiErr.Code).
			Str("message", apiErr.Message).
			Msg("Chargebee API error")
		return nil, apiErr
	}

	var envelope struct {
		PricingPageSession *PricingPageSession `json:"pricing_page_session"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode chargebee response: %w", err)
	}
	if envelope.PricingPageSession == nil {
		return nil, fmt.Errorf("chargebee response missing pricing_page_session")
	}

	return envelope.PricingPageSession, nil
}

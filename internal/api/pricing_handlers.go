package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/magellanhq/magellan/internal/config"
	"github.com/magellanhq/magellan/pkg/chargebee"
	"github.com/rs/zerolog/log"
)

const (
	missingFieldsMessage = "Missing required configuration fields (domain, apiKey, subscriptionId)"
	invalidKeyMessage    = "Invalid API key or unauthorized access"
	notFoundMessage      = "Pricing page or subscription not found"
	internalErrorMessage = "Internal server error"

	pricingRequestLimit = 64 * 1024
)

// PricingSessionRequest is the configuration payload the pricing panel submits.
type PricingSessionRequest struct {
	Domain           string `json:"domain"`
	APIKey           string `json:"apiKey"`
	PricingPageID    string `json:"pricingPageId,omitempty"`
	SubscriptionID   string `json:"subscriptionId"`
	CustomFieldKey   string `json:"customFieldKey,omitempty"`
	CustomFieldValue string `json:"customFieldValue,omitempty"`
}

// PricingSessionResponse is the normalized success shape returned to the panel.
type PricingSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"createdAt"`
	ExpiresAt int64  `json:"expiresAt"`
}

// sessionCreator is the slice of the Chargebee client the handler needs.
type sessionCreator interface {
	CreatePricingPageSession(ctx context.Context, req chargebee.SessionRequest) (*chargebee.PricingPageSession, error)
}

// PricingHandlers proxies pricing-page session creation to Chargebee.
type PricingHandlers struct {
	cfg *config.Config
	// newClient builds a client for the caller-supplied site and key. Tests
	// swap it to point at a stub upstream.
	newClient func(chargebee.ClientConfig) sessionCreator
}

// NewPricingHandlers creates handlers backed by the real Chargebee client.
func NewPricingHandlers(cfg *config.Config) *PricingHandlers {
	return &PricingHandlers{
		cfg: cfg,
		newClient: func(clientCfg chargebee.ClientConfig) sessionCreator {
			return chargebee.NewClient(clientCfg)
		},
	}
}

// HandleCreateSession handles POST /api/pricing/session. The caller supplies
// the full Chargebee configuration per request; nothing is retained server
// side.
func (h *PricingHandlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, pricingRequestLimit)

	var req PricingSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// An unreadable payload is an internal fault, not a client error.
		log.Error().Err(err).Msg("Failed to decode pricing session request")
		writeErrorResponse(w, http.StatusInternalServerError, "internal_error", internalErrorMessage)
		return
	}

	if req.Domain == "" || req.APIKey == "" || req.SubscriptionID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "validation_error", missingFieldsMessage)
		return
	}

	client := h.newClient(chargebee.ClientConfig{
		Site:    req.Domain,
		APIKey:  req.APIKey,
		Timeout: h.cfg.UpstreamTimeout,
	})

	start := time.Now()
	session, err := client.CreatePricingPageSession(r.Context(), chargebee.SessionRequest{
		SubscriptionID:   req.SubscriptionID,
		PricingPageID:    req.PricingPageID,
		RedirectURL:      h.cfg.RedirectURL,
		CustomFieldKey:   req.CustomFieldKey,
		CustomFieldValue: req.CustomFieldValue,
	})
	elapsed := time.Since(start)

	if err != nil {
		h.writeSessionError(w, err, elapsed)
		return
	}
	recordUpstreamRequest("success", elapsed)

	log.Info().
		Str("subscriptionID", req.SubscriptionID).
		Str("sessionID", session.ID).
		Msg("Created pricing page session")

	writeJSON(w, http.StatusOK, PricingSessionResponse{
		SessionID: session.ID,
		URL:       session.URL,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
}

// writeSessionError maps an upstream failure onto the normalized error shape.
// Auth and not-found failures get fixed messages regardless of what the
// upstream body said; anything unrecognized collapses to an opaque 500.
func (h *PricingHandlers) writeSessionError(w http.ResponseWriter, err error, elapsed time.Duration) {
	var apiErr *chargebee.APIError
	if !errors.As(err, &apiErr) {
		recordUpstreamRequest("transport_error", elapsed)
		log.Error().Err(err).Msg("Pricing page session request failed")
		writeErrorResponse(w, http.StatusInternalServerError, "internal_error", internalErrorMessage)
		return
	}

	recordUpstreamRequest("api_error", elapsed)

	switch {
	case apiErr.IsAuth():
		writeErrorResponse(w, http.StatusUnauthorized, "auth_error", invalidKeyMessage)
	case apiErr.IsNotFound():
		writeErrorResponse(w, http.StatusNotFound, "not_found", notFoundMessage)
	default:
		writeErrorResponse(w, apiErr.StatusCode, "upstream_error", apiErr.Message)
	}
}

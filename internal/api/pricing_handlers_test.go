package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/magellanhq/magellan/internal/config"
	"github.com/magellanhq/magellan/pkg/chargebee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessionCreator struct {
	lastRequest chargebee.SessionRequest
	session     *chargebee.PricingPageSession
	err         error
	calls       int
}

func (s *stubSessionCreator) CreatePricingPageSession(_ context.Context, req chargebee.SessionRequest) (*chargebee.PricingPageSession, error) {
	s.calls++
	s.lastRequest = req
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func testConfig() *config.Config {
	return &config.Config{
		ListenHost:      "127.0.0.1",
		ListenPort:      7810,
		MetricsPort:     9810,
		RedirectURL:     "https://example.com/upgrade-success",
		UpstreamTimeout: 5 * time.Second,
	}
}

func newTestPricingHandlers(stub *stubSessionCreator) (*PricingHandlers, *stubSessionCreator) {
	if stub == nil {
		stub = &stubSessionCreator{}
	}
	h := NewPricingHandlers(testConfig())
	h.newClient = func(chargebee.ClientConfig) sessionCreator { return stub }
	return h, stub
}

func postSession(t *testing.T, h *PricingHandlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/pricing/session", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleCreateSession(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestHandleCreateSession_Success(t *testing.T) {
	h, stub := newTestPricingHandlers(&stubSessionCreator{
		session: &chargebee.PricingPageSession{
			ID:        "s1",
			URL:       "https://x",
			CreatedAt: 1000,
			ExpiresAt: 2000,
		},
	})

	rec := postSession(t, h, `{
		"domain": "acme-corp",
		"apiKey": "abc123",
		"subscriptionId": "sub_42",
		"pricingPageId": "pp_basic",
		"customFieldKey": "cf_team",
		"customFieldValue": "platform"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp PricingSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, "https://x", resp.URL)
	assert.Equal(t, int64(1000), resp.CreatedAt)
	assert.Equal(t, int64(2000), resp.ExpiresAt)

	assert.Equal(t, "sub_42", stub.lastRequest.SubscriptionID)
	assert.Equal(t, "pp_basic", stub.lastRequest.PricingPageID)
	assert.Equal(t, "https://example.com/upgrade-success", stub.lastRequest.RedirectURL)
	assert.Equal(t, "cf_team", stub.lastRequest.CustomFieldKey)
	assert.Equal(t, "platform", stub.lastRequest.CustomFieldValue)
}

func TestHandleCreateSession_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing domain", body: `{"apiKey": "k", "subscriptionId": "sub_1"}`},
		{name: "missing api key", body: `{"domain": "acme", "subscriptionId": "sub_1"}`},
		{name: "missing subscription", body: `{"domain": "acme", "apiKey": "k"}`},
		{name: "empty strings", body: `{"domain": "", "apiKey": "", "subscriptionId": ""}`},
		{name: "empty object", body: `{}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, stub := newTestPricingHandlers(nil)
			rec := postSession(t, h, tc.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			apiErr := decodeError(t, rec)
			assert.Equal(t, missingFieldsMessage, apiErr.ErrorMessage)
			assert.Equal(t, "validation_error", apiErr.Code)
			assert.Zero(t, stub.calls, "no upstream call may be attempted")
		})
	}
}

func TestHandleCreateSession_UpstreamErrorMapping(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
		expectedCode    string
	}{
		{
			name:            "upstream 401 overrides body",
			err:             &chargebee.APIError{StatusCode: 401, Message: "some upstream text"},
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: invalidKeyMessage,
			expectedCode:    "auth_error",
		},
		{
			name:            "upstream 404 overrides body",
			err:             &chargebee.APIError{StatusCode: 404, Message: "whatever upstream said"},
			expectedStatus:  http.StatusNotFound,
			expectedMessage: notFoundMessage,
			expectedCode:    "not_found",
		},
		{
			name:            "upstream 422 relays derived message",
			err:             &chargebee.APIError{StatusCode: 422, Message: "subscription not active"},
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "subscription not active",
			expectedCode:    "upstream_error",
		},
		{
			name:            "upstream 500 relays raw text",
			err:             &chargebee.APIError{StatusCode: 500, Message: "gateway timeout"},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "gateway timeout",
			expectedCode:    "upstream_error",
		},
		{
			name:            "transport failure is opaque",
			err:             errors.New("dial tcp: connection refused"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: internalErrorMessage,
			expectedCode:    "internal_error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestPricingHandlers(&stubSessionCreator{err: tc.err})
			rec := postSession(t, h, `{"domain": "acme", "apiKey": "k", "subscriptionId": "sub_1"}`)

			require.Equal(t, tc.expectedStatus, rec.Code)
			apiErr := decodeError(t, rec)
			assert.Equal(t, tc.expectedMessage, apiErr.ErrorMessage)
			assert.Equal(t, tc.expectedCode, apiErr.Code)
			assert.Equal(t, tc.expectedStatus, apiErr.StatusCode)
		})
	}
}

func TestHandleCreateSession_MalformedJSON(t *testing.T) {
	h, stub := newTestPricingHandlers(nil)
	rec := postSession(t, h, `{"domain": "acme",`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, internalErrorMessage, apiErr.ErrorMessage)
	assert.Zero(t, stub.calls)
}

func TestHandleCreateSession_MethodNotAllowed(t *testing.T) {
	h, _ := newTestPricingHandlers(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/pricing/session", nil)
	rec := httptest.NewRecorder()
	h.HandleCreateSession(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleCreateSession_OptionalFieldsPassThrough(t *testing.T) {
	h, stub := newTestPricingHandlers(&stubSessionCreator{
		session: &chargebee.PricingPageSession{ID: "s1", URL: "https://x"},
	})

	rec := postSession(t, h, `{"domain": "acme", "apiKey": "k", "subscriptionId": "sub_1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, stub.lastRequest.PricingPageID)
	assert.Empty(t, stub.lastRequest.CustomFieldKey)
	assert.Empty(t, stub.lastRequest.CustomFieldValue)
}

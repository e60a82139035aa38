package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultAuthority is the AAD login endpoint.
	DefaultAuthority = "https://login.microsoftonline.com"

	// managementResource is the audience tokens are requested for.
	managementResource = "https://management.azure.com/"
)

// Credentials holds an AAD service principal for the client-credentials
// grant. Authority and HTTPClient are optional overrides, used by tests.
type Credentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Authority    string
	HTTPClient   *http.Client
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Token exchanges the service principal for a management-plane access token.
// A failed exchange returns the raw response body inside the error so the
// AAD error JSON reaches the user unaltered.
func (c Credentials) Token(ctx context.Context) (string, error) {
	authority := c.Authority
	if authority == "" {
		authority = DefaultAuthority
	}
	tokenURL := fmt.Sprintf("%s/%s/oauth2/token", authority, c.TenantID)

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
		"resource":      {managementResource},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("token request failed with %s: %s", resp.Status, body)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", errors.New("token response contains no access_token")
	}

	return token.AccessToken, nil
}

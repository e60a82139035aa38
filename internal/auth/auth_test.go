package auth_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/azurelinux/aitl/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenClientCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/testtenant/oauth2/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "testclient", r.PostForm.Get("client_id"))
		assert.Equal(t, "testsecret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "https://management.azure.com/", r.PostForm.Get("resource"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "testtoken", "token_type": "Bearer"}`)
	}))
	defer srv.Close()

	creds := auth.Credentials{
		TenantID:     "testtenant",
		ClientID:     "testclient",
		ClientSecret: "testsecret",
		Authority:    srv.URL,
	}

	token, err := creds.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "testtoken", token)
}

func TestTokenErrorResponseCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": "invalid_client", "error_description": "AADSTS7000215"}`)
	}))
	defer srv.Close()

	creds := auth.Credentials{
		TenantID:  "testtenant",
		Authority: srv.URL,
	}

	_, err := creds.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_client")
	assert.Contains(t, err.Error(), "401")
}

func TestTokenMissingAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"token_type": "Bearer"}`)
	}))
	defer srv.Close()

	creds := auth.Credentials{
		TenantID:  "testtenant",
		Authority: srv.URL,
	}

	_, err := creds.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_token")
}

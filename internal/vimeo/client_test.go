package vimeo_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trop3n/samc/internal/vimeo"
)

func newTestClient(t *testing.T, handler http.Handler) (*vimeo.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := vimeo.NewClient(vimeo.Config{
		Token:   "test-token",
		BaseURL: srv.URL,
	})
	return client, srv
}

func TestMe(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"uri": "/users/4242"})
	}))

	id, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4242), id)
}

func TestMeUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
	}))

	_, err := client.Me(context.Background())
	require.Error(t, err)

	var authErr *vimeo.AuthError
	require.ErrorAs(t, err, &authErr, "non-2xx identity response must be an AuthError")
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
}

func TestMeMissingIdentityField(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"name": "someone"})
	}))

	_, err := client.Me(context.Background())

	var authErr *vimeo.AuthError
	require.ErrorAs(t, err, &authErr, "a response without an identity URI must be an AuthError")
}

func TestMeTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := vimeo.NewClient(vimeo.Config{Token: "t", BaseURL: srv.URL})
	_, err := client.Me(context.Background())

	var authErr *vimeo.AuthError
	require.ErrorAs(t, err, &authErr)

	var transportErr *vimeo.TransportError
	assert.True(t, errors.As(err, &transportErr), "cause should stay inspectable")
}

func TestUpdateTitle(t *testing.T) {
	var gotBody map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/videos/42", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))

	err := client.UpdateTitle(context.Background(), 42, "Sunday Service (2024-03-10)")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Sunday Service (2024-03-10)"}, gotBody,
		"only the name field may be rewritten")
}

func TestUpdateTitleStatusError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))

	err := client.UpdateTitle(context.Background(), 42, "x")
	require.Error(t, err)

	var statusErr *vimeo.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Status)
	assert.Contains(t, statusErr.Body, "rate limited")
}

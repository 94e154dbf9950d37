package profile

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() *models.SignupEvent {
	return &models.SignupEvent{ID: "ev-1", UserID: "u-1", Name: "Ana", Contact: "ana@x.com"}
}

func TestNotifySignup_PayloadAndSignature(t *testing.T) {
	key := []byte("signing-key")

	var gotBody []byte
	var gotSignature string
	var gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		gotBody, err = io.ReadAll(r.Body)
		require.NoError(t, err)
		gotSignature = r.Header.Get("X-Signature")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, key)
	err := c.NotifySignup(context.Background(), testEvent())
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "u-1", payload["userId"])
	assert.Equal(t, "Ana", payload["name"])
	assert.Equal(t, "ana@x.com", payload["contact"])
	// credential material must never cross this boundary
	assert.NotContains(t, payload, "password")
	assert.NotContains(t, payload, "passwordHash")

	mac := hmac.New(sha256.New, key)
	mac.Write(gotBody)
	assert.Equal(t, "sha256="+hex.EncodeToString(mac.Sum(nil)), gotSignature)
}

func TestNotifySignup_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, []byte("k"))
	err := c.NotifySignup(context.Background(), testEvent())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNotifySignup_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, []byte("k"))
	err := c.NotifySignup(context.Background(), testEvent())
	require.Error(t, err)

	var se *statusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNotifySignup_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, []byte("k"))
	err := c.NotifySignup(context.Background(), testEvent())
	require.Error(t, err)
	// initial attempt plus three retries
	assert.Equal(t, int32(4), calls.Load())
}

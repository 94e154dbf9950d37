// Package profile implements the outbound client notifying the downstream
// profile service about new identities. Payloads carry only the user id, name,
// and contact; credential material is never transmitted — the profile service
// establishes its own credentials out-of-band using the user id as reference.
package profile

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/sethvargo/go-retry"
)

// signupPayload is the wire format of a signup notification.
type signupPayload struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Client posts signed signup notifications to the profile service.
type Client struct {
	endpoint   string
	signingKey []byte
	httpClient *http.Client
}

// NewClient constructs a Client for the given endpoint. The signing key is
// used to compute the HMAC body signature the profile service verifies.
func NewClient(endpoint string, signingKey []byte) *Client {
	return &Client{
		endpoint:   endpoint,
		signingKey: signingKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifySignup delivers the event, retrying transient failures with
// exponential backoff within the deadline of ctx. Client errors (4xx) are not
// retried: resending the same payload cannot fix them.
func (c *Client) NotifySignup(ctx context.Context, event *models.SignupEvent) error {

	body, err := json.Marshal(signupPayload{
		UserID:  event.UserID,
		Name:    event.Name,
		Contact: event.Contact,
	})
	if err != nil {
		return fmt.Errorf("error marshaling payload: %w", err)
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := c.post(ctx, body); err != nil {
			if isTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "profile service returned status " + strconv.Itoa(e.code)
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", c.sign(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{code: resp.StatusCode}
	}
	return nil
}

// sign computes the hex-encoded HMAC-SHA256 of the body.
func (c *Client) sign(body []byte) string {
	h := hmac.New(sha256.New, c.signingKey)
	h.Write(body)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	// network-level failures are worth another attempt
	return true
}

// Package client implements the command-line client for the AuthKeeper HTTP
// API: registration, login, identity lookup, and token refresh.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// APIClient is a thin JSON client over the server's /api/auth endpoints.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// RegisterResult mirrors the server's registration response.
type RegisterResult struct {
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Contact  string `json:"contact"`
}

// Identity mirrors the public user projection.
type Identity struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// LoginResult carries the issued token pair and the identity.
type LoginResult struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         Identity `json:"user"`
}

// RefreshResult carries the rotated token pair.
type RefreshResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type errorBody struct {
	Message string `json:"message"`
}

func (c *APIClient) Register(ctx context.Context, name, contact, password string) (*RegisterResult, error) {
	out := &RegisterResult{}
	err := c.post(ctx, "/api/auth/register", map[string]string{
		"name":     name,
		"contact":  contact,
		"password": password,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) Login(ctx context.Context, contact, password string) (*LoginResult, error) {
	out := &LoginResult{}
	err := c.post(ctx, "/api/auth/login", map[string]string{
		"contact":  contact,
		"password": password,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	out := &RefreshResult{}
	err := c.post(ctx, "/api/auth/refresh", map[string]string{
		"refreshToken": refreshToken,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) Me(ctx context.Context, accessToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+accessToken)

	out := &Identity{}
	if err := c.do(req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *APIClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorBody
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, e.Message)
		}
		return fmt.Errorf("server error (%d)", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

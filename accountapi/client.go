// Package accountapi is the HTTP client for the external account service.
// The client carries only auth hashes and opaque ciphertext blobs across the
// wire; plaintext and the symmetric key never reach this boundary.
package accountapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to the account service. It is safe for concurrent use once
// constructed; SetToken is called only during login/registration.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request diagnostics. Request and
// response bodies are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithToken sets an access token obtained from a previous session.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current access token.
func (c *Client) Token() string {
	return c.token
}

// SetToken replaces the access token used for authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register creates an account. authHash is the one-way salted hash of the
// master secret; the master secret itself must never be passed here.
func (c *Client) Register(ctx context.Context, email, authHash string, biometricEnabled bool) (AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", registerRequest{
		Email:              email,
		MasterPasswordHash: authHash,
		BiometricEnabled:   biometricEnabled,
	}, &res)
	if err != nil {
		return AuthResult{}, err
	}
	c.token = res.AccessToken
	return res, nil
}

// Login authenticates an existing account with its auth hash.
func (c *Client) Login(ctx context.Context, email, authHash string) (AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{
		Email:              email,
		MasterPasswordHash: authHash,
	}, &res)
	if err != nil {
		return AuthResult{}, err
	}
	c.token = res.AccessToken
	return res, nil
}

// Profile fetches the current account profile.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	var res Profile
	if err := c.do(ctx, http.MethodGet, "/api/user/profile", nil, &res); err != nil {
		return Profile{}, err
	}
	return res, nil
}

// VaultItems fetches all encrypted vault items for the account.
func (c *Client) VaultItems(ctx context.Context) ([]VaultItem, error) {
	var res []VaultItem
	if err := c.do(ctx, http.MethodGet, "/api/vault/items", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// CreateItem stores a new encrypted vault item and returns the stored record.
func (c *Client) CreateItem(ctx context.Context, itemType, encryptedData string) (VaultItem, error) {
	var res VaultItem
	err := c.do(ctx, http.MethodPost, "/api/vault/items", createItemRequest{
		ItemType:      itemType,
		EncryptedData: encryptedData,
	}, &res)
	if err != nil {
		return VaultItem{}, err
	}
	return res, nil
}

// UpdateItem replaces the ciphertext of an existing vault item.
func (c *Client) UpdateItem(ctx context.Context, itemID, encryptedData string) error {
	return c.do(ctx, http.MethodPut, "/api/vault/items/"+itemID, updateItemRequest{
		EncryptedData: encryptedData,
	}, nil)
}

// DeleteItem removes a vault item.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/api/vault/items/"+itemID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling account service: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("account service call", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		return c.asError(path, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) asError(path string, resp *http.Response) error {
	var er errorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(data, &er)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if strings.HasSuffix(path, "/login") {
			return ErrInvalidCredentials
		}
		return ErrUnauthorized
	case http.StatusConflict:
		return ErrEmailTaken
	case http.StatusNotFound:
		return ErrItemNotFound
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: er.Detail}
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/client/models"
	"github.com/dmitrijs2005/gophtasks/internal/common"
)

// DefaultTimeout bounds one request when no explicit timeout is configured.
const DefaultTimeout = 10 * time.Second

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tasksBody struct {
	Message string          `json:"message,omitempty"`
	Tasks   []models.Client `json:"tasks"`
}

type profileBody struct {
	Message string         `json:"message"`
	Profile models.Profile `json:"profile"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/register", false, credentials{Name: name, Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/login", false, credentials{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchAll returns the stored document, empty when the server has none.
func (c *HTTPClient) FetchAll(ctx context.Context) ([]models.Client, error) {
	var out tasksBody
	if err := c.do(ctx, http.MethodGet, "/api/tasks", true, nil, &out); err != nil {
		return nil, err
	}
	return orEmpty(out.Tasks), nil
}

// PushAll overwrites the server document with clients.
func (c *HTTPClient) PushAll(ctx context.Context, clients []models.Client) ([]models.Client, error) {
	return c.sendTasks(ctx, http.MethodPost, "/api/tasks/sync", clients)
}

func (c *HTTPClient) ReplaceAll(ctx context.Context, clients []models.Client) ([]models.Client, error) {
	return c.sendTasks(ctx, http.MethodPut, "/api/tasks", clients)
}

func (c *HTTPClient) sendTasks(ctx context.Context, method, path string, clients []models.Client) ([]models.Client, error) {
	var out tasksBody
	if err := c.do(ctx, method, path, true, tasksBody{Tasks: orEmpty(clients)}, &out); err != nil {
		return nil, err
	}
	return orEmpty(out.Tasks), nil
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.do(ctx, http.MethodGet, "/api/profile", true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	var out profileBody
	if err := c.do(ctx, http.MethodPut, "/api/profile", true, p, &out); err != nil {
		return nil, err
	}
	return &out.Profile, nil
}

func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", false, nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, auth bool, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		token := c.Token()
		if token == "" {
			return ErrUnauthorized
		}
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return mapStatus(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrServer, err)
	}
	return nil
}

func mapStatus(code int, raw []byte) error {
	msg := http.StatusText(code)
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		switch {
		case eb.Message != "":
			msg = eb.Message
		case eb.Error != "":
			msg = eb.Error
		}
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, msg)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	case code < http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	default:
		return fmt.Errorf("%w: %d %s", ErrServer, code, msg)
	}
}

func orEmpty(cs []models.Client) []models.Client {
	if cs == nil {
		return []models.Client{}
	}
	return cs
}

// IsAuthError reports whether err means the session is no longer valid.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

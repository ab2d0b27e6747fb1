// Package api is a small client for the vocabkeeper REST API. It keeps the
// session token in memory only.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/vocabkeeper/internal/common"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Vocabulary struct {
	ID        string    `json:"id"`
	Word      string    `json:"word"`
	Meaning   string    `json:"meaning"`
	Example   string    `json:"example,omitempty"`
	Category  string    `json:"category,omitempty"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// NewVocabulary is the request body for AddVocabulary.
type NewVocabulary struct {
	Word     string `json:"word"`
	Meaning  string `json:"meaning"`
	Example  string `json:"example,omitempty"`
	Category string `json:"category,omitempty"`
	Language string `json:"language,omitempty"`
}

type ListOptions struct {
	Category string
	Skip     int
	Limit    int
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// LoggedIn reports whether a session token is held.
func (c *Client) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Logout forgets the session token. Tokens are not revocable server-side.
func (c *Client) Logout() {
	c.setToken("")
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *Client) Register(ctx context.Context, email string, password []byte) (*User, error) {
	var u User
	body := map[string]string{"email": email, "password": string(password)}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for a session token and keeps it for later
// calls. The OAuth2 password form is used.
func (c *Client) Login(ctx context.Context, email string, password []byte) (time.Time, error) {
	form := url.Values{"username": {email}, "password": {string(password)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		AccessToken string    `json:"access_token"`
		TokenType   string    `json:"token_type"`
		ExpiresAt   time.Time `json:"expires_at"`
	}
	if err := c.send(req, &out); err != nil {
		return time.Time{}, err
	}
	if !strings.EqualFold(out.TokenType, common.TokenTypeBearer) || out.AccessToken == "" {
		return time.Time{}, fmt.Errorf("unexpected token type %q", out.TokenType)
	}

	c.setToken(out.AccessToken)
	return out.ExpiresAt, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListVocabularies(ctx context.Context, opts ListOptions) ([]Vocabulary, error) {
	q := url.Values{}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	if opts.Skip > 0 {
		q.Set("skip", strconv.Itoa(opts.Skip))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/api/vocab/vocabularies"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list []Vocabulary
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) AddVocabulary(ctx context.Context, v NewVocabulary) (*Vocabulary, error) {
	var out Vocabulary
	if err := c.do(ctx, http.MethodPost, "/api/vocab/vocabularies", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteVocabulary removes an entry and returns the refreshed category list
// when the entry's category became empty.
func (c *Client) DeleteVocabulary(ctx context.Context, id string) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/vocab/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, "/api/vocab/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Favorites(ctx context.Context) ([]Vocabulary, error) {
	var out []Vocabulary
	if err := c.do(ctx, http.MethodGet, "/api/vocab/favorites", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddFavorite(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/vocab/favorites/"+url.PathEscape(id), nil, nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/vocab/favorites/"+url.PathEscape(id), nil, nil)
}

// AudioUploadURL records a new audio object for the entry and returns a
// presigned PUT URL for it.
func (c *Client) AudioUploadURL(ctx context.Context, id string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/vocab/"+url.PathEscape(id)+"/audio", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// AudioDownloadURL returns a presigned GET URL for the entry's audio.
func (c *Client) AudioDownloadURL(ctx context.Context, id string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/vocab/"+url.PathEscape(id)+"/audio", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var body struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body.Detail)
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		return &Error{Status: resp.StatusCode, Detail: body.Detail}
	}
}

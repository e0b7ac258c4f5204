package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookbazaar/internal/config"
	"bookbazaar/internal/model"
)

// Client is the HTTP transport for the marketplace API. Session identity is
// cookie-based: each Client owns its own cookie jar, so two Clients hold two
// independent sessions and tests never share ambient state.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// APIError is a non-2xx response from the server. Message is the response
// body's "message" field when the server supplied one, empty otherwise.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status=%d message=%q", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status=%d", e.Status)
}

// ErrorMessage extracts the human-readable message for err, substituting
// fallback when the server sent none or the failure never reached it.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func New(cfg *config.Config) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
		},
	}, nil
}

// Envelopes: every endpoint wraps its payload in a single named field.

type userEnvelope struct {
	User    *model.User `json:"user"`
	Message string      `json:"message"`
}

type bookEnvelope struct {
	Book    *model.Book `json:"book"`
	Message string      `json:"message"`
}

type booksEnvelope struct {
	Books []model.Book `json:"books"`
}

type requestEnvelope struct {
	Request *model.BookRequest `json:"request"`
}

type requestsEnvelope struct {
	Requests []model.BookRequest `json:"requests"`
}

type messageEnvelope struct {
	Message string `json:"message"`
}

// Register creates an account and establishes the session cookie.
// Returns the new user and the server's confirmation message.
func (c *Client) Register(ctx context.Context, creds model.Credentials) (*model.User, string, error) {
	var env userEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/user/register", creds, &env); err != nil {
		return nil, "", err
	}
	return env.User, env.Message, nil
}

// Login authenticates and establishes the session cookie.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.User, string, error) {
	var env userEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/user/login", creds, &env); err != nil {
		return nil, "", err
	}
	return env.User, env.Message, nil
}

// Logout invalidates the session server-side. The jar keeps whatever
// (expired) cookie the server hands back.
func (c *Client) Logout(ctx context.Context) (string, error) {
	var env messageEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/user/logout", nil, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

// CurrentUser is the "am I logged in" probe.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var env userEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/user/me", nil, &env); err != nil {
		return nil, err
	}
	return env.User, nil
}

// AddBook creates a listing via multipart upload. The server is authoritative
// for the assigned id and the stored image location.
func (c *Client) AddBook(ctx context.Context, upload *model.BookUpload) (*model.Book, string, error) {
	var env bookEnvelope
	if err := c.doMultipart(ctx, http.MethodPost, "/book/add", upload, &env); err != nil {
		return nil, "", err
	}
	return env.Book, env.Message, nil
}

// Books fetches every listing on the marketplace.
func (c *Client) Books(ctx context.Context) ([]model.Book, error) {
	var env booksEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/book/books", nil, &env); err != nil {
		return nil, err
	}
	return env.Books, nil
}

// OwnedBooks fetches only the caller's listings.
func (c *Client) OwnedBooks(ctx context.Context) ([]model.Book, error) {
	var env booksEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/book/userbooks", nil, &env); err != nil {
		return nil, err
	}
	return env.Books, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) (string, error) {
	var env messageEnvelope
	if err := c.doJSON(ctx, http.MethodDelete, "/book/delete/"+id, nil, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

// UpdateBook replaces a listing's fields. upload.Image may be nil to keep the
// existing cover.
func (c *Client) UpdateBook(ctx context.Context, id string, upload *model.BookUpload) (*model.Book, string, error) {
	var env bookEnvelope
	if err := c.doMultipart(ctx, http.MethodPut, "/book/update/"+id, upload, &env); err != nil {
		return nil, "", err
	}
	return env.Book, env.Message, nil
}

// SendRequest messages the seller of a listing.
func (c *Client) SendRequest(ctx context.Context, message, bookID string) (*model.BookRequest, error) {
	body := model.SendRequestBody{Message: message, Book: bookID}
	var env requestEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/request/requests", body, &env); err != nil {
		return nil, err
	}
	return env.Request, nil
}

// Requests fetches every request visible to the caller.
func (c *Client) Requests(ctx context.Context) ([]model.BookRequest, error) {
	var env requestsEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/request/getAllRequests", nil, &env); err != nil {
		return nil, err
	}
	return env.Requests, nil
}

// doJSON runs one round-trip with an optional JSON body, decoding the
// response envelope into out on 2xx.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// doMultipart encodes a BookUpload as multipart/form-data. The price field is
// named "Prize" on the wire.
func (c *Client) doMultipart(ctx context.Context, method, path string, upload *model.BookUpload, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       upload.Title,
		"author":      upload.Author,
		"condition":   string(upload.Condition),
		"Prize":       strconv.FormatInt(upload.Price, 10),
		"description": upload.Description,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("write form field %s: %w", name, err)
		}
	}

	if len(upload.Image) > 0 {
		name := upload.ImageName
		if name == "" {
			name = "cover.jpg"
		}
		part, err := w.CreateFormFile("image", name)
		if err != nil {
			return fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(upload.Image); err != nil {
			return fmt.Errorf("write image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var env messageEnvelope
		if json.Unmarshal(respBody, &env) == nil {
			apiErr.Message = env.Message
		}
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

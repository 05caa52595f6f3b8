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
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// StatusError is returned for non-2xx responses. Detail carries the
// server-provided message when the body had one.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Detail)
	}

	return fmt.Sprintf("api: status %d", e.StatusCode)
}

// AsStatusError unwraps err to the StatusError the client attached, if any.
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}

	return nil, false
}

// Client wraps the finance REST API. It does not retry; every failure is
// terminal for that one call and the caller decides what to surface.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// UploadCSV uploads a transactions CSV as multipart form data and returns
// the server's message.
func (c *Client) UploadCSV(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}

	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("copy file: %w", err)
	}

	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transactions/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		Message string `json:"message"`
	}

	if err := c.send(req, &out); err != nil {
		return "", err
	}

	return out.Message, nil
}

func (c *Client) ListTransactions(ctx context.Context, params ListParams) ([]Transaction, error) {
	q := url.Values{}
	if params.Skip > 0 {
		q.Set("skip", strconv.Itoa(params.Skip))
	}

	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}

	if params.CategoryID != nil {
		q.Set("category_id", strconv.Itoa(*params.CategoryID))
	}

	var txs []Transaction
	if err := c.get(ctx, "/api/transactions", q, &txs); err != nil {
		return nil, err
	}

	return txs, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id int, params UpdateParams) (*Transaction, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal update: %w", err)
	}

	path := fmt.Sprintf("/api/transactions/%d", id)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var tx Transaction
	if err := c.send(req, &tx); err != nil {
		return nil, err
	}

	return &tx, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.get(ctx, "/api/categories", nil, &cats); err != nil {
		return nil, err
	}

	return cats, nil
}

func (c *Client) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	var summary DashboardSummary
	if err := c.get(ctx, "/api/dashboard/summary", nil, &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}

func (c *Client) QueryCopilot(ctx context.Context, question string) (*CopilotAnswer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question must not be empty")
	}

	body, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/copilot/query", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var answer CopilotAnswer
	if err := c.send(req, &answer); err != nil {
		return nil, err
	}

	return &answer, nil
}

func (c *Client) Health(ctx context.Context) (*HealthInfo, error) {
	var info HealthInfo
	if err := c.get(ctx, "/", nil, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	return c.send(req, out)
}

// send executes the request, logging method/path and the response status.
// Diagnostic only: the log stream is not a production audit trail.
func (c *Client) send(req *http.Request, out any) error {
	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err),
		)

		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(req, resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) statusError(req *http.Request, resp *http.Response) error {
	detail := serverDetail(resp.Body)

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("detail", detail),
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.logger.Warn("api unauthorized", fields...)
	case http.StatusInternalServerError:
		c.logger.Error("api server error", fields...)
	default:
		c.logger.Warn("api error", fields...)
	}

	return &StatusError{StatusCode: resp.StatusCode, Detail: detail}
}

// serverDetail extracts the {"detail": ...} message FastAPI-style servers
// put in error bodies. detail is not always a string, so fall back to the
// raw body when it isn't.
func serverDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var parsed struct {
		Detail json.RawMessage `json:"detail"`
	}

	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Detail == nil {
		return strings.TrimSpace(string(raw))
	}

	var s string
	if err := json.Unmarshal(parsed.Detail, &s); err == nil {
		return s
	}

	return strings.TrimSpace(string(parsed.Detail))
}

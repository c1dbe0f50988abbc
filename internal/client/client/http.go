package client

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
)

const apiPrefix = "/api/v1"

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu          sync.RWMutex
	accessToken string
}

// NewHTTPClient returns a client for the server at baseURL. A zero timeout
// disables the per-request deadline.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *HTTPClient) setToken(t string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = t
}

func (c *HTTPClient) LoggedIn() bool { return c.token() != "" }
func (c *HTTPClient) Logout()        { c.setToken("") }

// do sends body as JSON (when non-nil) and decodes a 2xx answer into out
// (when non-nil). Non-2xx answers become *APIError; transport failures wrap
// ErrUnavailable.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := c.token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func rangeQuery(r Range) url.Values {
	q := url.Values{}
	if r.From != "" {
		q.Set("start_date", r.From)
	}
	if r.To != "" {
		q.Set("end_date", r.To)
	}
	return q
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *HTTPClient) Register(ctx context.Context, username string, password []byte) (*User, error) {
	var u User
	err := c.do(ctx, http.MethodPost, apiPrefix+"/auth/register", nil,
		credentials{Username: username, Password: string(password)}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for an access token and keeps it for later calls.
func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) error {
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	err := c.do(ctx, http.MethodPost, apiPrefix+"/auth/login", nil,
		credentials{Username: username, Password: string(password)}, &tok)
	if err != nil {
		return err
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("login response carried no token")
	}
	c.setToken(tok.AccessToken)
	return nil
}

func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/users/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) AddExpense(ctx context.Context, e NewExpense) (*Expense, error) {
	var out Expense
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/expenses", nil, e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListExpenses(ctx context.Context, skip, limit int) ([]Expense, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var out []Expense
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/expenses", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ExpensesBetween(ctx context.Context, r Range) ([]Expense, error) {
	var out []Expense
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/expenses/range", rangeQuery(r), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ExpensesByCategory(ctx context.Context, category string) ([]Expense, error) {
	var out []Expense
	path := apiPrefix + "/expenses/category/" + url.PathEscape(category)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func expensePath(id int64) string {
	return apiPrefix + "/expenses/" + strconv.FormatInt(id, 10)
}

func (c *HTTPClient) GetExpense(ctx context.Context, id int64) (*Expense, error) {
	var out Expense
	if err := c.do(ctx, http.MethodGet, expensePath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteExpense(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, expensePath(id), nil, nil, nil)
}

func (c *HTTPClient) Summary(ctx context.Context, r Range) ([]SummaryRow, error) {
	var out []SummaryRow
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/analytics/summary", rangeQuery(r), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Total(ctx context.Context, r Range) (float64, error) {
	var out struct {
		TotalAmount float64 `json:"total_amount"`
	}
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/analytics/total", rangeQuery(r), nil, &out); err != nil {
		return 0, err
	}
	return out.TotalAmount, nil
}

func (c *HTTPClient) Chart(ctx context.Context, r Range) (*ChartReport, error) {
	var out ChartReport
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/analytics/chart", rangeQuery(r), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Report(ctx context.Context, r Range) (*CSVReport, error) {
	var out CSVReport
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/analytics/report", rangeQuery(r), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ArchiveReport(ctx context.Context, r Range) (*Archive, error) {
	var out Archive
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/analytics/report/archive", rangeQuery(r), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ Client = (*HTTPClient)(nil)

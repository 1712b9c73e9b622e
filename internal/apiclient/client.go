// Package apiclient wraps the remote expense API. It is pure
// request/response: it holds no state and performs no caching.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/outlay-app/outlay/internal/model"
)

//go:generate mockery --name=Client

// Client is the typed surface of the remote expense API.
type Client interface {
	FindUsersByUsername(ctx context.Context, username string) ([]model.User, error)
	UpdateUser(ctx context.Context, id string, patch map[string]any) (*model.User, error)
	CreateExpense(ctx context.Context, userID string, draft *model.ExpenseDraft) (*model.Expense, error)
	ListExpensesForUser(ctx context.Context, userID string) ([]model.Expense, error)
	GetExpenseByID(ctx context.Context, id string) (*model.Expense, error)
	UpdateExpense(ctx context.Context, id string, patch map[string]any) (*model.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}

// HTTP talks to the API over plain HTTP. Timeout policy is whatever the
// underlying client enforces; failed calls surface immediately, there
// is no retry.
type HTTP struct {
	baseURL string
	cli     *http.Client
	now     func() time.Time
}

func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		cli:     &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

func (h *HTTP) FindUsersByUsername(ctx context.Context, username string) ([]model.User, error) {
	var users []model.User
	path := "/users?username=" + url.QueryEscape(username)
	if err := h.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (h *HTTP) UpdateUser(ctx context.Context, id string, patch map[string]any) (*model.User, error) {
	var user model.User
	if err := h.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), patch, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateExpense posts a draft. The server assigns the id; the client
// stamps createdAt with its own clock and attaches the owning user.
func (h *HTTP) CreateExpense(ctx context.Context, userID string, draft *model.ExpenseDraft) (*model.Expense, error) {
	payload := struct {
		model.ExpenseDraft
		CreatedAt string `json:"createdAt"`
		UserID    string `json:"userId"`
	}{
		ExpenseDraft: *draft,
		CreatedAt:    h.now().UTC().Format(time.RFC3339),
		UserID:       userID,
	}

	var expense model.Expense
	if err := h.do(ctx, http.MethodPost, "/expenses", payload, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (h *HTTP) ListExpensesForUser(ctx context.Context, userID string) ([]model.Expense, error) {
	var expenses []model.Expense
	path := "/users/" + url.PathEscape(userID) + "/expenses"
	if err := h.do(ctx, http.MethodGet, path, nil, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (h *HTTP) GetExpenseByID(ctx context.Context, id string) (*model.Expense, error) {
	var expense model.Expense
	if err := h.do(ctx, http.MethodGet, "/expenses/"+url.PathEscape(id), nil, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (h *HTTP) UpdateExpense(ctx context.Context, id string, patch map[string]any) (*model.Expense, error) {
	var expense model.Expense
	if err := h.do(ctx, http.MethodPut, "/expenses/"+url.PathEscape(id), patch, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (h *HTTP) DeleteExpense(ctx context.Context, id string) error {
	return h.do(ctx, http.MethodDelete, "/expenses/"+url.PathEscape(id), nil, nil)
}

func (h *HTTP) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient, marshal request body error: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("apiclient, build request error: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.cli.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logrus.Errorf("apiclient couldn't close response body: %v", cerr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err = json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("apiclient, decode response error: %v", err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/outlay-app/outlay/internal/apiclient"
	"github.com/outlay-app/outlay/internal/model"
)

// stubClient lets each test script the remote API and count the calls
// that actually hit the network.
type stubClient struct {
	apiclient.Client

	mu        sync.Mutex
	listCalls int
	getCalls  int

	listFn   func(userID string) ([]model.Expense, error)
	getFn    func(id string) (*model.Expense, error)
	createFn func(userID string, draft *model.ExpenseDraft) (*model.Expense, error)
	updateFn func(id string, patch map[string]any) (*model.Expense, error)
	deleteFn func(id string) error
}

func (s *stubClient) ListExpensesForUser(_ context.Context, userID string) ([]model.Expense, error) {
	s.mu.Lock()
	s.listCalls++
	s.mu.Unlock()
	return s.listFn(userID)
}

func (s *stubClient) GetExpenseByID(_ context.Context, id string) (*model.Expense, error) {
	s.mu.Lock()
	s.getCalls++
	s.mu.Unlock()
	return s.getFn(id)
}

func (s *stubClient) CreateExpense(_ context.Context, userID string, draft *model.ExpenseDraft) (*model.Expense, error) {
	return s.createFn(userID, draft)
}

func (s *stubClient) UpdateExpense(_ context.Context, id string, patch map[string]any) (*model.Expense, error) {
	return s.updateFn(id, patch)
}

func (s *stubClient) DeleteExpense(_ context.Context, id string) error {
	return s.deleteFn(id)
}

func (s *stubClient) listCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

func (s *stubClient) getCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCalls
}

func TestExpenses_GetExpensesCachesWithinStalenessWindow(t *testing.T) {
	ctx := context.Background()
	stub := &stubClient{
		listFn: func(string) ([]model.Expense, error) {
			return []model.Expense{{ID: "10", Name: "Coffee", Amount: "4.50", UserID: "u1"}}, nil
		},
	}

	expenses := NewExpenses(stub, 0)

	first, err := expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)
	second, err := expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, stub.listCount())
}

func TestExpenses_GetExpensesRefetchesWhenStale(t *testing.T) {
	ctx := context.Background()
	stub := &stubClient{
		listFn: func(string) ([]model.Expense, error) {
			return []model.Expense{{ID: "10", Name: "Coffee", Amount: "4.50", UserID: "u1"}}, nil
		},
	}

	expenses := NewExpenses(stub, 5*time.Minute)
	current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	expenses.now = func() time.Time { return current }

	_, err := expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)

	current = current.Add(4 * time.Minute)
	_, err = expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, stub.listCount())

	current = current.Add(2 * time.Minute)
	_, err = expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, stub.listCount())
}

func TestExpenses_ListsCachedPerUser(t *testing.T) {
	ctx := context.Background()
	stub := &stubClient{
		listFn: func(userID string) ([]model.Expense, error) {
			return []model.Expense{{ID: "10", UserID: userID, Name: "Coffee", Amount: "4.50"}}, nil
		},
	}

	expenses := NewExpenses(stub, 0)

	first, err := expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", first[0].UserID)

	second, err := expenses.GetExpenses(ctx, "u2")
	require.NoError(t, err)
	require.Equal(t, "u2", second[0].UserID)

	require.Equal(t, 2, stub.listCount())
}

func TestExpenses_ConcurrentGetExpenseByIDSharesOneFetch(t *testing.T) {
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	stub := &stubClient{}
	stub.getFn = func(id string) (*model.Expense, error) {
		close(started)
		<-release
		return &model.Expense{ID: id, Name: "Coffee", Amount: "4.50"}, nil
	}

	expenses := NewExpenses(stub, 0)

	results := make(chan *model.Expense, 2)
	errs := make(chan error, 2)
	go func() {
		e, err := expenses.GetExpenseByID(ctx, "42")
		results <- e
		errs <- err
	}()
	<-started

	go func() {
		e, err := expenses.GetExpenseByID(ctx, "42")
		results <- e
		errs <- err
	}()
	// let the second caller reach the in-flight request before releasing
	time.Sleep(50 * time.Millisecond)
	close(release)

	for i := 0; i < 2; i++ {
		require.NoError(t, <-errs)
		require.Equal(t, "42", (<-results).ID)
	}
	require.Equal(t, 1, stub.getCount())
}

func TestExpenses_CreateExpenseInvalidatesList(t *testing.T) {
	ctx := context.Background()

	var (
		mu   sync.Mutex
		list = []model.Expense{{ID: "10", Name: "Rent", Amount: "900.00", UserID: "u1"}}
	)
	stub := &stubClient{}
	stub.listFn = func(string) ([]model.Expense, error) {
		mu.Lock()
		defer mu.Unlock()
		out := make([]model.Expense, len(list))
		copy(out, list)
		return out, nil
	}
	stub.createFn = func(userID string, draft *model.ExpenseDraft) (*model.Expense, error) {
		created := model.Expense{
			ID:          "99",
			CreatedAt:   "2024-03-01T12:00:00Z",
			Name:        draft.Name,
			Amount:      draft.Amount,
			Description: draft.Description,
			UserID:      userID,
		}
		mu.Lock()
		list = append(list, created)
		mu.Unlock()
		return &created, nil
	}

	expenses := NewExpenses(stub, 0)

	_, err := expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, stub.listCount())

	created, err := expenses.CreateExpense(ctx, "u1", &model.ExpenseDraft{
		Name:        "Coffee",
		Amount:      "4.50",
		Description: "Morning coffee",
	})
	require.NoError(t, err)
	require.Equal(t, "99", created.ID)

	refreshed, err := expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, stub.listCount())

	ids := make([]string, 0, len(refreshed))
	for _, e := range refreshed {
		ids = append(ids, e.ID)
	}
	require.Contains(t, ids, "99")
}

func TestExpenses_CreateExpenseFailureLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	stub := &stubClient{}
	stub.listFn = func(string) ([]model.Expense, error) {
		return []model.Expense{{ID: "10", Name: "Rent", Amount: "900.00", UserID: "u1"}}, nil
	}
	stub.createFn = func(string, *model.ExpenseDraft) (*model.Expense, error) {
		return nil, &apiclient.APIError{Status: http.StatusInternalServerError, Body: "boom"}
	}

	expenses := NewExpenses(stub, 0)

	_, err := expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)

	_, err = expenses.CreateExpense(ctx, "u1", &model.ExpenseDraft{
		Name:        "Coffee",
		Amount:      "4.50",
		Description: "Morning coffee",
	})
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)

	// the list entry is still served from cache
	_, err = expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, stub.listCount())
}

func TestExpenses_DeleteExpenseInvalidatesDetailAndList(t *testing.T) {
	ctx := context.Background()

	var (
		mu      sync.Mutex
		deleted bool
	)
	stub := &stubClient{}
	stub.getFn = func(id string) (*model.Expense, error) {
		mu.Lock()
		defer mu.Unlock()
		if deleted {
			return nil, &apiclient.APIError{Status: http.StatusNotFound, Body: "Not found"}
		}
		return &model.Expense{ID: id, Name: "Coffee", Amount: "4.50", UserID: "u1"}, nil
	}
	stub.listFn = func(string) ([]model.Expense, error) {
		mu.Lock()
		defer mu.Unlock()
		if deleted {
			return []model.Expense{}, nil
		}
		return []model.Expense{{ID: "99", Name: "Coffee", Amount: "4.50", UserID: "u1"}}, nil
	}
	stub.deleteFn = func(string) error {
		mu.Lock()
		deleted = true
		mu.Unlock()
		return nil
	}

	expenses := NewExpenses(stub, 0)

	_, err := expenses.GetExpenseByID(ctx, "99")
	require.NoError(t, err)
	_, err = expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, expenses.DeleteExpense(ctx, "u1", "99"))

	// no stale cached detail: the read goes to the network and surfaces
	// whatever the remote returns
	_, err = expenses.GetExpenseByID(ctx, "99")
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, 2, stub.getCount())

	list, err := expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, list)
	require.Equal(t, 2, stub.listCount())
}

func TestExpenses_DeleteExpenseFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	stub := &stubClient{}
	stub.getFn = func(id string) (*model.Expense, error) {
		return &model.Expense{ID: id, Name: "Coffee", Amount: "4.50", UserID: "u1"}, nil
	}
	stub.deleteFn = func(string) error {
		return &apiclient.NetworkError{Err: errors.New("connection reset")}
	}

	expenses := NewExpenses(stub, 0)

	_, err := expenses.GetExpenseByID(ctx, "99")
	require.NoError(t, err)

	err = expenses.DeleteExpense(ctx, "u1", "99")
	var netErr *apiclient.NetworkError
	require.ErrorAs(t, err, &netErr)

	// the caller must not assume the delete took effect; the cached
	// detail is still valid
	_, err = expenses.GetExpenseByID(ctx, "99")
	require.NoError(t, err)
	require.Equal(t, 1, stub.getCount())
}

func TestExpenses_UpdateExpenseInvalidatesDetailAndList(t *testing.T) {
	ctx := context.Background()
	stub := &stubClient{}
	stub.getFn = func(id string) (*model.Expense, error) {
		return &model.Expense{ID: id, Name: "Coffee", Amount: "4.50", UserID: "u1"}, nil
	}
	stub.listFn = func(string) ([]model.Expense, error) {
		return []model.Expense{{ID: "99", Name: "Coffee", Amount: "4.50", UserID: "u1"}}, nil
	}
	stub.updateFn = func(id string, patch map[string]any) (*model.Expense, error) {
		return &model.Expense{ID: id, Name: "Espresso", Amount: "4.50", UserID: "u1"}, nil
	}

	expenses := NewExpenses(stub, 0)

	_, err := expenses.GetExpenseByID(ctx, "99")
	require.NoError(t, err)
	_, err = expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)

	updated, err := expenses.UpdateExpense(ctx, "u1", "99", map[string]any{"name": "Espresso"})
	require.NoError(t, err)
	require.Equal(t, "Espresso", updated.Name)

	_, err = expenses.GetExpenseByID(ctx, "99")
	require.NoError(t, err)
	_, err = expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, stub.getCount())
	require.Equal(t, 2, stub.listCount())
}

func TestExpenses_SlowFetchIsNotWrittenBackAfterInvalidation(t *testing.T) {
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})

	var (
		mu   sync.Mutex
		list = []model.Expense{{ID: "10", Name: "Rent", Amount: "900.00", UserID: "u1"}}
	)
	stub := &stubClient{}
	first := true
	stub.listFn = func(string) ([]model.Expense, error) {
		mu.Lock()
		slow := first
		first = false
		out := make([]model.Expense, len(list))
		copy(out, list)
		mu.Unlock()
		if slow {
			close(started)
			<-release
		}
		return out, nil
	}
	stub.createFn = func(userID string, draft *model.ExpenseDraft) (*model.Expense, error) {
		created := model.Expense{ID: "99", Name: draft.Name, Amount: draft.Amount, Description: draft.Description, UserID: userID}
		mu.Lock()
		list = append(list, created)
		mu.Unlock()
		return &created, nil
	}

	expenses := NewExpenses(stub, 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		stale, err := expenses.GetExpenses(ctx, "u1")
		require.NoError(t, err)
		// the slow reader still gets its (pre-mutation) snapshot
		require.Len(t, stale, 1)
	}()
	<-started

	// invalidation lands while the list fetch is still in flight
	_, err := expenses.CreateExpense(ctx, "u1", &model.ExpenseDraft{
		Name:        "Coffee",
		Amount:      "4.50",
		Description: "Morning coffee",
	})
	require.NoError(t, err)

	close(release)
	<-done

	// the stale in-flight result was discarded, so this read re-fetches
	// and sees the new record
	refreshed, err := expenses.GetExpenses(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, refreshed, 2)
	require.Equal(t, 2, stub.listCount())
}

func TestExpenses_DraftValidation(t *testing.T) {
	ctx := context.Background()
	stub := &stubClient{}
	stub.createFn = func(userID string, draft *model.ExpenseDraft) (*model.Expense, error) {
		t.Fatal("an invalid draft must not reach the network")
		return nil, nil
	}

	expenses := NewExpenses(stub, 0)

	tests := []struct {
		name  string
		draft *model.ExpenseDraft
	}{
		{name: "missing description", draft: &model.ExpenseDraft{Name: "Coffee", Amount: "4.50"}},
		{name: "missing amount", draft: &model.ExpenseDraft{Name: "Coffee", Description: "x"}},
		{name: "amount not a number", draft: &model.ExpenseDraft{Name: "Coffee", Amount: "four", Description: "x"}},
		{name: "amount zero", draft: &model.ExpenseDraft{Name: "Coffee", Amount: "0", Description: "x"}},
		{name: "amount negative", draft: &model.ExpenseDraft{Name: "Coffee", Amount: "-1.50", Description: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := expenses.CreateExpense(ctx, "u1", tt.draft)
			require.Error(t, err)
		})
	}
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/outlay-app/outlay/internal/apiclient"
	"github.com/outlay-app/outlay/internal/model"
)

// DefaultStaleAfter is how long a cache entry counts as fresh.
const DefaultStaleAfter = 5 * time.Minute

const (
	kindExpenseList   = "expenses"
	kindExpenseDetail = "expense"
)

type cacheKey struct {
	kind  string
	scope string
}

func (k cacheKey) String() string {
	return k.kind + ":" + k.scope
}

type cacheEntry struct {
	value     any
	fetchedAt time.Time
}

// Expenses serves expense collections and detail records through a
// read-through cache keyed by user or expense id. Mutations invalidate
// the affected keys after the remote call succeeds; the cache is never
// patched in place, so list and detail views cannot drift apart.
type Expenses struct {
	api        apiclient.Client
	staleAfter time.Duration
	now        func() time.Time
	validate   *validator.Validate

	group singleflight.Group

	mu          sync.Mutex
	entries     map[cacheKey]*cacheEntry
	generations map[cacheKey]uint64
}

func NewExpenses(api apiclient.Client, staleAfter time.Duration) *Expenses {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Expenses{
		api:         api,
		staleAfter:  staleAfter,
		now:         time.Now,
		validate:    validator.New(),
		entries:     make(map[cacheKey]*cacheEntry),
		generations: make(map[cacheKey]uint64),
	}
}

// GetExpenses returns the user's expense list, from cache when fresh.
// Concurrent callers for the same user share a single in-flight fetch.
func (e *Expenses) GetExpenses(ctx context.Context, userID string) ([]model.Expense, error) {
	value, err := e.fetch(cacheKey{kind: kindExpenseList, scope: userID}, func() (any, error) {
		return e.api.ListExpensesForUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return value.([]model.Expense), nil
}

// GetExpenseByID returns one expense, cached independently of the list.
func (e *Expenses) GetExpenseByID(ctx context.Context, id string) (*model.Expense, error) {
	value, err := e.fetch(cacheKey{kind: kindExpenseDetail, scope: id}, func() (any, error) {
		return e.api.GetExpenseByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return value.(*model.Expense), nil
}

// CreateExpense validates the draft, creates it remotely and then
// invalidates the user's list entry. The new record is not spliced into
// the cached list: the next read re-fetches and picks up every
// server-assigned field.
func (e *Expenses) CreateExpense(ctx context.Context, userID string, draft *model.ExpenseDraft) (*model.Expense, error) {
	if err := e.validateDraft(draft); err != nil {
		return nil, err
	}

	expense, err := e.api.CreateExpense(ctx, userID, draft)
	if err != nil {
		return nil, err
	}

	e.invalidate(cacheKey{kind: kindExpenseList, scope: userID})
	logrus.Infof("expense %s created for user %s", expense.ID, userID)
	return expense, nil
}

// UpdateExpense replaces fields remotely, then invalidates the detail
// entry and the owning user's list entry.
func (e *Expenses) UpdateExpense(ctx context.Context, userID, id string, patch map[string]any) (*model.Expense, error) {
	expense, err := e.api.UpdateExpense(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	e.invalidate(cacheKey{kind: kindExpenseDetail, scope: id})
	e.invalidate(cacheKey{kind: kindExpenseList, scope: userID})
	logrus.Infof("expense %s updated for user %s", id, userID)
	return expense, nil
}

// DeleteExpense deletes remotely, then invalidates the detail entry and
// the owning user's list entry. If the remote call fails the cache is
// left untouched and the caller must not assume the delete took effect.
func (e *Expenses) DeleteExpense(ctx context.Context, userID, id string) error {
	if err := e.api.DeleteExpense(ctx, id); err != nil {
		return err
	}

	e.invalidate(cacheKey{kind: kindExpenseDetail, scope: id})
	e.invalidate(cacheKey{kind: kindExpenseList, scope: userID})
	logrus.Infof("expense %s deleted for user %s", id, userID)
	return nil
}

// fetch serves key through the cache: fresh entries return without a
// network call, concurrent misses share one in-flight request, and a
// result that lands after its key was invalidated is handed to callers
// but not written back, so a slow read cannot resurrect stale data.
func (e *Expenses) fetch(key cacheKey, load func() (any, error)) (any, error) {
	e.mu.Lock()
	if entry, ok := e.entries[key]; ok && e.now().Sub(entry.fetchedAt) < e.staleAfter {
		e.mu.Unlock()
		cacheHits.WithLabelValues(key.kind).Inc()
		return entry.value, nil
	}
	gen := e.generations[key]
	e.mu.Unlock()

	value, err, _ := e.group.Do(key.String(), func() (any, error) {
		cacheMisses.WithLabelValues(key.kind).Inc()
		value, err := load()
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		if e.generations[key] != gen {
			staleDiscards.WithLabelValues(key.kind).Inc()
			return value, nil
		}
		e.entries[key] = &cacheEntry{value: value, fetchedAt: e.now()}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (e *Expenses) invalidate(key cacheKey) {
	e.mu.Lock()
	delete(e.entries, key)
	e.generations[key]++
	e.mu.Unlock()

	// new readers must start a fresh flight instead of joining one that
	// began before the invalidation
	e.group.Forget(key.String())
	cacheInvalidations.WithLabelValues(key.kind).Inc()
}

func (e *Expenses) validateDraft(draft *model.ExpenseDraft) error {
	if err := e.validate.Struct(draft); err != nil {
		return fmt.Errorf("expenses, invalid draft: %v", err)
	}

	amount, err := model.ParseAmount(draft.Amount)
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("expenses, invalid draft: amount must be positive, got %s", draft.Amount)
	}
	return nil
}

package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/outlay-app/outlay/internal/model"
)

const (
	fallbackCategory = "Other"
	recentLimit      = 5
)

// Summary aggregates a user's expense list for the dashboard view:
// total spent, per-category breakdown, the heaviest category, budget
// status and the most recent records. Amounts are summed as decimals so
// the string transport format never passes through floats.
type Summary struct {
	Total       decimal.Decimal
	ByCategory  map[string]decimal.Decimal
	TopCategory string
	Budget      decimal.Decimal
	OverBudget  bool
	Recent      []model.Expense
}

// Summarize is pure: it reads the given list and computes everything
// in memory. Records whose amount does not parse are skipped.
func Summarize(expenses []model.Expense, budget decimal.Decimal) *Summary {
	total := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)

	for _, exp := range expenses {
		amount, err := model.ParseAmount(exp.Amount)
		if err != nil {
			logrus.Errorf("summary, skipping expense %s: %v", exp.ID, err)
			continue
		}
		total = total.Add(amount)

		category := exp.Category
		if category == "" {
			category = fallbackCategory
		}
		byCategory[category] = byCategory[category].Add(amount)
	}

	topCategory := ""
	topSum := decimal.Zero
	for category, sum := range byCategory {
		if sum.GreaterThan(topSum) || (sum.Equal(topSum) && (topCategory == "" || category < topCategory)) {
			topCategory = category
			topSum = sum
		}
	}

	recent := make([]model.Expense, len(expenses))
	copy(recent, expenses)
	sort.SliceStable(recent, func(i, j int) bool {
		return effectiveDate(recent[i]).After(effectiveDate(recent[j]))
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return &Summary{
		Total:       total,
		ByCategory:  byCategory,
		TopCategory: topCategory,
		Budget:      budget,
		OverBudget:  total.GreaterThan(budget),
		Recent:      recent,
	}
}

// effectiveDate orders an expense by its explicit date, falling back to
// the server-stamped creation time.
func effectiveDate(exp model.Expense) time.Time {
	for _, raw := range []string{exp.Date, exp.CreatedAt} {
		if raw == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

package store

import (
	"context"
	"fmt"
	"time"

	"spasta/internal/auth"
	"spasta/internal/model"
	"spasta/internal/remote"
)

// ExpensePatch is a partial expense update. Account and Category may be
// changed but never cleared.
type ExpensePatch struct {
	Amount          *float64
	Account         *string
	Category        *string
	Description     *string
	Date            *time.Time
	IsRecurring     *bool
	RecurringPeriod *model.RecurringPeriod
}

type expenseCodec struct{}

func (expenseCodec) Collection() string { return expensesCollection }

func (expenseCodec) Decode(rec remote.Record) model.Expense {
	f := rec.Fields
	return model.Expense{
		Meta:            metaFromRecord(rec),
		Amount:          f.Float("amount"),
		Account:         f.String("account"),
		Category:        f.String("category"),
		Description:     f.String("description"),
		Date:            f.TimeOrNow("date"),
		IsRecurring:     f.Bool("isRecurring"),
		RecurringPeriod: model.RecurringPeriod(f.String("recurringPeriod")),
	}
}

func (expenseCodec) Encode(e model.Expense) remote.Fields {
	return remote.Fields{
		"amount":          e.Amount,
		"account":         e.Account,
		"category":        e.Category,
		"description":     e.Description,
		"date":            remote.FromTime(e.Date),
		"isRecurring":     e.IsRecurring,
		"recurringPeriod": string(e.RecurringPeriod),
	}
}

func (expenseCodec) EncodePatch(p ExpensePatch) remote.Fields {
	fields := remote.Fields{}
	if p.Amount != nil {
		fields["amount"] = *p.Amount
	}
	if p.Account != nil {
		fields["account"] = *p.Account
	}
	if p.Category != nil {
		fields["category"] = *p.Category
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Date != nil {
		fields["date"] = remote.FromTime(*p.Date)
	}
	if p.IsRecurring != nil {
		fields["isRecurring"] = *p.IsRecurring
	}
	if p.RecurringPeriod != nil {
		fields["recurringPeriod"] = string(*p.RecurringPeriod)
	}
	return fields
}

func (expenseCodec) Merge(e model.Expense, p ExpensePatch) model.Expense {
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Account != nil {
		e.Account = *p.Account
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.IsRecurring != nil {
		e.IsRecurring = *p.IsRecurring
	}
	if p.RecurringPeriod != nil {
		e.RecurringPeriod = *p.RecurringPeriod
	}
	return e
}

func (expenseCodec) Stamped(e model.Expense, m model.Meta) model.Expense {
	e.Meta = m
	return e
}

// ExpenseStore manages the expense cache. Every expense must carry an
// account and a category classification.
type ExpenseStore struct {
	*Collection[model.Expense, ExpensePatch]
}

func NewExpenseStore(gw remote.Gateway, session auth.Session) *ExpenseStore {
	return &ExpenseStore{
		Collection: NewCollection[model.Expense, ExpensePatch](gw, session, expenseCodec{}),
	}
}

func (s *ExpenseStore) Add(ctx context.Context, draft model.Expense) (model.Expense, error) {
	if draft.Account == "" || draft.Category == "" {
		return model.Expense{}, fmt.Errorf("%w: account and category are required", ErrValidationFailed)
	}
	return s.Collection.Add(ctx, draft)
}

func (s *ExpenseStore) Update(ctx context.Context, id string, patch ExpensePatch) error {
	if (patch.Account != nil && *patch.Account == "") ||
		(patch.Category != nil && *patch.Category == "") {
		return fmt.Errorf("%w: account and category are required", ErrValidationFailed)
	}
	return s.Collection.Update(ctx, id, patch)
}

// ByAccount returns the cached expenses for one account.
func (s *ExpenseStore) ByAccount(account string) []model.Expense {
	var out []model.Expense
	for _, e := range s.Items() {
		if e.Account == account {
			out = append(out, e)
		}
	}
	return out
}

// ByCategory returns the cached expenses for one category.
func (s *ExpenseStore) ByCategory(category string) []model.Expense {
	var out []model.Expense
	for _, e := range s.Items() {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

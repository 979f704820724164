// Package services holds the write-side orchestration: input validation,
// referential checks and event publishing around the expense store.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pesa/internal/amqp"
	"pesa/internal/core"
	"pesa/internal/storage"
)

// ExpenseStore is the slice of the repository the service writes through.
type ExpenseStore interface {
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	CreateExpense(ctx context.Context, e core.Expense) (int64, error)
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id int64) error
}

// EventPublisher emits expense change events. Optional.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, action string, id int64) error
}

// ExpenseInput carries the validated-primitive fields of a create or update.
type ExpenseInput struct {
	AmountCents int64
	CategoryID  int64
	Date        core.Date
	Note        string
}

type ExpenseService struct {
	store  ExpenseStore
	events EventPublisher
}

// NewExpenseService wires the service. events may be nil, which disables
// event publishing entirely.
func NewExpenseService(store ExpenseStore, events EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, events: events}
}

// Create validates the input, verifies the category reference resolves, and
// inserts the expense. Validation failures surface before any store write;
// nothing is ever partially applied or silently coerced.
func (s *ExpenseService) Create(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	e := core.Expense{
		Amount:     core.Money{Cents: in.AmountCents},
		CategoryID: in.CategoryID,
		Date:       in.Date,
		Note:       core.NormalizeNote(in.Note),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := s.checkCategory(ctx, e.CategoryID); err != nil {
		return core.Expense{}, err
	}

	id, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	e.ID = id

	s.publish(ctx, amqp.ActionCreated, id)
	return e, nil
}

// Update rewrites an existing expense after the same validation as Create.
// Returns storage.ErrNotFound when the id matches no record.
func (s *ExpenseService) Update(ctx context.Context, id int64, in ExpenseInput) (core.Expense, error) {
	e := core.Expense{
		ID:         id,
		Amount:     core.Money{Cents: in.AmountCents},
		CategoryID: in.CategoryID,
		Date:       in.Date,
		Note:       core.NormalizeNote(in.Note),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := s.checkCategory(ctx, e.CategoryID); err != nil {
		return core.Expense{}, err
	}

	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return core.Expense{}, err
	}

	s.publish(ctx, amqp.ActionUpdated, id)
	return e, nil
}

// Delete removes one expense by id.
func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.ActionDeleted, id)
	return nil
}

// checkCategory turns a dangling category reference into a validation
// error before the write reaches the store.
func (s *ExpenseService) checkCategory(ctx context.Context, id int64) error {
	_, err := s.store.GetCategory(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return core.ErrUnknownCategory
	}
	if err != nil {
		return fmt.Errorf("resolve category %d: %w", id, err)
	}
	return nil
}

// publish emits an event if publishing is configured. The expense is already
// persisted at this point, so a publish failure is logged and swallowed.
func (s *ExpenseService) publish(ctx context.Context, action string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseEvent(ctx, action, id); err != nil {
		slog.ErrorContext(ctx, "failed to publish expense event",
			"action", action, "id", id, "error", err)
	}
}

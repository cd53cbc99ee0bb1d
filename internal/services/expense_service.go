// Package services orchestrates writes that touch more than the database.
package services

import (
	"context"

	"menage/internal/core"
	"menage/internal/events"
	"menage/internal/log"
	"menage/internal/storage"
)

// EventPublisher is satisfied by events.Publisher. A nil publisher disables
// event publishing entirely.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, ev *events.ExpenseEvent) error
}

// ExpenseService persists expense mutations and emits change events.
// The database write is authoritative; a failed publish is logged and the
// request still succeeds.
type ExpenseService struct {
	repo      *storage.Repository
	publisher EventPublisher
}

func NewExpenseService(repo *storage.Repository, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{repo: repo, publisher: publisher}
}

func (s *ExpenseService) Create(ctx context.Context, e *core.Expense) (*core.Expense, error) {
	created, err := s.repo.CreateExpense(ctx, e)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewExpenseEvent(created.ID, events.ActionCreated, created.UserID))
	return created, nil
}

func (s *ExpenseService) Update(ctx context.Context, id string, p storage.ExpensePatch) (*core.Expense, error) {
	updated, err := s.repo.UpdateExpense(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewExpenseEvent(updated.ID, events.ActionUpdated, updated.UserID))
	return updated, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	// Capture the owner before the row disappears.
	existing, err := s.repo.ExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.NewExpenseEvent(id, events.ActionDeleted, existing.UserID))
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, ev *events.ExpenseEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, ev); err != nil {
		log.FromContext(ctx).Warn("Failed to publish expense event",
			"error", err,
			log.FieldEntityID, ev.ExpenseID,
			"action", ev.Action)
	}
}

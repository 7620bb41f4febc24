package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"roomhub/internal/core/auth"
	"roomhub/internal/domain"
)

type TodoService struct {
	repo domain.TodoRepository
}

func NewTodoService(r domain.TodoRepository) *TodoService { return &TodoService{repo: r} }

// TodoInput holds optional fields; nil means "not supplied".
type TodoInput struct {
	Title       *string
	Description *string
}

func (s *TodoService) List(ctx context.Context, id auth.Identity) ([]domain.Todo, error) {
	return s.repo.ListByOwner(ctx, id.UserID)
}

func (s *TodoService) Get(ctx context.Context, id auth.Identity, todoID uint) (*domain.Todo, error) {
	return s.repo.GetOwned(ctx, id.UserID, todoID)
}

func (s *TodoService) Create(ctx context.Context, id auth.Identity, in TodoInput) (*domain.Todo, error) {
	t := &domain.Todo{UserID: id.UserID}
	if err := applyTodo(t, in, true); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update locks the row, merges in and writes it back in one transaction.
func (s *TodoService) Update(ctx context.Context, id auth.Identity, todoID uint, in TodoInput) (*domain.Todo, error) {
	var out *domain.Todo
	err := s.repo.Atomic(ctx, func(tx domain.TodoRepository) error {
		t, err := tx.GetForUpdate(ctx, id.UserID, todoID)
		if err != nil {
			return err
		}
		if err := applyTodo(t, in, false); err != nil {
			return err
		}
		t.UserID = id.UserID
		if err := tx.Update(ctx, id.UserID, todoID, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TodoService) Delete(ctx context.Context, id auth.Identity, todoID uint) error {
	return s.repo.DeleteOwned(ctx, id.UserID, todoID)
}

// applyTodo merges in onto t and validates the result.
func applyTodo(t *domain.Todo, in TodoInput, create bool) error {
	verr := &domain.ValidationError{}
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}

	switch {
	case in.Title == nil && create:
		verr.Add("title", "this field is required")
	case t.Title == "":
		verr.Add("title", "title cannot be empty")
	case utf8.RuneCountInString(t.Title) > domain.TodoTitleMax:
		verr.Add("title", fmt.Sprintf("ensure this field has no more than %d characters", domain.TodoTitleMax))
	}
	switch {
	case in.Description == nil && create:
		verr.Add("description", "this field is required")
	case strings.TrimSpace(t.Description) == "":
		verr.Add("description", "this field may not be blank")
	}
	return verr.OrNil()
}

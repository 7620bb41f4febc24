package handler

import (
	"context"
	"time"

	"roomhub/internal/core/auth"
	"roomhub/internal/domain"
	"roomhub/internal/service"
	"roomhub/internal/transport/http/ez"
)

type todoIn struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type todoOut struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTodo(t *domain.Todo) todoOut {
	return todoOut{ID: t.ID, Title: t.Title, Description: t.Description, CreatedAt: t.CreatedAt}
}

// todoCrud adapts TodoService to ez.CrudService.
type todoCrud struct{ svc *service.TodoService }

func (s todoCrud) List(ctx context.Context, id auth.Identity) ([]todoOut, error) {
	rows, err := s.svc.List(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]todoOut, 0, len(rows))
	for i := range rows {
		out = append(out, toTodo(&rows[i]))
	}
	return out, nil
}

func (s todoCrud) Get(ctx context.Context, id auth.Identity, key uint) (todoOut, error) {
	t, err := s.svc.Get(ctx, id, key)
	if err != nil {
		return todoOut{}, err
	}
	return toTodo(t), nil
}

func (s todoCrud) Create(ctx context.Context, id auth.Identity, in *todoIn) (todoOut, error) {
	t, err := s.svc.Create(ctx, id, service.TodoInput{Title: in.Title, Description: in.Description})
	if err != nil {
		return todoOut{}, err
	}
	return toTodo(t), nil
}

func (s todoCrud) Update(ctx context.Context, id auth.Identity, key uint, in *todoIn) (todoOut, error) {
	t, err := s.svc.Update(ctx, id, key, service.TodoInput{Title: in.Title, Description: in.Description})
	if err != nil {
		return todoOut{}, err
	}
	return toTodo(t), nil
}

func (s todoCrud) Delete(ctx context.Context, id auth.Identity, key uint) error {
	return s.svc.Delete(ctx, id, key)
}

type Todo struct {
	svc *service.TodoService
}

func NewTodo(s *service.TodoService) *Todo { return &Todo{svc: s} }

func (h *Todo) MountAPI(_, authed ez.EZ) {
	ez.Crud(authed, ez.CrudConfig[todoIn, todoOut]{
		Path:    "/todo",
		Service: todoCrud{svc: h.svc},
	})
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roomhub/internal/core/auth"
	"roomhub/internal/domain"
	"roomhub/internal/service"
	"roomhub/internal/transport/http/ez"
)

type listUsersQ struct {
	Offset int    `form:"offset,default=0" binding:"min=0"`
	Limit  int    `form:"limit,default=20" binding:"min=0,max=100"`
	Q      string `form:"q"` // matches username or email
}

type userRow struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type listUsersOut struct {
	Total int64     `json:"total"`
	Items []userRow `json:"items"`
}

type pruneOut struct {
	Removed int64 `json:"removed"`
}

func toUserRow(u *domain.User) userRow {
	return userRow{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// Users is the admin-side account management.
type Users struct {
	svc *service.AdminService
}

func NewUsers(s *service.AdminService) *Users { return &Users{svc: s} }

func (h *Users) MountAdmin(admin ez.EZ) {
	roles := []string{auth.RoleAdmin}

	ez.Register(admin, ez.Action[listUsersQ, listUsersOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Roles:  roles,
		Handler: func(c *gin.Context, _ auth.Identity, in *listUsersQ) (listUsersOut, error) {
			us, total, err := h.svc.ListUsers(c.Request.Context(), in.Q, in.Offset, in.Limit)
			if err != nil {
				return listUsersOut{}, err
			}
			return listUsersOut{Total: total, Items: mapAll(us, toUserRow)}, nil
		},
	})

	ez.Register(admin, ez.Action[struct{}, idOut]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: ez.BindNone,
		Roles:  roles,
		Handler: func(c *gin.Context, actor auth.Identity, _ *struct{}) (idOut, error) {
			id, err := pathID(c)
			if err != nil {
				return idOut{}, err
			}
			return idOut{ID: id}, h.svc.Ban(c.Request.Context(), actor, id)
		},
	})

	ez.Register(admin, ez.Action[struct{}, userRow]{
		Method: http.MethodPost,
		Path:   "/users/:id/promote",
		Binder: ez.BindNone,
		Roles:  roles,
		Handler: func(c *gin.Context, actor auth.Identity, _ *struct{}) (userRow, error) {
			id, err := pathID(c)
			if err != nil {
				return userRow{}, err
			}
			u, err := h.svc.Promote(c.Request.Context(), actor, id)
			if err != nil {
				return userRow{}, err
			}
			return toUserRow(u), nil
		},
	})

	ez.Register(admin, ez.Action[struct{}, pruneOut]{
		Method: http.MethodPost,
		Path:   "/tokens/prune",
		Binder: ez.BindNone,
		Roles:  roles,
		Handler: func(c *gin.Context, _ auth.Identity, _ *struct{}) (pruneOut, error) {
			n, err := h.svc.PruneTokens(c.Request.Context())
			return pruneOut{Removed: n}, err
		},
	})
}

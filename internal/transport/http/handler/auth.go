package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roomhub/internal/core/auth"
	"roomhub/internal/domain"
	"roomhub/internal/service"
	"roomhub/internal/transport/http/ez"
)

type registerIn struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email" binding:"omitempty,max=254"`
	Role     string `json:"role"`
}

type registerOut struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type loginIn struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginOut struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type refreshIn struct {
	Refresh string `json:"refresh"`
}

type accessOut struct {
	Access string `json:"access"`
}

type verifyIn struct {
	Token string `json:"token"`
}

type meOut struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Auth mounts registration, the token endpoints and /me.
type Auth struct {
	svc *service.AuthService
}

func NewAuth(s *service.AuthService) *Auth { return &Auth{svc: s} }

func (h *Auth) Priority() int { return 10 }

func (h *Auth) MountAPI(public, authed ez.EZ) {
	ez.Register(public, ez.Action[registerIn, registerOut]{
		Method:  http.MethodPost,
		Path:    "/auth/register",
		Binder:  ez.BindJSON,
		Status:  http.StatusCreated,
		Handler: h.register,
	})
	for _, p := range []string{"/auth/login", "/auth/token"} {
		ez.Register(public, ez.Action[loginIn, loginOut]{
			Method:  http.MethodPost,
			Path:    p,
			Binder:  ez.BindJSON,
			Handler: h.login,
		})
	}
	ez.Register(public, ez.Action[refreshIn, accessOut]{
		Method:  http.MethodPost,
		Path:    "/auth/token/refresh",
		Binder:  ez.BindJSON,
		Handler: h.refresh,
	})
	ez.Register(public, ez.Action[verifyIn, struct{}]{
		Method:  http.MethodPost,
		Path:    "/auth/token/verify",
		Binder:  ez.BindJSON,
		Handler: h.verify,
	})

	ez.Register(authed, ez.Action[refreshIn, struct{}]{
		Method:  http.MethodPost,
		Path:    "/auth/logout",
		Binder:  ez.BindJSON,
		Auth:    true,
		Handler: h.logout,
	})
	ez.Register(authed, ez.Action[struct{}, meOut]{
		Method:  http.MethodGet,
		Path:    "/me",
		Binder:  ez.BindNone,
		Auth:    true,
		Handler: h.me,
	})
}

func (h *Auth) register(c *gin.Context, _ auth.Identity, in *registerIn) (registerOut, error) {
	u, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Username: in.Username,
		Password: in.Password,
		Email:    in.Email,
		Role:     in.Role,
	})
	if err != nil {
		return registerOut{}, err
	}
	return registerOut{UserID: u.ID, Username: u.Username}, nil
}

func (h *Auth) login(c *gin.Context, _ auth.Identity, in *loginIn) (loginOut, error) {
	res, err := h.svc.Login(c.Request.Context(), in.Username, in.Password)
	if errors.Is(err, domain.ErrUnauthorized) {
		return loginOut{}, ez.Unauthorized("no active account found with the given credentials")
	}
	if err != nil {
		return loginOut{}, err
	}
	return loginOut{Access: res.Access, Refresh: res.Refresh, UserID: res.UserID, Username: res.Username}, nil
}

func (h *Auth) refresh(c *gin.Context, _ auth.Identity, in *refreshIn) (accessOut, error) {
	access, err := h.svc.Refresh(c.Request.Context(), in.Refresh)
	if errors.Is(err, domain.ErrUnauthorized) {
		return accessOut{}, ez.Unauthorized("token is invalid or expired")
	}
	if err != nil {
		return accessOut{}, err
	}
	return accessOut{Access: access}, nil
}

func (h *Auth) verify(c *gin.Context, _ auth.Identity, in *verifyIn) (struct{}, error) {
	err := h.svc.Verify(c.Request.Context(), in.Token)
	if errors.Is(err, domain.ErrUnauthorized) {
		return struct{}{}, ez.Unauthorized("token is invalid or expired")
	}
	return struct{}{}, err
}

func (h *Auth) logout(c *gin.Context, id auth.Identity, in *refreshIn) (struct{}, error) {
	return struct{}{}, h.svc.Logout(c.Request.Context(), id, in.Refresh)
}

func (h *Auth) me(c *gin.Context, id auth.Identity, _ *struct{}) (meOut, error) {
	u, err := h.svc.Me(c.Request.Context(), id)
	if err != nil {
		return meOut{}, err
	}
	return meOut{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role()}, nil
}

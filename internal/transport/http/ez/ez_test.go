package ez

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roomhub/internal/core/auth"
	"roomhub/internal/domain"
	resp "roomhub/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

type noteIn struct {
	Text  string `json:"text" binding:"required,max=10"`
	Email string `json:"email" binding:"omitempty,email"`
}

type noteOut struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// notes is owned by user 1 only.
type notes struct{ rows map[uint]string }

func (n *notes) List(_ context.Context, id auth.Identity) ([]noteOut, error) {
	if id.UserID != 1 {
		return nil, nil
	}
	out := []noteOut{}
	for k, v := range n.rows {
		out = append(out, noteOut{ID: k, Text: v})
	}
	return out, nil
}

func (n *notes) Get(_ context.Context, id auth.Identity, key uint) (noteOut, error) {
	v, ok := n.rows[key]
	if !ok || id.UserID != 1 {
		return noteOut{}, domain.ErrNotFound
	}
	return noteOut{ID: key, Text: v}, nil
}

func (n *notes) Create(_ context.Context, _ auth.Identity, in *noteIn) (noteOut, error) {
	if in.Text == "boom" {
		return noteOut{}, errors.New("db exploded: secret detail")
	}
	k := uint(len(n.rows) + 1)
	n.rows[k] = in.Text
	return noteOut{ID: k, Text: in.Text}, nil
}

func (n *notes) Update(ctx context.Context, id auth.Identity, key uint, in *noteIn) (noteOut, error) {
	if _, err := n.Get(ctx, id, key); err != nil {
		return noteOut{}, err
	}
	n.rows[key] = in.Text
	return noteOut{ID: key, Text: in.Text}, nil
}

func (n *notes) Delete(ctx context.Context, id auth.Identity, key uint) error {
	if _, err := n.Get(ctx, id, key); err != nil {
		return err
	}
	delete(n.rows, key)
	return nil
}

// fakeAuth lets the test pick the caller through a header.
func fakeAuth(c *gin.Context) {
	switch c.GetHeader("X-User") {
	case "1":
		c.Set("identity", auth.Identity{UserID: 1, Role: auth.RoleUser})
	case "2":
		c.Set("identity", auth.Identity{UserID: 2, Role: auth.RoleUser})
	}
	c.Next()
}

func newEngine() *gin.Engine {
	r := gin.New()
	g := r.Group("/api", fakeAuth)
	e := New(g, zap.NewNop())
	Crud[noteIn, noteOut](e, CrudConfig[noteIn, noteOut]{Path: "/notes", Service: &notes{rows: map[uint]string{1: "hello"}}})
	Register(e, Action[struct{}, gin.H]{
		Method: http.MethodGet, Path: "/admin-only", Roles: []string{auth.RoleAdmin},
		Handler: func(*gin.Context, auth.Identity, *struct{}) (gin.H, error) { return gin.H{}, nil },
	})
	Register(e, Action[struct{}, gin.H]{
		Method: http.MethodPost, Path: "/denied", Binder: BindNone,
		Handler: func(*gin.Context, auth.Identity, *struct{}) (gin.H, error) {
			return nil, Unauthorized("no active account found with the given credentials")
		},
	})
	return r
}

func call(r http.Handler, method, path, user, body string) (*httptest.ResponseRecorder, resp.Body) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var b resp.Body
	_ = json.Unmarshal(w.Body.Bytes(), &b)
	return w, b
}

func TestCrud_Routes(t *testing.T) {
	r := newEngine()

	tests := []struct {
		name, method, path, user, body string
		want                           int
	}{
		{"anonymous list", http.MethodGet, "/api/notes", "", "", http.StatusUnauthorized},
		{"list", http.MethodGet, "/api/notes", "1", "", http.StatusOK},
		{"get", http.MethodGet, "/api/notes/1", "1", "", http.StatusOK},
		{"get foreign", http.MethodGet, "/api/notes/1", "2", "", http.StatusNotFound},
		{"get bad id", http.MethodGet, "/api/notes/abc", "1", "", http.StatusNotFound},
		{"create", http.MethodPost, "/api/notes", "1", `{"text":"hi"}`, http.StatusCreated},
		{"create invalid", http.MethodPost, "/api/notes", "1", `{"text":""}`, http.StatusBadRequest},
		{"create malformed", http.MethodPost, "/api/notes", "1", `{"text":`, http.StatusBadRequest},
		{"create internal", http.MethodPost, "/api/notes", "1", `{"text":"boom"}`, http.StatusInternalServerError},
		{"update foreign", http.MethodPut, "/api/notes/1", "2", `{"text":"x"}`, http.StatusNotFound},
		{"put without id", http.MethodPut, "/api/notes", "1", `{"text":"x"}`, http.StatusBadRequest},
		{"delete without id", http.MethodDelete, "/api/notes", "1", "", http.StatusBadRequest},
		{"delete foreign", http.MethodDelete, "/api/notes/1", "2", "", http.StatusNotFound},
		{"delete", http.MethodDelete, "/api/notes/1", "1", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, b := call(r, tt.method, tt.path, tt.user, tt.body)
			require.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Equal(t, tt.want, b.Code)
			assert.Equal(t, tt.want < 400, b.Success)
		})
	}
}

func TestCrud_ErrorDetails(t *testing.T) {
	r := newEngine()

	_, b := call(r, http.MethodPost, "/api/notes", "1", `{"text":"this is far too long","email":"nope"}`)
	assert.Equal(t, resp.KindValidation, b.Error)
	assert.Equal(t, "ensure this field has no more than 10 characters", b.Errors["text"])
	assert.Equal(t, "enter a valid email address", b.Errors["email"])

	_, b = call(r, http.MethodPost, "/api/notes", "1", ``)
	assert.Equal(t, "this field is required", b.Errors["text"])

	w, b := call(r, http.MethodPost, "/api/notes", "1", `{"text":"boom"}`)
	assert.Equal(t, "internal error", b.Message)
	assert.NotContains(t, w.Body.String(), "secret detail")
}

func TestRegister_RolesAndAErr(t *testing.T) {
	r := newEngine()

	w, _ := call(r, http.MethodGet, "/api/admin-only", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = call(r, http.MethodGet, "/api/admin-only", "1", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, b := call(r, http.MethodPost, "/api/denied", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "no active account found with the given credentials", b.Message)
}

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("f", "bad"), http.StatusBadRequest},
		{domain.ErrConflict, http.StatusBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{errors.Join(errors.New("ctx"), domain.ErrNotFound), http.StatusNotFound},
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		WriteError(c, zap.NewNop(), tt.err)
		assert.Equal(t, tt.want, w.Code, tt.err.Error())
	}
}

package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roomhub/internal/core/auth"
	"roomhub/internal/repo"
	"roomhub/internal/repo/repotest"
	"roomhub/internal/service"
	"roomhub/internal/storage"
	"roomhub/internal/transport/http/handler"
)

func init() { gin.SetMode(gin.TestMode) }

type env struct {
	api, admin http.Handler
	adminSvc   *service.AdminService
	mediaDir   string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := repotest.NewDB(t)
	l := zap.NewNop()
	j := &auth.JWTer{Secret: []byte("router-test"), Issuer: "roomhub", AccessTTL: 15 * time.Minute, RefreshTTL: time.Hour}
	mediaDir := t.TempDir()
	store, err := storage.NewLocalStore(mediaDir, "/media")
	require.NoError(t, err)

	users, tokens, districts := repo.NewUserRepo(db), repo.NewTokenRepo(db), repo.NewDistrictRepo(db)
	adminSvc := service.NewAdminService(users, tokens, l)
	reg := (&Registry{}).Register(
		handler.NewAuth(service.NewAuthService(users, tokens, j, l)),
		handler.NewTodo(service.NewTodoService(repo.NewTodoRepo(db))),
		handler.NewRoom(service.NewRoomService(repo.NewRoomRepo(db), districts, store, l), store.URL),
		handler.NewDistrict(service.NewDistrictService(districts)),
		handler.NewCatalog(service.NewCatalogService(repo.NewCatalogRepo(db), nil, time.Minute, l)),
		handler.NewUsers(adminSvc),
	)
	o := Options{RPS: 1000, Burst: 1000, MediaDir: mediaDir, MediaURL: "/media"}
	return &env{
		api:      NewAPIEngine(l, j, reg, o),
		admin:    NewAdminEngine(l, j, reg, o),
		adminSvc: adminSvc,
		mediaDir: mediaDir,
	}
}

type envelope struct {
	Success bool              `json:"success"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func call(t *testing.T, h http.Handler, method, target, token string, body any) (int, envelope) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return serve(t, h, req, token)
}

func serve(t *testing.T, h http.Handler, req *http.Request, token string) (int, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	assert.Equal(t, w.Code, e.Code)
	return w.Code, e
}

func data[T any](t *testing.T, e envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(e.Data, &v))
	return v
}

type tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	UserID  uint   `json:"user_id"`
}

func signup(t *testing.T, e *env, username string) tokens {
	t.Helper()
	code, _ := call(t, e.api, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username, "password": "pw123", "email": username + "@example.com",
	})
	require.Equal(t, http.StatusCreated, code)
	return login(t, e, username, "pw123")
}

func login(t *testing.T, e *env, username, password string) tokens {
	t.Helper()
	code, body := call(t, e.api, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, code, body.Message)
	return data[tokens](t, body)
}

func TestTodoLifecycleAndLogout(t *testing.T) {
	e := newEnv(t)
	alice := signup(t, e, "alice")
	require.NotEmpty(t, alice.Access)
	require.NotEmpty(t, alice.Refresh)

	code, body := call(t, e.api, http.MethodPost, "/api/v1/todo", alice.Access, map[string]string{
		"title": "Buy milk", "description": "2%",
	})
	require.Equal(t, http.StatusCreated, code)
	created := data[map[string]any](t, body)
	assert.Equal(t, "Buy milk", created["title"])
	assert.Equal(t, "2%", created["description"])
	assert.NotContains(t, created, "user")
	assert.NotContains(t, created, "user_id")

	code, body = call(t, e.api, http.MethodGet, "/api/v1/todo", alice.Access, nil)
	require.Equal(t, http.StatusOK, code)
	list := data[struct {
		Count int              `json:"count"`
		Items []map[string]any `json:"items"`
	}](t, body)
	assert.Equal(t, 1, list.Count)

	code, _ = call(t, e.api, http.MethodPost, "/api/v1/auth/token/verify", "", map[string]string{"token": alice.Refresh})
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, e.api, http.MethodPost, "/api/v1/auth/logout", alice.Access, map[string]string{"refresh": alice.Refresh})
	require.Equal(t, http.StatusOK, code)

	code, body = call(t, e.api, http.MethodPost, "/api/v1/auth/token/refresh", "", map[string]string{"refresh": alice.Refresh})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthorized", body.Error)

	code, body = call(t, e.api, http.MethodPost, "/api/v1/auth/logout", alice.Access, map[string]string{"refresh": alice.Refresh})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body.Errors, "refresh")

	code, _ = call(t, e.api, http.MethodPost, "/api/v1/auth/token/verify", "", map[string]string{"token": alice.Refresh})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestOwnershipIsolation(t *testing.T) {
	e := newEnv(t)
	alice := signup(t, e, "alice")
	bob := signup(t, e, "bob")

	_, body := call(t, e.api, http.MethodPost, "/api/v1/todo", alice.Access, map[string]string{"title": "mine", "description": "d"})
	id := data[struct {
		ID uint `json:"id"`
	}](t, body).ID
	item := "/api/v1/todo/" + jsonNumber(id)

	for _, m := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		code, _ := call(t, e.api, m, item, bob.Access, map[string]string{"title": "hijack"})
		assert.Equal(t, http.StatusNotFound, code, m)
	}

	code, body := call(t, e.api, http.MethodGet, "/api/v1/todo", bob.Access, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, data[struct {
		Count int `json:"count"`
	}](t, body).Count)

	code, body = call(t, e.api, http.MethodDelete, "/api/v1/todo", alice.Access, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "id required", body.Message)

	code, _ = call(t, e.api, http.MethodGet, item, alice.Access, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAuthRejections(t *testing.T) {
	e := newEnv(t)
	alice := signup(t, e, "alice")

	code, _ := call(t, e.api, http.MethodGet, "/api/v1/todo", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, e.api, http.MethodGet, "/api/v1/todo", alice.Refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, code, "refresh token is not a bearer token")

	code, body := call(t, e.api, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "no active account found with the given credentials", body.Message)

	code, body = call(t, e.api, http.MethodPost, "/api/v1/auth/login", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body.Errors, "username")
	assert.Contains(t, body.Errors, "password")

	code, body = call(t, e.api, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "mallory", "password": "pw", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body.Errors, "role")

	code, body = call(t, e.api, http.MethodGet, "/api/v1/me", alice.Access, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", data[map[string]any](t, body)["username"])
}

func TestRoomMultipartUpload(t *testing.T) {
	e := newEnv(t)
	alice := signup(t, e, "alice")

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	req := multipartRoom(t, map[string]string{
		"title": "Sunny room", "content": "Near the lake", "price": "1500.50", "is_furnished": "furnished",
	}, map[string][]byte{"a.png": png})
	code, body := serve(t, e.api, req, alice.Access)
	require.Equal(t, http.StatusCreated, code, body.Errors)

	room := data[struct {
		ID          uint    `json:"id"`
		Price       float64 `json:"price"`
		IsFurnished string  `json:"is_furnished"`
		RoomImages  []struct {
			Image string `json:"image"`
		} `json:"room_images"`
	}](t, body)
	assert.Equal(t, 1500.50, room.Price)
	assert.Equal(t, "furnished", room.IsFurnished)
	require.Len(t, room.RoomImages, 1)
	url := room.RoomImages[0].Image
	require.True(t, strings.HasPrefix(url, "/media/room_images/"), url)

	stored := filepath.Join(e.mediaDir, filepath.FromSlash(strings.TrimPrefix(url, "/media/")))
	_, err := os.Stat(stored)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	e.api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	code, _ = call(t, e.api, http.MethodDelete, "/api/v1/room/"+jsonNumber(room.ID), alice.Access, nil)
	require.Equal(t, http.StatusOK, code)
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))
}

func TestRoomRejectsNonImage(t *testing.T) {
	e := newEnv(t)
	alice := signup(t, e, "alice")

	req := multipartRoom(t, map[string]string{"title": "t", "content": "c", "price": "10"},
		map[string][]byte{"notes.txt": []byte("just some text")})
	code, body := serve(t, e.api, req, alice.Access)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body.Errors, "images")

	entries, err := os.ReadDir(filepath.Join(e.mediaDir, "room_images"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	code, body = call(t, e.api, http.MethodPost, "/api/v1/room", alice.Access, map[string]any{
		"title": "Same", "content": "Same", "price": 10,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, body.Errors)
}

func TestAdminCatalogAndPublicReads(t *testing.T) {
	e := newEnv(t)
	_, err := e.adminSvc.EnsureAdmin(context.Background(), "root", "rootpw", "root@example.com")
	require.NoError(t, err)
	root := login(t, e, "root", "rootpw")
	alice := signup(t, e, "alice")

	code, _ := call(t, e.admin, http.MethodPost, "/admin/v1/cities", alice.Access, map[string]string{"name": "Pokhara"})
	assert.Equal(t, http.StatusForbidden, code)

	code, body := call(t, e.admin, http.MethodPost, "/admin/v1/cities", root.Access, map[string]string{"name": "Pokhara"})
	require.Equal(t, http.StatusCreated, code, body.Errors)
	cityID := data[struct {
		ID string `json:"id"`
	}](t, body).ID

	code, body = call(t, e.admin, http.MethodPost, "/admin/v1/tourism", root.Access, map[string]string{
		"city_id": cityID, "name": "Phewa Lake", "about": "lake", "location": "Lakeside",
	})
	require.Equal(t, http.StatusCreated, code, body.Errors)
	tourID := data[struct {
		ID string `json:"id"`
	}](t, body).ID

	code, body = call(t, e.api, http.MethodGet, "/api/v1/tourism?city_id="+cityID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, data[struct {
		Count int `json:"count"`
	}](t, body).Count)

	code, body = call(t, e.api, http.MethodGet, "/api/v1/tourism/"+tourID, "", nil)
	require.Equal(t, http.StatusOK, code)
	detail := data[map[string]any](t, body)
	assert.Equal(t, "Pokhara", detail["city_name"])
	assert.Equal(t, []any{}, detail["trip_planner"])

	code, _ = call(t, e.api, http.MethodGet, "/api/v1/cities/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(t, e.admin, http.MethodDelete, "/admin/v1/cities/"+cityID, root.Access, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = call(t, e.api, http.MethodGet, "/api/v1/tourism/"+tourID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAdminBanRevokesAccess(t *testing.T) {
	e := newEnv(t)
	_, err := e.adminSvc.EnsureAdmin(context.Background(), "root", "rootpw", "")
	require.NoError(t, err)
	root := login(t, e, "root", "rootpw")
	alice := signup(t, e, "alice")

	code, body := call(t, e.admin, http.MethodGet, "/admin/v1/users?q=ali", root.Access, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, data[struct {
		Total int64 `json:"total"`
	}](t, body).Total)

	code, _ = call(t, e.admin, http.MethodPost, "/admin/v1/users/"+jsonNumber(alice.UserID)+"/ban", root.Access, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, e.api, http.MethodPost, "/api/v1/auth/token/refresh", "", map[string]string{"refresh": alice.Refresh})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = call(t, e.api, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "alice", "password": "pw123"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = call(t, e.admin, http.MethodPost, "/admin/v1/tokens/prune", root.Access, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, data[map[string]any](t, body), "removed")
}

func TestHealthAndUnknownRoute(t *testing.T) {
	e := newEnv(t)
	w := httptest.NewRecorder()
	e.api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	code, body := call(t, e.api, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", body.Error)
}

func multipartRoom(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/room", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

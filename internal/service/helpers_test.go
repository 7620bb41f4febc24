package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"roomhub/internal/core/auth"
	"roomhub/internal/repo"
	"roomhub/internal/repo/repotest"
)

func testJWTer() *auth.JWTer {
	return &auth.JWTer{
		Secret:     []byte("service-test-secret"),
		Issuer:     "roomhub",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
}

type fixture struct {
	db    *gorm.DB
	auth  *AuthService
	admin *AdminService
	jwt   *auth.JWTer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repotest.NewDB(t)
	j := testJWTer()
	users, tokens := repo.NewUserRepo(db), repo.NewTokenRepo(db)
	return &fixture{
		db:    db,
		jwt:   j,
		auth:  NewAuthService(users, tokens, j, zap.NewNop()),
		admin: NewAdminService(users, tokens, zap.NewNop()),
	}
}

// memBlobs is an in-memory BlobStore that can be told to fail.
type memBlobs struct {
	mu      sync.Mutex
	files   map[string][]byte
	n       int
	failAt  int // 1-based Save call that fails, 0 never
	removed []string
}

func newMemBlobs() *memBlobs { return &memBlobs{files: map[string][]byte{}} }

func (m *memBlobs) Save(_ context.Context, name string, r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	if m.failAt == m.n {
		return "", errors.New("disk full")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	key := "room_images/" + string(rune('a'+m.n-1)) + "-" + name
	m.files[key] = b
	return key, nil
}

func (m *memBlobs) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, key)
	m.removed = append(m.removed, key)
	return nil
}

func (m *memBlobs) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func upload(name string, data []byte) ImageUpload {
	return ImageUpload{Filename: name, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}}
}

func ptr[T any](v T) *T { return &v }

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"yoga-api/internal/domain"
	"yoga-api/internal/repository"
	"yoga-api/internal/service"
)

const testSecret = "test-secret-with-enough-bytes-for-hs512-signing-0123456789abcdef"

type mockUserRepo struct {
	mu          sync.Mutex
	users       map[int64]domain.User
	nextID      int64
	deleteCalls int
}

func newMockUserRepo(users ...domain.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[int64]domain.User), nextID: 1}
	for _, u := range users {
		m.users[u.ID] = u
		if u.ID >= m.nextID {
			m.nextID = u.ID + 1
		}
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return user, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type mockSessionRepo struct {
	mu       sync.Mutex
	sessions map[int64]domain.Session
	nextID   int64
	calls    int
}

func newMockSessionRepo(sessions ...domain.Session) *mockSessionRepo {
	m := &mockSessionRepo{sessions: make(map[int64]domain.Session), nextID: 1}
	for _, s := range sessions {
		m.sessions[s.ID] = s
		if s.ID >= m.nextID {
			m.nextID = s.ID + 1
		}
	}
	return m
}

func (m *mockSessionRepo) FindAll(_ context.Context) ([]domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := make([]domain.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id int64) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	s, ok := m.sessions[id]
	if !ok {
		return domain.Session{}, repository.ErrNotFound
	}
	s.Users = append([]int64(nil), s.Users...)
	return s, nil
}

func (m *mockSessionRepo) Create(_ context.Context, session domain.Session) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	session.ID = m.nextID
	m.nextID++
	m.sessions[session.ID] = session
	return session, nil
}

func (m *mockSessionRepo) Save(_ context.Context, session domain.Session) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.sessions[session.ID]; !ok {
		return domain.Session{}, repository.ErrNotFound
	}
	m.sessions[session.ID] = session
	return session, nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

type mockTeacherRepo struct {
	teachers []domain.Teacher
}

func (m *mockTeacherRepo) FindAll(_ context.Context) ([]domain.Teacher, error) {
	return m.teachers, nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id int64) (domain.Teacher, error) {
	for _, t := range m.teachers {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Teacher{}, repository.ErrNotFound
}

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context) error { return m.err }

type testEnv struct {
	router   *gin.Engine
	users    *mockUserRepo
	sessions *mockSessionRepo
	tokens   *service.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	hasher := service.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("test1234")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := newMockUserRepo(
		domain.User{ID: 1, Email: "john@doe.com", FirstName: "John", LastName: "Doe", PasswordHash: hash},
		domain.User{ID: 2, Email: "other@doe.com", FirstName: "Other", LastName: "Doe", PasswordHash: hash},
	)
	teacherID := int64(1)
	sessions := newMockSessionRepo(domain.Session{
		ID:          1,
		Name:        "Morning flow",
		Date:        time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		Description: "Vinyasa",
		TeacherID:   &teacherID,
		Users:       []int64{},
	})
	teachers := &mockTeacherRepo{teachers: []domain.Teacher{
		{ID: 1, FirstName: "Margot", LastName: "Delahaye"},
		{ID: 2, FirstName: "Hélène", LastName: "Thiercelin"},
	}}

	tokens, err := service.NewTokenService(service.TokenConfig{Secret: testSecret, Expiration: time.Hour}, nil)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	limiter := service.NewLoginRateLimiter(time.Minute, 3, nil)
	authSvc := service.NewAuthService(logger, service.NewPasswordAuthenticator(users, hasher), users, hasher, tokens, limiter, nil)

	router := NewRouter(
		logger,
		JWTAuthMiddleware(logger, tokens, authSvc),
		NewAuthHandler(logger, authSvc),
		NewSessionHandler(logger, service.NewSessionService(logger, sessions, users, nil)),
		NewTeacherHandler(logger, service.NewTeacherService(teachers)),
		NewUserHandler(logger, service.NewUserService(logger, users)),
		NewHealthHandler(logger, mockPinger{}),
	)
	return &testEnv{router: router, users: users, sessions: sessions, tokens: tokens}
}

func (e *testEnv) tokenFor(t *testing.T, email string) string {
	t.Helper()
	token, err := e.tokens.Issue(email, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

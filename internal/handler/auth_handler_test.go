package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/clientman/internal/model"
)

// --- モック定義 ---

type mockAccountService struct {
	registerFn       func(ctx context.Context, username, email, plainPassword string) (*model.User, error)
	loginFn          func(ctx context.Context, username, plainPassword string) (*model.User, *model.Session, error)
	logoutFn         func(ctx context.Context, sessionID string) error
	getCurrentUserFn func(ctx context.Context, sessionID string) (*model.User, error)
}

func (m *mockAccountService) Register(ctx context.Context, username, email, plainPassword string) (*model.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, username, email, plainPassword)
	}
	return nil, nil
}

func (m *mockAccountService) Login(ctx context.Context, username, plainPassword string) (*model.User, *model.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, username, plainPassword)
	}
	return nil, nil, nil
}

func (m *mockAccountService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAccountService) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if m.getCurrentUserFn != nil {
		return m.getCurrentUserFn(ctx, sessionID)
	}
	return nil, nil
}

func testUser() *model.User {
	return &model.User{
		ID:        "user-1",
		Username:  "alice_dev",
		Email:     "alice@example.com",
		CreatedAt: time.Now(),
	}
}

// --- テスト ---

func TestAuthHandler_Register_Success_Returns201(t *testing.T) {
	svc := &mockAccountService{
		registerFn: func(ctx context.Context, username, email, plainPassword string) (*model.User, error) {
			return testUser(), nil
		},
	}

	h := NewAuthHandler(svc, nil, AuthHandlerConfig{})

	body := `{"username":"alice_dev","email":"alice@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var got userResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Username != "alice_dev" {
		t.Errorf("username = %q, want %q", got.Username, "alice_dev")
	}
}

func TestAuthHandler_Register_ValidationFailure_Returns422WithFields(t *testing.T) {
	svc := &mockAccountService{
		registerFn: func(ctx context.Context, username, email, plainPassword string) (*model.User, error) {
			return nil, model.NewValidationFailureError(map[string][]string{
				"username": {"username is taken"},
			})
		},
	}

	h := NewAuthHandler(svc, nil, AuthHandlerConfig{})

	body := `{"username":"alice_dev","email":"alice@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}

	var errBody struct {
		Code   string              `json:"code"`
		Fields map[string][]string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if errBody.Code != model.ErrCodeValidationFailure {
		t.Errorf("code = %q, want %q", errBody.Code, model.ErrCodeValidationFailure)
	}
	if got := errBody.Fields["username"]; len(got) != 1 || got[0] != "username is taken" {
		t.Errorf("fields[username] = %v, want [username is taken]", got)
	}
}

func TestAuthHandler_Register_InvalidJSON_Returns400(t *testing.T) {
	h := NewAuthHandler(&mockAccountService{}, nil, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{invalid"))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestAuthHandler_Login_Success_SetsSessionCookie(t *testing.T) {
	svc := &mockAccountService{
		loginFn: func(ctx context.Context, username, plainPassword string) (*model.User, *model.Session, error) {
			return testUser(), &model.Session{ID: "session-abc", UserID: "user-1"}, nil
		},
	}

	h := NewAuthHandler(svc, nil, AuthHandlerConfig{SessionMaxAge: 86400, CookieSecure: true})

	body := `{"username":"alice_dev","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("expected session_id cookie to be set")
	}
	if sessionCookie.Value != "session-abc" {
		t.Errorf("session cookie value = %q, want %q", sessionCookie.Value, "session-abc")
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if !sessionCookie.Secure {
		t.Error("session cookie must be Secure when configured")
	}
}

func TestAuthHandler_Login_WrongCredentials_Returns401(t *testing.T) {
	svc := &mockAccountService{
		loginFn: func(ctx context.Context, username, plainPassword string) (*model.User, *model.Session, error) {
			return nil, nil, model.NewWrongCredentialsError()
		},
	}

	h := NewAuthHandler(svc, nil, AuthHandlerConfig{})

	body := `{"username":"alice_dev","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	// 失敗時はセッションCookieを設定しない
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			t.Error("session cookie must not be set on login failure")
		}
	}
}

type mockAuthMetrics struct {
	registrations  int
	loginSuccesses int
	loginFailures  int
}

func (m *mockAuthMetrics) RecordRegistration() { m.registrations++ }
func (m *mockAuthMetrics) RecordLoginSuccess() { m.loginSuccesses++ }
func (m *mockAuthMetrics) RecordLoginFailure() { m.loginFailures++ }

// TestAuthHandler_Login_FailureMetricOnlyCountsWrongCredentials は
// ログイン失敗メトリクスが資格情報エラーのみを数え、リポジトリ障害などの
// インフラエラーでは増加しないことを検証する。
func TestAuthHandler_Login_FailureMetricOnlyCountsWrongCredentials(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantFailures int
	}{
		{name: "wrong credentials", err: model.NewWrongCredentialsError(), wantFailures: 1},
		{name: "infrastructure error", err: errors.New("connection refused"), wantFailures: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAccountService{
				loginFn: func(ctx context.Context, username, plainPassword string) (*model.User, *model.Session, error) {
					return nil, nil, tt.err
				},
			}
			metrics := &mockAuthMetrics{}
			h := NewAuthHandler(svc, metrics, AuthHandlerConfig{})

			body := `{"username":"alice_dev","password":"pw"}`
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
			w := httptest.NewRecorder()

			h.Login(w, req)

			if metrics.loginFailures != tt.wantFailures {
				t.Errorf("loginFailures = %d, want %d", metrics.loginFailures, tt.wantFailures)
			}
			if metrics.loginSuccesses != 0 {
				t.Errorf("loginSuccesses = %d, want 0", metrics.loginSuccesses)
			}
		})
	}
}

func TestAuthHandler_Logout_DeletesSessionAndClearsCookie(t *testing.T) {
	var deletedSessionID string
	svc := &mockAccountService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			deletedSessionID = sessionID
			return nil
		},
	}

	h := NewAuthHandler(svc, nil, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "session-abc"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if deletedSessionID != "session-abc" {
		t.Errorf("deleted session = %q, want %q", deletedSessionID, "session-abc")
	}

	cleared := false
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be cleared")
	}
}

func TestAuthHandler_Me_ReturnsCurrentUser(t *testing.T) {
	svc := &mockAccountService{
		getCurrentUserFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			if sessionID == "session-abc" {
				return testUser(), nil
			}
			return nil, model.NewUserNotFoundError()
		},
	}

	h := NewAuthHandler(svc, nil, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "session-abc"})
	w := httptest.NewRecorder()

	h.Me(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got userResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("id = %q, want %q", got.ID, "user-1")
	}
}

func TestAuthHandler_Me_NoCookie_Returns401(t *testing.T) {
	h := NewAuthHandler(&mockAccountService{}, nil, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

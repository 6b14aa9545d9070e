package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/clientman/internal/model"
	"github.com/hitoshi/clientman/internal/password"
	"github.com/hitoshi/clientman/internal/repository"
)

// ServiceConfig はアカウントサービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service はユーザー登録・認証のビジネスロジックを提供する。
// 状態を変更する操作はすべてこのサービス層を経由する。
type Service struct {
	users        repository.UserRepository
	sessions     repository.SessionRepository
	hasher       password.Hasher
	registerForm *RegisterForm
	loginForm    *LoginForm
	config       ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	hasher password.Hasher,
	config ServiceConfig,
) *Service {
	return &Service{
		users:        users,
		sessions:     sessions,
		hasher:       hasher,
		registerForm: NewRegisterForm(users),
		loginForm:    NewLoginForm(),
		config:       config,
	}
}

// Register はユーザー登録を実行する。
// フォーム検証を通過した場合のみパスワードをハッシュ化してユーザーを作成する。
// 生パスワードは決して永続化しない。
func (s *Service) Register(ctx context.Context, username, email, plainPassword string) (*model.User, error) {
	errs, err := s.registerForm.Submit(ctx, username, email, plainPassword)
	if err != nil {
		return nil, err
	}
	if !errs.Valid() {
		return nil, model.NewValidationFailureError(errs)
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// 事前チェックと作成は原子的でないため、同時登録の競合では
		// 事前チェックを通過してもDBの一意制約で弾かれることがある。
		// その場合も事前チェックと同じ"is taken"エラーとして返す。
		var dup *repository.DuplicateKeyError
		if errors.As(err, &dup) {
			return nil, model.NewValidationFailureError(duplicateUserFields(dup.Constraint))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// duplicateUserFields は違反した制約名からフィールド別エラーを導出する。
func duplicateUserFields(constraint string) map[string][]string {
	switch constraint {
	case "users_username_key":
		return map[string][]string{"username": {"username is taken"}}
	case "users_email_key":
		return map[string][]string{"email": {"email is taken"}}
	default:
		return map[string][]string{
			"username": {"username is taken"},
			"email":    {"email is taken"},
		}
	}
}

// Login は認証情報を検証し、成功時にセッションを発行する。
// 入力不備・ユーザー不存在・パスワード不一致はすべて同一の不透明なエラーを返し、
// アカウントの存在有無を外部から区別できないようにする。
func (s *Service) Login(ctx context.Context, username, plainPassword string) (*model.User, *model.Session, error) {
	if !s.loginForm.Submit(username, plainPassword) {
		return nil, nil, model.NewWrongCredentialsError()
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, nil, model.NewWrongCredentialsError()
	}

	if !s.hasher.Check(user.PasswordHash, plainPassword) {
		return nil, nil, model.NewWrongCredentialsError()
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
	)

	return user, session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessions.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found or expired")
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	return user, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

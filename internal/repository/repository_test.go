package repository

import (
	"errors"
	"testing"

	"github.com/lib/pq"
)

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// PostgresClientRepoはClientRepositoryインターフェースを満たすことを検証
func TestPostgresClientRepo_ImplementsInterface(t *testing.T) {
	var _ ClientRepository = (*PostgresClientRepo)(nil)
}

// PostgresSessionRepoはSessionRepositoryインターフェースを満たすことを検証
func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

// NewPostgresUserRepoが正しく初期化されることを検証
func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresClientRepoが正しく初期化されることを検証
func TestNewPostgresClientRepo_Initializes(t *testing.T) {
	repo := NewPostgresClientRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresSessionRepoが正しく初期化されることを検証
func TestNewPostgresSessionRepo_Initializes(t *testing.T) {
	repo := NewPostgresSessionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// TestAsDuplicateKeyError_UniqueViolation はpqの23505がDuplicateKeyErrorに変換されることを検証する。
func TestAsDuplicateKeyError_UniqueViolation(t *testing.T) {
	pqErr := &pq.Error{
		Code:       "23505",
		Constraint: "users_username_key",
	}

	dup := asDuplicateKeyError(pqErr)
	if dup == nil {
		t.Fatal("expected DuplicateKeyError for unique_violation")
	}
	if dup.Constraint != "users_username_key" {
		t.Errorf("Constraint = %s, want users_username_key", dup.Constraint)
	}

	// errors.Isでセンチネルと照合できること
	if !errors.Is(dup, ErrDuplicateKey) {
		t.Error("DuplicateKeyError should match ErrDuplicateKey via errors.Is")
	}
}

// TestAsDuplicateKeyError_OtherError は23505以外のエラーがnilになることを検証する。
func TestAsDuplicateKeyError_OtherError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "pq foreign key violation", err: &pq.Error{Code: "23503"}},
		{name: "plain error", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if dup := asDuplicateKeyError(tt.err); dup != nil {
				t.Errorf("expected nil, got %v", dup)
			}
		})
	}
}

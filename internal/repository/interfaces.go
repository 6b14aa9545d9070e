// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/clientman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// username/emailの一意制約違反はDuplicateKeyErrorとして返す。
	Create(ctx context.Context, user *model.User) error
}

// ClientRepository はAPIクライアントデータの永続化インターフェース。
type ClientRepository interface {
	// FindByID は指定IDのクライアントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Client, error)

	// FindByName はクライアント名でクライアントを検索する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Client, error)

	// ListByUserID は指定ユーザーが所有するクライアント一覧を作成日時順で返す。
	// 所有クライアントが存在しない場合は空スライスを返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Client, error)

	// Create はクライアントを作成する。
	// nameおよび(client_id, client_secret)の一意制約違反はDuplicateKeyErrorとして返す。
	Create(ctx context.Context, client *model.Client) error

	// DeleteByID は指定IDのクライアントを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

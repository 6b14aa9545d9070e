package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/clientman/internal/authz"
	"github.com/hitoshi/clientman/internal/model"
	"github.com/hitoshi/clientman/internal/repository"
	"github.com/hitoshi/clientman/internal/secret"
)

// Service はAPIクライアント管理のビジネスロジックを提供する。
// 状態を変更する操作はすべてこのサービス層を経由し、
// 破壊的操作は実行前に認可チェックを通す。
type Service struct {
	clients    repository.ClientRepository
	secrets    secret.Generator
	authorizer *authz.Authorizer
	form       *CreateForm
}

// NewService はServiceを生成し、クライアントの認可ポリシーをレジストリへ登録する。
func NewService(
	clients repository.ClientRepository,
	secrets secret.Generator,
	authorizer *authz.Authorizer,
) *Service {
	authorizer.Register("client", NewPolicy())

	return &Service{
		clients:    clients,
		secrets:    secrets,
		authorizer: authorizer,
		form:       NewCreateForm(clients),
	}
}

// Create はアクターが所有する新しいAPIクライアントを登録する。
// フォーム検証を通過した場合のみclient_idとclient_secretを独立に生成し永続化する。
func (s *Service) Create(ctx context.Context, actor *model.User, name, callbackURL string) (*model.Client, error) {
	if actor == nil {
		return nil, model.NewUnauthorizedError()
	}

	errs, err := s.form.Submit(ctx, name, callbackURL)
	if err != nil {
		return nil, err
	}
	if !errs.Valid() {
		return nil, model.NewValidationFailureError(errs)
	}

	clientID, err := s.secrets.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate client_id: %w", err)
	}
	clientSecret, err := s.secrets.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate client_secret: %w", err)
	}

	client := &model.Client{
		ID:           uuid.New().String(),
		UserID:       actor.ID,
		Name:         name,
		CallbackURL:  callbackURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		CreatedAt:    time.Now(),
	}

	if err := s.clients.Create(ctx, client); err != nil {
		// 事前チェックと作成は原子的でないため、同時登録の競合では
		// DBの一意制約で弾かれることがある。name制約は事前チェックと同じエラーにする。
		var dup *repository.DuplicateKeyError
		if errors.As(err, &dup) && dup.Constraint == "clients_name_key" {
			return nil, model.NewValidationFailureError(map[string][]string{
				"name": {"name is already taken"},
			})
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	slog.Info("new client registered",
		slog.String("client_id", client.ID),
		slog.String("user_id", actor.ID),
		slog.String("name", name),
	)

	return client, nil
}

// List はアクターが所有するクライアント一覧を返す。
// 所有クライアントが存在しない場合も空スライスの成功として扱う。
func (s *Service) List(ctx context.Context, actor *model.User) ([]*model.Client, error) {
	if actor == nil {
		return nil, model.NewUnauthorizedError()
	}

	clients, err := s.clients.ListByUserID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	return clients, nil
}

// Delete は指定IDのクライアントを削除する。
// クライアントが存在しない場合はCLIENT_NOT_FOUND、
// アクターが所有者でない場合はUNAUTHORIZEDを返し、レコードは削除されない。
func (s *Service) Delete(ctx context.Context, actor *model.User, clientID string) error {
	client, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to find client: %w", err)
	}
	if client == nil {
		return model.NewClientNotFoundError(clientID)
	}

	if err := s.authorizer.Check(actor, client, authz.ActionDelete); err != nil {
		return err
	}

	if err := s.clients.DeleteByID(ctx, client.ID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	slog.Info("client deleted",
		slog.String("client_id", client.ID),
		slog.String("user_id", actor.ID),
	)

	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/clientman/internal/model"
)

// PostgresClientRepo はPostgreSQLを使用したAPIクライアントリポジトリ。
type PostgresClientRepo struct {
	db *sql.DB
}

// NewPostgresClientRepo はPostgresClientRepoを生成する。
func NewPostgresClientRepo(db *sql.DB) *PostgresClientRepo {
	return &PostgresClientRepo{db: db}
}

// FindByID は指定IDのクライアントを取得する。見つからない場合はnilを返す。
func (r *PostgresClientRepo) FindByID(ctx context.Context, id string) (*model.Client, error) {
	client := &model.Client{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, callback_url, client_id, client_secret, created_at
		 FROM clients WHERE id = $1`,
		id,
	).Scan(
		&client.ID, &client.UserID, &client.Name, &client.CallbackURL,
		&client.ClientID, &client.ClientSecret, &client.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client by ID: %w", err)
	}

	return client, nil
}

// FindByName はクライアント名でクライアントを検索する。見つからない場合はnilを返す。
func (r *PostgresClientRepo) FindByName(ctx context.Context, name string) (*model.Client, error) {
	client := &model.Client{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, callback_url, client_id, client_secret, created_at
		 FROM clients WHERE name = $1`,
		name,
	).Scan(
		&client.ID, &client.UserID, &client.Name, &client.CallbackURL,
		&client.ClientID, &client.ClientSecret, &client.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client by name: %w", err)
	}

	return client, nil
}

// ListByUserID は指定ユーザーが所有するクライアント一覧を作成日時順で返す。
// 所有クライアントが存在しない場合は空スライスを返す。
func (r *PostgresClientRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, callback_url, client_id, client_secret, created_at
		 FROM clients WHERE user_id = $1 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []*model.Client{}
	for rows.Next() {
		client := &model.Client{}
		if err := rows.Scan(
			&client.ID, &client.UserID, &client.Name, &client.CallbackURL,
			&client.ClientID, &client.ClientSecret, &client.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate client rows: %w", err)
	}

	return clients, nil
}

// Create はクライアントを作成する。
// nameおよび(client_id, client_secret)の一意制約違反はDuplicateKeyErrorとして返す。
func (r *PostgresClientRepo) Create(ctx context.Context, client *model.Client) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (id, user_id, name, callback_url, client_id, client_secret, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		client.ID, client.UserID, client.Name, client.CallbackURL,
		client.ClientID, client.ClientSecret, client.CreatedAt,
	)
	if err != nil {
		if dup := asDuplicateKeyError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのクライアントを削除する。
func (r *PostgresClientRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM clients WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("client not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ ClientRepository = (*PostgresClientRepo)(nil)

// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashにはbcryptハッシュのみを保持し、生パスワードは決して永続化しない。
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Client はユーザーが登録したAPIクライアント（アプリケーション）を表す。
// ClientIDとClientSecretは発行時に生成される不透明なシークレット。
type Client struct {
	ID           string
	UserID       string
	Name         string
	CallbackURL  string
	ClientID     string
	ClientSecret string
	CreatedAt    time.Time
}

// RecordKind は認可ポリシー選択用のレコード種別を返す。
func (c *Client) RecordKind() string {
	return "client"
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// バリデーション失敗の場合はFieldsにフィールド別のエラーメッセージを保持する。
type APIError struct {
	Code     string              // エラーコード
	Message  string              // エラーメッセージ
	Category string              // カテゴリ: auth, validation, system
	Action   string              // ユーザー向け対処方法
	Fields   map[string][]string // フィールド別エラーメッセージ（バリデーション失敗時のみ）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailure = "VALIDATION_FAILURE"
	ErrCodeWrongCredentials  = "WRONG_CREDENTIALS"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeClientNotFound    = "CLIENT_NOT_FOUND"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
)

// NewValidationFailureError はフィールド別の詳細を含むバリデーション失敗エラーを生成する。
func NewValidationFailureError(fields map[string][]string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailure,
		Message:  "入力内容に誤りがあります。",
		Category: "validation",
		Action:   "各フィールドのエラーメッセージを確認して修正してください。",
		Fields:   fields,
	}
}

// NewWrongCredentialsError はログイン失敗エラーを生成する。
// ユーザー不存在・パスワード不一致・入力不備のいずれも同一のエラーを返し、
// アカウントの存在有無を外部から区別できないようにする。
func NewWrongCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeWrongCredentials,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "ユーザー名とパスワードを確認して再度お試しください。",
	}
}

// NewUnauthorizedError は認可拒否エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "この操作を実行する権限がありません。",
		Category: "auth",
		Action:   "自分が所有するリソースのみ操作できます。",
	}
}

// NewClientNotFoundError はクライアント未検出エラーを生成する。
func NewClientNotFoundError(clientID string) *APIError {
	return &APIError{
		Code:     ErrCodeClientNotFound,
		Message:  fmt.Sprintf("指定されたクライアントが見つかりません: %s", clientID),
		Category: "validation",
		Action:   "クライアントIDを確認してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

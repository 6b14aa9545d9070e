// Package client はAPIクライアント管理のドメインロジックを提供する。
package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hitoshi/clientman/internal/model"
	"github.com/hitoshi/clientman/internal/validation"
)

// ClientFinder はフォームの一意性チェックに必要なリポジトリインターフェース。
// repository.ClientRepositoryの部分集合として定義する。
type ClientFinder interface {
	FindByName(ctx context.Context, name string) (*model.Client, error)
}

// CreateForm はクライアント登録入力のバリデーションを行う。
type CreateForm struct {
	clients ClientFinder
	schema  *validation.Schema
}

// NewCreateForm はCreateFormを生成する。
func NewCreateForm(clients ClientFinder) *CreateForm {
	return &CreateForm{
		clients: clients,
		schema: validation.NewSchema(
			validation.FieldRule{Field: "name", Rules: "required,notblank,min=2,max=255"},
			validation.FieldRule{Field: "callback_url", Rules: "required,notblank,min=5,max=255"},
		),
	}
}

// Submit はクライアント登録入力を検証し、フィールド別エラーマッピングを返す。
// スキーマを通過したnameのみ一意性チェックを行い、
// スキーマを通過したcallback_urlのみHTTPS URLとしての構文チェックを行う。
// errorはリポジトリ障害などのインフラエラーのみを表す。
func (f *CreateForm) Submit(ctx context.Context, name, callbackURL string) (validation.Errors, error) {
	errs := f.schema.Validate(map[string]string{
		"name":         name,
		"callback_url": callbackURL,
	})

	if !errs.HasError("name") {
		existing, err := f.clients.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to check client name uniqueness: %w", err)
		}
		if existing != nil {
			errs.Add("name", "name is already taken")
		}
	}

	if !errs.HasError("callback_url") && !isHTTPSURL(callbackURL) {
		errs.Add("callback_url", "callback_url is invalid")
	}

	return errs, nil
}

// isHTTPSURL は文字列が構文的に有効なHTTPS URLかを判定する。
// パース失敗と非HTTPSスキームはどちらも無効として扱い、
// パースエラー自体は外へ伝播させない。
func isHTTPSURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host != ""
}

// Package account はユーザー登録と認証のドメインロジックを提供する。
package account

import (
	"context"
	"fmt"

	"github.com/hitoshi/clientman/internal/model"
	"github.com/hitoshi/clientman/internal/validation"
)

// UserFinder はフォームの一意性チェックに必要なリポジトリインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// RegisterForm はユーザー登録入力のバリデーションを行う。
// スキーマ検証の後、スキーマを通過したフィールドに対してのみ
// リポジトリを用いた一意性チェックを行う。
type RegisterForm struct {
	users  UserFinder
	schema *validation.Schema
}

// NewRegisterForm はRegisterFormを生成する。
func NewRegisterForm(users UserFinder) *RegisterForm {
	return &RegisterForm{
		users: users,
		schema: validation.NewSchema(
			validation.FieldRule{Field: "username", Rules: "required,notblank,min=5,max=25"},
			validation.FieldRule{Field: "email", Rules: "required,notblank,email"},
			validation.FieldRule{Field: "password", Rules: "required,notblank,min=6,max=64"},
		),
	}
}

// Submit は登録入力を検証し、フィールド別エラーマッピングを返す。
// 空マッピングは入力が有効であることを意味する。
// スキーマ違反が出たフィールドには一意性チェックを行わない（フィールド単位の短絡）。
// errorはリポジトリ障害などのインフラエラーのみを表す。
func (f *RegisterForm) Submit(ctx context.Context, username, email, password string) (validation.Errors, error) {
	errs := f.schema.Validate(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})

	if !errs.HasError("username") {
		existing, err := f.users.FindByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
		}
		if existing != nil {
			errs.Add("username", "username is taken")
		}
	}

	if !errs.HasError("email") {
		existing, err := f.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if existing != nil {
			errs.Add("email", "email is taken")
		}
	}

	return errs, nil
}

// LoginForm はログイン入力のバリデーションを行う。
// 結果はフィールド別詳細を持たない単一の真偽値に畳み込む。
// どのフィールドに不備があったかを外部へ漏らさないため。
type LoginForm struct {
	schema *validation.Schema
}

// NewLoginForm はLoginFormを生成する。
func NewLoginForm() *LoginForm {
	return &LoginForm{
		schema: validation.NewSchema(
			validation.FieldRule{Field: "username", Rules: "required,notblank"},
			validation.FieldRule{Field: "password", Rules: "required,notblank"},
		),
	}
}

// Submit はログイン入力を検証し、有効かどうかのみを返す。
func (f *LoginForm) Submit(username, password string) bool {
	errs := f.schema.Validate(map[string]string{
		"username": username,
		"password": password,
	})
	return errs.Valid()
}

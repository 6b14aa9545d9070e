// Package authz はアクターとレコードに対するアクション単位の認可判定を提供する。
package authz

import (
	"github.com/hitoshi/clientman/internal/model"
)

// Action は認可対象のアクション名を表す。
type Action string

const (
	// ActionDelete はレコードの削除アクションを示す。
	ActionDelete Action = "delete"
)

// Record は認可判定の対象となるレコードのインターフェース。
// レコード種別ごとにポリシーを選択するためのキーを提供する。
type Record interface {
	RecordKind() string
}

// Policy はレコード種別ごとの認可ポリシー。
// エンティティを提供するパッケージが自身のポリシー実装を登録する。
type Policy interface {
	// Allows はアクターがレコードに対してアクションを実行できるかを判定する。
	Allows(actor *model.User, record Record, action Action) bool
}

// Authorizer はレコード種別からポリシーへのレジストリ。
// 新しいエンティティの認可はRegisterの追加のみで拡張でき、本体の変更を要しない。
type Authorizer struct {
	policies map[string]Policy
}

// NewAuthorizer は空のAuthorizerを生成する。
func NewAuthorizer() *Authorizer {
	return &Authorizer{
		policies: make(map[string]Policy),
	}
}

// Register はレコード種別に対するポリシーを登録する。
func (a *Authorizer) Register(kind string, policy Policy) {
	a.policies[kind] = policy
}

// Check はアクターがレコードに対してアクションを実行できるかを判定する。
// 許可ならnil、拒否ならUNAUTHORIZEDエラーを返す。
// ポリシー未登録のレコード種別は常に拒否する。
func (a *Authorizer) Check(actor *model.User, record Record, action Action) error {
	if actor == nil || record == nil {
		return model.NewUnauthorizedError()
	}

	policy, ok := a.policies[record.RecordKind()]
	if !ok {
		return model.NewUnauthorizedError()
	}

	if !policy.Allows(actor, record, action) {
		return model.NewUnauthorizedError()
	}

	return nil
}

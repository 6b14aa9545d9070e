package client

import (
	"github.com/hitoshi/clientman/internal/authz"
	"github.com/hitoshi/clientman/internal/model"
)

// Policy はクライアントレコードに対する認可ポリシー。
// 削除は所有者本人にのみ許可する。
type Policy struct{}

// NewPolicy はPolicyを生成する。
func NewPolicy() *Policy {
	return &Policy{}
}

// Allows はアクターがクライアントに対してアクションを実行できるかを判定する。
// 未知のアクションは常に拒否する。
func (p *Policy) Allows(actor *model.User, record authz.Record, action authz.Action) bool {
	client, ok := record.(*model.Client)
	if !ok {
		return false
	}

	switch action {
	case authz.ActionDelete:
		return client.UserID == actor.ID
	default:
		return false
	}
}

// compile-time interface check
var _ authz.Policy = (*Policy)(nil)

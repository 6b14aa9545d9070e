// Package password はパスワードの一方向ハッシュ化と検証を提供する。
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher はパスワードハッシュ化の能力インターフェース。
type Hasher interface {
	// Hash は生パスワードから一方向ハッシュを生成する。
	Hash(plain string) (string, error)
	// Check はハッシュと生パスワードの一致を検証する。
	Check(hashed, plain string) bool
}

// maxPasswordBytes はbcryptが鍵導出に使用する最大バイト数。
// 従来のbcrypt実装は72バイトを超える入力を黙って切り詰めるが、
// Goのbcrypt.GenerateFromPasswordはエラーを返すため、両操作で明示的に切り詰める。
const maxPasswordBytes = 72

// BcryptHasher はbcryptによるHasher実装。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher はBcryptHasherを生成する。
// costが範囲外の場合はbcrypt.DefaultCostを使用する。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash は生パスワードからbcryptハッシュを生成する。
// マルチバイト文字を含むパスワードが72バイトを超える場合も先頭72バイトで成功する。
func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(truncate(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// Check はbcryptハッシュと生パスワードの一致を検証する。
// Hashと同じ切り詰めを適用し、同一パスワードの往復が常に一致するようにする。
func (h *BcryptHasher) Check(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), truncate(plain)) == nil
}

func truncate(plain string) []byte {
	b := []byte(plain)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// compile-time interface check
var _ Hasher = (*BcryptHasher)(nil)

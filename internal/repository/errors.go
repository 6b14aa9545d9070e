package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrDuplicateKey は一意制約違反を表すセンチネルエラー。
// errors.Isによる判定に使用する。
var ErrDuplicateKey = errors.New("duplicate key value")

// DuplicateKeyError は一意制約違反の詳細を保持する。
// アプリケーション層の事前チェックと作成の間には競合の余地があるため、
// ストレージ層の制約違反が正しさの最終的な砦となる。
// Constraintには違反した制約名（例: users_username_key）が入る。
type DuplicateKeyError struct {
	Constraint string
}

// Error はerrorインターフェースを実装する。
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key value violates constraint %q", e.Constraint)
}

// Is はErrDuplicateKeyとの同一性判定を可能にする。
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// asDuplicateKeyError はPostgreSQLのunique_violation(23505)をDuplicateKeyErrorに変換する。
// 該当しないエラーの場合はnilを返す。
func asDuplicateKeyError(err error) *DuplicateKeyError {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return &DuplicateKeyError{Constraint: pqErr.Constraint}
	}
	return nil
}

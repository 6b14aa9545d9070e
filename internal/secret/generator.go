// Package secret は不透明なランダム識別子の生成を提供する。
package secret

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator はシークレット生成の能力インターフェース。
// クライアント認証情報（client_id / client_secret）の発行に使用する。
type Generator interface {
	// Generate は暗号的に安全な不透明文字列を生成する。
	Generate() (string, error)
}

// HexGenerator はcrypto/randによるGenerator実装。
// 指定バイト数の乱数を16進文字列として返す。
type HexGenerator struct {
	size int
}

// NewHexGenerator はHexGeneratorを生成する。
// sizeが0以下の場合は32バイト（64桁の16進文字列）を使用する。
func NewHexGenerator(size int) *HexGenerator {
	if size <= 0 {
		size = 32
	}
	return &HexGenerator{size: size}
}

// Generate は暗号的に安全なランダム16進文字列を生成する。
func (g *HexGenerator) Generate() (string, error) {
	b := make([]byte, g.size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// compile-time interface check
var _ Generator = (*HexGenerator)(nil)

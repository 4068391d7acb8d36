// Package extractor は「(テキスト, 言語) -> 信頼度つき特徴候補」という抽出能力を
// 差し替え可能なインターフェースとして定義します。既定は正規表現ベースの
// RegexExtractor で、統計的NERやLLMによる代替戦略を継承エンジンへ手を入れずに
// 差し込めます。
package extractor

import (
	"context"

	"github.com/shouni/go-scene-dna/pkg/domain"
	"github.com/shouni/go-scene-dna/pkg/taxonomy"
)

// Candidate は正規化前の抽出済み特徴1件です。
type Candidate struct {
	Category taxonomy.Category
	// Feature はタクソノミ上の特徴名です（規則はこの名前に固定で紐づきます）。
	Feature string
	// Subject はキャラクター系カテゴリでの対象キャラクター名です。
	// 環境などの非キャラクター系では空になります。
	Subject string
	// RawValue は本文中の生の表現です。
	RawValue string
	// Token はパターンが直接指した正規トークンです。空の場合は
	// taxonomy.Normalize による正規化が必要です。
	Token      string
	Confidence float64
}

// Extractor は特徴抽出戦略の契約です。実装はチャンク間の状態を持たず、
// 同一入力に対して同一の候補列を返す必要があります。
type Extractor interface {
	Extract(ctx context.Context, text string, lang domain.Language, characters []string) ([]Candidate, error)
}

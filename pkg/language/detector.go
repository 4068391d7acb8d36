// Package language は台本全体（またはチャンク単位）の主要言語を、
// 文字集合・文法マーカー・文化的語彙・脚本構造の4系統のシグナルから判定します。
package language

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/shouni/go-scene-dna/pkg/domain"
)

// シグナル系統ごとの合成重みです。合計で1.0になります。
const (
	weightCharset    = 0.30
	weightGrammar    = 0.25
	weightLexical    = 0.25
	weightStructural = 0.20
)

// FallbackConfidence は、どのシグナルも発火しなかった場合に
// 既定言語へ割り当てる信頼度です。
const FallbackConfidence = 0.5

// candidates は判定対象の候補言語です。順序はタイブレークの決定性を担保します。
var candidates = []domain.Language{
	domain.LangEnglish,
	domain.LangVietnamese,
	domain.LangJapanese,
}

// Evidence は判定根拠となったシグナル1件分の記録です。
type Evidence struct {
	Signal   string          `json:"signal"`
	Language domain.Language `json:"language"`
	Score    float64         `json:"score"`
	Detail   string          `json:"detail"`
}

// Result は言語判定の結果です。
type Result struct {
	Language   domain.Language `json:"language"`
	Confidence float64         `json:"confidence"`
	Evidence   []Evidence      `json:"evidence"`
}

// Detector は参照透過な言語判定器です。同一テキストに対する再判定は
// コンテンツハッシュをキーにメモ化され、チャンク単位の再実行でも
// 追加コストがかかりません。判定器自体は1回の処理ごとに生成します。
type Detector struct {
	memo  *cache.Cache
	group singleflight.Group
}

// NewDetector は新しい Detector を生成します。
func NewDetector() *Detector {
	return &Detector{
		memo: cache.New(10*time.Minute, 30*time.Minute),
	}
}

// Detect はテキストの主要言語と信頼度、根拠のリストを返します。
// どのシグナルも発火しない場合は既定言語を信頼度0.5で返し、決して失敗しません。
func (d *Detector) Detect(text string) Result {
	key := contentKey(text)
	if cached, ok := d.memo.Get(key); ok {
		return cached.(Result)
	}

	// 同じテキストの同時判定は1回の計算へ集約します。
	v, _, _ := d.group.Do(key, func() (interface{}, error) {
		r := detect(text)
		d.memo.SetDefault(key, r)
		return r, nil
	})
	return v.(Result)
}

func detect(text string) Result {
	charset := charsetScores(text)
	grammar := grammarScores(text)
	lexical := lexicalScores(text)
	structural := structuralScores(text)

	best := Result{Language: domain.FallbackLanguage, Confidence: 0}
	for _, lang := range candidates {
		composite := weightCharset*charset[lang] +
			weightGrammar*grammar[lang] +
			weightLexical*lexical[lang] +
			weightStructural*structural[lang]
		if composite > best.Confidence {
			best.Language = lang
			best.Confidence = composite
		}
	}

	if best.Confidence == 0 {
		return Result{
			Language:   domain.FallbackLanguage,
			Confidence: FallbackConfidence,
			Evidence: []Evidence{{
				Signal:   "fallback",
				Language: domain.FallbackLanguage,
				Score:    FallbackConfidence,
				Detail:   "言語シグナルが検出されなかったため既定言語を採用",
			}},
		}
	}

	best.Evidence = collectEvidence(best.Language, charset, grammar, lexical, structural)
	if best.Confidence > 1.0 {
		best.Confidence = 1.0
	}
	return best
}

// collectEvidence は勝者言語について発火したシグナル系統を列挙します。
func collectEvidence(lang domain.Language, charset, grammar, lexical, structural map[domain.Language]float64) []Evidence {
	groups := []struct {
		name   string
		scores map[domain.Language]float64
	}{
		{"charset", charset},
		{"grammar_markers", grammar},
		{"cultural_lexicon", lexical},
		{"script_structure", structural},
	}

	var evidence []Evidence
	for _, g := range groups {
		if score := g.scores[lang]; score > 0 {
			evidence = append(evidence, Evidence{
				Signal:   g.name,
				Language: lang,
				Score:    score,
				Detail:   fmt.Sprintf("%s signal fired at %.2f", g.name, score),
			})
		}
	}
	return evidence
}

func contentKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}

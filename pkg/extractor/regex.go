package extractor

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/shouni/go-scene-dna/pkg/domain"
	"github.com/shouni/go-scene-dna/pkg/taxonomy"
)

// characterCategories はキャラクター単位で帰属させるカテゴリです。
var characterCategories = []taxonomy.Category{
	taxonomy.CategoryAnthropology,
	taxonomy.CategoryAppearance,
}

// globalCategories はチャンク本文全体から抽出するカテゴリです。
var globalCategories = []taxonomy.Category{
	taxonomy.CategoryEnvironment,
	taxonomy.CategoryVisualStyle,
	taxonomy.CategoryAudioVisual,
	taxonomy.CategoryNarrative,
	taxonomy.CategoryEmotions,
	taxonomy.CategoryAtmosphere,
}

var ageRegex = regexp.MustCompile(`\b(\d{1,3})\b`)

// RegexExtractor はタクソノミ表の言語別パターンだけで動く既定の抽出戦略です。
// ネットワークも外部状態も持たず、決定的に動作します。
type RegexExtractor struct {
	table *taxonomy.Table
}

// NewRegexExtractor は既定の抽出戦略を生成します。
func NewRegexExtractor(table *taxonomy.Table) *RegexExtractor {
	return &RegexExtractor{table: table}
}

// Extract はチャンク本文から全カテゴリの特徴候補を収集します。
// キャラクター系カテゴリは注釈括弧と名前を含む文に帰属範囲を絞り、
// それ以外は本文全体を走査します。
func (re *RegexExtractor) Extract(ctx context.Context, text string, lang domain.Language, characters []string) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []Candidate

	for _, name := range characters {
		scope := characterScope(text, name, characters)
		if scope == "" {
			continue
		}
		for _, cat := range characterCategories {
			out = append(out, re.scanCategory(cat, scope, lang, name)...)
		}
		out = append(out, re.scanAge(scope, name)...)
	}

	for _, cat := range globalCategories {
		out = append(out, re.scanCategory(cat, text, lang, "")...)
	}

	return out, nil
}

// scanCategory は指定カテゴリの全特徴定義のパターンをテキストへ適用します。
// 同一特徴で複数パターンが発火した場合は信頼度最大の1件だけを残します。
func (re *RegexExtractor) scanCategory(cat taxonomy.Category, text string, lang domain.Language, subject string) []Candidate {
	var out []Candidate
	for _, def := range re.table.DefsByCategory(cat) {
		var best *Candidate
		for _, vp := range def.PatternsFor(lang) {
			m := vp.Pattern.FindString(text)
			if m == "" {
				continue
			}
			if best == nil || vp.Confidence > best.Confidence {
				best = &Candidate{
					Category:   cat,
					Feature:    def.Name,
					Subject:    subject,
					RawValue:   m,
					Token:      vp.Token,
					Confidence: vp.Confidence,
				}
			}
		}
		if best != nil {
			out = append(out, *best)
		}
	}
	return out
}

// scanAge は注釈内の数値年齢を age_group へ割り当てる特例です。
func (re *RegexExtractor) scanAge(scope, name string) []Candidate {
	m := ageRegex.FindStringSubmatch(scope)
	if m == nil {
		return nil
	}
	years, err := strconv.Atoi(m[1])
	if err != nil || years <= 0 || years > 120 {
		return nil
	}
	return []Candidate{{
		Category:   taxonomy.CategoryAnthropology,
		Feature:    "age_group",
		Subject:    name,
		RawValue:   m[1],
		Token:      taxonomy.AgeGroupForYears(years),
		Confidence: 0.90,
	}}
}

// characterScope は名前の注釈括弧と、名前が現れる文を連結した帰属範囲を返します。
// 同じ文に他キャラクターの注釈が含まれる場合、その注釈の中身は範囲から除外し、
// 別人の記述が紛れ込むのを防ぎます。
func characterScope(text, name string, all []string) string {
	var parts []string

	// 注釈括弧: NAME (...) または NAME（...）
	for _, m := range annotationRegex(name).FindAllStringSubmatch(text, -1) {
		parts = append(parts, m[1])
	}

	// 名前を含む文（他キャラクターの注釈は落とす）
	stripped := text
	for _, other := range all {
		if strings.EqualFold(other, name) {
			continue
		}
		stripped = annotationRegex(other).ReplaceAllString(stripped, other)
	}
	lowerName := strings.ToLower(name)
	for _, sentence := range splitSentencesRough(stripped) {
		if strings.Contains(strings.ToLower(sentence), lowerName) {
			parts = append(parts, sentence)
		}
	}

	return strings.Join(parts, " ")
}

func annotationRegex(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name) + `\s*[（(]([^)）]*)[)）]`)
}

func splitSentencesRough(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '。' || r == '！' || r == '？' || r == '\n'
	})
}

// Package taxonomy は、抽出された生の表現を閉じた言語非依存語彙へ正規化するための
// 対応表を提供します。特徴名ごとの継承規則・許容トークン・言語別パターンを
// 1箇所の表に集約し、全コンポーネントがこの表だけを参照します。
package taxonomy

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shouni/go-scene-dna/pkg/domain"
)

// Category は特徴が属するグループです。フィンガープリントのマップ構成と対応します。
type Category string

const (
	CategoryAnthropology Category = "character_anthropology"
	CategoryAppearance   Category = "character_appearance"
	CategoryEnvironment  Category = "environment"
	CategoryVisualStyle  Category = "visual_style"
	CategoryAudioVisual  Category = "audio_visual"
	CategoryNarrative    Category = "narrative"
	CategoryEmotions     Category = "emotions"
	CategoryAtmosphere   Category = "atmosphere"
)

// ValuePattern は生テキスト中の表現と、対応する正規化トークンの組です。
type ValuePattern struct {
	Pattern    *regexp.Regexp
	Token      string
	Confidence float64
}

// FeatureDef は閉じたタクソノミにおける1特徴の完全な定義です。
// Policy は特徴名の固定属性であり、検出のたびに変わることはありません。
type FeatureDef struct {
	Name        string
	Category    Category
	Policy      domain.InheritancePolicy
	ValidValues []string
	// Patterns は言語別の抽出パターンです。未定義の言語は英語パターンへ
	// フォールバックします。
	Patterns map[domain.Language][]ValuePattern
	// CrossLang は他言語の語彙から正規トークンへの直接対応表です。
	CrossLang map[string]string
}

// Table はタクソノミ全体を保持する読み取り専用の表です。
type Table struct {
	defs  map[string]FeatureDef
	order []string // 決定的な列挙のための定義順
}

// NewTable は既定のタクソノミ定義を組み立てて返します。
func NewTable() *Table {
	defs := defaultDefs()
	t := &Table{defs: make(map[string]FeatureDef, len(defs))}
	for _, def := range defs {
		t.defs[def.Name] = def
		t.order = append(t.order, def.Name)
	}
	return t
}

// Lookup は特徴名から定義を引きます。
func (t *Table) Lookup(name string) (FeatureDef, bool) {
	def, ok := t.defs[name]
	return def, ok
}

// PolicyOf は特徴名に対応する継承規則を返します。
// 未登録の特徴はシーン限りとして扱います。
func (t *Table) PolicyOf(name string) domain.InheritancePolicy {
	if def, ok := t.defs[name]; ok {
		return def.Policy
	}
	return domain.PolicyChange
}

// DefsByCategory は指定カテゴリの定義を名前順で返します。
func (t *Table) DefsByCategory(cat Category) []FeatureDef {
	var defs []FeatureDef
	for _, name := range t.order {
		if def := t.defs[name]; def.Category == cat {
			defs = append(defs, def)
		}
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// PatternsFor は指定言語のパターン群を返します。未定義の言語は英語へフォールバックします。
func (def FeatureDef) PatternsFor(lang domain.Language) []ValuePattern {
	if ps, ok := def.Patterns[lang]; ok && len(ps) > 0 {
		return ps
	}
	return def.Patterns[domain.LangEnglish]
}

// Normalize は生の表現を (category, featureName) の閉じた語彙へ正規化します。
// 完全一致 → 言語間直接対応 → 部分文字列包含の順に試し、どれにも該当しない
// 場合は語彙の先頭トークンを安全な既定値として返します。新しいトークンを
// 発明することはありません。
func (t *Table) Normalize(raw string, cat Category, featureName string) string {
	def, ok := t.defs[featureName]
	if !ok || def.Category != cat || len(def.ValidValues) == 0 {
		return ""
	}

	needle := strings.ToLower(strings.TrimSpace(raw))

	// 1. 完全一致
	for _, v := range def.ValidValues {
		if needle == v {
			return v
		}
	}

	// 2. 言語間の直接対応
	if token, ok := def.CrossLang[needle]; ok {
		return token
	}

	// 3. 部分文字列の包含
	for _, v := range def.ValidValues {
		if strings.Contains(needle, v) || strings.Contains(v, needle) {
			return v
		}
	}

	// 4. 既定値（語彙は閉じているため先頭トークンに丸める）
	return def.ValidValues[0]
}

// AgeGroupForYears は数値年齢を age_group の正規トークンへ割り当てます。
func AgeGroupForYears(years int) string {
	switch {
	case years < 13:
		return "child"
	case years < 20:
		return "teen"
	case years < 36:
		return "young_adult"
	case years < 60:
		return "middle_aged"
	default:
		return "elderly"
	}
}

// Package character はチャンク本文から登場キャラクター名を、
// 信頼度つきの多段パターン照合と文脈再検証で抽出します。
package character

import (
	"sort"
	"strings"
	"unicode"

	"github.com/shouni/go-scene-dna/pkg/domain"
)

const (
	// 各照合段の基礎信頼度です。
	confSpeakerLine = 0.95
	confAnnotation  = 0.90
	confHonorific   = 0.70

	// AcceptThreshold は候補を採用する合計信頼度の下限です。
	AcceptThreshold = 0.70

	minNameLen = 3
	maxNameLen = 15
)

// tier は照合段の種別です。
type tier int

const (
	tierSpeakerLine tier = iota
	tierAnnotation
	tierHonorific
)

// candidate は集計中の候補1件分の内部状態です。
type candidate struct {
	confidence float64
	tiers      map[tier]struct{}
}

// Extractor は言語別規則でキャラクター名を抽出します。
type Extractor struct {
	lang  domain.Language
	rules nameRules
}

// New は言語別の抽出規則を備えた Extractor を生成します。
func New(lang domain.Language) *Extractor {
	return &Extractor{lang: lang, rules: nameRulesFor(lang)}
}

// Extract はチャンク本文から検証済みキャラクター名のソート済み集合を返します。
func (e *Extractor) Extract(chunkText string) []string {
	return e.ExtractWithKnown(chunkText, nil)
}

// ExtractWithKnown は通常の抽出に加え、前のチャンクまでに確定した既知の名前が
// 本文中に再登場していれば（照合段に掛からない平文の言及でも）結果へ含めます。
// 脚本では一度導入されたキャラクターは以後説明なしで言及されるため、
// 既知名の再出現は照合段よりも緩い規則で拾います。
func (e *Extractor) ExtractWithKnown(chunkText string, known []string) []string {
	found := make(map[string]struct{})

	for name, c := range e.collectCandidates(chunkText) {
		if !e.validate(name, c, chunkText) {
			continue
		}
		found[name] = struct{}{}
	}

	for _, name := range known {
		if _, ok := found[name]; ok {
			continue
		}
		if e.mentions(chunkText, name) {
			found[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// collectCandidates は3段のパターンを走らせ、正規化した候補名ごとに
// 信頼度を合算し、発火した段の種別を記録します。
func (e *Extractor) collectCandidates(text string) map[string]*candidate {
	cands := make(map[string]*candidate)

	add := func(raw string, t tier, conf float64) {
		name := normalizeName(raw)
		if name == "" {
			return
		}
		c, ok := cands[name]
		if !ok {
			c = &candidate{tiers: make(map[tier]struct{})}
			cands[name] = c
		}
		c.confidence += conf
		c.tiers[t] = struct{}{}
	}

	for _, m := range e.rules.speakerLine.FindAllStringSubmatch(text, -1) {
		add(m[1], tierSpeakerLine, confSpeakerLine)
	}
	for _, m := range e.rules.annotation.FindAllStringSubmatch(text, -1) {
		add(m[1], tierAnnotation, confAnnotation)
	}
	for _, m := range e.rules.honorific.FindAllStringSubmatch(text, -1) {
		add(m[1], tierHonorific, confHonorific)
	}
	return cands
}

// validate は長さ・除外語・語形・合計信頼度・文脈再出現の全関門を適用します。
func (e *Extractor) validate(name string, c *candidate, text string) bool {
	runes := []rune(name)
	if len(runes) < minNameLen || len(runes) > maxNameLen {
		return false
	}
	if _, excluded := e.rules.stopWords[strings.ToLower(name)]; excluded {
		return false
	}
	if !e.rules.nameShape.MatchString(name) {
		return false
	}
	if c.confidence < AcceptThreshold {
		return false
	}
	// 意味のある文脈（台詞行または描写的な括弧）での出現を最低1回要求し、
	// 一般語の誤検出を抑えます。
	contexts, spoken := e.meaningfulContexts(text, name)
	if _, hon := c.tiers[tierHonorific]; hon && len(c.tiers) == 1 {
		// 敬称段(0.70)だけで拾った候補は一般語を巻き込みやすいため、
		// 再出現か台詞動詞の裏づけを追加で要求します。
		return contexts >= 2 || spoken
	}
	return contexts >= 1
}

// meaningfulContexts は候補名が台詞行・描写括弧・台詞動詞の近傍に
// 現れた回数を数え、台詞動詞つきの文脈が1つでもあったかを併せて返します。
func (e *Extractor) meaningfulContexts(text, name string) (int, bool) {
	count := 0
	spoken := false
	upper := strings.ToUpper(name)
	for _, line := range strings.Split(text, "\n") {
		for _, sentence := range splitRough(line) {
			if !containsName(sentence, name) && !containsName(sentence, upper) {
				continue
			}
			if e.rules.dialogueVerb.MatchString(sentence) {
				spoken = true
				count++
				continue
			}
			if strings.Contains(sentence, "(") || // 描写的な括弧
				strings.Contains(sentence, ":") || strings.Contains(sentence, "：") || // 話者行
				strings.ContainsAny(sentence, `"“」`) {
				count++
			}
		}
	}
	return count, spoken
}

// mentions は既知名の平文での再出現を判定します。大文字小文字は無視します。
func (e *Extractor) mentions(text, name string) bool {
	return containsName(strings.ToLower(text), strings.ToLower(name))
}

// containsName は語境界を考慮した単純な包含判定です。
func containsName(s, name string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], name)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(name)
		beforeOK := start == 0 || !isWordRune(lastRuneBefore(s, start))
		afterOK := end == len(s) || !isWordRune(firstRuneAt(s, end))
		if beforeOK && afterOK {
			return true
		}
		idx = end
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func lastRuneBefore(s string, i int) rune {
	r, _ := decodeLastRune(s[:i])
	return r
}

func firstRuneAt(s string, i int) rune {
	for _, r := range s[i:] {
		return r
	}
	return 0
}

func decodeLastRune(s string) (rune, int) {
	var last rune
	var size int
	for i, r := range s {
		last = r
		size = len(s) - i
	}
	return last, size
}

// normalizeName は候補文字列を整形（前後空白の除去とタイトルケース化）します。
func normalizeName(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	runes := []rune(strings.ToLower(raw))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// splitRough は文脈判定用の粗い文分割です。
func splitRough(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '。'
	})
}

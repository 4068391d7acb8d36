package character

import (
	"regexp"

	"github.com/shouni/go-scene-dna/pkg/domain"
)

// nameRules は言語ごとの名前抽出規則です。
type nameRules struct {
	// speakerLine: 名前が単独で1行を占める、または直後にコロンが続く形。
	speakerLine *regexp.Regexp
	// annotation: 名前の直後に年齢・外見の注釈括弧が続く形。
	annotation *regexp.Regexp
	// honorific: 敬称・肩書きが名前に先行する形。
	honorific *regexp.Regexp
	// nameShape: 正規化後の候補が満たすべき語形。
	nameShape *regexp.Regexp
	// dialogueVerb: 文脈再検証で台詞行とみなす動詞。
	dialogueVerb *regexp.Regexp
	stopWords    map[string]struct{}
}

var (
	enNameRules = nameRules{
		speakerLine:  regexp.MustCompile(`(?m)^\s*([A-Z][A-Za-z]{1,14})\s*(?::|：|$)`),
		annotation:   regexp.MustCompile(`\b([A-Z][A-Za-z]{1,14})\s*\(([^)]*)\)`),
		honorific:    regexp.MustCompile(`\b(?:Mr\.|Mrs\.|Ms\.|Dr\.|Miss|Sir|Lady|Captain)\s+([A-Z][A-Za-z]{1,14})\b`),
		nameShape:    regexp.MustCompile(`^\p{Lu}\p{Ll}+$`),
		dialogueVerb: regexp.MustCompile(`(?i)\b(says?|said|asks?|asked|replies|replied|greets?|shouts?|whispers?)\b`),
		stopWords:    toSet("the", "and", "then", "but", "she", "they", "him", "her", "int", "ext", "cut", "fade", "scene", "morning", "night", "day", "evening", "suddenly", "meanwhile"),
	}

	viNameRules = nameRules{
		speakerLine:  regexp.MustCompile(`(?m)^\s*([\p{Lu}][\p{L}]{1,14})\s*(?::|：|$)`),
		annotation:   regexp.MustCompile(`([\p{Lu}][\p{L}]{1,14})\s*\(([^)]*)\)`),
		honorific:    regexp.MustCompile(`(?:^|[\s,.])(?:[Aa]nh|[Cc]hị|Ông|ông|[Bb]à|[Cc]ô|[Cc]hú|[Bb]ác|[Tt]hầy|[Ee]m)\s+([\p{Lu}][\p{L}]{1,14})`),
		nameShape:    regexp.MustCompile(`^\p{Lu}\p{Ll}+$`),
		dialogueVerb: regexp.MustCompile(`(?i)(nói|hỏi|đáp|trả lời|chào|hét|thì thầm)`),
		stopWords:    toSet("anh", "chị", "ông", "bà", "cô", "chú", "em", "ngày", "buổi", "sáng", "chiều", "tối", "cảnh", "nội", "ngoại", "rồi", "nhưng"),
	}

	jaNameRules = nameRules{
		speakerLine:  regexp.MustCompile(`(?m)^\s*([一-龠ァ-ヶぁ-んA-Za-z]{2,8})\s*(?:：|:|「)`),
		annotation:   regexp.MustCompile(`([一-龠ァ-ヶぁ-んA-Za-z]{2,8})\s*[（(]([^)）]*)[)）]`),
		honorific:    regexp.MustCompile(`([一-龠ァ-ヶぁ-んA-Za-z]{2,8})(?:さん|くん|ちゃん|様|先生)`),
		nameShape:    regexp.MustCompile(`^[\p{L}]+$`),
		dialogueVerb: regexp.MustCompile(`(と言った|と尋ねた|と答えた|と叫んだ)`),
		stopWords:    toSet("それから", "しかし", "そして", "シーン", "カット", "朝", "夜", "昼"),
	}
)

func nameRulesFor(lang domain.Language) nameRules {
	switch lang {
	case domain.LangVietnamese:
		return viNameRules
	case domain.LangJapanese:
		return jaNameRules
	default:
		return enNameRules
	}
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

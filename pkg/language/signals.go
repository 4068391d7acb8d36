package language

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shouni/go-scene-dna/pkg/domain"
)

// ベトナム語の拡張アルファベットに属する文字です。
const vietnameseLetters = "àáảãạăằắẳẵặâầấẩẫậèéẻẽẹêềếểễệìíỉĩịòóỏõọôồốổỗộơờớởỡợùúủũụưừứửữựỳýỷỹỵđ" +
	"ÀÁẢÃẠĂẰẮẲẴẶÂẦẤẨẪẬÈÉẺẼẸÊỀẾỂỄỆÌÍỈĨỊÒÓỎÕỌÔỒỐỔỖỘƠỜỚỞỠỢÙÚỦŨỤƯỪỨỬỮỰỲÝỶỸỴĐ"

var (
	grammarPatterns = map[domain.Language]*regexp.Regexp{
		domain.LangEnglish:    regexp.MustCompile(`(?i)\b(the|and|of|to|is|was|are|with|that)\b`),
		domain.LangVietnamese: regexp.MustCompile(`(?i)(\bcủa\b|\blà\b|\bvà\b|\bkhông\b|\bđược\b|\bđã\b|\bsẽ\b|\bmột\b|\bnhững\b)`),
		domain.LangJapanese:   regexp.MustCompile(`(は|が|を|に|で|した|です|ます|だった)`),
	}

	lexicalPatterns = map[domain.Language]*regexp.Regexp{
		domain.LangEnglish:    regexp.MustCompile(`\b(Mr\.|Mrs\.|Ms\.|John|Mary|New York|London|Street)\b`),
		domain.LangVietnamese: regexp.MustCompile(`(Nguyễn|Trần|Phạm|Hà Nội|Sài Gòn|\banh\b|\bchị\b|\bông\b|\bbà\b|\bem\b)`),
		domain.LangJapanese:   regexp.MustCompile(`(さん|ちゃん|くん|様|東京|京都|大阪)`),
	}

	structuralPatterns = map[domain.Language]*regexp.Regexp{
		domain.LangEnglish:    regexp.MustCompile(`(?m)(^\s*(INT\.|EXT\.)|FADE IN|CUT TO|^[A-Z][A-Z ]{2,14}:)`),
		domain.LangVietnamese: regexp.MustCompile(`(?m)(^\s*(NỘI\.|NGOẠI\.|CẢNH)|CHUYỂN CẢNH|^[A-ZĐÀ-Ỹ][A-ZĐÀ-Ỹ ]{2,14}:)`),
		domain.LangJapanese:   regexp.MustCompile(`(?m)(^\s*[○●◯]|シーン|カット|^\s*[ぁ-んァ-ヶ一-龠]{1,8}[「：])`),
	}
)

// charsetScores は各候補言語の拡張アルファベットに属する文字の割合を採点します。
func charsetScores(text string) map[domain.Language]float64 {
	var letters, viLetters, jaLetters, asciiLetters int
	for _, r := range text {
		switch {
		case strings.ContainsRune(vietnameseLetters, r):
			letters++
			viLetters++
		case unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han):
			letters++
			jaLetters++
		case unicode.IsLetter(r):
			letters++
			if r < 128 {
				asciiLetters++
			}
		}
	}

	scores := map[domain.Language]float64{}
	if letters == 0 {
		return scores
	}

	// ベトナム語・日本語は固有文字が少量でも強いシグナルになるため増幅します。
	scores[domain.LangVietnamese] = clamp01(float64(viLetters) / float64(letters) * 10)
	scores[domain.LangJapanese] = clamp01(float64(jaLetters) / float64(letters) * 3)
	if viLetters == 0 && jaLetters == 0 {
		scores[domain.LangEnglish] = clamp01(float64(asciiLetters) / float64(letters))
	}
	return scores
}

// grammarScores は文法マーカーの出現密度を語数あたりで採点します。
func grammarScores(text string) map[domain.Language]float64 {
	return densityScores(text, grammarPatterns, 8)
}

// lexicalScores は地名・敬称・人名などの文化的語彙を採点します。
func lexicalScores(text string) map[domain.Language]float64 {
	return densityScores(text, lexicalPatterns, 30)
}

// structuralScores は脚本特有の構造（話者行、シーン指示語）を採点します。
func structuralScores(text string) map[domain.Language]float64 {
	scores := map[domain.Language]float64{}
	lines := strings.Count(text, "\n") + 1
	for lang, p := range structuralPatterns {
		hits := len(p.FindAllStringIndex(text, -1))
		if hits > 0 {
			scores[lang] = clamp01(float64(hits) / float64(lines) * 4)
		}
	}
	return scores
}

// densityScores はパターンの出現回数を語数で正規化して採点する共通処理です。
// perWords はスコア1.0に必要な「N語あたり1ヒット」の基準です。
func densityScores(text string, patterns map[domain.Language]*regexp.Regexp, perWords float64) map[domain.Language]float64 {
	scores := map[domain.Language]float64{}
	words := len(strings.Fields(text))
	if words == 0 {
		// 日本語は空白で分かち書きしないため概算の字数を語数の代わりに使います。
		words = len([]rune(text)) / 2
	}
	if words == 0 {
		return scores
	}
	for lang, p := range patterns {
		hits := len(p.FindAllStringIndex(text, -1))
		if hits > 0 {
			scores[lang] = clamp01(float64(hits) * perWords / float64(words))
		}
	}
	return scores
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

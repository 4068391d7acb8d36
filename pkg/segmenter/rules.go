package segmenter

import (
	"regexp"
	"strings"

	"github.com/shouni/go-scene-dna/pkg/domain"
)

// ruleSet は言語ごとの分割・分類規則の束です。
type ruleSet struct {
	sceneBoundary  *regexp.Regexp
	sentenceEnd    *regexp.Regexp
	dialogueCue    *regexp.Regexp
	actionVerbs    *regexp.Regexp
	emotionalWords *regexp.Regexp
	toneWords      map[domain.Tone]*regexp.Regexp
}

var (
	enRules = ruleSet{
		sceneBoundary:  regexp.MustCompile(`(?i)^(INT\.|EXT\.|FADE (IN|OUT)|CUT TO|DISSOLVE TO|SCENE \d+)`),
		sentenceEnd:    regexp.MustCompile(`[.!?]+(\s+|$)`),
		dialogueCue:    regexp.MustCompile(`(?m)(^[A-Z][A-Z ]{1,14}:|"[^"]+"|\b(says?|said|asks?|asked|replies|replied|greets?)\b)`),
		actionVerbs:    regexp.MustCompile(`(?i)\b(runs?|jumps?|fights?|chases?|grabs?|throws?|rushes|slams?|strikes?|leaps?)\b`),
		emotionalWords: regexp.MustCompile(`(?i)\b(cries|weeps|trembles|embraces|whispers|sobs)\b`),
		toneWords: map[domain.Tone]*regexp.Regexp{
			domain.ToneTense:    regexp.MustCompile(`(?i)\b(danger|threat|fear|dark|scream|blood)\b`),
			domain.ToneJoyful:   regexp.MustCompile(`(?i)\b(laugh|smile|happy|celebrate|joy)\b`),
			domain.ToneSomber:   regexp.MustCompile(`(?i)\b(funeral|grief|tears|loss|mourn)\b`),
			domain.ToneRomantic: regexp.MustCompile(`(?i)\b(love|kiss|tender|embrace|heart)\b`),
		},
	}

	viRules = ruleSet{
		sceneBoundary:  regexp.MustCompile(`(?i)^(NỘI\.|NGOẠI\.|CẢNH \d+|CHUYỂN CẢNH|MỜ DẦN)`),
		sentenceEnd:    regexp.MustCompile(`[.!?]+(\s+|$)`),
		dialogueCue:    regexp.MustCompile(`(?m)(^[A-ZĐÀ-Ỹ][A-ZĐÀ-Ỹ ]{1,14}:|“[^”]+”|"[^"]+"|\b(nói|hỏi|đáp|trả lời|chào)\b)`),
		actionVerbs:    regexp.MustCompile(`(?i)(chạy|nhảy|đánh|đuổi|ném|lao|vồ|đập)`),
		emotionalWords: regexp.MustCompile(`(?i)(khóc|run rẩy|ôm chặt|thì thầm|nức nở)`),
		toneWords: map[domain.Tone]*regexp.Regexp{
			domain.ToneTense:    regexp.MustCompile(`(?i)(nguy hiểm|đe dọa|sợ hãi|bóng tối|hét lên)`),
			domain.ToneJoyful:   regexp.MustCompile(`(?i)(cười|vui|hạnh phúc|ăn mừng)`),
			domain.ToneSomber:   regexp.MustCompile(`(?i)(đám tang|đau buồn|nước mắt|mất mát)`),
			domain.ToneRomantic: regexp.MustCompile(`(?i)(yêu|nụ hôn|dịu dàng|trái tim)`),
		},
	}

	jaRules = ruleSet{
		sceneBoundary:  regexp.MustCompile(`^([○●◯]|シーン\d+|カットへ|暗転|場面転換)`),
		sentenceEnd:    regexp.MustCompile(`[。！？.!?]+(\s+|$)`),
		dialogueCue:    regexp.MustCompile(`(「[^」]*」|と言った|と尋ねた|と答えた)`),
		actionVerbs:    regexp.MustCompile(`(走り|飛び|殴り|追いかけ|投げ|駆け)`),
		emotionalWords: regexp.MustCompile(`(泣き|震え|抱きしめ|ささやき)`),
		toneWords: map[domain.Tone]*regexp.Regexp{
			domain.ToneTense:    regexp.MustCompile(`(危険|脅威|恐怖|闇|悲鳴)`),
			domain.ToneJoyful:   regexp.MustCompile(`(笑い|嬉し|幸せ|祝い)`),
			domain.ToneSomber:   regexp.MustCompile(`(葬儀|悲しみ|涙|喪失)`),
			domain.ToneRomantic: regexp.MustCompile(`(愛|キス|優し|胸の高鳴り)`),
		},
	}
)

func rulesFor(lang domain.Language) ruleSet {
	switch lang {
	case domain.LangVietnamese:
		return viRules
	case domain.LangJapanese:
		return jaRules
	default:
		return enRules
	}
}

// splitSentences は文末記号で区切り、前後の空白を落とした文のリストを返します。
func (r ruleSet) splitSentences(text string) []string {
	var sentences []string
	rest := text
	for {
		loc := r.sentenceEnd.FindStringIndex(rest)
		if loc == nil {
			break
		}
		if s := strings.TrimSpace(rest[:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		rest = rest[loc[1]:]
	}
	if s := strings.TrimSpace(rest); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// classifySceneType は語彙的な手がかりからシーン種別を分類します。
// 台詞の合図を最優先し、次に感情表現、アクション動詞の順で判定します。
func (s *Segmenter) classifySceneType(content string) domain.SceneType {
	r := s.rules
	switch {
	case r.dialogueCue.MatchString(content):
		return domain.SceneDialogue
	case r.emotionalWords.MatchString(content):
		return domain.SceneEmotional
	case r.actionVerbs.MatchString(content):
		return domain.SceneAction
	default:
		return domain.SceneEstablishing
	}
}

// classifyPacing はアクション動詞の密度から展開速度を推定します。
func (s *Segmenter) classifyPacing(content string) domain.Pacing {
	words := len(strings.Fields(content))
	if words == 0 {
		words = len([]rune(content)) / 2
	}
	if words == 0 {
		return domain.PacingModerate
	}
	hits := len(s.rules.actionVerbs.FindAllStringIndex(content, -1))
	density := float64(hits) / float64(words)
	switch {
	case density >= 0.08:
		return domain.PacingFast
	case hits == 0 && words > 30:
		return domain.PacingSlow
	default:
		return domain.PacingModerate
	}
}

// classifyTone は感情キーワードのヒット数が最大のトーンを返します。
func (s *Segmenter) classifyTone(content string) domain.Tone {
	best := domain.ToneNeutral
	bestHits := 0
	// 列挙順を固定して決定性を保つ
	for _, tone := range []domain.Tone{domain.ToneTense, domain.ToneJoyful, domain.ToneSomber, domain.ToneRomantic} {
		p, ok := s.rules.toneWords[tone]
		if !ok {
			continue
		}
		if hits := len(p.FindAllStringIndex(content, -1)); hits > bestHits {
			best = tone
			bestHits = hits
		}
	}
	return best
}

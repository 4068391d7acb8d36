package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shouni/go-gemini-client/gemini"
	"golang.org/x/time/rate"

	"github.com/shouni/go-scene-dna/pkg/domain"
	"github.com/shouni/go-scene-dna/pkg/taxonomy"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

// GeminiExtractor は Gemini にチャンク本文を渡し、タクソノミ表の特徴名に
// 沿った候補を JSON で返させる代替抽出戦略です。抽出の失敗は呼び出し側の
// 縮退処理（そのチャンクの該当カテゴリを空にする）に委ねます。
type GeminiExtractor struct {
	table    *taxonomy.Table
	aiClient gemini.GenerativeModel
	model    string
	limiter  *rate.Limiter
}

// NewGeminiExtractor は Gemini ベースの抽出戦略を生成します。
// limiter は API の流量制限で、nil の場合は待機しません。
func NewGeminiExtractor(table *taxonomy.Table, aiClient gemini.GenerativeModel, model string, limiter *rate.Limiter) *GeminiExtractor {
	return &GeminiExtractor{
		table:    table,
		aiClient: aiClient,
		model:    model,
		limiter:  limiter,
	}
}

// rawCandidate は Gemini 応答の1要素です。
type rawCandidate struct {
	Category   string  `json:"category"`
	Feature    string  `json:"feature"`
	Subject    string  `json:"subject"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Extract はチャンク本文を Gemini に解析させ、表で検証済みの候補列を返します。
func (ge *GeminiExtractor) Extract(ctx context.Context, text string, lang domain.Language, characters []string) ([]Candidate, error) {
	if ge.limiter != nil {
		if err := ge.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	prompt := ge.buildPrompt(text, lang, characters)
	resp, err := ge.aiClient.GenerateContent(ctx, prompt, ge.model)
	if err != nil {
		return nil, fmt.Errorf("特徴抽出のAPI呼び出しに失敗しました: %w", err)
	}

	raws, err := parseCandidates(resp.Text)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(raws))
	for _, r := range raws {
		def, ok := ge.table.Lookup(r.Feature)
		if !ok || string(def.Category) != r.Category {
			slog.Debug("応答に未知の特徴が含まれていたためスキップします", "feature", r.Feature, "category", r.Category)
			continue
		}
		out = append(out, Candidate{
			Category:   def.Category,
			Feature:    def.Name,
			Subject:    r.Subject,
			RawValue:   r.Value,
			Confidence: clampConfidence(r.Confidence),
		})
	}
	return out, nil
}

func (ge *GeminiExtractor) buildPrompt(text string, lang domain.Language, characters []string) string {
	var sb strings.Builder
	sb.WriteString("You are a script analysis engine. Extract visual and narrative features from the scene text below.\n")
	sb.WriteString("Return ONLY a JSON array. Each element: {\"category\", \"feature\", \"subject\", \"value\", \"confidence\"}.\n")
	sb.WriteString("Allowed (category, feature) pairs:\n")
	for _, cat := range append(append([]taxonomy.Category{}, characterCategories...), globalCategories...) {
		for _, def := range ge.table.DefsByCategory(cat) {
			fmt.Fprintf(&sb, "- (%s, %s): one of %s\n", def.Category, def.Name, strings.Join(def.ValidValues, ", "))
		}
	}
	fmt.Fprintf(&sb, "Characters present: %s\n", strings.Join(characters, ", "))
	fmt.Fprintf(&sb, "Scene language: %s\n", lang)
	fmt.Fprintf(&sb, "\n### SCENE TEXT ###\n%s\n", text)
	return sb.String()
}

// parseCandidates は応答テキストからJSON配列を取り出します。
// コードブロック → 最外の角括弧 → 全文、の順でフォールバックします。
func parseCandidates(raw string) ([]rawCandidate, error) {
	raw = strings.TrimSpace(raw)
	var rawJSON string

	if m := jsonBlockRegex.FindStringSubmatch(raw); len(m) > 1 {
		rawJSON = m[1]
	} else if first, last := strings.Index(raw, "["), strings.LastIndex(raw, "]"); first != -1 && last > first {
		rawJSON = raw[first : last+1]
	} else {
		rawJSON = raw
	}

	var out []rawCandidate
	if err := json.Unmarshal([]byte(rawJSON), &out); err != nil {
		return nil, fmt.Errorf("応答JSONの解析に失敗しました (応答抜粋: %q): %w", truncate(raw, 200), err)
	}
	return out, nil
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

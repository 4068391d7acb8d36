// Package segmenter は台本テキストを固定尺のチャンク列へ分割し、
// シーン種別・ペース・感情トーンの基礎メタデータを付与します。
package segmenter

import (
	"log/slog"
	"strings"

	"github.com/shouni/go-scene-dna/pkg/domain"
)

const (
	// DefaultWordsPerSecond は語数から台詞・描写の所要秒数を見積もる基準です。
	DefaultWordsPerSecond = 2.5
	// minSentenceSeconds は1文あたりの映像的な最低保持秒数です。
	// 短い文でもカットとして成立する長さを確保します。
	minSentenceSeconds = 5.0
	// maxFallbackChunks は構造分割が失敗した際の素朴な文分割の上限です。
	maxFallbackChunks = 10
)

// Segmenter は検出済み言語の規則セットで台本を分割します。
type Segmenter struct {
	lang  domain.Language
	rules ruleSet
}

// New は言語別の規則を備えた Segmenter を生成します。
func New(lang domain.Language) *Segmenter {
	return &Segmenter{lang: lang, rules: rulesFor(lang)}
}

// Segment は台本を targetDuration 秒のチャンク列へ分割します。
// 構造的な分割が1チャンクも生まない場合は素朴な文分割へ退避し、
// 上限を掛けた上で処理を続行します。失敗して空を返すのは入力が空の場合だけです。
func (s *Segmenter) Segment(script string, targetDuration float64) []domain.Chunk {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil
	}

	sections := s.splitStructural(script)
	chunks := s.buildChunks(sections, targetDuration)
	if len(chunks) == 0 {
		slog.Warn("structural segmentation produced no chunks, falling back to sentence split")
		chunks = s.fallbackChunks(script, targetDuration)
	}
	return chunks
}

// splitStructural はシーン見出しや転換キーワードで粗い区画へ分割します。
func (s *Segmenter) splitStructural(script string) []string {
	lines := strings.Split(script, "\n")
	var sections []string
	var current []string

	flush := func() {
		if joined := strings.TrimSpace(strings.Join(current, "\n")); joined != "" {
			sections = append(sections, joined)
		}
		current = current[:0]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if s.rules.sceneBoundary.MatchString(trimmed) {
			flush()
			continue // 見出し・転換行そのものはチャンク本文に含めない
		}
		current = append(current, line)
	}
	flush()

	if len(sections) == 0 {
		return []string{script}
	}
	return sections
}

// buildChunks は区画内の文を所要秒数の見積もりで束ね、チャンク列を組み立てます。
// 区画境界は必ずチャンク境界になります。
func (s *Segmenter) buildChunks(sections []string, targetDuration float64) []domain.Chunk {
	var chunks []domain.Chunk

	for _, section := range sections {
		sentences := s.rules.splitSentences(section)
		var buf []string
		var bufSeconds float64

		flush := func() {
			if len(buf) == 0 {
				return
			}
			content := strings.TrimSpace(strings.Join(buf, " "))
			if content != "" {
				chunks = append(chunks, s.newChunk(len(chunks)+1, content, targetDuration))
			}
			buf = buf[:0]
			bufSeconds = 0
		}

		for _, sentence := range sentences {
			est := estimateSeconds(sentence)
			if len(buf) > 0 && bufSeconds+est > targetDuration {
				flush()
			}
			buf = append(buf, sentence)
			bufSeconds += est
		}
		flush()
	}
	return chunks
}

// fallbackChunks は構造分割の失敗時に使う最終退避です。
// 文単位でそのままチャンク化し、件数に上限を掛けます。
func (s *Segmenter) fallbackChunks(script string, targetDuration float64) []domain.Chunk {
	sentences := s.rules.splitSentences(script)
	if len(sentences) == 0 {
		sentences = []string{script}
	}
	if len(sentences) > maxFallbackChunks {
		sentences = sentences[:maxFallbackChunks]
	}

	chunks := make([]domain.Chunk, 0, len(sentences))
	for i, sentence := range sentences {
		chunks = append(chunks, s.newChunk(i+1, sentence, targetDuration))
	}
	return chunks
}

func (s *Segmenter) newChunk(id int, content string, targetDuration float64) domain.Chunk {
	return domain.Chunk{
		ID:            id,
		Content:       content,
		Duration:      targetDuration,
		SceneType:     s.classifySceneType(content),
		EmotionalTone: s.classifyTone(content),
		Pacing:        s.classifyPacing(content),
	}
}

// estimateSeconds は1文の映像的な所要秒数を見積もります。
func estimateSeconds(sentence string) float64 {
	words := len(strings.Fields(sentence))
	spoken := float64(words) / DefaultWordsPerSecond
	if spoken < minSentenceSeconds {
		return minSentenceSeconds
	}
	return spoken
}

// Package export は処理結果を下流の動画生成ツールへ渡すための形式に
// 射影します。値の変換は行わず、並べ替えと整形だけを担当します。
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/go-scene-dna/pkg/domain"
)

// Format はエクスポート形式の識別子です。
type Format string

const (
	// FormatJSON は処理結果全体をそのまま出力します。
	FormatJSON Format = "json"
	// FormatTimeline は動画生成ツール向けのクリップ列だけに絞った形式です。
	FormatTimeline Format = "timeline"
	// FormatStoryboard は人間のレビュー用 Markdown です。
	FormatStoryboard Format = "storyboard"
)

// ParseFormat は文字列を Format に解決します。
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatTimeline:
		return FormatTimeline, nil
	case FormatStoryboard:
		return FormatStoryboard, nil
	default:
		return "", fmt.Errorf("不明なエクスポート形式です: %q (json / timeline / storyboard)", s)
	}
}

// Clip は動画生成ツールへ渡す最小単位です。
type Clip struct {
	ClipID   int     `json:"clip_id"`
	Prompt   string  `json:"prompt"`
	Duration float64 `json:"duration"`
	DNAHash  string  `json:"dna_hash"`
	PrevDNA  string  `json:"prev_dna,omitempty"`
}

// Timeline はクリップ列と再生メタデータをまとめた射影です。
type Timeline struct {
	SessionID     string          `json:"session_id"`
	Language      domain.Language `json:"language"`
	TotalDuration float64         `json:"total_duration"`
	Clips         []Clip          `json:"clips"`
}

// Render は結果を指定形式のバイト列へ整形し、MIME タイプとともに返します。
func Render(result *domain.ProcessingResult, format Format) ([]byte, string, error) {
	if result == nil {
		return nil, "", fmt.Errorf("結果が nil です")
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("JSON整形に失敗しました: %w", err)
		}
		return data, "application/json; charset=utf-8", nil
	case FormatTimeline:
		data, err := json.MarshalIndent(buildTimeline(result), "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("タイムラインの整形に失敗しました: %w", err)
		}
		return data, "application/json; charset=utf-8", nil
	case FormatStoryboard:
		return []byte(buildStoryboard(result)), "text/markdown; charset=utf-8", nil
	default:
		return nil, "", fmt.Errorf("不明なエクスポート形式です: %q", format)
	}
}

func buildTimeline(result *domain.ProcessingResult) Timeline {
	timeline := Timeline{
		SessionID:     result.SessionID,
		Language:      result.DetectedLanguage,
		TotalDuration: result.TotalDuration,
		Clips:         make([]Clip, 0, len(result.Chunks)),
	}
	for _, chunk := range result.Chunks {
		timeline.Clips = append(timeline.Clips, Clip{
			ClipID:   chunk.ID,
			Prompt:   chunk.AIPrompt,
			Duration: chunk.Duration,
			DNAHash:  chunk.DNAHash,
			PrevDNA:  chunk.PreviousDNA,
		})
	}
	return timeline
}

func buildStoryboard(result *domain.ProcessingResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Storyboard: %s\n\n", result.SessionID)
	fmt.Fprintf(&sb, "- Language: %s (%.2f)\n", result.DetectedLanguage, result.LanguageConfidence)
	fmt.Fprintf(&sb, "- Chunks: %d / Total: %.1fs\n", result.TotalChunks, result.TotalDuration)
	if len(result.Characters) > 0 {
		fmt.Fprintf(&sb, "- Cast: %s\n", strings.Join(result.Characters, ", "))
	}
	fmt.Fprintf(&sb, "- Quality: consistency %.2f / continuity %.2f / flow %.2f\n",
		result.CharacterAccuracy, result.VisualContinuity, result.SceneIntelligence)

	for _, chunk := range result.Chunks {
		fmt.Fprintf(&sb, "\n## Scene %d (%s, %.1fs)\n\n", chunk.ID, chunk.SceneType, chunk.Duration)
		if len(chunk.Characters) > 0 {
			fmt.Fprintf(&sb, "**Cast:** %s\n\n", strings.Join(chunk.Characters, ", "))
		}
		fmt.Fprintf(&sb, "> %s\n\n", chunk.Content)
		fmt.Fprintf(&sb, "```\n%s\n```\n\n", chunk.AIPrompt)
		fmt.Fprintf(&sb, "`DNA: %s`", chunk.DNAHash)
		if chunk.PreviousDNA != "" {
			fmt.Fprintf(&sb, " ← `%s`", chunk.PreviousDNA)
		}
		sb.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		sb.WriteString("\n## Warnings\n\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
	}
	return sb.String()
}

// Publisher は射影した結果をローカルまたはリモート（GCS等）へ書き出します。
type Publisher struct {
	writer remoteio.OutputWriter
}

// NewPublisher は出力先を注入して Publisher を生成します。
func NewPublisher(writer remoteio.OutputWriter) *Publisher {
	return &Publisher{writer: writer}
}

// Publish は指定形式で整形した結果を path へ書き込みます。
func (p *Publisher) Publish(ctx context.Context, result *domain.ProcessingResult, format Format, path string) error {
	data, mimeType, err := Render(result, format)
	if err != nil {
		return err
	}
	if err := p.writer.Write(ctx, path, bytes.NewReader(data), mimeType); err != nil {
		return fmt.Errorf("結果の保存に失敗しました (path: %s): %w", path, err)
	}
	return nil
}

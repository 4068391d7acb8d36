// Package prompts はフィンガープリントから動画生成AI向けのシーンプロンプトを
// 組み立てます。継承済みの特徴値をひとつも落とさないことが契約です。
package prompts

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/shouni/go-scene-dna/pkg/domain"
	"github.com/shouni/go-scene-dna/pkg/taxonomy"
)

//go:embed scene.md
var scenePrompt string

// SceneAssembler はチャンク1つぶんのプロンプト文字列を生成します。
type SceneAssembler struct {
	tmpl        *template.Template
	table       *taxonomy.Table
	styleSuffix string // "cinematic, high quality" 等の共通サフィックス
}

// NewSceneAssembler はアセンブラを初期化します。
func NewSceneAssembler(table *taxonomy.Table, styleSuffix string) (*SceneAssembler, error) {
	if scenePrompt == "" {
		return nil, fmt.Errorf("シーンテンプレート (go:embed) の読み込みに失敗しました: 内容が空です")
	}
	tmpl, err := template.New("scene").Funcs(template.FuncMap{
		"join": strings.Join,
	}).Parse(scenePrompt)
	if err != nil {
		return nil, fmt.Errorf("シーンテンプレートの解析に失敗: %w", err)
	}
	return &SceneAssembler{tmpl: tmpl, table: table, styleSuffix: styleSuffix}, nil
}

// Build はチャンクとそのフィンガープリントからプロンプトを生成します。
// キャラクター特徴は人類学的特徴（民族・性別・年齢層）が外見より先に並び、
// 各セクション内はキー順で決定的に出力されます。
func (a *SceneAssembler) Build(chunk *domain.Chunk, fp *domain.Fingerprint) (string, error) {
	if fp == nil {
		return "", fmt.Errorf("フィンガープリントが nil です")
	}

	data := sceneData{
		ChunkID:     fp.ChunkID,
		SceneType:   string(chunk.SceneType),
		Duration:    chunk.Duration,
		Environment: featureLines(fp.Environment),
		VisualStyle: featureLines(fp.VisualStyle),
		AudioVisual: featureLines(fp.AudioVisual),
		Narrative:   featureLines(fp.Narrative),
		Emotions:    featureLines(fp.Emotions),
		Atmosphere:  featureLines(fp.Atmosphere),
		Continuity:  fp.PrevLink,
		StyleSuffix: a.styleSuffix,
	}
	for _, name := range fp.SortedCharacterNames() {
		data.Characters = append(data.Characters, characterBlock{
			Name:   name,
			Traits: a.characterTraits(fp.Characters[name]),
		})
	}

	var sb strings.Builder
	if err := a.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("シーンテンプレートの実行に失敗しました: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// characterTraits は人類学的特徴を先頭に、外見特徴を後続に並べます。
func (a *SceneAssembler) characterTraits(features domain.FeatureMap) []string {
	var anthro, appearance []string
	for _, key := range features.SortedKeys() {
		line := fmt.Sprintf("%s %s", features[key].Value, key)
		if def, ok := a.table.Lookup(key); ok && def.Category == taxonomy.CategoryAnthropology {
			anthro = append(anthro, line)
		} else {
			appearance = append(appearance, line)
		}
	}
	return append(anthro, appearance...)
}

func featureLines(features domain.FeatureMap) []string {
	keys := features.SortedKeys()
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s %s", features[key].Value, key))
	}
	return lines
}

type sceneData struct {
	ChunkID     int
	SceneType   string
	Duration    float64
	Characters  []characterBlock
	Environment []string
	VisualStyle []string
	AudioVisual []string
	Narrative   []string
	Emotions    []string
	Atmosphere  []string
	Continuity  string
	StyleSuffix string
}

type characterBlock struct {
	Name   string
	Traits []string
}

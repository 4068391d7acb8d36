package domain

// SceneType はチャンクの演出上の分類を表します。
type SceneType string

const (
	SceneEstablishing SceneType = "establishing"
	SceneDialogue     SceneType = "dialogue"
	SceneAction       SceneType = "action"
	SceneEmotional    SceneType = "emotional"
	SceneTransition   SceneType = "transition"
)

// Pacing はチャンク内の展開速度を表す言語非依存の列挙値です。
type Pacing string

const (
	PacingSlow     Pacing = "slow"
	PacingModerate Pacing = "moderate"
	PacingFast     Pacing = "fast"
)

// Tone はチャンクの感情的な基調を表します。
type Tone string

const (
	ToneNeutral  Tone = "neutral"
	ToneTense    Tone = "tense"
	ToneJoyful   Tone = "joyful"
	ToneSomber   Tone = "somber"
	ToneRomantic Tone = "romantic"
)

// Language は検出対象のスクリプト言語を表します。
type Language string

const (
	LangVietnamese Language = "vi"
	LangEnglish    Language = "en"
	LangJapanese   Language = "ja"
)

// FallbackLanguage は、どの言語シグナルも検出できなかった場合の既定値です。
const FallbackLanguage = LangEnglish

// Chunk は台本から切り出された固定尺の物語単位です。
// Segmenter が生成し、Characters だけは後段の抽出器が埋めます。
// それ以降は不変として扱います。
type Chunk struct {
	ID            int       `json:"id"` // 1始まりの連番
	Content       string    `json:"content"`
	Duration      float64   `json:"duration"` // 秒。1回の処理内では全チャンク共通
	SceneType     SceneType `json:"scene_type"`
	Characters    []string  `json:"characters"`
	EmotionalTone Tone      `json:"emotional_tone"`
	Pacing        Pacing    `json:"pacing"`
}

// HasCharacter は指定した名前がこのチャンクに登場するかを返します。
func (c *Chunk) HasCharacter(name string) bool {
	for _, n := range c.Characters {
		if n == name {
			return true
		}
	}
	return false
}

package domain

// ChunkRecord は処理結果として外部へ渡すチャンク1件分のレコードです。
// エクスポート層はこれを各プラットフォーム向けに射影するだけで、変換は行いません。
type ChunkRecord struct {
	ID               int       `json:"id"`
	Content          string    `json:"content"`
	Duration         float64   `json:"duration"`
	SceneType        SceneType `json:"scene_type"`
	Characters       []string  `json:"characters"`
	DNAHash          string    `json:"dna_hash"`
	AIPrompt         string    `json:"ai_prompt"`
	EmotionalTone    Tone      `json:"emotional_tone"`
	Pacing           Pacing    `json:"pacing"`
	VisualComplexity float64   `json:"visual_complexity"`
	PreviousDNA      string    `json:"previous_dna,omitempty"`
}

// ProcessingResult は1回の処理全体の結果です。
type ProcessingResult struct {
	Success            bool          `json:"success"`
	SessionID          string        `json:"session_id"`
	TotalChunks        int           `json:"total_chunks"`
	TotalDuration      float64       `json:"total_duration"`
	DetectedLanguage   Language      `json:"detected_language"`
	LanguageConfidence float64       `json:"language_confidence"`
	CharacterAccuracy  float64       `json:"character_accuracy"`
	SceneIntelligence  float64       `json:"scene_intelligence"`
	VisualContinuity   float64       `json:"visual_continuity"`
	OverallQuality     float64       `json:"overall_quality"`
	Chunks             []ChunkRecord `json:"chunks"`
	DNAChain           []string      `json:"dna_chain"`
	Characters         []string      `json:"characters"`
	Warnings           []string      `json:"warnings,omitempty"`
	ErrorMessage       string        `json:"error_message,omitempty"`
}

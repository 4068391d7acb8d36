package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel          = "gemini-3-flash-preview"
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultChunkTimeout   = 30 * time.Second
	DefaultTargetDuration = 8.0
	DefaultLookahead      = 4
	DefaultWindowSize     = 3
	DefaultRateInterval   = 2 * time.Second // Gemini抽出のリクエスト間隔
	DefaultOutputFile     = "output/scene_dna.json"
	DefaultFormat         = "json"
	DefaultStyleSuffix    = "cinematic lighting, photorealistic rendering, coherent character identity, high detail, masterpiece"
)

// Config はアプリケーション全体の環境設定（APIキーなど）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	StyleSuffix  string

	Options ProcessOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey: envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:  envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		StyleSuffix:  envutil.GetEnv("SCENE_STYLE_SUFFIX", DefaultStyleSuffix),
	}
}

// ProcessOptions は CLI フラグから渡される実行時のパラメータなのだ。
type ProcessOptions struct {
	// ソース入力関連
	ScriptURL  string // --script-url
	ScriptFile string // --script-file
	OutputFile string // --output-file
	Format     string // --format: json / timeline / storyboard

	// チャンク分割・連鎖関連
	TargetDuration   float64 // --duration: 1チャンクの目標尺（秒）
	SessionID        string  // --session-id
	PerChunkLanguage bool    // --per-chunk-language
	WindowSize       int     // --window

	// AI挙動設定
	UseAI   bool   // --ai: 特徴抽出にGeminiを使う
	AIModel string // --model

	// 実行制御
	HTTPTimeout  time.Duration // --http-timeout
	ChunkTimeout time.Duration // --chunk-timeout
	Lookahead    int           // --lookahead
}

package builder

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/shouni/go-gemini-client/gemini"

	"github.com/shouni/go-scene-dna/internal/config"
	"github.com/shouni/go-scene-dna/pkg/export"
	"github.com/shouni/go-scene-dna/pkg/extractor"
	"github.com/shouni/go-scene-dna/pkg/pipeline"
	"github.com/shouni/go-scene-dna/pkg/taxonomy"
)

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.2)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// BuildExtractor は特徴抽出の戦略を選びます。--ai 指定時は Gemini を
// レートリミットつきで使い、それ以外は決定的な正規表現抽出を使います。
func BuildExtractor(appCtx *AppContext) extractor.Extractor {
	table := taxonomy.NewTable()
	if appCtx.Options.UseAI && appCtx.aiClient != nil {
		limiter := rate.NewLimiter(rate.Every(config.DefaultRateInterval), 2)
		slog.Info("Gemini特徴抽出を使用するのだ", "model", appCtx.Config.GeminiModel)
		return extractor.NewGeminiExtractor(table, appCtx.aiClient, appCtx.Config.GeminiModel, limiter)
	}
	return extractor.NewRegexExtractor(table)
}

// BuildPipeline は処理パイプラインを構築します。
func BuildPipeline(appCtx *AppContext) (*pipeline.Pipeline, error) {
	opts := appCtx.Options

	cfg := pipeline.DefaultPipelineConfig()
	cfg.StyleSuffix = appCtx.Config.StyleSuffix
	if opts.Lookahead > 0 {
		cfg.Lookahead = opts.Lookahead
	}
	if opts.ChunkTimeout > 0 {
		cfg.ChunkTimeout = opts.ChunkTimeout
	}
	if opts.WindowSize > 0 {
		cfg.DNA.WindowSize = opts.WindowSize
	}

	p, err := pipeline.New(BuildExtractor(appCtx), cfg)
	if err != nil {
		return nil, fmt.Errorf("パイプラインの構築に失敗しました: %w", err)
	}
	return p, nil
}

// BuildPublisher は処理結果の保存を担当する Publisher を構築します。
func BuildPublisher(appCtx *AppContext) *export.Publisher {
	return export.NewPublisher(appCtx.Writer)
}

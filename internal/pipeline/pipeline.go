package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shouni/go-gemini-client/gemini"
	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-web-exact/v2/pkg/extract"

	"github.com/shouni/go-scene-dna/internal/builder"
	"github.com/shouni/go-scene-dna/internal/config"
	"github.com/shouni/go-scene-dna/pkg/asset"
	"github.com/shouni/go-scene-dna/pkg/domain"
	"github.com/shouni/go-scene-dna/pkg/export"
	"github.com/shouni/go-scene-dna/pkg/language"
	scenepipe "github.com/shouni/go-scene-dna/pkg/pipeline"
)

// ExecuteProcess は台本の取得からフィンガープリント連鎖の生成・保存までを
// 一気通貫で実行するのだ。
func ExecuteProcess(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	script, err := loadScript(ctx, appCtx)
	if err != nil {
		return err
	}

	p, err := builder.BuildPipeline(appCtx)
	if err != nil {
		return err
	}

	result, err := p.Process(ctx, script, scenepipe.Options{
		TargetDuration:   cfg.Options.TargetDuration,
		SessionID:        cfg.Options.SessionID,
		PerChunkLanguage: cfg.Options.PerChunkLanguage,
	})
	if err != nil {
		return fmt.Errorf("台本の処理に失敗したのだ: %w", err)
	}
	for _, w := range result.Warnings {
		slog.Warn("処理中の縮退を検出したのだ", "warning", w)
	}

	format, err := export.ParseFormat(cfg.Options.Format)
	if err != nil {
		return err
	}
	outputPath, err := asset.ResolveResultPath(cfg.Options.OutputFile, format)
	if err != nil {
		return fmt.Errorf("出力パスの解決に失敗したのだ: %w", err)
	}
	publisher := builder.BuildPublisher(appCtx)
	if err := publisher.Publish(ctx, result, format, outputPath); err != nil {
		return err
	}

	slog.Info("フィンガープリント連鎖を保存したのだ！",
		"output_file", outputPath,
		"format", format,
		"chunks", result.TotalChunks,
		"quality", fmt.Sprintf("%.2f", result.OverallQuality),
	)
	return nil
}

// ExecuteDetect は言語判定だけを実行し、根拠つきの結果をJSONで出力するのだ。
func ExecuteDetect(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	script, err := loadScript(ctx, appCtx)
	if err != nil {
		return err
	}

	result := language.NewDetector().Detect(script)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("判定結果の整形に失敗したのだ: %w", err)
	}

	if _, err := fmt.Fprintln(os.Stdout, string(data)); err != nil {
		return err
	}
	return nil
}

// ExecuteExport は保存済みの処理結果（JSON）を読み込み、別形式へ再射影するのだ。
func ExecuteExport(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	rc, err := appCtx.Reader.Open(ctx, cfg.Options.ScriptFile)
	if err != nil {
		return fmt.Errorf("結果ファイル '%s' の読み込みに失敗したのだ: %w", cfg.Options.ScriptFile, err)
	}
	defer rc.Close()

	var result domain.ProcessingResult
	if err := json.NewDecoder(rc).Decode(&result); err != nil {
		return fmt.Errorf("結果ファイル '%s' のデコードに失敗したのだ: %w", cfg.Options.ScriptFile, err)
	}

	format, err := export.ParseFormat(cfg.Options.Format)
	if err != nil {
		return err
	}
	outputPath, err := asset.ResolveResultPath(cfg.Options.OutputFile, format)
	if err != nil {
		return fmt.Errorf("出力パスの解決に失敗したのだ: %w", err)
	}
	publisher := builder.BuildPublisher(appCtx)
	if err := publisher.Publish(ctx, &result, format, outputPath); err != nil {
		return err
	}

	slog.Info("再射影が完了したのだ！", "output_file", outputPath, "format", format)
	return nil
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、
// アプリケーションコンテキストを初期化して返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	httpClient := httpkit.New(cfg.Options.HTTPTimeout)

	gcsFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}
	reader, err := gcsFactory.InputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.OutputWriter()
	if err != nil {
		return nil, err
	}

	// AIクライアントは --ai 指定時のみ初期化するのだ
	var aiClient gemini.GenerativeModel
	if cfg.Options.UseAI {
		aiClient, err = builder.InitializeAIClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create ai client: %w", err)
		}
	}

	appCtx := builder.NewAppContext(cfg, httpClient, aiClient, reader, writer)
	return &appCtx, nil
}

// loadScript は、URL・ファイル・標準入力のいずれかから台本テキストを取得するのだ。
func loadScript(ctx context.Context, appCtx *builder.AppContext) (string, error) {
	opts := appCtx.Options

	if opts.ScriptURL != "" {
		webExtractor, err := extract.NewExtractor(appCtx.HTTPClient())
		if err != nil {
			return "", fmt.Errorf("URLからの台本取得に失敗したのだ: %w", err)
		}
		text, _, err := webExtractor.FetchAndExtractText(ctx, opts.ScriptURL)
		if err != nil {
			return "", fmt.Errorf("URLからの台本取得に失敗したのだ: %w", err)
		}
		return text, nil
	}

	if opts.ScriptFile == "" || opts.ScriptFile == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("標準入力の読み込みに失敗したのだ: %w", err)
		}
		return string(data), nil
	}

	rc, err := appCtx.Reader.Open(ctx, opts.ScriptFile)
	if err != nil {
		return "", fmt.Errorf("台本ファイル '%s' の読み込みに失敗したのだ: %w", opts.ScriptFile, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

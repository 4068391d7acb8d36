package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-scene-dna/internal/config"
	"github.com/shouni/go-scene-dna/internal/pipeline"

	"github.com/spf13/cobra"
)

// processCmd は、台本からフィンガープリント連鎖の生成までを一気通貫で実行するのだ。
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "台本を固定尺チャンクへ分割し、DNA連鎖とシーンプロンプトを生成するのだ。",
	Long: `台本テキストを解析して固定尺のチャンクへ分割し、チャンクごとの特徴
フィンガープリントを継承規則で連鎖させ、動画生成AI向けのシーンプロンプトと
品質指標をまとめて出力するのだ。`,
	RunE: processCommand,
}

// applyModelOverride は --model が明示されたときだけモデル名を差し替えるのだ。
// 環境変数 GEMINI_MODEL の指定をフラグの既定値で潰さないためなのだ。
func applyModelOverride(cfg *config.Config, changed bool, model string) {
	if changed {
		cfg.GeminiModel = model
	}
}

func processCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if opts.ScriptURL == "" && opts.ScriptFile == "" && !isStdin() {
		return fmt.Errorf("ソース（--script-url または --script-file）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.Options = opts
	applyModelOverride(cfg, cmd.Flags().Changed("model"), opts.AIModel)

	slog.Info("シーンDNAパイプラインを起動するのだ！",
		"duration", opts.TargetDuration,
		"format", opts.Format,
		"ai", opts.UseAI,
		"output", opts.OutputFile)

	if err := pipeline.ExecuteProcess(ctx, cfg); err != nil {
		return fmt.Errorf("処理中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！", "output_file", opts.OutputFile)
	return nil
}

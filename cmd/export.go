package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-scene-dna/internal/config"
	"github.com/shouni/go-scene-dna/internal/pipeline"

	"github.com/spf13/cobra"
)

// exportCmd は、保存済みの処理結果を別形式へ再射影するのだ。
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "保存済みの処理結果（JSON）を timeline / storyboard 形式へ変換するのだ。",
	Long: `process コマンドが保存したJSON結果を読み込み、動画生成ツール向けの
タイムラインやレビュー用ストーリーボードへ再射影するのだ。
パイプラインの再実行は行わないのだよ。`,
	RunE: exportCommand,
}

func exportCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if opts.ScriptFile == "" {
		return fmt.Errorf("変換元の結果ファイル（--script-file）を指定してほしいのだ")
	}

	// export の既定出力はストーリーボードの方が使い出があるのだ
	if !cmd.Flags().Changed("format") {
		opts.Format = "storyboard"
	}
	if !cmd.Flags().Changed("output-file") {
		// ディレクトリ指定にして、形式に応じた既定ファイル名へ解決させるのだ
		opts.OutputFile = "output/"
	}

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("再射影を開始するのだ！", "source", opts.ScriptFile, "format", opts.Format)

	if err := pipeline.ExecuteExport(ctx, cfg); err != nil {
		return fmt.Errorf("エクスポート中にエラーが発生したのだ: %w", err)
	}
	return nil
}

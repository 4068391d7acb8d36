package cmd

import (
	"fmt"

	"github.com/shouni/go-scene-dna/internal/config"
	"github.com/shouni/go-scene-dna/internal/pipeline"

	"github.com/spf13/cobra"
)

// detectCmd は、言語判定だけを実行して根拠つきの結果を表示するのだ。
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "台本の言語を判定し、根拠つきの結果をJSONで表示するのだ。",
	Long: `文字集合・文法マーカー・文化的語彙・脚本構造の4系統のシグナルから
台本の主要言語を判定し、どのシグナルがどれだけ寄与したかを含めて出力するのだ。
チャンク分割やDNA生成は行わないのだよ。`,
	RunE: detectCommand,
}

func detectCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if opts.ScriptURL == "" && opts.ScriptFile == "" && !isStdin() {
		return fmt.Errorf("ソース（--script-url または --script-file）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.Options = opts

	if err := pipeline.ExecuteDetect(ctx, cfg); err != nil {
		return fmt.Errorf("言語判定中にエラーが発生したのだ: %w", err)
	}
	return nil
}

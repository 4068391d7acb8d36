package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-scene-dna/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は全コマンドで共有する実行時パラメータなのだ。
var opts config.ProcessOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.ScriptURL, "script-url", "u", "", "Webページから台本を取得するためのURLなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.ScriptFile, "script-file", "f", "", "入力ファイルのパス（'-'で標準入力なのだ）。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputFile, "output-file", "o", config.DefaultOutputFile, "保存パス（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Format, "format", config.DefaultFormat, "出力形式（json / timeline / storyboard）なのだ。")

	// --- チャンク分割・連鎖設定 ---
	rootCmd.PersistentFlags().Float64VarP(&opts.TargetDuration, "duration", "d", config.DefaultTargetDuration, "1チャンクの目標尺（秒）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.SessionID, "session-id", "", "セッションID（未指定なら自動生成なのだ）。")
	rootCmd.PersistentFlags().BoolVar(&opts.PerChunkLanguage, "per-chunk-language", false, "チャンクごとに言語を再判定するのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.WindowSize, "window", config.DefaultWindowSize, "作業メモリに保持する直近フィンガープリント数なのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().BoolVar(&opts.UseAI, "ai", false, "特徴抽出にGeminiを使うのだ（既定は正規表現抽出なのだ）。")
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", config.DefaultModel, "使用する Gemini モデル名なのだ。")

	// --- 実行制御 ---
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.ChunkTimeout, "chunk-timeout", config.DefaultChunkTimeout, "チャンク1件の特徴抽出に許す時間なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.Lookahead, "lookahead", config.DefaultLookahead, "特徴抽出の並列先読み幅なのだ。")
}

// preRunAppE は、コマンド実行前の必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// Gemini抽出を使うときだけAPIキーが必須なのだ！
	if opts.UseAI && os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。--ai の利用には必須なのだ")
	}
	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"scene-dna",
		addAppFlags,
		preRunAppE,
		processCmd,
		detectCmd,
		exportCmd,
	)
}

func isStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

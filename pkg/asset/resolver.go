// Package asset は処理結果の出力先パスを GCS/ローカルの両対応で解決します。
package asset

import (
	"strings"

	"github.com/shouni/go-utils/urlpath"

	"github.com/shouni/go-scene-dna/pkg/export"
)

const (
	// DefaultResultFileName は処理結果（JSON）のデフォルトファイル名です。
	DefaultResultFileName = "scene_dna.json"
	// DefaultTimelineFileName はタイムライン射影のデフォルトファイル名です。
	DefaultTimelineFileName = "timeline.json"
	// DefaultStoryboardFileName はストーリーボード射影のデフォルトファイル名です。
	DefaultStoryboardFileName = "storyboard.md"
)

// DefaultFileName は形式ごとの既定ファイル名を返します。
func DefaultFileName(format export.Format) string {
	switch format {
	case export.FormatTimeline:
		return DefaultTimelineFileName
	case export.FormatStoryboard:
		return DefaultStoryboardFileName
	default:
		return DefaultResultFileName
	}
}

// ResolveResultPath は出力指定を最終的な保存パスへ解決します。
// 末尾がセパレータならディレクトリ指定とみなし、形式に応じた既定
// ファイル名を結合します。GCS の gs:// パスもそのまま扱えます。
func ResolveResultPath(outputFile string, format export.Format) (string, error) {
	if outputFile != "" && !strings.HasSuffix(outputFile, "/") {
		return outputFile, nil
	}
	return urlpath.ResolvePath(outputFile, DefaultFileName(format))
}

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolvePath(baseDir, fileName)
}

// GenerateIndexedPath は、指定されたベースパスの拡張子の前に連番を挿入し、
// 新しいパス文字列を生成します。セッションごとの連番保存に使います。
// 例: "output/timeline.json", 2 -> "output/timeline_2.json"
func GenerateIndexedPath(basePath string, index int) (string, error) {
	return urlpath.GenerateIndexedPath(basePath, index)
}

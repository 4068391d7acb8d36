package builder

import (
	"github.com/shouni/go-scene-dna/internal/config"

	"github.com/shouni/go-gemini-client/gemini"
	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config        // Configは、環境変数から読み込まれたグローバルな設定です（APIキーなど）。
	Options    config.ProcessOptions // Optionsは、コマンドラインから渡された実行時の設定です。
	Reader     remoteio.InputReader  // Readerは、台本や保存済み結果の読み込みに使用する入力元です。
	Writer     remoteio.OutputWriter // Writerは、処理結果を保存するための出力先です。
	aiClient   gemini.GenerativeModel
	httpClient httpkit.HTTPClient
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient httpkit.HTTPClient,
	aiClient gemini.GenerativeModel,
	reader remoteio.InputReader,
	writer remoteio.OutputWriter,
) AppContext {
	return AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		aiClient:   aiClient,
		httpClient: httpClient,
		Reader:     reader,
		Writer:     writer,
	}
}

// HTTPClient は共有HTTPクライアントを返します。
func (a *AppContext) HTTPClient() httpkit.HTTPClient {
	return a.httpClient
}

package dna

import "github.com/shouni/go-scene-dna/pkg/domain"

// Window は直近のフィンガープリントだけを保持するスライディングウィンドウです。
// 連鎖の継承には直前の1件しか使いませんが、近傍の照会（品質評価や
// デバッグ出力）のために数件ぶんの作業メモリを残しておきます。
type Window struct {
	size int
	fps  []*domain.Fingerprint
}

// NewWindow は容量 size のウィンドウを生成します。size が1未満なら1に丸めます。
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{size: size}
}

// Push は最新のフィンガープリントを追加し、容量を超えた最古の要素を捨てます。
func (w *Window) Push(fp *domain.Fingerprint) {
	w.fps = append(w.fps, fp)
	if len(w.fps) > w.size {
		// メモリを連鎖長に比例させないため、先頭参照を明示的に切る
		w.fps[0] = nil
		w.fps = w.fps[1:]
	}
}

// Last は直近のフィンガープリントを返します。空なら nil です。
func (w *Window) Last() *domain.Fingerprint {
	if len(w.fps) == 0 {
		return nil
	}
	return w.fps[len(w.fps)-1]
}

// Len は現在保持している件数を返します。
func (w *Window) Len() int {
	return len(w.fps)
}

// Snapshot は古い順に並んだ保持中フィンガープリントのコピーを返します。
func (w *Window) Snapshot() []*domain.Fingerprint {
	out := make([]*domain.Fingerprint, len(w.fps))
	copy(out, w.fps)
	return out
}

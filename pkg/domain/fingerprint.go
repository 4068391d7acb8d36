package domain

import "sort"

// InheritancePolicy は特徴量を次のチャンクへ引き継ぐかどうかの規則です。
// 規則は特徴名に固定で紐づき、個々の検出結果には依存しません。
type InheritancePolicy string

const (
	// PolicyKeep は人類学的・不変な特徴（民族、年齢層、性別など）。
	// 再検出されなくても減衰しながら必ず前方へ伝播します。
	PolicyKeep InheritancePolicy = "keep"
	// PolicyEvolve は緩やかに変化する特徴（髪型、場所の種類など）。
	// 再検出されない場合のみ減衰して伝播し、新規検出値を上書きしません。
	PolicyEvolve InheritancePolicy = "evolve"
	// PolicyChange はシーン限りの特徴（照明、カメラアングルなど）。
	// 決して継承されません。
	PolicyChange InheritancePolicy = "change"
)

// Feature は正規化済み語彙トークンと信頼度、継承規則の組です。
type Feature struct {
	Value      string            `json:"value"`
	Confidence float64           `json:"confidence"` // [0,1]
	Policy     InheritancePolicy `json:"policy"`
}

// FeatureMap は特徴名から Feature への対応表です。
type FeatureMap map[string]Feature

// Clone は防御的コピーを返します。
func (m FeatureMap) Clone() FeatureMap {
	if m == nil {
		return nil
	}
	copied := make(FeatureMap, len(m))
	for k, v := range m {
		copied[k] = v
	}
	return copied
}

// SortedKeys はハッシュ計算やプロンプト描画の決定性を保つためのソート済みキーを返します。
func (m FeatureMap) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fingerprint はチャンク1つ分の視覚的・物語的特徴の束（DNA）です。
// 生成後は不変で、直後のチャンクの継承処理と最終的な品質計算だけが読み取ります。
type Fingerprint struct {
	ChunkID     int                   `json:"chunk_id"`
	Characters  map[string]FeatureMap `json:"characters"`
	Environment FeatureMap            `json:"environment"`
	VisualStyle FeatureMap            `json:"visual_style"`
	AudioVisual FeatureMap            `json:"audio_visual"`
	Narrative   FeatureMap            `json:"narrative"`
	Emotions    FeatureMap            `json:"emotions"`
	Atmosphere  FeatureMap            `json:"atmosphere"`

	// PrevLink は直前のフィンガープリントのハッシュです。先頭チャンクでは空になります。
	PrevLink string `json:"prev_link,omitempty"`
	// Hash は chunk_id と keep/evolve 継承済み特徴から導出される8桁の16進ダイジェストです。
	Hash string `json:"hash"`
}

// SortedCharacterNames は登場キャラクター名をソートして返します。
func (fp *Fingerprint) SortedCharacterNames() []string {
	names := make([]string, 0, len(fp.Characters))
	for name := range fp.Characters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

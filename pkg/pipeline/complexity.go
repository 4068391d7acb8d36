package pipeline

import "github.com/shouni/go-scene-dna/pkg/domain"

// 視覚的複雑度の合成重みです。合計は 1.0 になります。
const (
	characterWeight = 0.30
	featureWeight   = 0.30
	sceneWeight     = 0.25
	pacingWeight    = 0.15
)

// 正規化の分母です。3人以上・6特徴以上は飽和とみなします。
const (
	saturatedCharacters = 3.0
	saturatedFeatures   = 6.0
)

var sceneComplexity = map[domain.SceneType]float64{
	domain.SceneAction:       1.0,
	domain.SceneEstablishing: 0.8,
	domain.SceneEmotional:    0.6,
	domain.SceneTransition:   0.5,
	domain.SceneDialogue:     0.4,
}

var pacingComplexity = map[domain.Pacing]float64{
	domain.PacingFast:     1.0,
	domain.PacingModerate: 0.6,
	domain.PacingSlow:     0.3,
}

// visualComplexity は映像化の難しさの目安（0.0〜1.0）です。
// 登場人数・視覚特徴の密度・シーン種別・ペースの合成で、同じ入力なら
// 常に同じ値になります。
func visualComplexity(chunk *domain.Chunk, fp *domain.Fingerprint) float64 {
	chars := float64(len(chunk.Characters)) / saturatedCharacters
	if chars > 1 {
		chars = 1
	}

	var featureCount int
	if fp != nil {
		featureCount = len(fp.Environment) + len(fp.VisualStyle) + len(fp.Atmosphere)
	}
	features := float64(featureCount) / saturatedFeatures
	if features > 1 {
		features = 1
	}

	score := characterWeight*chars +
		featureWeight*features +
		sceneWeight*sceneComplexity[chunk.SceneType] +
		pacingWeight*pacingComplexity[chunk.Pacing]
	if score > 1 {
		score = 1
	}
	return score
}

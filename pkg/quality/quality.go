// Package quality は完成したフィンガープリント連鎖を事後評価し、
// 一貫性・継続性・物語の流れの3指標を算出します。
package quality

import (
	"math"

	"github.com/shouni/go-scene-dna/pkg/domain"
)

// Metrics は連鎖全体の品質スコア（いずれも 0.0〜1.0）です。
type Metrics struct {
	CharacterConsistency float64 `json:"character_consistency"`
	VisualContinuity     float64 `json:"visual_continuity"`
	NarrativeFlow        float64 `json:"narrative_flow"`
}

// 物語の流れを構成する要素の重みです。合計は 1.0 になります。
const (
	sceneVarietyWeight  = 0.30
	pacingVarietyWeight = 0.20
	toneVarietyWeight   = 0.20
	durationWeight      = 0.30
)

// Evaluate は連鎖全体を評価します。比較対象が2チャンク未満の連鎖は
// 破綻のしようがないため、全指標を 1.0 とみなします。
func Evaluate(chunks []domain.Chunk, fps []*domain.Fingerprint) Metrics {
	if len(fps) < 2 || len(chunks) < 2 {
		return Metrics{CharacterConsistency: 1, VisualContinuity: 1, NarrativeFlow: 1}
	}
	return Metrics{
		CharacterConsistency: characterConsistency(fps),
		VisualContinuity:     visualContinuity(fps),
		NarrativeFlow:        narrativeFlow(chunks),
	}
}

// characterConsistency は隣接チャンクの両方に登場するキャラクターについて、
// keep 方針の特徴値が一致している割合を測ります。比較可能なペアが
// ひとつもなければ破綻なしとして 1.0 を返します。
func characterConsistency(fps []*domain.Fingerprint) float64 {
	var pairScores []float64
	for i := 1; i < len(fps); i++ {
		prev, curr := fps[i-1], fps[i]
		if prev == nil || curr == nil {
			continue
		}
		matches, comparisons := 0, 0
		for name, currMap := range curr.Characters {
			prevMap, ok := prev.Characters[name]
			if !ok {
				continue
			}
			m, c := matchRatio(prevMap, currMap, domain.PolicyKeep)
			matches += m
			comparisons += c
		}
		if comparisons > 0 {
			pairScores = append(pairScores, float64(matches)/float64(comparisons))
		}
	}
	return meanOrPerfect(pairScores)
}

// visualContinuity は環境と映像スタイルの keep/evolve 特徴について
// 隣接チャンク間の値の一致割合を測ります。
func visualContinuity(fps []*domain.Fingerprint) float64 {
	var pairScores []float64
	for i := 1; i < len(fps); i++ {
		prev, curr := fps[i-1], fps[i]
		if prev == nil || curr == nil {
			continue
		}
		matches, comparisons := 0, 0
		for _, policy := range []domain.InheritancePolicy{domain.PolicyKeep, domain.PolicyEvolve} {
			m, c := matchRatio(prev.Environment, curr.Environment, policy)
			matches += m
			comparisons += c
			m, c = matchRatio(prev.VisualStyle, curr.VisualStyle, policy)
			matches += m
			comparisons += c
		}
		if comparisons > 0 {
			pairScores = append(pairScores, float64(matches)/float64(comparisons))
		}
	}
	return meanOrPerfect(pairScores)
}

// matchRatio は前のフィンガープリントに存在する policy 方針のキーを分母とし、
// 後続側で値が一致した数を返します。前にあったキーが後続から消えていれば
// 連鎖の断絶として不一致に数えます。
func matchRatio(prev, curr domain.FeatureMap, policy domain.InheritancePolicy) (matches, comparisons int) {
	for key, prevFeature := range prev {
		if prevFeature.Policy != policy {
			continue
		}
		comparisons++
		if currFeature, ok := curr[key]; ok && currFeature.Value == prevFeature.Value {
			matches++
		}
	}
	return matches, comparisons
}

// narrativeFlow はシーン種別・ペース・トーンの多様性と、チャンク尺の
// ばらつきの小ささを合成したスコアです。
func narrativeFlow(chunks []domain.Chunk) float64 {
	sceneTypes := make(map[domain.SceneType]struct{})
	pacings := make(map[domain.Pacing]struct{})
	tones := make(map[domain.Tone]struct{})
	durations := make([]float64, 0, len(chunks))
	for _, chunk := range chunks {
		sceneTypes[chunk.SceneType] = struct{}{}
		pacings[chunk.Pacing] = struct{}{}
		tones[chunk.EmotionalTone] = struct{}{}
		durations = append(durations, chunk.Duration)
	}

	score := sceneVarietyWeight*variety(len(sceneTypes), len(chunks), 5) +
		pacingVarietyWeight*variety(len(pacings), len(chunks), 3) +
		toneVarietyWeight*variety(len(tones), len(chunks), 5) +
		durationWeight*durationRegularity(durations)
	return clamp01(score)
}

// variety は観測された種類数を「期待できる上限」で割った値です。
// 上限はチャンク数と語彙数の小さい方です。
func variety(distinct, chunkCount, vocabulary int) float64 {
	possible := chunkCount
	if vocabulary < possible {
		possible = vocabulary
	}
	if possible <= 0 {
		return 1
	}
	return float64(distinct) / float64(possible)
}

// durationRegularity は尺の変動係数が小さいほど 1.0 に近づきます。
func durationRegularity(durations []float64) float64 {
	if len(durations) == 0 {
		return 1
	}
	var sum float64
	for _, d := range durations {
		sum += d
	}
	mean := sum / float64(len(durations))
	if mean == 0 {
		return 1
	}
	var variance float64
	for _, d := range durations {
		variance += (d - mean) * (d - mean)
	}
	variance /= float64(len(durations))
	return clamp01(1 - math.Sqrt(variance)/mean)
}

func meanOrPerfect(scores []float64) float64 {
	if len(scores) == 0 {
		return 1
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

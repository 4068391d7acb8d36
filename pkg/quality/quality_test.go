package quality

import (
	"testing"

	"github.com/shouni/go-scene-dna/pkg/domain"
)

func fpWithCharacter(id int, name, ethnicity string) *domain.Fingerprint {
	return &domain.Fingerprint{
		ChunkID: id,
		Characters: map[string]domain.FeatureMap{
			name: {
				"ethnicity": {Value: ethnicity, Confidence: 0.9, Policy: domain.PolicyKeep},
			},
		},
		Environment: domain.FeatureMap{
			"location_type": {Value: "rural", Confidence: 0.8, Policy: domain.PolicyEvolve},
		},
	}
}

func twoChunks() []domain.Chunk {
	return []domain.Chunk{
		{ID: 1, SceneType: domain.SceneEstablishing, Pacing: domain.PacingModerate, EmotionalTone: domain.ToneNeutral, Duration: 8},
		{ID: 2, SceneType: domain.SceneDialogue, Pacing: domain.PacingModerate, EmotionalTone: domain.ToneJoyful, Duration: 8},
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("2チャンク未満の連鎖は全指標1.0", func(t *testing.T) {
		got := Evaluate([]domain.Chunk{{ID: 1}}, []*domain.Fingerprint{fpWithCharacter(1, "Minh", "asian")})
		want := Metrics{CharacterConsistency: 1, VisualContinuity: 1, NarrativeFlow: 1}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("keep特徴が全一致なら一貫性1.0", func(t *testing.T) {
		fps := []*domain.Fingerprint{fpWithCharacter(1, "Minh", "asian"), fpWithCharacter(2, "Minh", "asian")}
		got := Evaluate(twoChunks(), fps)
		if got.CharacterConsistency != 1 {
			t.Errorf("CharacterConsistency: got %v, want 1", got.CharacterConsistency)
		}
		if got.VisualContinuity != 1 {
			t.Errorf("VisualContinuity: got %v, want 1", got.VisualContinuity)
		}
	})

	t.Run("keep特徴の値が変わると一貫性が下がる", func(t *testing.T) {
		fps := []*domain.Fingerprint{fpWithCharacter(1, "Minh", "asian"), fpWithCharacter(2, "Minh", "caucasian")}
		got := Evaluate(twoChunks(), fps)
		if got.CharacterConsistency != 0 {
			t.Errorf("CharacterConsistency: got %v, want 0", got.CharacterConsistency)
		}
	})

	t.Run("後続から消えたkeep特徴は断絶として数える", func(t *testing.T) {
		a := fpWithCharacter(1, "Minh", "asian")
		b := fpWithCharacter(2, "Minh", "asian")
		delete(b.Characters["Minh"], "ethnicity")
		got := Evaluate(twoChunks(), []*domain.Fingerprint{a, b})
		if got.CharacterConsistency != 0 {
			t.Errorf("CharacterConsistency: got %v, want 0", got.CharacterConsistency)
		}
	})

	t.Run("共通キャラクターのいないペアは比較対象外", func(t *testing.T) {
		fps := []*domain.Fingerprint{fpWithCharacter(1, "Minh", "asian"), fpWithCharacter(2, "Lan", "asian")}
		got := Evaluate(twoChunks(), fps)
		if got.CharacterConsistency != 1 {
			t.Errorf("CharacterConsistency: got %v, want 1", got.CharacterConsistency)
		}
	})

	t.Run("環境のevolve特徴が変わると継続性が下がる", func(t *testing.T) {
		a := fpWithCharacter(1, "Minh", "asian")
		b := fpWithCharacter(2, "Minh", "asian")
		b.Environment["location_type"] = domain.Feature{Value: "urban", Confidence: 0.8, Policy: domain.PolicyEvolve}
		got := Evaluate(twoChunks(), []*domain.Fingerprint{a, b})
		if got.VisualContinuity != 0 {
			t.Errorf("VisualContinuity: got %v, want 0", got.VisualContinuity)
		}
	})

	t.Run("nilフィンガープリントを含むペアは読み飛ばす", func(t *testing.T) {
		fps := []*domain.Fingerprint{fpWithCharacter(1, "Minh", "asian"), nil}
		got := Evaluate(twoChunks(), fps)
		if got.CharacterConsistency != 1 || got.VisualContinuity != 1 {
			t.Errorf("nilペアが評価に混入しています: %+v", got)
		}
	})

	t.Run("均一な尺はばらつき満点", func(t *testing.T) {
		if got := durationRegularity([]float64{8, 8, 8}); got != 1 {
			t.Errorf("durationRegularity: got %v, want 1", got)
		}
	})

	t.Run("物語の流れは0.0から1.0に収まる", func(t *testing.T) {
		chunks := []domain.Chunk{
			{SceneType: domain.SceneEstablishing, Pacing: domain.PacingSlow, EmotionalTone: domain.ToneSomber, Duration: 4},
			{SceneType: domain.SceneAction, Pacing: domain.PacingFast, EmotionalTone: domain.ToneTense, Duration: 16},
			{SceneType: domain.SceneDialogue, Pacing: domain.PacingModerate, EmotionalTone: domain.ToneJoyful, Duration: 8},
		}
		got := narrativeFlow(chunks)
		if got < 0 || got > 1 {
			t.Errorf("narrativeFlow が範囲外です: %v", got)
		}
	})
}

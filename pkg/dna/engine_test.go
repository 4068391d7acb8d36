package dna

import (
	"context"
	"errors"
	"testing"

	"github.com/shouni/go-scene-dna/pkg/domain"
	"github.com/shouni/go-scene-dna/pkg/extractor"
	"github.com/shouni/go-scene-dna/pkg/taxonomy"
)

// stubExtractor は固定の候補列を返すテスト用抽出器です。
type stubExtractor struct {
	cands []extractor.Candidate
	err   error
}

func (s *stubExtractor) Extract(_ context.Context, _ string, _ domain.Language, _ []string) ([]extractor.Candidate, error) {
	return s.cands, s.err
}

func newTestEngine(t *testing.T, ex extractor.Extractor) *Engine {
	t.Helper()
	return NewEngine(taxonomy.NewTable(), ex, domain.LangEnglish, DefaultConfig())
}

func minhCandidates() []extractor.Candidate {
	return []extractor.Candidate{
		{Category: taxonomy.CategoryAnthropology, Feature: "ethnicity", Subject: "Minh", Token: "asian", Confidence: 0.92},
		{Category: taxonomy.CategoryAnthropology, Feature: "gender", Subject: "Minh", Token: "male", Confidence: 0.88},
		{Category: taxonomy.CategoryAppearance, Feature: "build", Subject: "Minh", Token: "slim", Confidence: 0.85},
		{Category: taxonomy.CategoryEnvironment, Feature: "location_type", Token: "rural", Confidence: 0.80},
		{Category: taxonomy.CategoryEnvironment, Feature: "weather", Token: "rain", Confidence: 0.90},
	}
}

func TestEngine_ExtractFingerprint(t *testing.T) {
	ctx := context.Background()

	t.Run("同一入力からは同一のハッシュが得られる", func(t *testing.T) {
		engine := newTestEngine(t, &stubExtractor{cands: minhCandidates()})
		fp1, _, err := engine.ExtractFingerprint(ctx, "text", 1, []string{"Minh"}, nil)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		fp2, _, err := engine.ExtractFingerprint(ctx, "text", 1, []string{"Minh"}, nil)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if fp1.Hash != fp2.Hash {
			t.Errorf("ハッシュが一致しません: %s vs %s", fp1.Hash, fp2.Hash)
		}
		if len(fp1.Hash) != hashLength {
			t.Errorf("ハッシュ長が %d ではありません: %q", hashLength, fp1.Hash)
		}
	})

	t.Run("keep特徴は再検出なしでも減衰つきで引き継がれる", func(t *testing.T) {
		engine := newTestEngine(t, &stubExtractor{cands: minhCandidates()})
		first, _, err := engine.ExtractFingerprint(ctx, "text", 1, []string{"Minh"}, nil)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}

		// 2チャンク目は新規特徴ゼロだが Minh は登場している
		engine2 := newTestEngine(t, &stubExtractor{})
		second, _, err := engine2.ExtractFingerprint(ctx, "text", 2, []string{"Minh"}, first)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}

		got, ok := second.Characters["Minh"]["ethnicity"]
		if !ok {
			t.Fatal("ethnicity が継承されていません")
		}
		if got.Value != "asian" {
			t.Errorf("継承値が不正です: %q", got.Value)
		}
		want := 0.92 * DefaultConfig().CharacterDecay
		if got.Confidence != want {
			t.Errorf("減衰後の信頼度: got %v, want %v", got.Confidence, want)
		}
		if second.PrevLink != first.Hash {
			t.Errorf("prev_link が直前ハッシュと一致しません: %q", second.PrevLink)
		}
	})

	t.Run("change特徴は継承されない", func(t *testing.T) {
		engine := newTestEngine(t, &stubExtractor{cands: minhCandidates()})
		first, _, err := engine.ExtractFingerprint(ctx, "text", 1, []string{"Minh"}, nil)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		engine2 := newTestEngine(t, &stubExtractor{})
		second, _, err := engine2.ExtractFingerprint(ctx, "text", 2, []string{"Minh"}, first)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if _, ok := second.Environment["weather"]; ok {
			t.Error("weather (change) が継承されています")
		}
		if _, ok := second.Environment["location_type"]; !ok {
			t.Error("location_type (evolve) が継承されていません")
		}
	})

	t.Run("不在キャラクターは復活しない", func(t *testing.T) {
		engine := newTestEngine(t, &stubExtractor{cands: minhCandidates()})
		first, _, err := engine.ExtractFingerprint(ctx, "text", 1, []string{"Minh"}, nil)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		engine2 := newTestEngine(t, &stubExtractor{})
		second, _, err := engine2.ExtractFingerprint(ctx, "text", 2, []string{"Lan"}, first)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if _, ok := second.Characters["Minh"]; ok {
			t.Error("不在の Minh が復活しています")
		}
	})

	t.Run("change特徴はハッシュへ寄与しない", func(t *testing.T) {
		withWeather := minhCandidates()
		withoutWeather := minhCandidates()[:4]

		e1 := newTestEngine(t, &stubExtractor{cands: withWeather})
		e2 := newTestEngine(t, &stubExtractor{cands: withoutWeather})
		fp1, _, err := e1.ExtractFingerprint(ctx, "text", 1, []string{"Minh"}, nil)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		fp2, _, err := e2.ExtractFingerprint(ctx, "text", 1, []string{"Minh"}, nil)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if fp1.Hash != fp2.Hash {
			t.Errorf("weather の有無でハッシュが変わっています: %s vs %s", fp1.Hash, fp2.Hash)
		}
	})

	t.Run("新規検出値が継承値より優先される", func(t *testing.T) {
		engine := newTestEngine(t, &stubExtractor{cands: minhCandidates()})
		first, _, err := engine.ExtractFingerprint(ctx, "text", 1, []string{"Minh"}, nil)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		fresh := &stubExtractor{cands: []extractor.Candidate{
			{Category: taxonomy.CategoryAppearance, Feature: "build", Subject: "Minh", Token: "muscular", Confidence: 0.75},
		}}
		second, _, err := newTestEngine(t, fresh).ExtractFingerprint(ctx, "text", 2, []string{"Minh"}, first)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		got := second.Characters["Minh"]["build"]
		if got.Value != "muscular" || got.Confidence != 0.75 {
			t.Errorf("新規検出が優先されていません: %+v", got)
		}
	})

	t.Run("下限を割ったkeep特徴は床張りで伝播し続ける", func(t *testing.T) {
		engine := newTestEngine(t, &stubExtractor{})
		prev := &domain.Fingerprint{
			ChunkID: 1,
			Hash:    "deadbeef",
			Characters: map[string]domain.FeatureMap{
				"Minh": {"ethnicity": {Value: "asian", Confidence: 0.05, Policy: domain.PolicyKeep}},
			},
			Environment: domain.FeatureMap{
				"location_type": {Value: "rural", Confidence: 0.05, Policy: domain.PolicyEvolve},
			},
		}
		fp, err := engine.Fold(2, []string{"Minh"}, nil, prev)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		got, ok := fp.Characters["Minh"]["ethnicity"]
		if !ok {
			t.Fatal("keep特徴が連鎖から脱落しています")
		}
		if got.Confidence != DefaultConfig().ConfidenceFloor {
			t.Errorf("床張り後の信頼度: got %v, want %v", got.Confidence, DefaultConfig().ConfidenceFloor)
		}
		if _, ok := fp.Environment["location_type"]; ok {
			t.Error("下限を割った evolve 特徴が残っています")
		}
	})

	t.Run("抽出失敗は警告つきで縮退続行する", func(t *testing.T) {
		engine := newTestEngine(t, &stubExtractor{err: errors.New("model unavailable")})
		fp, warns, err := engine.ExtractFingerprint(ctx, "text", 3, []string{"Minh"}, nil)
		if err != nil {
			t.Fatalf("回復可能な失敗がエラー扱いです: %v", err)
		}
		if len(warns) == 0 {
			t.Error("警告が返っていません")
		}
		if fp == nil || fp.ChunkID != 3 || fp.Hash == "" {
			t.Errorf("縮退フィンガープリントが不正です: %+v", fp)
		}
	})

	t.Run("チャンクIDが1未満ならエラー", func(t *testing.T) {
		engine := newTestEngine(t, &stubExtractor{})
		if _, _, err := engine.ExtractFingerprint(ctx, "text", 0, nil, nil); err == nil {
			t.Error("エラーが返っていません")
		}
	})
}

func TestWindow(t *testing.T) {
	t.Run("容量を超えると最古の要素が捨てられる", func(t *testing.T) {
		w := NewWindow(3)
		for id := 1; id <= 5; id++ {
			w.Push(&domain.Fingerprint{ChunkID: id})
		}
		if w.Len() != 3 {
			t.Fatalf("件数: got %d, want 3", w.Len())
		}
		snap := w.Snapshot()
		if snap[0].ChunkID != 3 || snap[2].ChunkID != 5 {
			t.Errorf("保持内容が不正です: %d..%d", snap[0].ChunkID, snap[2].ChunkID)
		}
		if w.Last().ChunkID != 5 {
			t.Errorf("Last: got %d, want 5", w.Last().ChunkID)
		}
	})

	t.Run("空のウィンドウのLastはnil", func(t *testing.T) {
		if NewWindow(2).Last() != nil {
			t.Error("空なのに nil ではありません")
		}
	})
}

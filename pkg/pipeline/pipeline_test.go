package pipeline

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shouni/go-scene-dna/examples"
	"github.com/shouni/go-scene-dna/pkg/domain"
	"github.com/shouni/go-scene-dna/pkg/extractor"
	"github.com/shouni/go-scene-dna/pkg/taxonomy"
)

const sampleScript = "MINH (40, Asian man, slim build) walks through the rain. MINH greets LAN (25, Vietnamese woman) warmly."

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(extractor.NewRegexExtractor(taxonomy.NewTable()), DefaultPipelineConfig())
	if err != nil {
		t.Fatalf("初期化に失敗: %v", err)
	}
	return p
}

func TestPipeline_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("2文の台本が2チャンクの連鎖になる", func(t *testing.T) {
		p := newTestPipeline(t)
		result, err := p.Process(ctx, sampleScript, Options{TargetDuration: 8, SessionID: "test-session"})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if !result.Success {
			t.Fatalf("success=false: %s", result.ErrorMessage)
		}
		if result.TotalChunks != 2 {
			t.Fatalf("TotalChunks: got %d, want 2", result.TotalChunks)
		}
		if result.DetectedLanguage != domain.LangEnglish {
			t.Errorf("DetectedLanguage: got %s, want en", result.DetectedLanguage)
		}
		if result.TotalDuration != 16 {
			t.Errorf("TotalDuration: got %v, want 16", result.TotalDuration)
		}
		if !reflect.DeepEqual(result.Characters, []string{"Lan", "Minh"}) {
			t.Errorf("Characters: got %v", result.Characters)
		}
		if len(result.DNAChain) != 2 {
			t.Fatalf("DNAChain: got %v", result.DNAChain)
		}
		if result.Chunks[0].PreviousDNA != "" {
			t.Errorf("先頭チャンクに previous_dna が付いています: %q", result.Chunks[0].PreviousDNA)
		}
		if result.Chunks[1].PreviousDNA != result.Chunks[0].DNAHash {
			t.Errorf("連鎖が切れています: %q != %q", result.Chunks[1].PreviousDNA, result.Chunks[0].DNAHash)
		}
	})

	t.Run("再検出のないキャラクター特徴が後続プロンプトへ引き継がれる", func(t *testing.T) {
		p := newTestPipeline(t)
		result, err := p.Process(ctx, sampleScript, Options{TargetDuration: 8, SessionID: "test-session"})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		second := result.Chunks[1].AIPrompt
		if !strings.Contains(second, "Minh") || !strings.Contains(second, "asian") {
			t.Errorf("2チャンク目のプロンプトに Minh の継承特徴がありません:\n%s", second)
		}
		if !strings.Contains(second, result.Chunks[0].DNAHash) {
			t.Errorf("継続参照が前チャンクのハッシュを指していません:\n%s", second)
		}
	})

	t.Run("同一入力と同一セッションIDからは同一の結果が得られる", func(t *testing.T) {
		p := newTestPipeline(t)
		first, err := p.Process(ctx, sampleScript, Options{TargetDuration: 8, SessionID: "fixed"})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		second, err := p.Process(ctx, sampleScript, Options{TargetDuration: 8, SessionID: "fixed"})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Error("結果が決定的ではありません")
		}
	})

	t.Run("空の台本は0チャンクの成功として扱う", func(t *testing.T) {
		p := newTestPipeline(t)
		result, err := p.Process(ctx, "   \n  ", Options{SessionID: "empty"})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if !result.Success || result.TotalChunks != 0 {
			t.Errorf("空台本の結果が不正です: %+v", result)
		}
		if len(result.Warnings) == 0 {
			t.Error("空台本の警告がありません")
		}
		if result.OverallQuality != 1 {
			t.Errorf("空連鎖の品質: got %v, want 1", result.OverallQuality)
		}
	})

	t.Run("抽出失敗は警告つきの成功として続行する", func(t *testing.T) {
		p, err := New(&failingExtractor{}, DefaultPipelineConfig())
		if err != nil {
			t.Fatalf("初期化に失敗: %v", err)
		}
		result, err := p.Process(ctx, sampleScript, Options{TargetDuration: 8, SessionID: "degraded"})
		if err != nil {
			t.Fatalf("回復可能な失敗がエラー扱いです: %v", err)
		}
		if !result.Success {
			t.Fatalf("success=false: %s", result.ErrorMessage)
		}
		if len(result.Warnings) == 0 {
			t.Error("縮退の警告がありません")
		}
		if len(result.DNAChain) != result.TotalChunks {
			t.Errorf("連鎖長がチャンク数と一致しません: %d != %d", len(result.DNAChain), result.TotalChunks)
		}
	})

	t.Run("抽出タイムアウトは代替フィンガープリントで連鎖を維持する", func(t *testing.T) {
		cfg := DefaultPipelineConfig()
		cfg.ChunkTimeout = 10 * time.Millisecond
		p, err := New(&slowExtractor{}, cfg)
		if err != nil {
			t.Fatalf("初期化に失敗: %v", err)
		}
		result, err := p.Process(ctx, sampleScript, Options{TargetDuration: 8, SessionID: "timeout"})
		if err != nil {
			t.Fatalf("タイムアウトがエラー扱いです: %v", err)
		}
		if !result.Success {
			t.Fatalf("success=false: %s", result.ErrorMessage)
		}
		if result.Chunks[0].DNAHash != "fallback_1" {
			t.Errorf("代替ハッシュではありません: %q", result.Chunks[0].DNAHash)
		}
		if result.Chunks[1].PreviousDNA != "fallback_1" {
			t.Errorf("代替フィンガープリント経由で連鎖が維持されていません: %q", result.Chunks[1].PreviousDNA)
		}
		if len(result.Warnings) == 0 {
			t.Error("タイムアウトの警告がありません")
		}
	})

	t.Run("親コンテキストの中断は致命的エラー", func(t *testing.T) {
		p := newTestPipeline(t)
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		result, err := p.Process(canceled, sampleScript, Options{SessionID: "canceled"})
		if err == nil {
			t.Fatal("エラーが返っていません")
		}
		if result.Success {
			t.Error("中断した実行が success=true です")
		}
		if result.ErrorMessage == "" {
			t.Error("error_message が空です")
		}
	})

	t.Run("ベトナム語のサンプル台本を処理できる", func(t *testing.T) {
		p := newTestPipeline(t)
		result, err := p.Process(ctx, examples.VillageRainVI, Options{TargetDuration: 8, SessionID: "vi-sample"})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if !result.Success {
			t.Fatalf("success=false: %s", result.ErrorMessage)
		}
		if result.DetectedLanguage != domain.LangVietnamese {
			t.Errorf("DetectedLanguage: got %s, want vi", result.DetectedLanguage)
		}
		if result.TotalChunks < 1 {
			t.Error("チャンクが生成されていません")
		}
		if len(result.DNAChain) != result.TotalChunks {
			t.Errorf("連鎖長がチャンク数と一致しません: %d != %d", len(result.DNAChain), result.TotalChunks)
		}
	})

	t.Run("セッションIDは未指定なら自動生成される", func(t *testing.T) {
		p := newTestPipeline(t)
		result, err := p.Process(ctx, sampleScript, Options{TargetDuration: 8})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if !strings.HasPrefix(result.SessionID, "scene-dna-") {
			t.Errorf("SessionID: got %q", result.SessionID)
		}
	})
}

func TestVisualComplexity(t *testing.T) {
	t.Run("登場人数と特徴密度で複雑度が上がる", func(t *testing.T) {
		sparse := visualComplexity(&domain.Chunk{SceneType: domain.SceneDialogue, Pacing: domain.PacingSlow}, nil)
		dense := visualComplexity(
			&domain.Chunk{SceneType: domain.SceneAction, Pacing: domain.PacingFast, Characters: []string{"A", "B", "C"}},
			&domain.Fingerprint{
				Environment: domain.FeatureMap{"location_type": {}, "weather": {}},
				VisualStyle: domain.FeatureMap{"lighting_quality": {}, "camera_angle": {}, "color_palette": {}},
				Atmosphere:  domain.FeatureMap{"atmosphere_mood": {}},
			},
		)
		if sparse >= dense {
			t.Errorf("複雑度の大小が逆転しています: sparse=%v dense=%v", sparse, dense)
		}
		if dense != 1 {
			t.Errorf("飽和時の複雑度: got %v, want 1", dense)
		}
	})
}

// failingExtractor は常に失敗する抽出器です。
type failingExtractor struct{}

func (f *failingExtractor) Extract(context.Context, string, domain.Language, []string) ([]extractor.Candidate, error) {
	return nil, errors.New("model unavailable")
}

// slowExtractor はコンテキストの期限切れまで応答しない抽出器です。
type slowExtractor struct{}

func (s *slowExtractor) Extract(ctx context.Context, _ string, _ domain.Language, _ []string) ([]extractor.Candidate, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

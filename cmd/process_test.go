package cmd

import (
	"testing"

	"github.com/shouni/go-scene-dna/internal/config"
)

func TestApplyModelOverride(t *testing.T) {
	t.Run("フラグ未指定なら環境変数由来のモデル名を保持するのだ", func(t *testing.T) {
		cfg := &config.Config{GeminiModel: "gemini-from-env"}
		applyModelOverride(cfg, false, config.DefaultModel)
		if cfg.GeminiModel != "gemini-from-env" {
			t.Errorf("環境変数のモデル名が潰されたのだ: %q", cfg.GeminiModel)
		}
	})

	t.Run("フラグ明示時はフラグの値が優先されるのだ", func(t *testing.T) {
		cfg := &config.Config{GeminiModel: "gemini-from-env"}
		applyModelOverride(cfg, true, "gemini-from-flag")
		if cfg.GeminiModel != "gemini-from-flag" {
			t.Errorf("期待値 gemini-from-flag, 実際の値 %q", cfg.GeminiModel)
		}
	})
}

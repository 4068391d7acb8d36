// Package dna はチャンクごとの特徴フィンガープリント（DNA）を生成し、
// 隣接チャンク間の継承規則と決定的ハッシュで連鎖させる中核エンジンです。
package dna

import (
	"context"
	"fmt"

	"github.com/shouni/go-scene-dna/pkg/domain"
	"github.com/shouni/go-scene-dna/pkg/extractor"
	"github.com/shouni/go-scene-dna/pkg/taxonomy"
)

// Config は継承エンジンの調整パラメータです。減衰係数や閾値は経験的な
// 調整値であり、固定の不変条件ではありません。
type Config struct {
	// CharacterDecay はキャラクター特徴を再検出なしで引き継ぐ際の減衰係数です。
	CharacterDecay float64
	// EnvironmentDecay は環境系特徴の減衰係数です。
	EnvironmentDecay float64
	// ConfidenceFloor を下回った継承特徴は連鎖から脱落します。
	ConfidenceFloor float64
	// WindowSize は作業メモリに保持する直近フィンガープリント数です。
	WindowSize int
}

// DefaultConfig は既定の調整値を返します。
func DefaultConfig() Config {
	return Config{
		CharacterDecay:   0.95,
		EnvironmentDecay: 0.90,
		ConfidenceFloor:  0.10,
		WindowSize:       3,
	}
}

// Engine は1回の処理に占有されるフィンガープリント生成器です。
// 実行間で状態を共有しないため、ロックは不要です。
type Engine struct {
	table *taxonomy.Table
	ex    extractor.Extractor
	lang  domain.Language
	cfg   Config
}

// NewEngine は継承エンジンを生成します。
func NewEngine(table *taxonomy.Table, ex extractor.Extractor, lang domain.Language, cfg Config) *Engine {
	return &Engine{table: table, ex: ex, lang: lang, cfg: cfg}
}

// ExtractFingerprint はチャンク1つ分のフィンガープリントを生成します。
// 抽出の失敗はそのチャンクの特徴マップを空へ縮退させて連鎖を続行し、
// 警告として返します。エラーを返すのはフィンガープリント構築そのものが
// 不可能な場合だけです。
func (e *Engine) ExtractFingerprint(ctx context.Context, chunkText string, chunkID int, characters []string, prev *domain.Fingerprint) (*domain.Fingerprint, []string, error) {
	var warnings []string
	cands, err := e.ex.Extract(ctx, chunkText, e.lang, characters)
	if err != nil {
		// 回復可能な抽出失敗: このチャンクの新規特徴を空として続行する
		warnings = append(warnings, fmt.Sprintf("chunk %d: feature extraction degraded: %v", chunkID, err))
		cands = nil
	}

	fp, err := e.Fold(chunkID, characters, cands, prev)
	if err != nil {
		return nil, warnings, err
	}
	return fp, warnings, nil
}

// Fold は抽出済みの候補列からフィンガープリントを構築し、直前の
// フィンガープリントと連結します。抽出を先行並列化した呼び出し側が、
// 連鎖順を守ったままここへ畳み込むための入口です。
func (e *Engine) Fold(chunkID int, characters []string, cands []extractor.Candidate, prev *domain.Fingerprint) (*domain.Fingerprint, error) {
	if chunkID < 1 {
		return nil, fmt.Errorf("チャンクIDは1以上である必要があります: %d", chunkID)
	}
	fp := e.buildFresh(chunkID, characters, cands)
	e.merge(fp, prev, characters)

	hash, err := hashFingerprint(fp)
	if err != nil {
		return nil, fmt.Errorf("チャンク %d のハッシュ計算に失敗しました: %w", chunkID, err)
	}
	fp.Hash = hash
	if prev != nil {
		fp.PrevLink = prev.Hash
	}
	return fp, nil
}

// buildFresh は候補列を正規化してチャンク自身の新規特徴マップを組み立てます。
// 同一キーで候補が競合した場合は信頼度の高いものを採用します。
func (e *Engine) buildFresh(chunkID int, characters []string, cands []extractor.Candidate) *domain.Fingerprint {
	fp := &domain.Fingerprint{
		ChunkID:     chunkID,
		Characters:  make(map[string]domain.FeatureMap),
		Environment: domain.FeatureMap{},
		VisualStyle: domain.FeatureMap{},
		AudioVisual: domain.FeatureMap{},
		Narrative:   domain.FeatureMap{},
		Emotions:    domain.FeatureMap{},
		Atmosphere:  domain.FeatureMap{},
	}
	present := make(map[string]struct{}, len(characters))
	for _, name := range characters {
		present[name] = struct{}{}
	}

	for _, c := range cands {
		token := c.Token
		if token == "" {
			token = e.table.Normalize(c.RawValue, c.Category, c.Feature)
		}
		if token == "" {
			continue
		}
		feature := domain.Feature{
			Value:      token,
			Confidence: c.Confidence,
			Policy:     e.table.PolicyOf(c.Feature),
		}

		var target domain.FeatureMap
		switch c.Category {
		case taxonomy.CategoryAnthropology, taxonomy.CategoryAppearance:
			// 本チャンクに不在のキャラクターへは決して帰属させない
			if _, ok := present[c.Subject]; !ok {
				continue
			}
			if fp.Characters[c.Subject] == nil {
				fp.Characters[c.Subject] = domain.FeatureMap{}
			}
			target = fp.Characters[c.Subject]
		case taxonomy.CategoryEnvironment:
			target = fp.Environment
		case taxonomy.CategoryVisualStyle:
			target = fp.VisualStyle
		case taxonomy.CategoryAudioVisual:
			target = fp.AudioVisual
		case taxonomy.CategoryNarrative:
			target = fp.Narrative
		case taxonomy.CategoryEmotions:
			target = fp.Emotions
		case taxonomy.CategoryAtmosphere:
			target = fp.Atmosphere
		default:
			continue
		}

		if existing, ok := target[c.Feature]; !ok || feature.Confidence > existing.Confidence {
			target[c.Feature] = feature
		}
	}
	return fp
}

// merge は直前のフィンガープリントから継承規則に従って特徴を引き継ぎます。
// keep/evolve はいずれも「本チャンクで再検出されなかったキーのみ」を減衰つきで
// 埋め、change は決して継承しません。キャラクターについては本チャンクに
// 登場している名前だけが対象で、不在のキャラクターは復活しません。
func (e *Engine) merge(fp *domain.Fingerprint, prev *domain.Fingerprint, characters []string) {
	if prev == nil {
		return
	}

	for _, name := range characters {
		prevMap, ok := prev.Characters[name]
		if !ok {
			continue
		}
		if fp.Characters[name] == nil {
			fp.Characters[name] = domain.FeatureMap{}
		}
		e.inheritInto(fp.Characters[name], prevMap, e.cfg.CharacterDecay)
	}

	e.inheritInto(fp.Environment, prev.Environment, e.cfg.EnvironmentDecay)
	e.inheritInto(fp.VisualStyle, prev.VisualStyle, e.cfg.EnvironmentDecay)
	e.inheritInto(fp.AudioVisual, prev.AudioVisual, e.cfg.EnvironmentDecay)
	e.inheritInto(fp.Narrative, prev.Narrative, e.cfg.EnvironmentDecay)
	e.inheritInto(fp.Emotions, prev.Emotions, e.cfg.EnvironmentDecay)
	e.inheritInto(fp.Atmosphere, prev.Atmosphere, e.cfg.EnvironmentDecay)
}

func (e *Engine) inheritInto(current domain.FeatureMap, prev domain.FeatureMap, decay float64) {
	for key, feature := range prev {
		if feature.Policy == domain.PolicyChange {
			continue
		}
		if _, fresh := current[key]; fresh {
			// 新規検出値が常に優先される（evolve の上書き禁止、keep も同様）
			continue
		}
		decayed := feature.Confidence * decay
		if decayed < e.cfg.ConfidenceFloor {
			if feature.Policy != domain.PolicyKeep {
				continue
			}
			// keep は再検出がなくても脱落させず、信頼度を下限で床張りして伝播する
			decayed = e.cfg.ConfidenceFloor
		}
		current[key] = domain.Feature{
			Value:      feature.Value,
			Confidence: decayed,
			Policy:     feature.Policy,
		}
	}
}

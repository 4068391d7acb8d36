// Package pipeline は台本から固定尺チャンク・フィンガープリント連鎖・
// シーンプロンプトまでの全工程をオーケストレートする司令塔です。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-scene-dna/pkg/character"
	"github.com/shouni/go-scene-dna/pkg/dna"
	"github.com/shouni/go-scene-dna/pkg/domain"
	"github.com/shouni/go-scene-dna/pkg/extractor"
	"github.com/shouni/go-scene-dna/pkg/language"
	"github.com/shouni/go-scene-dna/pkg/prompts"
	"github.com/shouni/go-scene-dna/pkg/quality"
	"github.com/shouni/go-scene-dna/pkg/segmenter"
	"github.com/shouni/go-scene-dna/pkg/taxonomy"
)

const (
	// DefaultTargetDuration は1チャンクの既定尺（秒）です。
	DefaultTargetDuration = 8.0
	// DefaultLookahead は特徴抽出の並列先読み幅の既定値です。
	DefaultLookahead = 4
	// DefaultChunkTimeout はチャンク1件の特徴抽出に許す時間の既定値です。
	DefaultChunkTimeout = 30 * time.Second
)

// Config はパイプラインの構築時設定です。
type Config struct {
	DNA          dna.Config
	StyleSuffix  string
	Lookahead    int
	ChunkTimeout time.Duration
}

// DefaultPipelineConfig は既定の構築時設定を返します。
func DefaultPipelineConfig() Config {
	return Config{
		DNA:          dna.DefaultConfig(),
		Lookahead:    DefaultLookahead,
		ChunkTimeout: DefaultChunkTimeout,
	}
}

// Options は1回の実行ごとの指定です。
type Options struct {
	// TargetDuration は1チャンクの目標尺（秒）です。0以下なら既定値を使います。
	TargetDuration float64
	// SessionID が空なら実行時刻から自動生成します。
	SessionID string
	// PerChunkLanguage を立てると、チャンクごとに言語を再判定して抽出に使います。
	PerChunkLanguage bool
}

// Pipeline は1プロセス内で再利用できるステートレスな実行器です。
// 連鎖の状態は Process 呼び出しごとに閉じています。
type Pipeline struct {
	detector  *language.Detector
	table     *taxonomy.Table
	ex        extractor.Extractor
	assembler *prompts.SceneAssembler
	cfg       Config
}

// New はパイプラインを構築します。ex が特徴抽出の戦略（正規表現 or 生成AI）を決めます。
func New(ex extractor.Extractor, cfg Config) (*Pipeline, error) {
	if cfg.Lookahead < 1 {
		cfg.Lookahead = DefaultLookahead
	}
	table := taxonomy.NewTable()
	assembler, err := prompts.NewSceneAssembler(table, cfg.StyleSuffix)
	if err != nil {
		return nil, fmt.Errorf("プロンプトアセンブラの初期化に失敗しました: %w", err)
	}
	return &Pipeline{
		detector:  language.NewDetector(),
		table:     table,
		ex:        ex,
		assembler: assembler,
		cfg:       cfg,
	}, nil
}

// Process は台本1本を処理し、チャンク・連鎖・品質指標をまとめた結果を返します。
// 回復可能な失敗は警告として結果に積んで続行し、エラーを返すのは
// 親コンテキストの中断などパイプライン全体が継続不能な場合だけです。
func (p *Pipeline) Process(ctx context.Context, script string, opts Options) (*domain.ProcessingResult, error) {
	start := time.Now()
	if opts.TargetDuration <= 0 {
		opts.TargetDuration = DefaultTargetDuration
	}
	if opts.SessionID == "" {
		opts.SessionID = fmt.Sprintf("scene-dna-%d", time.Now().Unix())
	}

	result := &domain.ProcessingResult{SessionID: opts.SessionID}

	detected := p.detector.Detect(script)
	result.DetectedLanguage = detected.Language
	result.LanguageConfidence = detected.Confidence

	chunks := segmenter.New(detected.Language).Segment(script, opts.TargetDuration)
	if len(chunks) == 0 {
		// 空の台本は失敗ではない
		result.Success = true
		if strings.TrimSpace(script) == "" {
			result.Warnings = append(result.Warnings, "empty script: nothing to process")
		}
		p.applyQuality(result, nil, nil)
		return result, nil
	}

	langs := p.chunkLanguages(chunks, detected.Language, opts.PerChunkLanguage)
	knownNames := p.assignCharacters(chunks, langs)

	extractions, err := p.extractAhead(ctx, chunks, langs)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("pipeline aborted: %v", err)
		return result, fmt.Errorf("pipeline: 特徴抽出が継続不能です: %w", err)
	}

	fps := p.foldChain(chunks, extractions, detected.Language, result)
	p.buildRecords(chunks, fps, result)
	p.applyQuality(result, chunks, fps)

	result.Success = true
	result.Characters = knownNames
	result.TotalChunks = len(chunks)

	slog.Info("処理が完了しました",
		"session_id", opts.SessionID,
		"chunks", len(chunks),
		"language", detected.Language,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

// chunkLanguages は各チャンクへ適用する言語を決めます。既定は台本全体の
// 判定結果で、perChunk 指定時のみチャンク単位で再判定します。
func (p *Pipeline) chunkLanguages(chunks []domain.Chunk, overall domain.Language, perChunk bool) []domain.Language {
	langs := make([]domain.Language, len(chunks))
	for i := range chunks {
		langs[i] = overall
		if perChunk {
			langs[i] = p.detector.Detect(chunks[i].Content).Language
		}
	}
	return langs
}

// assignCharacters はチャンクを先頭から走査し、既知名簿を育てながら
// 各チャンクの登場キャラクターを確定させます。名簿の再利用により、
// 初出時にしか注釈のないキャラクターも後続チャンクで拾えます。
// 戻り値は全体を通しての登場名簿（ソート済み）です。
func (p *Pipeline) assignCharacters(chunks []domain.Chunk, langs []domain.Language) []string {
	extractors := make(map[domain.Language]*character.Extractor)
	var known []string
	seen := make(map[string]struct{})
	for i := range chunks {
		ex, ok := extractors[langs[i]]
		if !ok {
			ex = character.New(langs[i])
			extractors[langs[i]] = ex
		}
		names := ex.ExtractWithKnown(chunks[i].Content, known)
		chunks[i].Characters = names
		for _, name := range names {
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				known = append(known, name)
			}
		}
	}
	sort.Strings(known)
	return known
}

type extraction struct {
	cands    []extractor.Candidate
	warn     string
	timedOut bool
}

// extractAhead はチャンクごとの特徴抽出を上限つきで先読み並列実行します。
// 抽出はステートレスなので順不同で走らせてよく、連鎖への畳み込みは
// 呼び出し側が順序どおりに行います。個々のチャンクの失敗・タイムアウトは
// 候補ゼロへの縮退として扱い、親コンテキストの中断だけをエラーにします。
func (p *Pipeline) extractAhead(ctx context.Context, chunks []domain.Chunk, langs []domain.Language) ([]extraction, error) {
	extractions := make([]extraction, len(chunks))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.cfg.Lookahead)

	for i := range chunks {
		i := i
		eg.Go(func() error {
			chunkCtx := egCtx
			if p.cfg.ChunkTimeout > 0 {
				var cancel context.CancelFunc
				chunkCtx, cancel = context.WithTimeout(egCtx, p.cfg.ChunkTimeout)
				defer cancel()
			}
			cands, err := p.ex.Extract(chunkCtx, chunks[i].Content, langs[i], chunks[i].Characters)
			if err != nil {
				if egCtx.Err() != nil {
					return egCtx.Err()
				}
				// タイムアウトは代替フィンガープリントへ、それ以外の失敗は
				// 候補ゼロでの続行へ縮退する
				if errors.Is(chunkCtx.Err(), context.DeadlineExceeded) {
					extractions[i] = extraction{
						timedOut: true,
						warn:     fmt.Sprintf("chunk %d: feature extraction timed out after %s", chunks[i].ID, p.cfg.ChunkTimeout),
					}
					return nil
				}
				extractions[i] = extraction{warn: fmt.Sprintf("chunk %d: feature extraction degraded: %v", chunks[i].ID, err)}
				return nil
			}
			extractions[i] = extraction{cands: cands}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return extractions, nil
}

// foldChain は抽出結果をチャンク順に畳み込み、フィンガープリント連鎖を作ります。
// 構築に失敗したチャンクは最小の代替フィンガープリントで埋めて連鎖を切らしません。
func (p *Pipeline) foldChain(chunks []domain.Chunk, extractions []extraction, lang domain.Language, result *domain.ProcessingResult) []*domain.Fingerprint {
	engine := dna.NewEngine(p.table, p.ex, lang, p.cfg.DNA)
	window := dna.NewWindow(p.cfg.DNA.WindowSize)
	fps := make([]*domain.Fingerprint, len(chunks))

	for i := range chunks {
		if w := extractions[i].warn; w != "" {
			result.Warnings = append(result.Warnings, w)
		}
		if extractions[i].timedOut {
			fp := fallbackFingerprint(chunks[i].ID, window.Last())
			window.Push(fp)
			fps[i] = fp
			continue
		}
		fp, err := engine.Fold(chunks[i].ID, chunks[i].Characters, extractions[i].cands, window.Last())
		if err != nil {
			fp = fallbackFingerprint(chunks[i].ID, window.Last())
			result.Warnings = append(result.Warnings, fmt.Sprintf("chunk %d: fingerprint generation failed, chain continues on fallback: %v", chunks[i].ID, err))
		}
		window.Push(fp)
		fps[i] = fp
	}
	return fps
}

// fallbackFingerprint は連鎖を維持するためだけの最小フィンガープリントです。
func fallbackFingerprint(chunkID int, prev *domain.Fingerprint) *domain.Fingerprint {
	fp := &domain.Fingerprint{
		ChunkID:     chunkID,
		Characters:  map[string]domain.FeatureMap{},
		Environment: domain.FeatureMap{},
		VisualStyle: domain.FeatureMap{},
		AudioVisual: domain.FeatureMap{},
		Narrative:   domain.FeatureMap{},
		Emotions:    domain.FeatureMap{},
		Atmosphere:  domain.FeatureMap{},
		Hash:        fmt.Sprintf("fallback_%d", chunkID),
	}
	if prev != nil {
		fp.PrevLink = prev.Hash
	}
	return fp
}

// buildRecords はチャンクと連鎖から外部公開用レコードを組み立てます。
// プロンプト生成の失敗は素のチャンク本文への縮退として扱います。
func (p *Pipeline) buildRecords(chunks []domain.Chunk, fps []*domain.Fingerprint, result *domain.ProcessingResult) {
	result.Chunks = make([]domain.ChunkRecord, len(chunks))
	result.DNAChain = make([]string, len(chunks))

	for i := range chunks {
		prompt, err := p.assembler.Build(&chunks[i], fps[i])
		if err != nil {
			prompt = chunks[i].Content
			result.Warnings = append(result.Warnings, fmt.Sprintf("chunk %d: prompt assembly failed, falling back to raw content: %v", chunks[i].ID, err))
		}
		result.Chunks[i] = domain.ChunkRecord{
			ID:               chunks[i].ID,
			Content:          chunks[i].Content,
			Duration:         chunks[i].Duration,
			SceneType:        chunks[i].SceneType,
			Characters:       chunks[i].Characters,
			DNAHash:          fps[i].Hash,
			AIPrompt:         prompt,
			EmotionalTone:    chunks[i].EmotionalTone,
			Pacing:           chunks[i].Pacing,
			VisualComplexity: visualComplexity(&chunks[i], fps[i]),
			PreviousDNA:      fps[i].PrevLink,
		}
		result.DNAChain[i] = fps[i].Hash
		result.TotalDuration += chunks[i].Duration
	}
}

// applyQuality は連鎖全体の品質指標を結果へ書き込みます。
func (p *Pipeline) applyQuality(result *domain.ProcessingResult, chunks []domain.Chunk, fps []*domain.Fingerprint) {
	m := quality.Evaluate(chunks, fps)
	result.CharacterAccuracy = m.CharacterConsistency
	result.VisualContinuity = m.VisualContinuity
	result.SceneIntelligence = m.NarrativeFlow
	result.OverallQuality = (m.CharacterConsistency + m.VisualContinuity + m.NarrativeFlow) / 3
}

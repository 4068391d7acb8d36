package dna

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shouni/go-scene-dna/pkg/domain"
)

// hashLength は連鎖リンクに使う16進ハッシュの桁数です。
const hashLength = 8

// hashFingerprint は継承対象（keep/evolve）のキャラクターと環境の特徴値から
// 決定的な短縮ハッシュを計算します。change 方針の特徴はチャンクごとに
// 変わってよい値なので、ハッシュには一切寄与しません。
func hashFingerprint(fp *domain.Fingerprint) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "chunk:%d", fp.ChunkID)

	for _, name := range fp.SortedCharacterNames() {
		fmt.Fprintf(&sb, "|char:%s", name)
		writeInheritable(&sb, fp.Characters[name])
	}
	sb.WriteString("|env")
	writeInheritable(&sb, fp.Environment)

	sum := sha256.Sum256([]byte(sb.String()))
	digest := hex.EncodeToString(sum[:])
	if len(digest) < hashLength {
		return "", fmt.Errorf("ダイジェスト長が不足しています: %d", len(digest))
	}
	return digest[:hashLength], nil
}

func writeInheritable(sb *strings.Builder, features domain.FeatureMap) {
	for _, key := range features.SortedKeys() {
		feature := features[key]
		if feature.Policy == domain.PolicyChange {
			continue
		}
		fmt.Fprintf(sb, "|%s=%s", key, feature.Value)
	}
}

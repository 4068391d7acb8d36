package extractor

import (
	"context"
	"testing"

	"github.com/shouni/go-scene-dna/pkg/domain"
	"github.com/shouni/go-scene-dna/pkg/taxonomy"
)

func findCandidate(cands []Candidate, subject, feature string) (Candidate, bool) {
	for _, c := range cands {
		if c.Subject == subject && c.Feature == feature {
			return c, true
		}
	}
	return Candidate{}, false
}

func TestRegexExtractor_Extract(t *testing.T) {
	re := NewRegexExtractor(taxonomy.NewTable())
	ctx := context.Background()

	t.Run("注釈からキャラクター特徴を抽出するのだ", func(t *testing.T) {
		text := "MINH (40, thin, Vietnamese man) walks out."
		cands, err := re.Extract(ctx, text, domain.LangEnglish, []string{"Minh"})
		if err != nil {
			t.Fatalf("想定外のエラーなのだ: %v", err)
		}

		checks := []struct {
			feature string
			token   string
		}{
			{"ethnicity", "asian"},
			{"gender", "male"},
			{"age_group", "middle_aged"},
			{"build", "slim"},
		}
		for _, c := range checks {
			got, ok := findCandidate(cands, "Minh", c.feature)
			if !ok {
				t.Errorf("特徴 %s が抽出されていないのだ", c.feature)
				continue
			}
			if got.Token != c.token {
				t.Errorf("%s: 期待値 %s, 実際の値 %s", c.feature, c.token, got.Token)
			}
		}
	})

	t.Run("他キャラクターの注釈は帰属範囲から除外されるのだ", func(t *testing.T) {
		text := "MINH greets LAN (25, Vietnamese woman)."
		cands, err := re.Extract(ctx, text, domain.LangEnglish, []string{"Lan", "Minh"})
		if err != nil {
			t.Fatalf("想定外のエラーなのだ: %v", err)
		}

		if _, ok := findCandidate(cands, "Minh", "gender"); ok {
			t.Error("Lanの注釈がMinhへ帰属しているのだ")
		}
		if got, ok := findCandidate(cands, "Lan", "gender"); !ok || got.Token != "female" {
			t.Errorf("Lanのgenderが抽出されていないのだ: %+v", got)
		}
		if got, ok := findCandidate(cands, "Lan", "age_group"); !ok || got.Token != "young_adult" {
			t.Errorf("Lanのage_groupが想定と違うのだ: %+v", got)
		}
	})

	t.Run("環境特徴は本文全体から抽出されるのだ", func(t *testing.T) {
		text := "Rain falls on the quiet village street at night."
		cands, err := re.Extract(ctx, text, domain.LangEnglish, nil)
		if err != nil {
			t.Fatalf("想定外のエラーなのだ: %v", err)
		}
		if got, ok := findCandidate(cands, "", "weather"); !ok || got.Token != "rain" {
			t.Errorf("weatherが抽出されていないのだ: %+v", got)
		}
		if got, ok := findCandidate(cands, "", "location_type"); !ok || got.Token != "rural" {
			t.Errorf("location_typeが想定と違うのだ: %+v", got)
		}
	})

	t.Run("同一入力に対して決定的なのだ", func(t *testing.T) {
		text := "LAN (25, Vietnamese woman) sings in the rain."
		first, _ := re.Extract(ctx, text, domain.LangEnglish, []string{"Lan"})
		second, _ := re.Extract(ctx, text, domain.LangEnglish, []string{"Lan"})
		if len(first) != len(second) {
			t.Fatalf("候補数が揺れたのだ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("候補 %d が一致しないのだ: %+v vs %+v", i, first[i], second[i])
			}
		}
	})
}

func TestParseCandidates(t *testing.T) {
	t.Run("コードブロック内のJSONを取り出せるのだ", func(t *testing.T) {
		raw := "```json\n[{\"category\":\"environment\",\"feature\":\"weather\",\"value\":\"rain\",\"confidence\":0.9}]\n```"
		got, err := parseCandidates(raw)
		if err != nil {
			t.Fatalf("解析に失敗したのだ: %v", err)
		}
		if len(got) != 1 || got[0].Feature != "weather" {
			t.Errorf("解析結果が想定と違うのだ: %+v", got)
		}
	})

	t.Run("生のJSON配列も受け付けるのだ", func(t *testing.T) {
		raw := `The result is: [{"category":"emotions","feature":"primary_emotion","value":"joy","confidence":0.8}] hope it helps`
		got, err := parseCandidates(raw)
		if err != nil {
			t.Fatalf("解析に失敗したのだ: %v", err)
		}
		if len(got) != 1 || got[0].Value != "joy" {
			t.Errorf("解析結果が想定と違うのだ: %+v", got)
		}
	})

	t.Run("壊れた応答はエラーになるのだ", func(t *testing.T) {
		if _, err := parseCandidates("not json at all"); err == nil {
			t.Error("エラーが返らないのだ")
		}
	})
}

package taxonomy

import (
	"testing"

	"github.com/shouni/go-scene-dna/pkg/domain"
)

func TestNormalize(t *testing.T) {
	table := NewTable()

	t.Run("完全一致はそのまま返すのだ", func(t *testing.T) {
		got := table.Normalize("slim", CategoryAppearance, "build")
		if got != "slim" {
			t.Errorf("期待値 'slim', 実際の値 '%s'", got)
		}
	})

	t.Run("ベトナム語の語彙が正規トークンへ対応するのだ", func(t *testing.T) {
		got := table.Normalize("gầy", CategoryAppearance, "build")
		if got != "slim" {
			t.Errorf("期待値 'slim', 実際の値 '%s'", got)
		}
	})

	t.Run("部分文字列の包含で一致するのだ", func(t *testing.T) {
		got := table.Normalize("very slim figure", CategoryAppearance, "build")
		if got != "slim" {
			t.Errorf("期待値 'slim', 実際の値 '%s'", got)
		}
	})

	t.Run("未知の語は語彙の先頭トークンへ丸めるのだ", func(t *testing.T) {
		got := table.Normalize("unknowable", CategoryAppearance, "build")
		if got != "average" {
			t.Errorf("期待値 'average', 実際の値 '%s'", got)
		}
	})

	t.Run("カテゴリ不一致では空を返すのだ", func(t *testing.T) {
		got := table.Normalize("slim", CategoryEnvironment, "build")
		if got != "" {
			t.Errorf("期待値 '', 実際の値 '%s'", got)
		}
	})
}

func TestPolicyOf(t *testing.T) {
	table := NewTable()

	cases := []struct {
		feature string
		want    domain.InheritancePolicy
	}{
		{"ethnicity", domain.PolicyKeep},
		{"age_group", domain.PolicyKeep},
		{"build", domain.PolicyEvolve},
		{"lighting_quality", domain.PolicyChange},
		{"weather", domain.PolicyChange},
		{"完全に未知の特徴", domain.PolicyChange},
	}
	for _, c := range cases {
		if got := table.PolicyOf(c.feature); got != c.want {
			t.Errorf("PolicyOf(%s): 期待値 %s, 実際の値 %s", c.feature, c.want, got)
		}
	}
}

func TestDefsByCategory(t *testing.T) {
	table := NewTable()

	defs := table.DefsByCategory(CategoryAnthropology)
	if len(defs) != 3 {
		t.Fatalf("人類学カテゴリの定義数が想定と違うのだ: %d", len(defs))
	}
	// 名前順で列挙されること（決定性の保証）
	for i := 1; i < len(defs); i++ {
		if defs[i-1].Name >= defs[i].Name {
			t.Errorf("定義がソートされていないのだ: %s >= %s", defs[i-1].Name, defs[i].Name)
		}
	}
}

func TestPatternsFor(t *testing.T) {
	table := NewTable()
	def, ok := table.Lookup("lighting_quality")
	if !ok {
		t.Fatal("lighting_quality が表に存在しないのだ")
	}

	t.Run("未定義言語は英語パターンへフォールバックするのだ", func(t *testing.T) {
		// lighting_quality のベトナム語定義には dramatic が無いが、
		// 言語自体の定義はあるためベトナム語パターンが返る
		ps := def.PatternsFor(domain.LangVietnamese)
		if len(ps) == 0 {
			t.Fatal("ベトナム語パターンが空なのだ")
		}
	})
}

func TestAgeGroupForYears(t *testing.T) {
	cases := []struct {
		years int
		want  string
	}{
		{8, "child"},
		{16, "teen"},
		{25, "young_adult"},
		{40, "middle_aged"},
		{70, "elderly"},
	}
	for _, c := range cases {
		if got := AgeGroupForYears(c.years); got != c.want {
			t.Errorf("AgeGroupForYears(%d): 期待値 %s, 実際の値 %s", c.years, c.want, got)
		}
	}
}

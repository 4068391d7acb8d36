package taxonomy

import (
	"regexp"

	"github.com/shouni/go-scene-dna/pkg/domain"
)

// defaultDefs はタクソノミの既定定義です。新しい言語や特徴はこの表に
// 追記するだけで全コンポーネントへ反映されます。
func defaultDefs() []FeatureDef {
	return []FeatureDef{
		{
			Name:        "ethnicity",
			Category:    CategoryAnthropology,
			Policy:      domain.PolicyKeep,
			ValidValues: []string{"asian", "european", "african", "latino"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(vietnamese|chinese|japanese|korean|asian)\b`, "asian", 0.90),
					vp(`(?i)\b(european|caucasian|british|french|american)\b`, "european", 0.85),
					vp(`(?i)\bafrican\b`, "african", 0.85),
					vp(`(?i)\b(latino|latina|hispanic|mexican)\b`, "latino", 0.85),
				},
				domain.LangVietnamese: {
					vp(`(?i)(người việt|việt nam|người hoa|châu á)`, "asian", 0.90),
					vp(`(?i)(người tây|châu âu|người âu)`, "european", 0.85),
					vp(`(?i)(châu phi)`, "african", 0.85),
				},
				domain.LangJapanese: {
					vp(`(ベトナム人|日本人|中国人|韓国人|アジア系)`, "asian", 0.90),
					vp(`(欧米人|白人|ヨーロッパ系)`, "european", 0.85),
					vp(`(アフリカ系)`, "african", 0.85),
				},
			},
			CrossLang: map[string]string{
				"việt": "asian", "kinh": "asian", "người việt": "asian",
				"vietnamese": "asian", "日本人": "asian", "アジア系": "asian",
				"tây": "european", "欧米人": "european",
			},
		},
		{
			Name:        "age_group",
			Category:    CategoryAnthropology,
			Policy:      domain.PolicyKeep,
			ValidValues: []string{"young_adult", "child", "teen", "middle_aged", "elderly"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(child|little (boy|girl)|kid)\b`, "child", 0.85),
					vp(`(?i)\b(teenager|teen)\b`, "teen", 0.85),
					vp(`(?i)\b(young (man|woman)|youth)\b`, "young_adult", 0.80),
					vp(`(?i)\bmiddle[- ]aged\b`, "middle_aged", 0.85),
					vp(`(?i)\b(elderly|old (man|woman))\b`, "elderly", 0.85),
				},
				domain.LangVietnamese: {
					vp(`(?i)(đứa bé|em bé|cậu bé|cô bé)`, "child", 0.85),
					vp(`(?i)(thiếu niên)`, "teen", 0.85),
					vp(`(?i)(thanh niên|cô gái trẻ|chàng trai)`, "young_adult", 0.80),
					vp(`(?i)(trung niên)`, "middle_aged", 0.85),
					vp(`(?i)(cụ già|ông lão|bà lão|già)`, "elderly", 0.85),
				},
				domain.LangJapanese: {
					vp(`(子供|少年|少女)`, "child", 0.85),
					vp(`(青年|若者|若い)`, "young_adult", 0.80),
					vp(`(中年)`, "middle_aged", 0.85),
					vp(`(老人|年配|老いた)`, "elderly", 0.85),
				},
			},
			CrossLang: map[string]string{
				"trẻ": "young_adult", "già": "elderly", "trung niên": "middle_aged",
				"若い": "young_adult", "老人": "elderly",
			},
		},
		{
			Name:        "gender",
			Category:    CategoryAnthropology,
			Policy:      domain.PolicyKeep,
			ValidValues: []string{"male", "female"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(man|male|gentleman|boy)\b`, "male", 0.85),
					vp(`(?i)\b(woman|female|lady|girl)\b`, "female", 0.85),
				},
				domain.LangVietnamese: {
					vp(`(?i)(đàn ông|chàng trai|nam)`, "male", 0.85),
					vp(`(?i)(phụ nữ|cô gái|đàn bà|nữ)`, "female", 0.85),
				},
				domain.LangJapanese: {
					vp(`(男性|男の人|男)`, "male", 0.85),
					vp(`(女性|女の人|女)`, "female", 0.85),
				},
			},
			CrossLang: map[string]string{
				"đàn ông": "male", "phụ nữ": "female", "男": "male", "女": "female",
				"man": "male", "woman": "female",
			},
		},
		{
			Name:        "build",
			Category:    CategoryAppearance,
			Policy:      domain.PolicyEvolve,
			ValidValues: []string{"average", "slim", "muscular", "heavy"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(thin|slim|skinny|lean|slender)\b`, "slim", 0.85),
					vp(`(?i)\b(muscular|athletic|strong|burly)\b`, "muscular", 0.85),
					vp(`(?i)\b(fat|heavy|stout|plump)\b`, "heavy", 0.85),
				},
				domain.LangVietnamese: {
					vp(`(?i)(gầy|ốm|mảnh khảnh|mảnh mai)`, "slim", 0.85),
					vp(`(?i)(vạm vỡ|lực lưỡng|cơ bắp)`, "muscular", 0.85),
					vp(`(?i)(mập|béo|đầy đặn)`, "heavy", 0.85),
				},
				domain.LangJapanese: {
					vp(`(痩せ|細身|ほっそり)`, "slim", 0.85),
					vp(`(筋肉質|がっしり|たくましい)`, "muscular", 0.85),
					vp(`(太った|ふくよか)`, "heavy", 0.85),
				},
			},
			CrossLang: map[string]string{
				"gầy": "slim", "thin": "slim", "ốm": "slim", "細身": "slim",
				"vạm vỡ": "muscular", "筋肉質": "muscular",
				"mập": "heavy", "béo": "heavy", "太った": "heavy",
			},
		},
		{
			Name:        "hairstyle",
			Category:    CategoryAppearance,
			Policy:      domain.PolicyEvolve,
			ValidValues: []string{"short", "long", "tied", "bald"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\bshort hair\b`, "short", 0.85),
					vp(`(?i)\blong hair\b`, "long", 0.85),
					vp(`(?i)\b(ponytail|braided|tied hair|bun)\b`, "tied", 0.85),
					vp(`(?i)\bbald\b`, "bald", 0.90),
				},
				domain.LangVietnamese: {
					vp(`(?i)(tóc ngắn)`, "short", 0.85),
					vp(`(?i)(tóc dài)`, "long", 0.85),
					vp(`(?i)(tóc buộc|tóc tết|búi tóc)`, "tied", 0.85),
					vp(`(?i)(đầu trọc|hói)`, "bald", 0.90),
				},
				domain.LangJapanese: {
					vp(`(短髪|ショートヘア)`, "short", 0.85),
					vp(`(長髪|ロングヘア)`, "long", 0.85),
					vp(`(ポニーテール|お団子|三つ編み)`, "tied", 0.85),
					vp(`(坊主|禿げ)`, "bald", 0.90),
				},
			},
			CrossLang: map[string]string{
				"tóc ngắn": "short", "tóc dài": "long", "短髪": "short", "長髪": "long",
			},
		},
		{
			Name:        "clothing",
			Category:    CategoryAppearance,
			Policy:      domain.PolicyEvolve,
			ValidValues: []string{"casual", "formal", "traditional", "uniform"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(t-shirt|jeans|casual)\b`, "casual", 0.80),
					vp(`(?i)\b(suit|tuxedo|formal|dress shirt)\b`, "formal", 0.85),
					vp(`(?i)\b(ao dai|áo dài|kimono|traditional)\b`, "traditional", 0.85),
					vp(`(?i)\buniform\b`, "uniform", 0.85),
				},
				domain.LangVietnamese: {
					vp(`(?i)(áo thun|quần jean|đồ thường)`, "casual", 0.80),
					vp(`(?i)(vest|com lê|đồ công sở)`, "formal", 0.85),
					vp(`(?i)(áo dài|áo bà ba)`, "traditional", 0.85),
					vp(`(?i)(đồng phục)`, "uniform", 0.85),
				},
				domain.LangJapanese: {
					vp(`(私服|カジュアル)`, "casual", 0.80),
					vp(`(スーツ|フォーマル)`, "formal", 0.85),
					vp(`(着物|和服|浴衣)`, "traditional", 0.85),
					vp(`(制服|ユニフォーム)`, "uniform", 0.85),
				},
			},
			CrossLang: map[string]string{
				"áo dài": "traditional", "着物": "traditional", "đồng phục": "uniform",
			},
		},
		{
			Name:        "location_type",
			Category:    CategoryEnvironment,
			Policy:      domain.PolicyEvolve,
			ValidValues: []string{"exterior", "interior", "urban", "rural", "nature"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(room|kitchen|office|inside|indoors|house interior)\b`, "interior", 0.80),
					vp(`(?i)\b(street|outside|outdoors|courtyard|walks out)\b`, "exterior", 0.80),
					vp(`(?i)\b(city|downtown|skyscraper|traffic)\b`, "urban", 0.85),
					vp(`(?i)\b(village|countryside|farm|rice field)\b`, "rural", 0.85),
					vp(`(?i)\b(forest|river|mountain|beach|jungle)\b`, "nature", 0.85),
				},
				domain.LangVietnamese: {
					vp(`(?i)(căn phòng|nhà bếp|văn phòng|trong nhà)`, "interior", 0.80),
					vp(`(?i)(con đường|ngoài trời|sân|bước ra)`, "exterior", 0.80),
					vp(`(?i)(thành phố|phố|đô thị)`, "urban", 0.85),
					vp(`(?i)(làng|quê|ruộng|nông thôn)`, "rural", 0.85),
					vp(`(?i)(rừng|sông|núi|biển)`, "nature", 0.85),
				},
				domain.LangJapanese: {
					vp(`(部屋|台所|室内|オフィス)`, "interior", 0.80),
					vp(`(通り|屋外|外に出)`, "exterior", 0.80),
					vp(`(都会|街|ビル)`, "urban", 0.85),
					vp(`(村|田舎|田んぼ)`, "rural", 0.85),
					vp(`(森|川|山|海辺)`, "nature", 0.85),
				},
			},
			CrossLang: map[string]string{
				"trong nhà": "interior", "ngoài trời": "exterior", "室内": "interior",
				"làng": "rural", "rừng": "nature",
			},
		},
		{
			Name:        "setting_period",
			Category:    CategoryEnvironment,
			Policy:      domain.PolicyKeep,
			ValidValues: []string{"modern", "historical", "futuristic"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(smartphone|laptop|car|modern)\b`, "modern", 0.75),
					vp(`(?i)\b(ancient|dynasty|king|sword|historical)\b`, "historical", 0.80),
					vp(`(?i)\b(spaceship|robot|hologram|futuristic)\b`, "futuristic", 0.85),
				},
				domain.LangVietnamese: {
					vp(`(?i)(điện thoại|xe máy|ô tô|hiện đại)`, "modern", 0.75),
					vp(`(?i)(triều đình|vua|kiếm|thời xưa)`, "historical", 0.80),
					vp(`(?i)(tàu vũ trụ|người máy|tương lai)`, "futuristic", 0.85),
				},
				domain.LangJapanese: {
					vp(`(スマホ|車|現代)`, "modern", 0.75),
					vp(`(江戸|侍|刀|時代劇)`, "historical", 0.80),
					vp(`(宇宙船|ロボット|未来)`, "futuristic", 0.85),
				},
			},
		},
		{
			Name:        "weather",
			Category:    CategoryEnvironment,
			Policy:      domain.PolicyChange,
			ValidValues: []string{"clear", "rain", "fog", "snow"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(sunny|clear sky)\b`, "clear", 0.85),
					vp(`(?i)\b(rain|raining|drizzle|storm)\b`, "rain", 0.85),
					vp(`(?i)\b(fog|mist|haze)\b`, "fog", 0.85),
					vp(`(?i)\b(snow|snowing)\b`, "snow", 0.85),
				},
				domain.LangVietnamese: {
					vp(`(?i)(trời nắng|quang đãng)`, "clear", 0.85),
					vp(`(?i)(mưa|cơn dông)`, "rain", 0.85),
					vp(`(?i)(sương mù)`, "fog", 0.85),
					vp(`(?i)(tuyết)`, "snow", 0.85),
				},
				domain.LangJapanese: {
					vp(`(晴れ|快晴)`, "clear", 0.85),
					vp(`(雨|土砂降り)`, "rain", 0.85),
					vp(`(霧|もや)`, "fog", 0.85),
					vp(`(雪)`, "snow", 0.85),
				},
			},
		},
		{
			Name:        "lighting_quality",
			Category:    CategoryVisualStyle,
			Policy:      domain.PolicyChange,
			ValidValues: []string{"natural", "bright", "dim", "dramatic"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(bright|sunlit|glaring)\b`, "bright", 0.80),
					vp(`(?i)\b(dim|dark|shadowy|candlelit)\b`, "dim", 0.80),
					vp(`(?i)\b(dramatic light|harsh light|spotlight)\b`, "dramatic", 0.85),
				},
				domain.LangVietnamese: {
					vp(`(?i)(sáng rực|chói chang)`, "bright", 0.80),
					vp(`(?i)(mờ tối|ánh nến|u ám)`, "dim", 0.80),
				},
				domain.LangJapanese: {
					vp(`(明るい|陽光)`, "bright", 0.80),
					vp(`(薄暗い|暗がり|ろうそく)`, "dim", 0.80),
					vp(`(逆光|スポットライト)`, "dramatic", 0.85),
				},
			},
		},
		{
			Name:        "camera_angle",
			Category:    CategoryVisualStyle,
			Policy:      domain.PolicyChange,
			ValidValues: []string{"medium", "wide", "close_up", "aerial"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(wide shot|panorama|landscape view)\b`, "wide", 0.85),
					vp(`(?i)\b(close[- ]?up|face fills)\b`, "close_up", 0.85),
					vp(`(?i)\b(bird'?s[- ]eye|aerial|from above)\b`, "aerial", 0.85),
				},
				domain.LangVietnamese: {
					vp(`(?i)(toàn cảnh)`, "wide", 0.85),
					vp(`(?i)(cận cảnh)`, "close_up", 0.85),
					vp(`(?i)(từ trên cao)`, "aerial", 0.85),
				},
				domain.LangJapanese: {
					vp(`(ワイドショット|全景)`, "wide", 0.85),
					vp(`(クローズアップ|アップ)`, "close_up", 0.85),
					vp(`(俯瞰|空撮)`, "aerial", 0.85),
				},
			},
		},
		{
			Name:        "color_palette",
			Category:    CategoryVisualStyle,
			Policy:      domain.PolicyEvolve,
			ValidValues: []string{"warm", "cool", "muted", "vibrant"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(golden|amber|sunset|warm tones)\b`, "warm", 0.80),
					vp(`(?i)\b(blue|icy|cold light|cool tones)\b`, "cool", 0.80),
					vp(`(?i)\b(gray|faded|washed out)\b`, "muted", 0.80),
					vp(`(?i)\b(colorful|neon|vivid)\b`, "vibrant", 0.80),
				},
				domain.LangVietnamese: {
					vp(`(?i)(hoàng hôn|vàng ấm)`, "warm", 0.80),
					vp(`(?i)(xanh lạnh|lạnh lẽo)`, "cool", 0.80),
					vp(`(?i)(rực rỡ|sặc sỡ)`, "vibrant", 0.80),
				},
				domain.LangJapanese: {
					vp(`(夕焼け|暖色)`, "warm", 0.80),
					vp(`(寒色|青白い)`, "cool", 0.80),
					vp(`(色鮮やか|ネオン)`, "vibrant", 0.80),
				},
			},
		},
		{
			Name:        "sound_mood",
			Category:    CategoryAudioVisual,
			Policy:      domain.PolicyChange,
			ValidValues: []string{"ambient", "quiet", "loud", "musical"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(silence|silent|hushed)\b`, "quiet", 0.80),
					vp(`(?i)\b(shout|roar|explosion|thunder)\b`, "loud", 0.80),
					vp(`(?i)\b(music|song|melody|singing)\b`, "musical", 0.80),
				},
				domain.LangVietnamese: {
					vp(`(?i)(im lặng|yên tĩnh)`, "quiet", 0.80),
					vp(`(?i)(hét|gầm|nổ)`, "loud", 0.80),
					vp(`(?i)(nhạc|bài hát|tiếng đàn)`, "musical", 0.80),
				},
				domain.LangJapanese: {
					vp(`(静寂|静かな)`, "quiet", 0.80),
					vp(`(叫び|轟音|爆発)`, "loud", 0.80),
					vp(`(音楽|歌|メロディ)`, "musical", 0.80),
				},
			},
		},
		{
			Name:        "narrative_phase",
			Category:    CategoryNarrative,
			Policy:      domain.PolicyEvolve,
			ValidValues: []string{"setup", "rising", "climax", "resolution"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(once upon|introduce|one morning|begins)\b`, "setup", 0.70),
					vp(`(?i)\b(suddenly|but then|tension|conflict)\b`, "rising", 0.70),
					vp(`(?i)\b(finally|showdown|confront)\b`, "climax", 0.70),
					vp(`(?i)\b(at last|peace returned|ever after)\b`, "resolution", 0.70),
				},
				domain.LangVietnamese: {
					vp(`(?i)(ngày xửa ngày xưa|một buổi sáng)`, "setup", 0.70),
					vp(`(?i)(bỗng nhiên|đột nhiên|nhưng rồi)`, "rising", 0.70),
					vp(`(?i)(cuối cùng|đối mặt)`, "climax", 0.70),
					vp(`(?i)(từ đó|bình yên trở lại)`, "resolution", 0.70),
				},
				domain.LangJapanese: {
					vp(`(むかしむかし|ある朝)`, "setup", 0.70),
					vp(`(突然|ところが)`, "rising", 0.70),
					vp(`(ついに|決戦)`, "climax", 0.70),
					vp(`(それから|平和が戻)`, "resolution", 0.70),
				},
			},
		},
		{
			Name:        "primary_emotion",
			Category:    CategoryEmotions,
			Policy:      domain.PolicyChange,
			ValidValues: []string{"calm", "joy", "sadness", "anger", "fear"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(smile|laugh|happy|delighted)\b`, "joy", 0.80),
					vp(`(?i)\b(cry|tears|sorrow|grief)\b`, "sadness", 0.80),
					vp(`(?i)\b(angry|furious|rage|glare)\b`, "anger", 0.80),
					vp(`(?i)\b(afraid|terrified|tremble|panic)\b`, "fear", 0.80),
				},
				domain.LangVietnamese: {
					vp(`(?i)(cười|vui mừng|hạnh phúc)`, "joy", 0.80),
					vp(`(?i)(khóc|nước mắt|buồn)`, "sadness", 0.80),
					vp(`(?i)(tức giận|giận dữ|quát)`, "anger", 0.80),
					vp(`(?i)(sợ hãi|run rẩy|hoảng)`, "fear", 0.80),
				},
				domain.LangJapanese: {
					vp(`(笑|嬉し|喜び)`, "joy", 0.80),
					vp(`(泣|涙|悲し)`, "sadness", 0.80),
					vp(`(怒|睨み)`, "anger", 0.80),
					vp(`(怖|震え|恐怖)`, "fear", 0.80),
				},
			},
		},
		{
			Name:        "atmosphere_mood",
			Category:    CategoryAtmosphere,
			Policy:      domain.PolicyEvolve,
			ValidValues: []string{"peaceful", "tense", "mysterious", "festive"},
			Patterns: map[domain.Language][]ValuePattern{
				domain.LangEnglish: {
					vp(`(?i)\b(peaceful|calm|serene|gentle breeze)\b`, "peaceful", 0.80),
					vp(`(?i)\b(tense|uneasy|ominous)\b`, "tense", 0.80),
					vp(`(?i)\b(mysterious|strange|eerie)\b`, "mysterious", 0.80),
					vp(`(?i)\b(festival|celebration|fireworks)\b`, "festive", 0.80),
				},
				domain.LangVietnamese: {
					vp(`(?i)(yên bình|thanh bình|êm đềm)`, "peaceful", 0.80),
					vp(`(?i)(căng thẳng|bất an|u ám)`, "tense", 0.80),
					vp(`(?i)(bí ẩn|kỳ lạ)`, "mysterious", 0.80),
					vp(`(?i)(lễ hội|pháo hoa|tưng bừng)`, "festive", 0.80),
				},
				domain.LangJapanese: {
					vp(`(穏やか|のどか|安らぎ)`, "peaceful", 0.80),
					vp(`(緊張|不穏|不安)`, "tense", 0.80),
					vp(`(神秘的|不思議|不気味)`, "mysterious", 0.80),
					vp(`(祭り|花火|賑やか)`, "festive", 0.80),
				},
			},
		},
	}
}

// vp はパターン定義を簡潔に書くためのヘルパーです。
func vp(expr, token string, confidence float64) ValuePattern {
	return ValuePattern{
		Pattern:    regexp.MustCompile(expr),
		Token:      token,
		Confidence: confidence,
	}
}

package adapters

import (
	"fmt"
	"strings"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
)

// SceneBrief はベース画像のプロンプトを組み立てるための素材です。
type SceneBrief struct {
	Subject  string // 主役となる被写体 (商品名など)
	Category string // 被写体の種類
	Region   string // 舞台となる地域
	Audience string // 想定する視聴者
	Message  string // 添えるメッセージ
}

const baseSquareTemplate = `Professional photography of %s (%s).

COMPOSITION FOR SQUARE FORMAT (will be extended for other ratios):
- Subject prominently centered in scene
- Clean, balanced composition with breathing room on all sides
- Background elements arranged symmetrically
- Avoid important details near edges (will be extended)

SETTING & STYLE:
- Location: %s environment
- Target audience: %s
- Message: %s
- High-end lighting and styling

TECHNICAL REQUIREMENTS:
- Square composition (1:1 ratio)
- Central focus with extendable background
- Consistent lighting across frame
- Leave 20%% margin at bottom for text overlay

Background should be photographically realistic and easily extendable in both horizontal and vertical directions.`

const landscapeExtension = `LANDSCAPE EXTENSION (16:9):
- Extend the existing square image horizontally to create a 16:9 landscape
- Maintain the exact same central composition, lighting, and subject positioning
- Add complementary background elements on left and right sides
- Keep the same color palette and style as the original square image
- The central area should be identical to the square version`

const portraitExtension = `VERTICAL EXTENSION (9:16):
- Extend the existing square image vertically to create a 9:16 portrait
- Maintain the exact same central composition, lighting, and subject positioning
- Add complementary background elements above and below
- Keep the same color palette and style as the original square image
- The central area should be identical to the square version
- Perfect for mobile/story format`

// aspectCompositions は旧方式で各アスペクト比を個別に生成するときの構図指示です。
var aspectCompositions = map[string]string{
	"1:1": "Composed for square format (1:1). Center the subject prominently.\n" +
		"Frame tightly for social media feed engagement.\n" +
		"Leave clear space at bottom 20% for text overlay.",
	"9:16": "Composed for vertical story format (9:16). Full-height composition.\n" +
		"Show more vertical context around the same core scene.\n" +
		"Leave clear space at bottom 15% for text overlay.",
	"16:9": "Composed for landscape format (16:9). Wide cinematic framing.\n" +
		"Show more horizontal context of the same core scene.\n" +
		"Leave clear space at bottom 15% for text overlay.",
}

// LegacyAspectRatios は旧方式で生成するアスペクト比の順序です。
var LegacyAspectRatios = []string{"1:1", "9:16", "16:9"}

// BaseSquarePrompt は拡張しやすい正方形ベース画像用のプロンプトを返します。
func BaseSquarePrompt(b SceneBrief) string {
	return fmt.Sprintf(baseSquareTemplate,
		orDefault(b.Subject, "Product"),
		orDefault(b.Category, "product"),
		orDefault(b.Region, "global"),
		orDefault(b.Audience, "general audience"),
		b.Message,
	)
}

// ExtensionPrompt はベースのプロンプトに向きごとの拡張指示を付け足します。
func ExtensionPrompt(base string, o domain.Orientation) string {
	ext := landscapeExtension
	if o == domain.OrientationPortrait {
		ext = portraitExtension
	}
	return strings.TrimSpace(base) + "\n\n" + ext
}

// AspectPrompt は旧方式用に、アスペクト比ごとの構図指示を付けたプロンプトを返します。
func AspectPrompt(base, aspectRatio string) (string, error) {
	c, ok := aspectCompositions[aspectRatio]
	if !ok {
		return "", fmt.Errorf("未対応のアスペクト比です: %s", aspectRatio)
	}
	return strings.TrimSpace(base) + "\n" + c, nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

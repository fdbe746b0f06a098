package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
	"github.com/shouni/go-gemini-client/pkg/gemini"
)

const editInstruction = `You are given two images. The first is a photo canvas; the second is a mask of the same size.
Keep every pixel where the mask is opaque exactly as it is.
Paint new content only where the mask is transparent, continuing the existing scene seamlessly across the boundary.
Return a single %s image.
Scene description: %s`

// GeminiGenerator は Gemini を使ったマスク付き編集とテキストからの画像生成を担当します。
type GeminiGenerator struct {
	imgCore ImageExecutor
	model   string
	limiter *rate.Limiter
}

// NewGeminiGenerator は GeminiGenerator を初期化するのだ。
// interval が正の場合、API 呼び出しをその間隔に制限するのだ。
func NewGeminiGenerator(core ImageExecutor, model string, interval time.Duration) (*GeminiGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("core (ImageExecutor) is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	g := &GeminiGenerator{imgCore: core, model: model}
	if interval > 0 {
		g.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return g, nil
}

// Edit はマスクの透明部分だけを描き足した 1024x1024 の PNG を返すのだ。
func (g *GeminiGenerator) Edit(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error) {
	if err := validateTile(req.Image, "image"); err != nil {
		return nil, err
	}
	if err := validateTile(req.Mask, "mask"); err != nil {
		return nil, err
	}
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	prompt := TruncatePrompt(req.Prompt)
	parts := []*genai.Part{
		{Text: fmt.Sprintf(editInstruction, domain.TileSizeLabel, prompt)},
		toPart(req.Image),
		toPart(req.Mask),
	}

	slog.InfoContext(ctx, "Gemini画像編集リクエスト送信", "model", g.model, "prompt_len", len([]rune(prompt)))
	resp, err := g.imgCore.ExecuteRequest(ctx, g.model, parts, gemini.GenerateOptions{AspectRatio: "1:1"})
	if err != nil {
		return nil, fmt.Errorf("Gemini画像編集エラー: %w", err)
	}

	normalized, err := normalizeTile(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("Gemini画像編集エラー: %w", err)
	}
	return &domain.ImageResponse{Data: normalized, MimeType: "image/png", UsedSeed: resp.UsedSeed}, nil
}

// GenerateImage はテキストから単一の画像を生成するのだ。
func (g *GeminiGenerator) GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	parts := []*genai.Part{{Text: req.Prompt}}
	opts := gemini.GenerateOptions{
		AspectRatio: req.AspectRatio,
		Seed:        req.Seed,
	}

	slog.InfoContext(ctx, "Gemini画像生成リクエスト送信", "model", g.model, "aspect_ratio", req.AspectRatio)
	resp, err := g.imgCore.ExecuteRequest(ctx, g.model, parts, opts)
	if err != nil {
		return nil, fmt.Errorf("Gemini画像生成エラー: %w", err)
	}
	return resp, nil
}

func (g *GeminiGenerator) wait(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}

// validateTile は送信前に 1024x1024 の画像であることを確認します。
func validateTile(data []byte, name string) error {
	b, err := imgutil.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if b.Width() != domain.TileSize || b.Height() != domain.TileSize {
		return fmt.Errorf("%w: %s must be %s, got %dx%d", domain.ErrInvalidInputSize, name, domain.TileSizeLabel, b.Width(), b.Height())
	}
	return nil
}

// normalizeTile は応答画像を 1024x1024 の PNG に揃えます。
// 縦横比を変える伸縮はマスク位置がずれるため、正方形以外の応答は拒否します。
func normalizeTile(data []byte) ([]byte, error) {
	b, err := imgutil.Decode(data)
	if err != nil {
		return nil, err
	}
	if b.Width() != b.Height() {
		return nil, fmt.Errorf("%w: response %dx%d is not square", domain.ErrInvalidDimension, b.Width(), b.Height())
	}
	if b.Width() != domain.TileSize {
		if b, err = b.Resize(domain.TileSize, domain.TileSize); err != nil {
			return nil, err
		}
	}
	return b.EncodePNG()
}

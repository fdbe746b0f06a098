package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/gemini-outpaint-kit/pkg/generator"
	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
	"github.com/shouni/gemini-outpaint-kit/pkg/outpaint"
)

// Asset は 1 つのアスペクト比の完成画像です。
type Asset struct {
	AspectRatio string
	Image       *imgutil.Buffer
	Prompt      string
	Elapsed     time.Duration
}

// AspectAdapter は正方形のベース画像から 1:1, 16:9, 9:16 のアセット一式を作ります。
type AspectAdapter struct {
	gen         generator.ImageGenerator
	pipeline    *outpaint.Pipeline
	overlay     Overlay
	useOutpaint bool
}

// AdapterOption は AspectAdapter の設定を変更します。
type AdapterOption func(*AspectAdapter)

// WithOverlay は各アセットに適用する後処理を設定します。
func WithOverlay(o Overlay) AdapterOption {
	return func(a *AspectAdapter) { a.overlay = o }
}

// WithOutpaintMethod は拡張方式を使うかどうかを切り替えます。
// false の場合、各アスペクト比を独立に生成する旧方式になります。
func WithOutpaintMethod(enabled bool) AdapterOption {
	return func(a *AspectAdapter) { a.useOutpaint = enabled }
}

// NewAspectAdapter は依存関係を注入して AspectAdapter を初期化するのだ。
func NewAspectAdapter(gen generator.ImageGenerator, pipeline *outpaint.Pipeline, opts ...AdapterOption) (*AspectAdapter, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if pipeline == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	a := &AspectAdapter{gen: gen, pipeline: pipeline, useOutpaint: true}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// GenerateAssets はブリーフからアセット一式を生成します。
// 拡張方式では 1:1, 16:9, 9:16、旧方式では 1:1, 9:16, 16:9 の順に返します。
func (a *AspectAdapter) GenerateAssets(ctx context.Context, brief SceneBrief) ([]Asset, error) {
	basePrompt := BaseSquarePrompt(brief)
	if !a.useOutpaint {
		return a.generateLegacy(ctx, basePrompt)
	}

	start := time.Now()
	base, err := a.generate(ctx, basePrompt, "1:1")
	if err != nil {
		return nil, err
	}
	if base.Width() != domain.TileSize || base.Height() != domain.TileSize {
		slog.InfoContext(ctx, "ベース画像を1024x1024にリサイズします", "width", base.Width(), "height", base.Height())
		if base, err = base.Resize(domain.TileSize, domain.TileSize); err != nil {
			return nil, err
		}
	}
	elapsed := time.Since(start)

	assets, err := a.ExtendAssets(ctx, base, basePrompt)
	if err != nil {
		return nil, err
	}
	assets[0].Elapsed = elapsed
	return assets, nil
}

// ExtendAssets は既存のベース画像を元に 1:1, 16:9, 9:16 のアセットを作ります。
// ベース画像は 1024x1024 である必要があります。
func (a *AspectAdapter) ExtendAssets(ctx context.Context, base *imgutil.Buffer, basePrompt string) ([]Asset, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: nil base", domain.ErrInvalidBaseSize)
	}

	orientations := []domain.Orientation{domain.OrientationLandscape, domain.OrientationPortrait}
	extended := make([]Asset, len(orientations))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, o := range orientations {
		eg.Go(func() error {
			prompt := ExtensionPrompt(basePrompt, o)
			start := time.Now()
			img, err := a.pipeline.Extend(egCtx, base, o, prompt)
			if err != nil {
				return fmt.Errorf("%s アセットの作成に失敗しました: %w", o.AspectRatio(), err)
			}
			extended[i] = Asset{AspectRatio: o.AspectRatio(), Image: img, Prompt: prompt, Elapsed: time.Since(start)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	assets := append([]Asset{{AspectRatio: "1:1", Image: base.Clone(), Prompt: basePrompt}}, extended...)
	return a.applyOverlay(ctx, assets)
}

// generateLegacy は各アスペクト比を独立に生成します。構図の一貫性は保証されません。
func (a *AspectAdapter) generateLegacy(ctx context.Context, basePrompt string) ([]Asset, error) {
	slog.WarnContext(ctx, "旧方式で各アスペクト比を個別に生成します")

	assets := make([]Asset, 0, len(LegacyAspectRatios))
	for _, ratio := range LegacyAspectRatios {
		prompt, err := AspectPrompt(basePrompt, ratio)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		img, err := a.generate(ctx, prompt, ratio)
		if err != nil {
			return nil, err
		}
		assets = append(assets, Asset{AspectRatio: ratio, Image: img, Prompt: prompt, Elapsed: time.Since(start)})
	}
	return a.applyOverlay(ctx, assets)
}

func (a *AspectAdapter) generate(ctx context.Context, prompt, ratio string) (*imgutil.Buffer, error) {
	slog.InfoContext(ctx, "画像を生成します", "aspect_ratio", ratio)
	resp, err := a.gen.GenerateImage(ctx, domain.ImageGenerationRequest{Prompt: prompt, AspectRatio: ratio})
	if err != nil {
		return nil, fmt.Errorf("%s 画像の生成に失敗しました: %w", ratio, err)
	}
	img, err := imgutil.Decode(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("%s 画像のデコードに失敗しました: %w", ratio, err)
	}
	return img, nil
}

func (a *AspectAdapter) applyOverlay(ctx context.Context, assets []Asset) ([]Asset, error) {
	if a.overlay == nil {
		return assets, nil
	}
	for i := range assets {
		img, err := a.overlay.Apply(ctx, assets[i].Image, assets[i].AspectRatio)
		if err != nil {
			return nil, fmt.Errorf("%s オーバーレイの適用に失敗しました: %w", assets[i].AspectRatio, err)
		}
		assets[i].Image = img
	}
	return assets, nil
}

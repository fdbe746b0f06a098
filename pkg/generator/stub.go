package generator

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
	"github.com/shouni/gemini-outpaint-kit/pkg/utils"
)

var (
	placeholderBackground = color.NRGBA{R: 173, G: 216, B: 230, A: 255} // lightblue
	placeholderMarker     = color.NRGBA{R: 0, G: 0, B: 139, A: 255}     // darkblue
)

// StubGenerator はネットワークを使わない開発用のプロバイダーです。
// 同じ入力には常に同じ画像を返します。
type StubGenerator struct{}

// NewStubGenerator は StubGenerator を初期化します。
func NewStubGenerator() *StubGenerator {
	return &StubGenerator{}
}

// Edit はマスクの透明部分を、保持領域の平均色で塗りつぶします。
func (s *StubGenerator) Edit(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error) {
	if err := validateTile(req.Image, "image"); err != nil {
		return nil, err
	}
	if err := validateTile(req.Mask, "mask"); err != nil {
		return nil, err
	}
	canvas, err := imgutil.Decode(req.Image)
	if err != nil {
		return nil, err
	}
	mask, err := imgutil.Decode(req.Mask)
	if err != nil {
		return nil, err
	}

	src := canvas.Convert(imgutil.FormatRGBA).Image()
	m := mask.Convert(imgutil.FormatRGBA).Image()
	fill := meanColor(src, m)

	out := image.NewNRGBA(src.Bounds())
	for y := 0; y < src.Bounds().Dy(); y++ {
		for x := 0; x < src.Bounds().Dx(); x++ {
			if m.NRGBAAt(x, y).A == 0 {
				out.SetNRGBA(x, y, fill)
				continue
			}
			c := src.NRGBAAt(x, y)
			c.A = 255
			out.SetNRGBA(x, y, c)
		}
	}

	b, err := imgutil.FromImage(out, imgutil.FormatRGB)
	if err != nil {
		return nil, err
	}
	data, err := b.EncodePNG()
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "スタブで画像編集を行いました", "fill", fmt.Sprintf("#%02x%02x%02x", fill.R, fill.G, fill.B))
	return &domain.ImageResponse{Data: data, MimeType: "image/png"}, nil
}

// GenerateImage はアスペクト比に合わせたプレースホルダー画像を返します。
func (s *StubGenerator) GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	w, h := sizeForAspect(req.AspectRatio)
	bg, err := imgutil.NewFilled(w, h, imgutil.FormatRGB, placeholderBackground)
	if err != nil {
		return nil, err
	}
	marker, err := imgutil.NewFilled(w/4, h/4, imgutil.FormatRGB, placeholderMarker)
	if err != nil {
		return nil, err
	}
	data, err := bg.Paste(marker, image.Pt((w-w/4)/2, (h-h/4)/2)).EncodePNG()
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "開発モードのためプレースホルダー画像を返します", "aspect_ratio", req.AspectRatio)
	return &domain.ImageResponse{Data: data, MimeType: "image/png", UsedSeed: utils.DereferenceSeed(req.Seed)}, nil
}

// meanColor はマスクが不透明かつ画像も不透明なピクセルの平均色を返します。
// 該当ピクセルがない場合はプレースホルダー背景色です。
func meanColor(src, mask *image.NRGBA) color.NRGBA {
	var r, g, b, n uint64
	for y := 0; y < src.Bounds().Dy(); y++ {
		for x := 0; x < src.Bounds().Dx(); x++ {
			if mask.NRGBAAt(x, y).A == 0 {
				continue
			}
			c := src.NRGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			r, g, b, n = r+uint64(c.R), g+uint64(c.G), b+uint64(c.B), n+1
		}
	}
	if n == 0 {
		return placeholderBackground
	}
	return color.NRGBA{R: uint8((r + n/2) / n), G: uint8((g + n/2) / n), B: uint8((b + n/2) / n), A: 255}
}

// sizeForAspect はアスペクト比表記から出力サイズを返します。
func sizeForAspect(ratio string) (int, int) {
	switch ratio {
	case "16:9":
		return domain.OrientationLandscape.TargetSize(domain.DefaultExtensionParams())
	case "9:16":
		return domain.OrientationPortrait.TargetSize(domain.DefaultExtensionParams())
	default:
		return domain.TileSize, domain.TileSize
	}
}

package outpaint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
)

// Pipeline は 1024x1024 の画像から横長・縦長の画像を作るオーケストレーターです。
type Pipeline struct {
	extender   *Extender
	fallback   *FallbackExtender
	params     domain.ExtensionParams
	concurrent bool
}

// Option は Pipeline の設定を変更します。
type Option func(*Pipeline)

// WithParams は拡張パラメータを指定します。
func WithParams(p domain.ExtensionParams) Option {
	return func(pl *Pipeline) { pl.params = p }
}

// WithConcurrentDirections は 2 方向の拡張を並行して実行します。
func WithConcurrentDirections() Option {
	return func(pl *Pipeline) { pl.concurrent = true }
}

// NewPipeline は Pipeline を初期化します。
// provider が nil の場合は AI 拡張を行わず、常にフォールバックで生成します。
func NewPipeline(provider SynthesisProvider, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		fallback: NewFallbackExtender(),
		params:   domain.DefaultExtensionParams(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.params.Validate(); err != nil {
		return nil, err
	}
	if provider != nil {
		ext, err := NewExtender(provider)
		if err != nil {
			return nil, err
		}
		p.extender = ext
	}
	return p, nil
}

// Params は使用中の拡張パラメータを返します。
func (p *Pipeline) Params() domain.ExtensionParams { return p.params }

// ExtendLandscape は base を左右に拡張して横長画像 (既定 1792x1024) を作ります。
func (p *Pipeline) ExtendLandscape(ctx context.Context, base *imgutil.Buffer, prompt string) (*imgutil.Buffer, error) {
	return p.Extend(ctx, base, domain.OrientationLandscape, prompt)
}

// ExtendPortrait は base を上下に拡張して縦長画像 (既定 1024x1792) を作ります。
func (p *Pipeline) ExtendPortrait(ctx context.Context, base *imgutil.Buffer, prompt string) (*imgutil.Buffer, error) {
	return p.Extend(ctx, base, domain.OrientationPortrait, prompt)
}

// Extend は orientation に応じた 2 方向を元画像からそれぞれ独立に拡張し、
// 前方の帯・元画像・後方の帯の順に組み立てます。
// どちらかの合成が失敗した場合は全体をフォールバックで作り直します。
func (p *Pipeline) Extend(ctx context.Context, base *imgutil.Buffer, orientation domain.Orientation, prompt string) (*imgutil.Buffer, error) {
	if base.Width() != domain.TileSize || base.Height() != domain.TileSize {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d",
			domain.ErrInvalidBaseSize, base.Width(), base.Height(), domain.TileSize, domain.TileSize)
	}

	if p.extender == nil {
		slog.InfoContext(ctx, "AI拡張が無効のためフォールバックで生成します", "orientation", orientation)
		return p.runFallback(base, orientation)
	}

	out, err := p.extendWithAI(ctx, base, orientation, prompt)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, domain.ErrSynthesisFailed) {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	slog.WarnContext(ctx, "AI拡張に失敗したためフォールバックで生成します",
		"orientation", orientation, "error", err)
	return p.runFallback(base, orientation)
}

// ExtendLandscapeBytes はエンコード済み画像を受け取り、横長画像を PNG で返します。
func (p *Pipeline) ExtendLandscapeBytes(ctx context.Context, data []byte, prompt string) ([]byte, error) {
	return p.extendBytes(ctx, data, domain.OrientationLandscape, prompt)
}

// ExtendPortraitBytes はエンコード済み画像を受け取り、縦長画像を PNG で返します。
func (p *Pipeline) ExtendPortraitBytes(ctx context.Context, data []byte, prompt string) ([]byte, error) {
	return p.extendBytes(ctx, data, domain.OrientationPortrait, prompt)
}

func (p *Pipeline) extendBytes(ctx context.Context, data []byte, orientation domain.Orientation, prompt string) ([]byte, error) {
	base, err := imgutil.Decode(data)
	if err != nil {
		return nil, err
	}
	out, err := p.Extend(ctx, base, orientation, prompt)
	if err != nil {
		return nil, err
	}
	return out.EncodePNG()
}

func (p *Pipeline) extendWithAI(ctx context.Context, base *imgutil.Buffer, orientation domain.Orientation, prompt string) (*imgutil.Buffer, error) {
	trailingDir, leadingDir := orientation.Directions()
	var trailing, leading *imgutil.Buffer

	if p.concurrent {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			var err error
			trailing, err = p.extender.Extend(egCtx, base, trailingDir, p.params, prompt)
			return err
		})
		eg.Go(func() error {
			var err error
			leading, err = p.extender.Extend(egCtx, base, leadingDir, p.params, prompt)
			return err
		})
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		var err error
		if trailing, err = p.extender.Extend(ctx, base, trailingDir, p.params, prompt); err != nil {
			return nil, err
		}
		if leading, err = p.extender.Extend(ctx, base, leadingDir, p.params, prompt); err != nil {
			return nil, err
		}
	}

	return p.assemble(base, orientation, leading, trailing)
}

// assemble は拡張結果から新しい領域だけを取り出し、元画像を中央に置いて組み立てます。
func (p *Pipeline) assemble(base *imgutil.Buffer, orientation domain.Orientation, leading, trailing *imgutil.Buffer) (*imgutil.Buffer, error) {
	trailingDir, _ := orientation.Directions()
	axis := trailingDir.Axis()
	step := p.params.StepPx

	trailingStrip, err := trailing.Crop(span(axis, domain.TileSize, domain.TileSize+step, domain.TileSize))
	if err != nil {
		return nil, err
	}
	leadingStrip, err := leading.Crop(span(axis, 0, step, domain.TileSize))
	if err != nil {
		return nil, err
	}

	w, h := orientation.TargetSize(p.params)
	format := imgutil.FormatRGB
	for _, b := range []*imgutil.Buffer{base, leading, trailing} {
		if b.Format() == imgutil.FormatRGBA {
			format = imgutil.FormatRGBA
		}
	}
	out, err := imgutil.New(w, h, format)
	if err != nil {
		return nil, err
	}

	out = out.Paste(leadingStrip, along(axis, 0))
	out = out.Paste(base, along(axis, step))
	out = out.Paste(trailingStrip, along(axis, step+domain.TileSize))
	return out, nil
}

func (p *Pipeline) runFallback(base *imgutil.Buffer, orientation domain.Orientation) (*imgutil.Buffer, error) {
	w, h := orientation.TargetSize(p.params)
	if orientation == domain.OrientationPortrait {
		return p.fallback.ExtendPortrait(base, w, h)
	}
	return p.fallback.ExtendLandscape(base, w, h)
}

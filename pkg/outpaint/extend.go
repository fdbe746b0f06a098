package outpaint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
)

// SynthesisProvider はマスク付き画像編集を行う外部の画像合成サービスです。
type SynthesisProvider interface {
	Edit(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error)
}

// Extender は 1 方向への拡張を 1 回の合成呼び出しで行います。
type Extender struct {
	provider SynthesisProvider
}

// NewExtender は Extender を初期化します。
func NewExtender(provider SynthesisProvider) (*Extender, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	return &Extender{provider: provider}, nil
}

// Extend は current を dir 方向に params.StepPx だけ拡張します。
// 合成に関わる失敗はすべて domain.ErrSynthesisFailed を包んで返し、再試行はしません。
func (e *Extender) Extend(ctx context.Context, current *imgutil.Buffer, dir domain.Direction, params domain.ExtensionParams, prompt string) (*imgutil.Buffer, error) {
	if err := dir.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	axis := dir.Axis()
	if current.CrossLen(axis) != domain.TileSize {
		return nil, fmt.Errorf("%w: cross axis of %dx%d must be %d for %s",
			domain.ErrInvalidDimension, current.Width(), current.Height(), domain.TileSize, dir)
	}

	tile, err := referenceTile(current, dir)
	if err != nil {
		return nil, err
	}
	canvas, mask, err := BuildContextMask(tile, dir, params.StepPx)
	if err != nil {
		return nil, err
	}

	synthesized, err := e.synthesize(ctx, canvas, mask, prompt)
	if err != nil {
		return nil, err
	}

	keep := domain.TileSize - params.StepPx
	painted := span(axis, keep, domain.TileSize, domain.TileSize)
	if dir.Leading() {
		painted = span(axis, 0, params.StepPx, domain.TileSize)
	}
	if synthesized.Transparent(painted) {
		return nil, fmt.Errorf("%w: painted region of %s extension is empty", domain.ErrSynthesisFailed, dir)
	}

	// 新しい領域と、その手前の overlap 帯をまとめて切り出す
	from := keep - params.OverlapPx
	if dir.Leading() {
		from = 0
	}
	strip, err := synthesized.Crop(span(axis, from, from+params.StepPx+params.OverlapPx, domain.TileSize))
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "方向拡張の合成が完了しました",
		"direction", dir, "step_px", params.StepPx, "overlap_px", params.OverlapPx)
	return BlendStrip(current, strip, params.OverlapPx, dir)
}

// referenceTile は dir 側の端に接する 1024 四方の参照タイルを作ります。
// current が 1024 に満たない場合は透明で埋め、current をその端に寄せます。
func referenceTile(current *imgutil.Buffer, dir domain.Direction) (*imgutil.Buffer, error) {
	axis := dir.Axis()
	length := current.AxisLen(axis)
	if length >= domain.TileSize {
		from := length - domain.TileSize
		if dir.Leading() {
			from = 0
		}
		return current.Crop(span(axis, from, from+domain.TileSize, domain.TileSize))
	}

	blank, err := imgutil.New(domain.TileSize, domain.TileSize, imgutil.FormatRGBA)
	if err != nil {
		return nil, err
	}
	at := domain.TileSize - length
	if dir.Leading() {
		at = 0
	}
	return blank.Paste(current, along(axis, at)), nil
}

func (e *Extender) synthesize(ctx context.Context, canvas, mask *imgutil.Buffer, prompt string) (*imgutil.Buffer, error) {
	imageData, err := canvas.EncodePNG()
	if err != nil {
		return nil, err
	}
	maskData, err := mask.EncodePNG()
	if err != nil {
		return nil, err
	}

	resp, err := e.provider.Edit(ctx, domain.EditRequest{
		Image:  imageData,
		Mask:   maskData,
		Prompt: prompt,
		Size:   domain.TileSizeLabel,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSynthesisFailed, err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty response", domain.ErrSynthesisFailed)
	}

	out, err := imgutil.Decode(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSynthesisFailed, err)
	}
	if out.Width() != domain.TileSize || out.Height() != domain.TileSize {
		return nil, fmt.Errorf("%w: provider returned %dx%d", domain.ErrSynthesisFailed, out.Width(), out.Height())
	}
	return out, nil
}

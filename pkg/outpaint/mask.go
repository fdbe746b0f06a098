package outpaint

import (
	"fmt"
	"image/color"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
)

var opaqueWhite = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// BuildContextMask は合成プロバイダーに渡すキャンバスとマスクを構築します。
//
// base のうち継ぎ目に接する 1024-stepPx の帯を、拡張方向と反対側の端に寄せて透明キャンバスへ貼り付けます。
// 拡張方向側の stepPx の帯が生成対象として空きます。マスクは貼り付けた領域だけが不透明の白です。
// どちらも 1024x1024 の RGBA で、base は変更しません。
func BuildContextMask(base *imgutil.Buffer, dir domain.Direction, stepPx int) (canvas, mask *imgutil.Buffer, err error) {
	if err := dir.Validate(); err != nil {
		return nil, nil, err
	}
	if base.Width() != domain.TileSize || base.Height() != domain.TileSize {
		return nil, nil, fmt.Errorf("%w: got %dx%d, want %dx%d",
			domain.ErrInvalidInputSize, base.Width(), base.Height(), domain.TileSize, domain.TileSize)
	}
	if stepPx < 1 || stepPx >= domain.TileSize {
		return nil, nil, fmt.Errorf("%w: step %d", domain.ErrInvalidDimension, stepPx)
	}

	axis := dir.Axis()
	keep := domain.TileSize - stepPx

	// 右・下は base の後端、左・上は base の前端が継ぎ目に接する
	from, at := stepPx, 0
	if dir.Leading() {
		from, at = 0, stepPx
	}

	kept, err := base.Crop(span(axis, from, from+keep, domain.TileSize))
	if err != nil {
		return nil, nil, err
	}

	blank, err := imgutil.New(domain.TileSize, domain.TileSize, imgutil.FormatRGBA)
	if err != nil {
		return nil, nil, err
	}
	w, h := extent(axis, keep, domain.TileSize)
	block, err := imgutil.NewFilled(w, h, imgutil.FormatRGBA, opaqueWhite)
	if err != nil {
		return nil, nil, err
	}

	canvas = blank.Paste(kept, along(axis, at))
	mask = blank.Paste(block, along(axis, at))
	return canvas, mask, nil
}

package outpaint

import (
	"fmt"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
)

// BlendStrip は base の dir 側の端に strip を継ぎ足します。
//
// base の端 overlapPx 幅の帯と strip の対応する帯をアルファランプで線形補間し、
// 既存ピクセルに接する側では base、未知領域に接する側では strip が優先されます。
// 出力の軸方向の長さは base + strip - overlapPx です。
func BlendStrip(base, strip *imgutil.Buffer, overlapPx int, dir domain.Direction) (*imgutil.Buffer, error) {
	if err := dir.Validate(); err != nil {
		return nil, err
	}
	axis := dir.Axis()
	cross := base.CrossLen(axis)
	if strip.CrossLen(axis) != cross {
		return nil, fmt.Errorf("%w: base %dx%d, strip %dx%d along %s",
			domain.ErrDimensionMismatch, base.Width(), base.Height(), strip.Width(), strip.Height(), dir)
	}

	baseLen, stripLen := base.AxisLen(axis), strip.AxisLen(axis)
	if overlapPx < 0 || overlapPx > baseLen || overlapPx > stripLen {
		return nil, fmt.Errorf("%w: overlap %d (base %d, strip %d)", domain.ErrInvalidDimension, overlapPx, baseLen, stripLen)
	}

	format := imgutil.FormatRGB
	if base.Format() == imgutil.FormatRGBA || strip.Format() == imgutil.FormatRGBA {
		format = imgutil.FormatRGBA
	}
	w, h := extent(axis, baseLen+stripLen-overlapPx, cross)
	out, err := imgutil.New(w, h, format)
	if err != nil {
		return nil, err
	}

	// 前方向 (右・下) は base が先頭、後方向 (左・上) は strip が先頭
	var oldBand, newBand *imgutil.Buffer
	seam := baseLen - overlapPx
	if dir.Leading() {
		seam = stripLen - overlapPx
		out = out.Paste(strip, along(axis, 0)).Paste(base, along(axis, seam))
		if overlapPx == 0 {
			return out, nil
		}
		if oldBand, err = base.Crop(span(axis, 0, overlapPx, cross)); err != nil {
			return nil, err
		}
		if newBand, err = strip.Crop(span(axis, stripLen-overlapPx, stripLen, cross)); err != nil {
			return nil, err
		}
	} else {
		out = out.Paste(base, along(axis, 0)).Paste(strip, along(axis, seam))
		if overlapPx == 0 {
			return out, nil
		}
		if oldBand, err = base.Crop(span(axis, baseLen-overlapPx, baseLen, cross)); err != nil {
			return nil, err
		}
		if newBand, err = strip.Crop(span(axis, 0, overlapPx, cross)); err != nil {
			return nil, err
		}
	}

	bw, bh := extent(axis, overlapPx, cross)
	ramp, err := imgutil.NewAlphaRamp(bw, bh, axis == domain.AxisHorizontal)
	if err != nil {
		return nil, err
	}
	if dir.Leading() {
		ramp = ramp.Flip()
	}

	band, err := imgutil.Mix(oldBand, newBand, ramp)
	if err != nil {
		return nil, err
	}
	return out.Paste(band, along(axis, seam)), nil
}

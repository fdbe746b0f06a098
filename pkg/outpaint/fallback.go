package outpaint

import (
	"fmt"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
)

// FallbackBlurSigma はフォールバックの余白に敷く帯のぼかし量です。
const FallbackBlurSigma = 2.0

// FallbackExtender はネットワークを使わずに画像を拡張します。
// 端の 1/4 幅の帯をぼかして白地の余白に合成し、最後に元画像を中央に貼ります。
// 同じ入力には常に同じ出力を返します。
type FallbackExtender struct {
	sigma float64
}

// NewFallbackExtender は FallbackExtender を初期化します。
func NewFallbackExtender() *FallbackExtender {
	return &FallbackExtender{sigma: FallbackBlurSigma}
}

// ExtendLandscape は base を横方向に width まで広げます。height は base と同じである必要があります。
func (f *FallbackExtender) ExtendLandscape(base *imgutil.Buffer, width, height int) (*imgutil.Buffer, error) {
	if height != base.Height() {
		return nil, fmt.Errorf("%w: landscape height %d != base %d", domain.ErrInvalidDimension, height, base.Height())
	}
	return f.extend(base, domain.AxisHorizontal, width)
}

// ExtendPortrait は base を縦方向に height まで広げます。width は base と同じである必要があります。
func (f *FallbackExtender) ExtendPortrait(base *imgutil.Buffer, width, height int) (*imgutil.Buffer, error) {
	if width != base.Width() {
		return nil, fmt.Errorf("%w: portrait width %d != base %d", domain.ErrInvalidDimension, width, base.Width())
	}
	return f.extend(base, domain.AxisVertical, height)
}

func (f *FallbackExtender) extend(base *imgutil.Buffer, axis domain.Axis, target int) (*imgutil.Buffer, error) {
	length, cross := base.AxisLen(axis), base.CrossLen(axis)
	if target < length {
		return nil, fmt.Errorf("%w: target %d smaller than base %d", domain.ErrInvalidDimension, target, length)
	}

	w, h := extent(axis, target, cross)
	out, err := imgutil.NewFilled(w, h, base.Format(), opaqueWhite)
	if err != nil {
		return nil, err
	}

	lead := (target - length) / 2
	quarter := max(length/4, 1)

	head, err := base.Crop(span(axis, 0, quarter, cross))
	if err != nil {
		return nil, err
	}
	tail, err := base.Crop(span(axis, length-quarter, length, cross))
	if err != nil {
		return nil, err
	}
	head, tail = head.Blur(f.sigma), tail.Blur(f.sigma)

	// 継ぎ目から外側へ向かって敷き詰める。帯の透明部分は白地に合成して余白を不透明に保つ
	for at := lead - quarter; at > -quarter; at -= quarter {
		out = out.Overlay(head, along(axis, at))
	}
	for at := lead + length; at < target; at += quarter {
		out = out.Overlay(tail, along(axis, at))
	}

	return out.Paste(base, along(axis, lead)), nil
}

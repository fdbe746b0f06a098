package imgutil

import (
	"fmt"
	"image"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
)

// Mix は重み w で prev と next を線形補間します。各チャンネルで
// out = prev*(255-w)/255 + next*w/255 を四捨五入した値になり、常に prev と next の間に収まります。
// 3 つのサイズはすべて一致している必要があります。
func Mix(prev, next *Buffer, w *Ramp) (*Buffer, error) {
	if prev.Bounds() != next.Bounds() {
		return nil, fmt.Errorf("%w: mix %v vs %v", domain.ErrDimensionMismatch, prev.Bounds(), next.Bounds())
	}
	if w.Width() != prev.Width() || w.Height() != prev.Height() {
		return nil, fmt.Errorf("%w: ramp %dx%d vs %v", domain.ErrDimensionMismatch, w.Width(), w.Height(), prev.Bounds())
	}

	format := FormatRGB
	if prev.format == FormatRGBA || next.format == FormatRGBA {
		format = FormatRGBA
	}

	width, height := prev.Size()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			wt := uint32(w.Weight(x, y))
			i := y*out.Stride + x*4
			for c := 0; c < 4; c++ {
				o := uint32(prev.img.Pix[y*prev.img.Stride+x*4+c])
				n := uint32(next.img.Pix[y*next.img.Stride+x*4+c])
				out.Pix[i+c] = uint8((o*(255-wt) + n*wt + 127) / 255)
			}
		}
	}
	return wrap(out, format), nil
}

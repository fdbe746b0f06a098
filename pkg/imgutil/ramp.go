package imgutil

import (
	"fmt"
	"image"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
)

// Ramp は一方向に 0 から 255 へ線形に変化する単一チャンネルの重みマップです。
// 直交方向には一定です。
type Ramp struct {
	horizontal bool
	gray       *image.Gray
}

// NewAlphaRamp は width x height の線形ランプを作成します。
// horizontal が true なら左端 0 から右端 255、false なら上端 0 から下端 255 です。
// 長さ 1 のランプは中間値 128 になります。
func NewAlphaRamp(width, height int, horizontal bool) (*Ramp, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: ramp %dx%d", domain.ErrInvalidDimension, width, height)
	}

	n := height
	if horizontal {
		n = width
	}
	line := make([]uint8, n)
	if n == 1 {
		line[0] = 128
	} else {
		for i := range line {
			line[i] = uint8((i*255 + (n-1)/2) / (n - 1))
		}
	}

	gray := image.NewGray(image.Rect(0, 0, width, height))
	row := make([]uint8, width)
	if horizontal {
		copy(row, line)
	}
	for y := 0; y < height; y++ {
		if !horizontal {
			for x := range row {
				row[x] = line[y]
			}
		}
		copy(gray.Pix[y*gray.Stride:y*gray.Stride+width], row)
	}
	return &Ramp{horizontal: horizontal, gray: gray}, nil
}

func (r *Ramp) Width() int { return r.gray.Rect.Dx() }

func (r *Ramp) Height() int { return r.gray.Rect.Dy() }

// Horizontal は横方向のランプかどうかを返します。
func (r *Ramp) Horizontal() bool { return r.horizontal }

// Weight は (x, y) の重みを返します。
func (r *Ramp) Weight(x, y int) uint8 {
	return r.gray.GrayAt(x, y).Y
}

// Flip はランプの向きを反転した新しいランプを返します。
func (r *Ramp) Flip() *Ramp {
	w, h := r.Width(), r.Height()
	out := image.NewGray(r.gray.Rect)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := x, y
			if r.horizontal {
				sx = w - 1 - x
			} else {
				sy = h - 1 - y
			}
			out.Pix[y*out.Stride+x] = r.gray.Pix[sy*r.gray.Stride+sx]
		}
	}
	return &Ramp{horizontal: r.horizontal, gray: out}
}

// Invert は 255-w の新しいランプを返します。
func (r *Ramp) Invert() *Ramp {
	out := image.NewGray(r.gray.Rect)
	for i, v := range r.gray.Pix {
		out.Pix[i] = 255 - v
	}
	return &Ramp{horizontal: r.horizontal, gray: out}
}

// Gray はランプを 8bit グレースケール画像として返します。
func (r *Ramp) Gray() *image.Gray {
	out := image.NewGray(r.gray.Rect)
	copy(out.Pix, r.gray.Pix)
	return out
}

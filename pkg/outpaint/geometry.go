package outpaint

import (
	"image"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
)

// span は軸方向 [from, to) と交差軸全体を覆う矩形を返します。
func span(axis domain.Axis, from, to, cross int) image.Rectangle {
	if axis == domain.AxisVertical {
		return image.Rect(0, from, cross, to)
	}
	return image.Rect(from, 0, to, cross)
}

// along は軸方向に v だけずらした位置を返します。
func along(axis domain.Axis, v int) image.Point {
	if axis == domain.AxisVertical {
		return image.Pt(0, v)
	}
	return image.Pt(v, 0)
}

// extent は軸方向の長さ length と交差軸の長さ cross から (幅, 高さ) を返します。
func extent(axis domain.Axis, length, cross int) (int, int) {
	if axis == domain.AxisVertical {
		return cross, length
	}
	return length, cross
}

package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
)

// Format はバッファのピクセル形式です。
type Format int

const (
	// FormatRGBA は透過付きの 4 チャンネル形式です。
	FormatRGBA Format = iota
	// FormatRGB は不透明の 3 チャンネル形式です。alpha は常に 255 として扱います。
	FormatRGB
)

// Channels はフォーマットのチャンネル数を返します。
func (f Format) Channels() int {
	if f == FormatRGB {
		return 3
	}
	return 4
}

func (f Format) String() string {
	if f == FormatRGB {
		return "RGB"
	}
	return "RGBA"
}

// Buffer は値セマンティクスのピクセルバッファです。
// すべての変換は新しい Buffer を返し、レシーバーを変更しません。
type Buffer struct {
	format Format
	img    *image.NRGBA
}

// New は指定サイズの空のバッファを作成します。
// RGBA は完全透明、RGB は黒で初期化されます。
func New(width, height int, format Format) (*Buffer, error) {
	return NewFilled(width, height, format, color.NRGBA{})
}

// NewFilled は指定色で塗りつぶしたバッファを作成します。
func NewFilled(width, height int, format Format, c color.NRGBA) (*Buffer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", domain.ErrInvalidDimension, width, height)
	}
	return wrap(imaging.New(width, height, c), format), nil
}

// FromImage は任意の image.Image をコピーしてバッファにします。
func FromImage(img image.Image, format Format) (*Buffer, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", domain.ErrInvalidDimension)
	}
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, fmt.Errorf("%w: %dx%d", domain.ErrInvalidDimension, b.Dx(), b.Dy())
	}
	return wrap(imaging.Clone(img), format), nil
}

// Decode は PNG/JPEG/GIF のバイト列をデコードします。
// 不透明な画像は RGB、それ以外は RGBA になります。
func Decode(data []byte) (*Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", domain.ErrCorruptImage)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptImage, err)
	}

	format := FormatRGBA
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		format = FormatRGB
	}
	return FromImage(img, format)
}

// wrap は所有権を移して Buffer を作ります。RGB の場合は alpha を 255 に揃えます。
func wrap(img *image.NRGBA, format Format) *Buffer {
	if format == FormatRGB {
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 0xff
		}
	}
	return &Buffer{format: format, img: img}
}

// EncodePNG はバッファを PNG にエンコードします。
func (b *Buffer) EncodePNG() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, b.img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("PNGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *Buffer) Width() int { return b.img.Rect.Dx() }

func (b *Buffer) Height() int { return b.img.Rect.Dy() }

func (b *Buffer) Format() Format { return b.format }

func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width(), b.Height()) }

// Size は (幅, 高さ) を返します。
func (b *Buffer) Size() (int, int) { return b.Width(), b.Height() }

// AxisLen は軸方向の長さを返します。
func (b *Buffer) AxisLen(axis domain.Axis) int {
	if axis == domain.AxisVertical {
		return b.Height()
	}
	return b.Width()
}

// CrossLen は軸と直交する方向の長さを返します。
func (b *Buffer) CrossLen(axis domain.Axis) int {
	if axis == domain.AxisVertical {
		return b.Width()
	}
	return b.Height()
}

// At は (x, y) のピクセルを返します。範囲外は透明です。
func (b *Buffer) At(x, y int) color.NRGBA {
	if !image.Pt(x, y).In(b.Bounds()) {
		return color.NRGBA{}
	}
	return b.img.NRGBAAt(x, y)
}

// Image は内部画像のコピーを返します。
func (b *Buffer) Image() *image.NRGBA {
	return imaging.Clone(b.img)
}

// Bytes はチャンネルを詰めた生データを返します。長さは width*height*channels です。
func (b *Buffer) Bytes() []byte {
	if b.format == FormatRGBA {
		out := make([]byte, len(b.img.Pix))
		copy(out, b.img.Pix)
		return out
	}
	out := make([]byte, 0, b.Width()*b.Height()*3)
	for i := 0; i < len(b.img.Pix); i += 4 {
		out = append(out, b.img.Pix[i], b.img.Pix[i+1], b.img.Pix[i+2])
	}
	return out
}

// Clone はバッファの複製を返します。
func (b *Buffer) Clone() *Buffer {
	return &Buffer{format: b.format, img: imaging.Clone(b.img)}
}

// Crop は矩形領域を切り出します。矩形はバッファ内に完全に収まっている必要があります。
func (b *Buffer) Crop(r image.Rectangle) (*Buffer, error) {
	if r.Empty() || !r.In(b.Bounds()) {
		return nil, fmt.Errorf("%w: crop %v outside %v", domain.ErrInvalidDimension, r, b.Bounds())
	}
	return &Buffer{format: b.format, img: imaging.Crop(b.img, r)}, nil
}

// Paste は src を pt の位置に置き換えで貼り付けた新しいバッファを返します。
// はみ出した部分は切り捨てられます。
func (b *Buffer) Paste(src *Buffer, pt image.Point) *Buffer {
	return wrap(imaging.Paste(b.img, src.img, pt), b.format)
}

// Overlay は src を pt の位置にアルファ合成した新しいバッファを返します。
// 透明な部分は下地が残ります。はみ出した部分は切り捨てられます。
func (b *Buffer) Overlay(src *Buffer, pt image.Point) *Buffer {
	return wrap(imaging.Overlay(b.img, src.img, pt, 1.0), b.format)
}

// Resize は Lanczos フィルタでリサイズします。
func (b *Buffer) Resize(width, height int) (*Buffer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: resize to %dx%d", domain.ErrInvalidDimension, width, height)
	}
	if width == b.Width() && height == b.Height() {
		return b.Clone(), nil
	}
	return wrap(imaging.Resize(b.img, width, height, imaging.Lanczos), b.format), nil
}

// Convert はフォーマットを変換します。RGB への変換では alpha が失われます。
func (b *Buffer) Convert(format Format) *Buffer {
	return wrap(imaging.Clone(b.img), format)
}

func (b *Buffer) FlipH() *Buffer { return wrap(imaging.FlipH(b.img), b.format) }
func (b *Buffer) FlipV() *Buffer { return wrap(imaging.FlipV(b.img), b.format) }

// Blur はガウスぼかしを掛けます。
func (b *Buffer) Blur(sigma float64) *Buffer {
	return wrap(imaging.Blur(b.img, sigma), b.format)
}

// Transparent は矩形内のすべてのピクセルが完全透明かどうかを返します。
func (b *Buffer) Transparent(r image.Rectangle) bool {
	r = r.Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if b.img.NRGBAAt(x, y).A != 0 {
				return false
			}
		}
	}
	return true
}

// Equal はサイズ・フォーマット・ピクセルがすべて一致するかを返します。
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil || b.format != other.format || b.Bounds() != other.Bounds() {
		return false
	}
	return bytes.Equal(b.img.Pix, other.img.Pix)
}

package domain

import "fmt"

const (
	// TileSize は合成プロバイダーが扱う正方形タイルの一辺です。
	TileSize = 1024
	// DefaultStepPx は一方向あたりに追加する新しいピクセル数です。
	DefaultStepPx = 384
	// DefaultOverlapPx は継ぎ目でブレンドするピクセル数です。
	DefaultOverlapPx = 192
	// TileSizeLabel はプロバイダーに渡すサイズ表記です。
	TileSizeLabel = "1024x1024"
)

// ExtensionParams は方向拡張の寸法パラメータです。
type ExtensionParams struct {
	StepPx    int
	OverlapPx int
}

// DefaultExtensionParams は既定のパラメータ (384/192) を返します。
func DefaultExtensionParams() ExtensionParams {
	return ExtensionParams{StepPx: DefaultStepPx, OverlapPx: DefaultOverlapPx}
}

// Validate はパラメータがタイル内に収まるかを検証します。
func (p ExtensionParams) Validate() error {
	if p.StepPx < 1 || p.StepPx >= TileSize {
		return fmt.Errorf("%w: step %d must be in [1, %d)", ErrInvalidDimension, p.StepPx, TileSize)
	}
	if p.OverlapPx < 0 || p.OverlapPx > p.StepPx {
		return fmt.Errorf("%w: overlap %d must be in [0, step %d]", ErrInvalidDimension, p.OverlapPx, p.StepPx)
	}
	if p.StepPx+p.OverlapPx > TileSize {
		return fmt.Errorf("%w: step+overlap %d exceeds tile %d", ErrInvalidDimension, p.StepPx+p.OverlapPx, TileSize)
	}
	return nil
}

// Orientation は出力するアスペクトの向きです。
type Orientation string

const (
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
)

// Directions は向きに対応する 2 方向を (後方, 前方) の順で返します。
func (o Orientation) Directions() (trailing, leading Direction) {
	if o == OrientationPortrait {
		return DirectionDown, DirectionUp
	}
	return DirectionRight, DirectionLeft
}

// TargetSize はパラメータから最終的な出力サイズを計算します。
func (o Orientation) TargetSize(p ExtensionParams) (width, height int) {
	long := TileSize + 2*p.StepPx
	if o == OrientationPortrait {
		return TileSize, long
	}
	return long, TileSize
}

// AspectRatio は出力のアスペクト比表記を返します。
func (o Orientation) AspectRatio() string {
	if o == OrientationPortrait {
		return "9:16"
	}
	return "16:9"
}

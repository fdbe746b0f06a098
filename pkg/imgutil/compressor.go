package imgutil

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality は JPEG 出力時の既定品質です。
const DefaultJPEGQuality = 90

// CompressToJPEG は画像データ（PNG, GIF, JPEG等）をJPEG形式に圧縮します。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	b, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return b.EncodeJPEG(quality)
}

// EncodeJPEG はバッファを JPEG にエンコードします。透過情報は失われます。
func (b *Buffer) EncodeJPEG(quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, b.Convert(FormatRGB).img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("JPEGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeForPath は出力パスの拡張子に合わせてエンコードし、Content-Type と一緒に返します。
// .jpg / .jpeg 以外はすべて PNG です。
func (b *Buffer) EncodeForPath(path string) ([]byte, string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		data, err := b.EncodeJPEG(DefaultJPEGQuality)
		return data, "image/jpeg", err
	default:
		data, err := b.EncodePNG()
		return data, "image/png", err
	}
}

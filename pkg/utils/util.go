package utils

import (
	"path"
	"strings"
)

// DereferenceSeed は、int64のポインタを安全にデリファレンスします。
// ポインタがnilの場合は0を返します。
func DereferenceSeed(seed *int64) int64 {
	if seed == nil {
		return 0
	}
	return *seed
}

// AspectLabel はアスペクト比をファイル名に使える形にします ("16:9" -> "16x9")。
func AspectLabel(aspectRatio string) string {
	return strings.ReplaceAll(aspectRatio, ":", "x")
}

// Stem は URI の末尾からディレクトリと拡張子を除いた名前を返します。
func Stem(uri string) string {
	base := path.Base(strings.TrimRight(uri, "/"))
	if base == "." || base == "/" {
		return "asset"
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// AssetPath は出力先ディレクトリにアセットのファイル名を連結します。
// gs:// のスキームを壊さないよう path.Join は使いません。
func AssetPath(dir, stem, aspectRatio, ext string) string {
	name := stem + "_" + AspectLabel(aspectRatio) + "." + strings.TrimPrefix(ext, ".")
	dir = strings.TrimRight(dir, "/")
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

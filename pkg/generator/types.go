package generator

import (
	"context"
	"errors"
	"time"
)

const (
	// MaxPromptLength は合成プロバイダーに渡すプロンプトの最大文字数です。
	MaxPromptLength = 1000
	promptEllipsis  = "..."

	// DefaultCacheTTL は取得したソース画像をキャッシュする期間です。
	DefaultCacheTTL = 1 * time.Hour
	cacheKeySource  = "source:"

	// MaxImageBytes はソース画像として読み込む最大バイト数です。
	MaxImageBytes = 20 << 20
)

// ErrImageTooLarge はソース画像が MaxImageBytes を超えた場合に返されます。
var ErrImageTooLarge = errors.New("source image too large")

// ImageOutput は Core の内部解析結果
type ImageOutput struct {
	Data     []byte
	MimeType string
	UsedSeed int64
}

// 依存関係用
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

type ImageCacher interface {
	Get(key string) (any, bool)
	Set(key string, value any, d time.Duration)
}

package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// ImageLoader はローカル・GCS・HTTP(S) からソース画像を取得します。
type ImageLoader struct {
	reader     remoteio.InputReader
	httpClient HTTPClient
	cache      ImageCacher
	expiration time.Duration
	maxBytes   int64
}

// NewImageLoader は依存関係を注入して ImageLoader を初期化します。
func NewImageLoader(reader remoteio.InputReader, httpClient HTTPClient, cache ImageCacher, cacheTTL time.Duration) (*ImageLoader, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader is required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	// cache は nil を許容（キャッシュなし動作）

	return &ImageLoader{
		reader:     reader,
		httpClient: httpClient,
		cache:      cache,
		expiration: cacheTTL,
		maxBytes:   MaxImageBytes,
	}, nil
}

// LoadImage は URI から画像データを取得します。
// http(s) は SSRF チェックの上で HTTP クライアント、それ以外 (ローカルパス, gs://) は reader を使います。
func (l *ImageLoader) LoadImage(ctx context.Context, uri string) ([]byte, error) {
	key := cacheKeySource + uri
	if l.cache != nil {
		if val, ok := l.cache.Get(key); ok {
			if data, ok := val.([]byte); ok {
				return data, nil
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "uri", uri, "type", fmt.Sprintf("%T", val))
		}
	}

	data, err := l.fetch(ctx, uri)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		l.cache.Set(key, data, l.expiration)
	}
	return data, nil
}

// LoadBuffer は URI から画像を取得してデコードします。
func (l *ImageLoader) LoadBuffer(ctx context.Context, uri string) (*imgutil.Buffer, error) {
	data, err := l.LoadImage(ctx, uri)
	if err != nil {
		return nil, err
	}
	return imgutil.Decode(data)
}

func (l *ImageLoader) fetch(ctx context.Context, uri string) ([]byte, error) {
	if isRemoteURL(uri) {
		if safe, err := IsSafeURL(uri); err != nil || !safe {
			return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
		}
		data, err := l.httpClient.FetchBytes(ctx, uri)
		if err != nil {
			return nil, err
		}
		return l.checkSize(uri, data)
	}

	rc, err := l.reader.Open(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("画像の読み込みに失敗しました (%s): %w", uri, err)
	}
	defer rc.Close()

	// 上限 +1 バイトまで読めば超過を判定できる
	data, err := io.ReadAll(io.LimitReader(rc, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("画像の読み込みに失敗しました (%s): %w", uri, err)
	}
	return l.checkSize(uri, data)
}

func (l *ImageLoader) checkSize(uri string, data []byte) ([]byte, error) {
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrImageTooLarge, uri, l.maxBytes)
	}
	return data, nil
}
